package rebalancer

import (
	"fmt"

	"github.com/funkygao/helix-controller"
	"github.com/funkygao/helix-controller/controller/cache"
	"github.com/funkygao/helix-controller/controller/rebalancer/strategy"
	"github.com/funkygao/helix-controller/model"
)

// MaxPartitionsPerInstance is the ideal state field capping the replicas a
// built-in rebalancer puts on one instance.
const MaxPartitionsPerInstance = "MAX_PARTITIONS_PER_INSTANCE"

// builtins are resolvable by short name without registration.
var builtins = map[string]Factory{
	strategy.RoundRobin: strategyRebalancerFactory(strategy.RoundRobin),
	strategy.Sticky:     strategyRebalancerFactory(strategy.Sticky),
}

// Builtins returns the short names of the built-in rebalancers.
func Builtins() []string {
	return []string{strategy.RoundRobin, strategy.Sticky}
}

func strategyRebalancerFactory(name string) Factory {
	return func() (Rebalancer, error) {
		return &strategyRebalancer{strategy: name}, nil
	}
}

// strategyRebalancer places replicas with a RebalanceStrategy over the live
// instances and assigns states by the resource state model.
type strategyRebalancer struct {
	strategy string
}

func (r *strategyRebalancer) Init(helix.HelixManager) error {
	return nil
}

func (r *strategyRebalancer) ComputeNewIdealState(resourceName string, currentIdealState *model.IdealState,
	currentStateOutput *cache.CurrentStateOutput, clusterData *cache.ClusterDataCache) (*model.IdealState, error) {
	smd := clusterData.StateModelDef(currentIdealState.StateModelDefRef())
	if smd == nil {
		return nil, fmt.Errorf("resource %s: unknown state model %q", resourceName, currentIdealState.StateModelDefRef())
	}

	var partitions []string
	if n := currentIdealState.NumPartitions(); n > 0 {
		for i := 0; i < n; i++ {
			partitions = append(partitions, currentIdealState.PartitionName(i))
		}
	} else {
		partitions = currentIdealState.PartitionSet()
	}

	replicas := currentIdealState.Replicas()
	if replicas < 1 {
		replicas = 1
	}

	currentMapping := make(map[string]map[string]string, len(partitions))
	for _, p := range partitions {
		currentMapping[p] = currentStateOutput.CurrentStateMap(resourceName, p)
	}

	liveInstances := clusterData.LiveInstanceNames()
	s := strategy.New(r.strategy)
	s.Init(resourceName, partitions, smd.StatesPriorityList(), replicas,
		currentIdealState.GetIntField(MaxPartitionsPerInstance, 0))
	assignment := s.PartitionAssignment(liveInstances, currentMapping)

	is := currentIdealState.Clone()
	is.ListFields = make(map[string][]string, len(partitions))
	is.MapFields = make(map[string]map[string]string, len(partitions))
	for _, p := range partitions {
		pref := assignment.GetListField(p)
		is.SetPreferenceList(p, pref)
		for instance, state := range smd.StateAssignment(pref, len(liveInstances)) {
			is.SetMapField(p, instance, state)
		}
	}

	return is, nil
}
