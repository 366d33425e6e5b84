package stages

import (
	"fmt"
	"sync"

	"github.com/funkygao/helix-controller"
	"github.com/funkygao/helix-controller/controller/cache"
	"github.com/funkygao/helix-controller/controller/pipeline"
	"github.com/funkygao/helix-controller/controller/rebalancer"
	"github.com/funkygao/helix-controller/model"
)

// evenSplit places partition i on the i-th live instance, wrapping around.
type evenSplit struct{}

func (evenSplit) Init(helix.HelixManager) error { return nil }

func (evenSplit) ComputeNewIdealState(resourceName string, is *model.IdealState,
	_ *cache.CurrentStateOutput, c *cache.ClusterDataCache) (*model.IdealState, error) {
	nodes := c.LiveInstanceNames()
	for i := 0; i < is.NumPartitions(); i++ {
		p := is.PartitionName(i)
		is.SetPreferenceList(p, nil)
		delete(is.MapFields, p)
		is.SetPartitionState(p, nodes[i%len(nodes)], "ONLINE")
	}
	return is, nil
}

// scripted misbehaves the way it is told to.
type scripted struct {
	initErr   error
	err       error
	panics    bool
	resource  string
	noResult  bool
	block     <-chan struct{}
	overflow  bool
	mutations bool

	// fresh returns a new ideal state of the resource, without identifier
	fresh bool
	// identifier replaces the rebalancer identifier of the result
	identifier string
	// grow raises the partition count and fills it
	grow int
	// uncounted removes the partition count and adds a partition
	uncounted bool
}

func (s *scripted) Init(helix.HelixManager) error {
	return s.initErr
}

func (s *scripted) ComputeNewIdealState(resourceName string, is *model.IdealState,
	_ *cache.CurrentStateOutput, _ *cache.ClusterDataCache) (*model.IdealState, error) {
	if s.mutations {
		is.SetPartitionState(is.PartitionName(0), "intruder", "MASTER")
	}
	if s.block != nil {
		<-s.block
	}
	if s.panics {
		panic("rebalancer bug")
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.noResult {
		return nil, nil
	}
	if s.resource != "" {
		return model.NewIdealState(s.resource), nil
	}
	if s.fresh {
		is = model.NewIdealState(resourceName)
		is.SetPartitionState(is.PartitionName(0), "nodeA", "ONLINE")
		return is, nil
	}
	if s.identifier != "" {
		is.SetRebalancerClassName(s.identifier)
	}
	if s.grow > 0 {
		is.SetNumPartitions(s.grow)
		for i := 0; i < s.grow; i++ {
			is.SetPartitionState(is.PartitionName(i), "nodeA", "ONLINE")
		}
	}
	if s.uncounted {
		n := is.NumPartitions()
		delete(is.SimpleFields, model.IdealStateNumPartitions)
		is.SetPartitionState(is.PartitionName(n), "nodeA", "ONLINE")
	}
	if s.overflow {
		is.SetPartitionState(is.PartitionName(is.NumPartitions()+5), "nodeA", "ONLINE")
	}
	return is, nil
}

func factoryOf(r rebalancer.Rebalancer) rebalancer.Factory {
	return func() (rebalancer.Rebalancer, error) { return r, nil }
}

// countingFactory counts constructions.
type countingFactory struct {
	sync.Mutex
	n    int
	make func(n int) rebalancer.Rebalancer
}

func (f *countingFactory) factory() (rebalancer.Rebalancer, error) {
	f.Lock()
	defer f.Unlock()
	f.n++
	return f.make(f.n), nil
}

func (f *countingFactory) constructed() int {
	f.Lock()
	defer f.Unlock()
	return f.n
}

func newIdealState(resource string, partitions int, rebalancerID ...string) *model.IdealState {
	is := model.NewIdealState(resource)
	is.SetNumPartitions(partitions)
	is.SetReplicas(1)
	is.SetStateModelDefRef(model.StateModelOnlineOffline)
	for i := 0; i < partitions; i++ {
		is.SetPartitionState(is.PartitionName(i), "nodeA", "OFFLINE")
	}
	if len(rebalancerID) > 0 {
		is.SetRebalancerClassName(rebalancerID[0])
	}
	return is
}

func newClusterData(nodes []string, idealStates ...*model.IdealState) *cache.ClusterDataCache {
	c := cache.NewClusterDataCache()
	for i, node := range nodes {
		c.SetLiveInstance(model.NewLiveInstance(node, fmt.Sprintf("session%d", i)))
	}
	for _, is := range idealStates {
		c.SetIdealState(is)
	}
	return c
}

func newRebalanceEvent(c *cache.ClusterDataCache, cso *cache.CurrentStateOutput) *pipeline.Event {
	evt := pipeline.NewEvent("test", nil)
	evt.Set(AttrClusterDataCache, c)
	evt.Set(AttrCurrentStateOutput, cso)
	return evt
}

// snapshot deep copies the ideal states of a cache.
func snapshot(c *cache.ClusterDataCache) map[string]*model.IdealState {
	m := make(map[string]*model.IdealState)
	for r, is := range c.IdealStates() {
		m[r] = is.Clone()
	}
	return m
}
