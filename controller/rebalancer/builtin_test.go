package rebalancer

import (
	"testing"

	"github.com/funkygao/helix-controller/controller/cache"
	"github.com/funkygao/helix-controller/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildClusterData(nodes ...string) *cache.ClusterDataCache {
	c := cache.NewClusterDataCache()
	for _, n := range nodes {
		c.SetLiveInstance(model.NewLiveInstance(n, "s-"+n))
	}
	return c
}

func masterSlaveIdealState(resource string, partitions, replicas int) *model.IdealState {
	is := model.NewIdealState(resource)
	is.SetNumPartitions(partitions)
	is.SetReplicas(replicas)
	is.SetStateModelDefRef(model.StateModelMasterSlave)
	is.SetRebalanceMode("USER_DEFINED")
	return is
}

func TestRoundRobinRebalancer(t *testing.T) {
	i, err := NewResolver(NewRegistry()).Resolve("db", "RoundRobin")
	require.NoError(t, err)
	require.NoError(t, i.Init(nil))

	current := masterSlaveIdealState("db", 2, 2)
	current.SetPartitionState("db_0", "gone", "MASTER")
	is, err := i.ComputeNewIdealState(current, cache.NewCurrentStateOutput(), buildClusterData("nodeB", "nodeA"))
	require.NoError(t, err)

	assert.Equal(t, "db", is.Resource())
	assert.Equal(t, []string{"db_0", "db_1"}, is.PartitionSet())
	assert.Equal(t, []string{"nodeA", "nodeB"}, is.PreferenceList("db_0"))
	assert.Equal(t, map[string]string{"nodeA": "MASTER", "nodeB": "SLAVE"}, is.InstanceStateMap("db_0"))
	assert.Equal(t, map[string]string{"nodeB": "MASTER", "nodeA": "SLAVE"}, is.InstanceStateMap("db_1"))
	assert.Equal(t, "USER_DEFINED", is.RebalanceMode())

	// input untouched
	assert.Equal(t, "MASTER", current.InstanceStateMap("db_0")["gone"])
}

func TestStickyRebalancerKeepsMaster(t *testing.T) {
	i, err := NewResolver(NewRegistry()).Resolve("db", "Sticky")
	require.NoError(t, err)

	cso := cache.NewCurrentStateOutput()
	cso.SetCurrentState("db", "db_0", "nodeB", "MASTER")
	cso.SetCurrentState("db", "db_0", "nodeC", "SLAVE")

	is, err := i.ComputeNewIdealState(masterSlaveIdealState("db", 1, 2), cso, buildClusterData("nodeA", "nodeB", "nodeC"))
	require.NoError(t, err)
	assert.Equal(t, []string{"nodeB", "nodeC"}, is.PreferenceList("db_0"))
	assert.Equal(t, map[string]string{"nodeB": "MASTER", "nodeC": "SLAVE"}, is.InstanceStateMap("db_0"))
}

func TestStrategyRebalancerUnknownStateModel(t *testing.T) {
	i, err := NewResolver(NewRegistry()).Resolve("db", "RoundRobin")
	require.NoError(t, err)

	current := masterSlaveIdealState("db", 1, 1)
	current.SetStateModelDefRef("NoSuchModel")
	_, err = i.ComputeNewIdealState(current, cache.NewCurrentStateOutput(), buildClusterData("nodeA"))
	assert.Error(t, err)
	assert.Equal(t, "compute", Reason(err))
}

func TestStrategyRebalancerUsesPartitionSetWithoutCount(t *testing.T) {
	i, _ := NewResolver(NewRegistry()).Resolve("db", "RoundRobin")

	current := model.NewIdealState("db")
	current.SetStateModelDefRef(model.StateModelOnlineOffline)
	current.SetPreferenceList("custom_partition", []string{"nodeZ"})

	is, err := i.ComputeNewIdealState(current, cache.NewCurrentStateOutput(), buildClusterData("nodeA"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"nodeA": "ONLINE"}, is.InstanceStateMap("custom_partition"))
}
