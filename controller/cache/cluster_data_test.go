package cache

import (
	"errors"
	"testing"

	"github.com/funkygao/helix-controller/model"
	"github.com/funkygao/helix-controller/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingAccessor struct {
	*memory.Accessor
}

func (failingAccessor) IdealStates() (map[string]*model.IdealState, error) {
	return nil, errors.New("zk down")
}

func TestClusterDataCacheRefresh(t *testing.T) {
	a := memory.NewAccessor()
	a.AddLiveInstance(model.NewLiveInstance("nodeA", "s1"))
	a.AddLiveInstance(model.NewLiveInstance("nodeB", "s2"))
	require.NoError(t, a.SetIdealState("db", model.NewIdealState("db")))

	stale := model.NewCurrentState("db", "s0")
	stale.SetState("db_0", "MASTER")
	a.SetCurrentState("nodeA", stale)
	cs := model.NewCurrentState("db", "s1")
	cs.SetState("db_0", "SLAVE")
	a.SetCurrentState("nodeA", cs)

	c := NewClusterDataCache()
	require.NoError(t, c.Refresh(a))

	assert.Equal(t, []string{"nodeA", "nodeB"}, c.LiveInstanceNames())
	assert.Len(t, c.LiveInstances(), 2)
	assert.NotNil(t, c.IdealState("db"))
	assert.Nil(t, c.IdealState("absent"))
	assert.Equal(t, "SLAVE", c.CurrentStates("nodeA")["db"].State("db_0"))
	assert.Empty(t, c.CurrentStates("nodeB"))
}

func TestClusterDataCacheRefreshError(t *testing.T) {
	c := NewClusterDataCache()
	c.SetIdealState(model.NewIdealState("kept"))

	err := c.Refresh(failingAccessor{memory.NewAccessor()})
	assert.Error(t, err)
	assert.NotNil(t, c.IdealState("kept"))
}

func TestClusterDataCacheUpdateIdealStates(t *testing.T) {
	c := NewClusterDataCache()
	r1, r2 := model.NewIdealState("r1"), model.NewIdealState("r2")
	c.SetIdealState(r1)
	c.SetIdealState(r2)

	snapshot := c.IdealStates()
	delete(snapshot, "r1")
	assert.Len(t, c.IdealStates(), 2)

	updated := model.NewIdealState("r2")
	updated.SetPartitionState("r2_0", "nodeA", "ONLINE")
	c.UpdateIdealStates(map[string]*model.IdealState{"r2": updated})
	c.UpdateIdealStates(nil)

	assert.True(t, c.IdealState("r1") == r1)
	assert.True(t, c.IdealState("r2") == updated)
}

func TestClusterDataCacheStateModelDef(t *testing.T) {
	c := NewClusterDataCache()
	assert.NotNil(t, c.StateModelDef(model.StateModelMasterSlave))
	assert.Nil(t, c.StateModelDef("Unknown"))
}
