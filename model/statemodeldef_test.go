package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateModelDef(t *testing.T) {
	smd := NewStateModelDef("foobar")
	smd.SetInitialState("OFF")
	assert.Equal(t, "OFF", smd.InitialState())

	smd.AddState("ON").AddState("OFF").SetStaticUpperBound("ON", 2).AddTransition("OFF", "ON")
	assert.Equal(t, []string{"ON", "OFF"}, smd.StatesPriorityList())
	assert.Equal(t, "2", smd.UpperBound("ON"))
	assert.Equal(t, map[string]string{"a": "ON", "b": "ON"}, smd.StateAssignment([]string{"a", "b", "c"}, 3))
}

func TestBuiltinStateModelAssignment(t *testing.T) {
	nodes := []string{"nodeA", "nodeB", "nodeC"}

	ms, ok := BuiltinStateModelDef(StateModelMasterSlave)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"nodeA": "MASTER", "nodeB": "SLAVE", "nodeC": "SLAVE"},
		ms.StateAssignment(nodes, 3))

	oo, ok := BuiltinStateModelDef(StateModelOnlineOffline)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"nodeA": "ONLINE", "nodeB": "ONLINE"},
		oo.StateAssignment(nodes[:2], 3))

	ls, ok := BuiltinStateModelDef(StateModelLeaderStandby)
	require.True(t, ok)
	assert.Equal(t, "LEADER", ls.StateAssignment(nodes, 3)["nodeA"])

	schemata, ok := BuiltinStateModelDef(StateModelDefaultSchemata)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"nodeA": "MASTER", "nodeB": "MASTER"},
		schemata.StateAssignment(nodes, 2))

	_, ok = BuiltinStateModelDef("NoSuchModel")
	assert.False(t, ok)
}
