package model

import (
	"strconv"
	"sync"
)

const (
	StateModelLeaderStandby   = "LeaderStandby"
	StateModelMasterSlave     = "MasterSlave"
	StateModelOnlineOffline   = "OnlineOffline"
	StateModelDefaultSchemata = "STORAGE_DEFAULT_SM_SCHEMATA"
)

const (
	stateModelInitialState = "INITIAL_STATE"
	stateModelPriorityList = "STATE_PRIORITY_LIST"
)

type StateModelDef struct {
	*Record
}

func NewStateModelDefFromRecord(r *Record) *StateModelDef {
	return &StateModelDef{Record: r}
}

func NewStateModelDef(stateModel string) *StateModelDef {
	return &StateModelDef{Record: NewRecord(stateModel)}
}

// AddState appends a state to the priority list, highest priority first.
func (smd *StateModelDef) AddState(state string) *StateModelDef {
	smd.AddListField(stateModelPriorityList, state)
	return smd
}

func (smd *StateModelDef) AddTransition(fromState, toState string) *StateModelDef {
	smd.SetMapField(fromState+".next", toState, toState)
	return smd
}

func (smd *StateModelDef) SetInitialState(state string) *StateModelDef {
	smd.SetStringField(stateModelInitialState, state)
	return smd
}

func (smd *StateModelDef) InitialState() string {
	return smd.GetStringField(stateModelInitialState, "")
}

func (smd *StateModelDef) StatesPriorityList() []string {
	return smd.GetListField(stateModelPriorityList)
}

func (smd *StateModelDef) SetStaticUpperBound(state string, bound int) *StateModelDef {
	smd.SetMapField(state+".meta", "count", strconv.Itoa(bound))
	return smd
}

func (smd *StateModelDef) SetDynamicUpperBound(state string, bound string) *StateModelDef {
	smd.SetMapField(state+".meta", "count", bound)
	return smd
}

// UpperBound returns the replica count bound of a state: a number, R or N.
func (smd *StateModelDef) UpperBound(state string) string {
	return smd.GetMapField(state+".meta", "count")
}

// StateAssignment assigns states to an ordered instance list, walking the
// states by priority and honoring each state's upper bound. liveInstances is
// the bound of an N state.
func (smd *StateModelDef) StateAssignment(instances []string, liveInstances int) map[string]string {
	assignment := make(map[string]string, len(instances))
	initial := smd.InitialState()
	i := 0
	for _, state := range smd.StatesPriorityList() {
		if i >= len(instances) {
			break
		}
		if state == initial || state == HelixDefinedStateDropped || state == HelixDefinedStateError {
			continue
		}

		var n int
		switch bound := smd.UpperBound(state); bound {
		case DynamicBoundR:
			n = len(instances) - i
		case DynamicBoundN:
			n = liveInstances - i
		default:
			var err error
			if n, err = strconv.Atoi(bound); err != nil {
				continue
			}
		}

		for ; n > 0 && i < len(instances); n-- {
			assignment[instances[i]] = state
			i++
		}
	}

	return assignment
}

var (
	builtinStateModelsOnce sync.Once
	builtinStateModels     map[string]*StateModelDef
)

// BuiltinStateModelDef returns a well known state model definition by name.
func BuiltinStateModelDef(name string) (*StateModelDef, bool) {
	builtinStateModelsOnce.Do(func() {
		builtinStateModels = make(map[string]*StateModelDef, len(builtinStateModelDefinitions))
		for n, def := range builtinStateModelDefinitions {
			r, err := NewRecordFromBytes([]byte(def))
			if err != nil {
				panic(err)
			}
			builtinStateModels[n] = NewStateModelDefFromRecord(r)
		}
	})

	smd, present := builtinStateModels[name]
	return smd, present
}

var builtinStateModelDefinitions = map[string]string{
	StateModelLeaderStandby: `
{
  "id" : "LeaderStandby",
  "mapFields" : {
    "DROPPED.meta" : {
      "count" : "-1"
    },
    "LEADER.meta" : {
      "count" : "1"
    },
    "LEADER.next" : {
      "DROPPED" : "STANDBY",
      "STANDBY" : "STANDBY",
      "OFFLINE" : "STANDBY"
    },
    "OFFLINE.meta" : {
      "count" : "-1"
    },
    "OFFLINE.next" : {
      "DROPPED" : "DROPPED",
      "STANDBY" : "STANDBY",
      "LEADER" : "STANDBY"
    },
    "STANDBY.meta" : {
      "count" : "R"
    },
    "STANDBY.next" : {
      "DROPPED" : "OFFLINE",
      "OFFLINE" : "OFFLINE",
      "LEADER" : "LEADER"
    }
  },
  "listFields" : {
    "STATE_PRIORITY_LIST" : [ "LEADER", "STANDBY", "OFFLINE", "DROPPED" ]
  },
  "simpleFields" : {
    "INITIAL_STATE" : "OFFLINE"
  }
}
`,

	StateModelMasterSlave: `
{
  "id" : "MasterSlave",
  "mapFields" : {
    "DROPPED.meta" : {
      "count" : "-1"
    },
    "ERROR.meta" : {
      "count" : "-1"
    },
    "MASTER.meta" : {
      "count" : "1"
    },
    "MASTER.next" : {
      "SLAVE" : "SLAVE",
      "DROPPED" : "SLAVE",
      "OFFLINE" : "SLAVE"
    },
    "OFFLINE.meta" : {
      "count" : "-1"
    },
    "OFFLINE.next" : {
      "SLAVE" : "SLAVE",
      "DROPPED" : "DROPPED",
      "MASTER" : "SLAVE"
    },
    "SLAVE.meta" : {
      "count" : "R"
    },
    "SLAVE.next" : {
      "DROPPED" : "OFFLINE",
      "OFFLINE" : "OFFLINE",
      "MASTER" : "MASTER"
    }
  },
  "listFields" : {
    "STATE_PRIORITY_LIST" : [ "MASTER", "SLAVE", "OFFLINE", "DROPPED", "ERROR" ]
  },
  "simpleFields" : {
    "INITIAL_STATE" : "OFFLINE"
  }
}
`,

	StateModelOnlineOffline: `
{
  "id" : "OnlineOffline",
  "mapFields" : {
    "DROPPED.meta" : {
      "count" : "-1"
    },
    "OFFLINE.meta" : {
      "count" : "-1"
    },
    "OFFLINE.next" : {
      "DROPPED" : "DROPPED",
      "ONLINE" : "ONLINE"
    },
    "ONLINE.meta" : {
      "count" : "R"
    },
    "ONLINE.next" : {
      "DROPPED" : "OFFLINE",
      "OFFLINE" : "OFFLINE"
    }
  },
  "listFields" : {
    "STATE_PRIORITY_LIST" : [ "ONLINE", "OFFLINE", "DROPPED" ]
  },
  "simpleFields" : {
    "INITIAL_STATE" : "OFFLINE"
  }
}
`,

	StateModelDefaultSchemata: `
{
  "id" : "STORAGE_DEFAULT_SM_SCHEMATA",
  "mapFields" : {
    "DROPPED.meta" : {
      "count" : "-1"
    },
    "ERROR.meta" : {
      "count" : "-1"
    },
    "MASTER.meta" : {
      "count" : "N"
    },
    "MASTER.next" : {
      "DROPPED" : "OFFLINE",
      "OFFLINE" : "OFFLINE"
    },
    "OFFLINE.meta" : {
      "count" : "-1"
    },
    "OFFLINE.next" : {
      "DROPPED" : "DROPPED",
      "MASTER" : "MASTER"
    }
  },
  "listFields" : {
    "STATE_PRIORITY_LIST" : [ "MASTER", "OFFLINE", "DROPPED", "ERROR" ]
  },
  "simpleFields" : {
    "INITIAL_STATE" : "OFFLINE"
  }
}
`,
}
