package model

const (
	currentStateKey           = "CURRENT_STATE"
	currentStateSessionID     = "SESSION_ID"
	currentStateStateModelDef = "STATE_MODEL_DEF"
)

// CurrentState is what a participant reports for one resource within one session.
// The record id is the resource name.
type CurrentState struct {
	*Record
}

func NewCurrentState(resource, sessionID string) *CurrentState {
	c := &CurrentState{Record: NewRecord(resource)}
	c.SetStringField(currentStateSessionID, sessionID)
	return c
}

func NewCurrentStateFromRecord(r *Record) *CurrentState {
	return &CurrentState{Record: r}
}

func (c *CurrentState) Resource() string {
	return c.ID
}

func (c *CurrentState) SessionID() string {
	return c.GetStringField(currentStateSessionID, "")
}

func (c *CurrentState) StateModelDef() string {
	return c.GetStringField(currentStateStateModelDef, "")
}

func (c *CurrentState) SetStateModelDef(def string) {
	c.SetStringField(currentStateStateModelDef, def)
}

// State returns the reported state of a partition, empty if unknown.
func (c *CurrentState) State(partition string) string {
	return c.GetMapField(partition, currentStateKey)
}

func (c *CurrentState) SetState(partition, state string) {
	c.SetMapField(partition, currentStateKey, state)
}

// PartitionStateMap returns the reported state keyed by partition.
func (c *CurrentState) PartitionStateMap() map[string]string {
	m := make(map[string]string, len(c.MapFields))
	for p, fields := range c.MapFields {
		if s, present := fields[currentStateKey]; present {
			m[p] = s
		}
	}
	return m
}
