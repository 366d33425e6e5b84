package pipeline

import (
	"github.com/funkygao/helix-controller"
)

// Event is the cluster event a pipeline handles. Its attributes carry the data
// stages hand to each other within one pass.
type Event struct {
	*helix.Context

	Name string
}

// NewEvent creates an event with an empty attribute set. manager might be nil.
func NewEvent(name string, manager helix.HelixManager) *Event {
	return &Event{
		Context: helix.NewContext(manager),
		Name:    name,
	}
}
