// Package memory provides an in-memory HelixDataAccessor, used for dry runs and tests.
package memory

import (
	"sync"

	"github.com/funkygao/helix-controller"
	"github.com/funkygao/helix-controller/model"
	"github.com/pkg/errors"
)

var _ helix.HelixDataAccessor = &Accessor{}

// Accessor keeps cluster metadata in process memory. All records handed in
// and out are deep copies.
type Accessor struct {
	sync.RWMutex

	idealStates   map[string]*model.Record
	liveInstances map[string]*model.Record
	currentStates map[string]map[string]*model.Record // instance/session -> resource -> record

	// WriteErr, when set, fails every SetIdealState.
	WriteErr error
}

func NewAccessor() *Accessor {
	return &Accessor{
		idealStates:   make(map[string]*model.Record),
		liveInstances: make(map[string]*model.Record),
		currentStates: make(map[string]map[string]*model.Record),
	}
}

func sessionKey(instance, sessionID string) string {
	return instance + "/" + sessionID
}

func (a *Accessor) IdealStates() (map[string]*model.IdealState, error) {
	a.RLock()
	defer a.RUnlock()

	m := make(map[string]*model.IdealState, len(a.idealStates))
	for r, rec := range a.idealStates {
		m[r] = model.NewIdealStateFromRecord(rec.Clone())
	}
	return m, nil
}

func (a *Accessor) LiveInstances() (map[string]*model.LiveInstance, error) {
	a.RLock()
	defer a.RUnlock()

	m := make(map[string]*model.LiveInstance, len(a.liveInstances))
	for i, rec := range a.liveInstances {
		m[i] = model.NewLiveInstanceFromRecord(rec.Clone())
	}
	return m, nil
}

func (a *Accessor) CurrentStates(instance, sessionID string) (map[string]*model.CurrentState, error) {
	a.RLock()
	defer a.RUnlock()

	states := a.currentStates[sessionKey(instance, sessionID)]
	m := make(map[string]*model.CurrentState, len(states))
	for r, rec := range states {
		m[r] = model.NewCurrentStateFromRecord(rec.Clone())
	}
	return m, nil
}

func (a *Accessor) SetIdealState(resource string, is *model.IdealState) error {
	if resource == "" || is == nil {
		return helix.ErrInvalidArgument
	}
	if a.WriteErr != nil {
		return errors.Wrapf(a.WriteErr, "write ideal state %s", resource)
	}

	a.Lock()
	a.idealStates[resource] = is.Record.Clone()
	a.Unlock()
	return nil
}

// IdealState returns a copy of the stored ideal state, nil if absent.
func (a *Accessor) IdealState(resource string) *model.IdealState {
	a.RLock()
	defer a.RUnlock()

	rec, present := a.idealStates[resource]
	if !present {
		return nil
	}
	return model.NewIdealStateFromRecord(rec.Clone())
}

func (a *Accessor) AddLiveInstance(li *model.LiveInstance) {
	a.Lock()
	a.liveInstances[li.Node()] = li.Record.Clone()
	a.Unlock()
}

func (a *Accessor) RemoveLiveInstance(instance string) {
	a.Lock()
	delete(a.liveInstances, instance)
	a.Unlock()
}

func (a *Accessor) SetCurrentState(instance string, cs *model.CurrentState) {
	a.Lock()
	defer a.Unlock()

	key := sessionKey(instance, cs.SessionID())
	if _, present := a.currentStates[key]; !present {
		a.currentStates[key] = make(map[string]*model.Record)
	}
	a.currentStates[key][cs.Resource()] = cs.Record.Clone()
}
