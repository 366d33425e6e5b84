// Package cache holds the per pipeline pass view of the cluster the controller stages work on.
package cache

import (
	"sort"
	"sync"

	"github.com/funkygao/helix-controller"
	"github.com/funkygao/helix-controller/model"
	"github.com/pkg/errors"
)

// ClusterDataCache is the in-memory snapshot of cluster metadata for one pipeline pass.
// Stages run sequentially and the stage currently running owns its mutation.
// Rebalancers may read it but must not mutate it.
type ClusterDataCache struct {
	sync.RWMutex

	idealStates   map[string]*model.IdealState              // key is resource
	liveInstances map[string]*model.LiveInstance            // key is instance
	currentStates map[string]map[string]*model.CurrentState // instance -> resource -> current state
}

func NewClusterDataCache() *ClusterDataCache {
	return &ClusterDataCache{
		idealStates:   make(map[string]*model.IdealState),
		liveInstances: make(map[string]*model.LiveInstance),
		currentStates: make(map[string]map[string]*model.CurrentState),
	}
}

// Refresh reloads the snapshot from storage. The current states are read for
// the session each live instance currently holds.
func (c *ClusterDataCache) Refresh(accessor helix.HelixDataAccessor) error {
	liveInstances, err := accessor.LiveInstances()
	if err != nil {
		return errors.Wrap(err, "read live instances")
	}

	idealStates, err := accessor.IdealStates()
	if err != nil {
		return errors.Wrap(err, "read ideal states")
	}

	currentStates := make(map[string]map[string]*model.CurrentState, len(liveInstances))
	for instance, li := range liveInstances {
		states, err := accessor.CurrentStates(instance, li.SessionID())
		if err != nil {
			return errors.Wrapf(err, "read current states of %s", instance)
		}
		currentStates[instance] = states
	}

	c.Lock()
	c.liveInstances = liveInstances
	c.idealStates = idealStates
	c.currentStates = currentStates
	c.Unlock()
	return nil
}

// IdealStates returns a copy of the resource to ideal state mapping.
// The ideal states themselves are shared with the snapshot.
func (c *ClusterDataCache) IdealStates() map[string]*model.IdealState {
	c.RLock()
	defer c.RUnlock()

	m := make(map[string]*model.IdealState, len(c.idealStates))
	for r, is := range c.idealStates {
		m[r] = is
	}
	return m
}

// IdealState returns the ideal state of a resource, nil if absent.
func (c *ClusterDataCache) IdealState(resource string) *model.IdealState {
	c.RLock()
	defer c.RUnlock()
	return c.idealStates[resource]
}

func (c *ClusterDataCache) SetIdealState(is *model.IdealState) {
	c.Lock()
	c.idealStates[is.Resource()] = is
	c.Unlock()
}

// UpdateIdealStates merges the updates into the snapshot in one batch,
// leaving every resource not named in updates untouched.
func (c *ClusterDataCache) UpdateIdealStates(updates map[string]*model.IdealState) {
	if len(updates) == 0 {
		return
	}

	c.Lock()
	for r, is := range updates {
		c.idealStates[r] = is
	}
	c.Unlock()
}

// LiveInstances returns a copy of the instance to live instance mapping.
func (c *ClusterDataCache) LiveInstances() map[string]*model.LiveInstance {
	c.RLock()
	defer c.RUnlock()

	m := make(map[string]*model.LiveInstance, len(c.liveInstances))
	for i, li := range c.liveInstances {
		m[i] = li
	}
	return m
}

// LiveInstanceNames returns the sorted names of the live instances.
func (c *ClusterDataCache) LiveInstanceNames() []string {
	c.RLock()
	defer c.RUnlock()

	names := make([]string, 0, len(c.liveInstances))
	for i := range c.liveInstances {
		names = append(names, i)
	}
	sort.Strings(names)
	return names
}

func (c *ClusterDataCache) SetLiveInstance(li *model.LiveInstance) {
	c.Lock()
	c.liveInstances[li.Node()] = li
	c.Unlock()
}

// CurrentStates returns the current states an instance reported, keyed by resource.
func (c *ClusterDataCache) CurrentStates(instance string) map[string]*model.CurrentState {
	c.RLock()
	defer c.RUnlock()
	return c.currentStates[instance]
}

func (c *ClusterDataCache) SetCurrentState(instance string, cs *model.CurrentState) {
	c.Lock()
	defer c.Unlock()

	if _, present := c.currentStates[instance]; !present {
		c.currentStates[instance] = make(map[string]*model.CurrentState)
	}
	c.currentStates[instance][cs.Resource()] = cs
}

// StateModelDef returns the definition of a state model, nil if unknown.
func (c *ClusterDataCache) StateModelDef(name string) *model.StateModelDef {
	smd, _ := model.BuiltinStateModelDef(name)
	return smd
}
