package rebalancer

import (
	"fmt"
	"sync"

	"github.com/funkygao/helix-controller"
	"github.com/funkygao/helix-controller/controller/cache"
	"github.com/funkygao/helix-controller/model"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Instance is a resolved rebalancer bound to one resource.
// Panics of the underlying rebalancer are recovered into errors.
type Instance struct {
	id       string
	resource string
	r        Rebalancer

	initOnce sync.Once
	initErr  error
}

func (i *Instance) ID() string {
	return i.id
}

// Init initializes the rebalancer once per instance; later calls return the first result.
func (i *Instance) Init(manager helix.HelixManager) error {
	i.initOnce.Do(func() {
		defer func() {
			if p := recover(); p != nil {
				i.initErr = errors.Wrapf(ErrPluginInit, "%s panic: %v", i.id, p)
			}
		}()

		if err := i.r.Init(manager); err != nil {
			i.initErr = errors.Wrapf(ErrPluginInit, "%s: %v", i.id, err)
		}
	})
	return i.initErr
}

func (i *Instance) ComputeNewIdealState(currentIdealState *model.IdealState,
	currentStateOutput *cache.CurrentStateOutput, clusterData *cache.ClusterDataCache) (is *model.IdealState, err error) {
	defer func() {
		if p := recover(); p != nil {
			is, err = nil, errors.Wrapf(ErrPluginCompute, "%s panic: %v", i.id, p)
		}
	}()

	is, err = i.r.ComputeNewIdealState(i.resource, currentIdealState, currentStateOutput, clusterData)
	if err != nil {
		return nil, errors.Wrapf(ErrPluginCompute, "%s: %v", i.id, err)
	}
	return is, nil
}

// Resolver turns rebalancer identifiers into instances: built-in short names
// first, then the registry.
//
// By default every Resolve constructs a fresh instance, so rebalancers are
// treated as stateless. WithInstanceReuse keeps instances per resource and
// identifier across pipeline passes for stateful rebalancers.
type Resolver struct {
	registry  *Registry
	instances *lru.Cache // nil unless instances are reused
}

type ResolverOption func(*Resolver)

// WithInstanceReuse keeps at most size initialized instances, evicting the
// least recently used one.
func WithInstanceReuse(size int) ResolverOption {
	return func(r *Resolver) {
		if size <= 0 {
			return
		}

		c, err := lru.NewWithEvict(size, func(key, _ interface{}) {
			log.Debugf("rebalancer instance %v evicted", key)
		})
		if err != nil {
			panic(err)
		}
		r.instances = c
	}
}

func NewResolver(registry *Registry, options ...ResolverOption) *Resolver {
	if registry == nil {
		registry = DefaultRegistry
	}

	r := &Resolver{registry: registry}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Reuses reports whether instances are kept across Resolve calls.
func (r *Resolver) Reuses() bool {
	return r.instances != nil
}

func instanceKey(resource, id string) string {
	return resource + "|" + id
}

// Resolve returns the rebalancer instance for a resource. Every failure wraps
// ErrPluginResolution.
func (r *Resolver) Resolve(resource, id string) (*Instance, error) {
	if id == "" {
		return nil, errors.Wrapf(ErrPluginResolution, "resource %s has an empty rebalancer identifier", resource)
	}

	if r.instances != nil {
		if v, ok := r.instances.Get(instanceKey(resource, id)); ok {
			return v.(*Instance), nil
		}
	}

	factory, present := builtins[id]
	if !present {
		if factory, present = r.registry.Lookup(id); !present {
			return nil, errors.Wrapf(ErrPluginResolution, "%s not registered", id)
		}
	}

	rb, err := construct(factory)
	if err != nil {
		return nil, errors.Wrapf(ErrPluginResolution, "%s: %v", id, err)
	}

	instance := &Instance{id: id, resource: resource, r: rb}
	if r.instances != nil {
		r.instances.Add(instanceKey(resource, id), instance)
	}
	return instance, nil
}

// Evict forgets the reused instance of a resource, so the next Resolve
// constructs a fresh one. Instances that failed are evicted by the caller.
func (r *Resolver) Evict(resource, id string) {
	if r.instances != nil {
		r.instances.Remove(instanceKey(resource, id))
	}
}

func construct(factory Factory) (rb Rebalancer, err error) {
	defer func() {
		if p := recover(); p != nil {
			rb, err = nil, fmt.Errorf("constructor panic: %v", p)
		}
	}()

	if rb, err = factory(); err == nil && rb == nil {
		err = fmt.Errorf("constructor returned nil")
	}
	return
}
