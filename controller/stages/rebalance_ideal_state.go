package stages

import (
	"sort"
	"time"

	"github.com/funkygao/helix-controller"
	"github.com/funkygao/helix-controller/controller/cache"
	"github.com/funkygao/helix-controller/controller/pipeline"
	"github.com/funkygao/helix-controller/controller/rebalancer"
	"github.com/funkygao/helix-controller/model"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRebalanceParallelism = 4
	DefaultRebalanceTimeout     = 30 * time.Second
)

var _ pipeline.Stage = &RebalanceIdealStateStage{}

// RebalanceResult is the outcome of rebalancing one resource.
// Exactly one of IdealState and Err is set.
type RebalanceResult struct {
	Resource   string
	Rebalancer string
	IdealState *model.IdealState
	Err        error
}

func (r RebalanceResult) OK() bool {
	return r.Err == nil
}

// Reason classifies the failure, "ok" on success.
func (r RebalanceResult) Reason() string {
	return rebalancer.Reason(r.Err)
}

// RebalanceIdealStateStage computes new ideal states for the resources that
// name a user defined rebalancer.
//
// Every resource is rebalanced independently: a resource whose rebalancer can
// not be resolved, fails, panics, times out or returns an ideal state of some
// other resource keeps its ideal state and never affects the others. A result
// must keep the rebalancer identifier and the declared partition count. Results
// are committed into the cluster data cache in one batch after all resources
// are done, so no rebalancer observes the output of another within a pass.
type RebalanceIdealStateStage struct {
	// Resolver defaults to a resolver over rebalancer.DefaultRegistry.
	Resolver *rebalancer.Resolver

	// Parallelism bounds the concurrent rebalancer invocations.
	Parallelism int

	// Timeout bounds Init plus ComputeNewIdealState of one resource.
	// An expired call is abandoned, not cancelled.
	Timeout time.Duration
}

func (s *RebalanceIdealStateStage) Init() {
	if s.Resolver == nil {
		s.Resolver = rebalancer.NewResolver(nil)
	}
	if s.Parallelism <= 0 {
		s.Parallelism = DefaultRebalanceParallelism
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultRebalanceTimeout
	}
}

func (s *RebalanceIdealStateStage) Name() string {
	return "RebalanceIdealStateStage"
}

func (s *RebalanceIdealStateStage) PreProcess() {}

func (s *RebalanceIdealStateStage) PostProcess() {}

func (s *RebalanceIdealStateStage) Process(evt *pipeline.Event) error {
	if s.Resolver == nil || s.Parallelism <= 0 || s.Timeout <= 0 {
		s.Init()
	}

	c, err := clusterDataOf(evt)
	if err != nil {
		return err
	}
	cso, err := currentStateOutputOf(evt)
	if err != nil {
		return err
	}

	idealStates := c.IdealStates()
	resources := make([]string, 0, len(idealStates))
	for name, is := range idealStates {
		if _, present := is.RebalancerClassName(); present {
			resources = append(resources, name)
		}
	}
	sort.Strings(resources)

	results := make([]RebalanceResult, len(resources))
	var g errgroup.Group
	g.SetLimit(s.Parallelism)
	for i, name := range resources {
		i, name := i, name
		g.Go(func() error {
			results[i] = s.rebalance(evt.Manager(), name, idealStates[name], cso, c)
			return nil
		})
	}
	g.Wait()

	updates := make(map[string]*model.IdealState)
	changed := []string{}
	for _, r := range results {
		if !r.OK() {
			continue
		}

		updates[r.Resource] = r.IdealState
		if !r.IdealState.Equal(idealStates[r.Resource]) {
			changed = append(changed, r.Resource)
		}
	}
	c.UpdateIdealStates(updates)

	log.Debugf("[%s] rebalanced %d/%d resources, %d changed", evt.Name, len(updates), len(resources), len(changed))

	evt.Set(AttrRebalanceResults, results)
	evt.Set(AttrUpdatedIdealStates, changed)
	return nil
}

func (s *RebalanceIdealStateStage) Release() {}

type computeOutcome struct {
	is  *model.IdealState
	err error
}

func (s *RebalanceIdealStateStage) rebalance(m helix.HelixManager, resource string, current *model.IdealState,
	cso *cache.CurrentStateOutput, c *cache.ClusterDataCache) (result RebalanceResult) {
	id, _ := current.RebalancerClassName()
	result = RebalanceResult{Resource: resource, Rebalancer: id}

	t0 := time.Now()
	rebalanceAttempts.WithLabelValues(id).Inc()
	defer func() {
		rebalanceDuration.Observe(time.Since(t0).Seconds())
		if result.OK() {
			return
		}

		reason := result.Reason()
		rebalanceFailures.WithLabelValues(reason).Inc()
		s.Resolver.Evict(resource, id)

		l := log.WithFields(log.Fields{
			"resource":   resource,
			"rebalancer": id,
			"reason":     reason,
		})
		if errors.Is(result.Err, rebalancer.ErrPluginContractViolation) {
			l.Errorf("ideal state kept: %v", result.Err)
		} else {
			l.Warnf("ideal state kept: %v", result.Err)
		}
	}()

	instance, err := s.Resolver.Resolve(resource, id)
	if err != nil {
		result.Err = err
		return
	}

	// the rebalancer works on a copy so that a failed call leaves nothing behind
	done := make(chan computeOutcome, 1)
	go func() {
		if err := instance.Init(m); err != nil {
			done <- computeOutcome{err: err}
			return
		}

		is, err := instance.ComputeNewIdealState(current.Clone(), cso, c)
		done <- computeOutcome{is: is, err: err}
	}()

	timer := time.NewTimer(s.Timeout)
	defer timer.Stop()

	var o computeOutcome
	select {
	case o = <-done:
	case <-timer.C:
		result.Err = errors.Wrapf(rebalancer.ErrPluginCompute, "%s timed out after %s", id, s.Timeout)
		return
	}

	switch {
	case o.err != nil:
		result.Err = o.err
	case o.is == nil:
		result.Err = errors.Wrapf(rebalancer.ErrPluginContractViolation, "%s returned no ideal state", id)
	case o.is.Resource() != resource:
		result.Err = errors.Wrapf(rebalancer.ErrPluginContractViolation, "%s returned ideal state of %s", id, o.is.Resource())
	default:
		if err := o.is.ValidateReplacement(current); err != nil {
			result.Err = errors.Wrapf(rebalancer.ErrPluginContractViolation, "%s: %v", id, err)
			return
		}

		result.IdealState = o.is.Clone()
	}
	return
}
