// Package stages implements the stages of the controller pipelines.
package stages

import (
	"github.com/funkygao/helix-controller/controller/cache"
	"github.com/funkygao/helix-controller/controller/pipeline"
	"github.com/funkygao/helix-controller/model"
	"github.com/pkg/errors"
)

// Event attributes the stages hand to each other.
const (
	AttrClusterDataCache   = "ClusterDataCache"
	AttrCurrentStateOutput = "CurrentStateOutput"
	AttrResources          = "Resources"
	AttrRebalanceResults   = "RebalanceResults"
	AttrUpdatedIdealStates = "UpdatedIdealStates"
)

// ErrMissingAttribute means an upstream stage did not provide an attribute.
// It aborts the pass.
var ErrMissingAttribute = errors.New("missing event attribute")

func clusterDataOf(evt *pipeline.Event) (*cache.ClusterDataCache, error) {
	c, ok := evt.Get(AttrClusterDataCache).(*cache.ClusterDataCache)
	if !ok || c == nil {
		return nil, errors.Wrap(ErrMissingAttribute, AttrClusterDataCache)
	}
	return c, nil
}

func currentStateOutputOf(evt *pipeline.Event) (*cache.CurrentStateOutput, error) {
	o, ok := evt.Get(AttrCurrentStateOutput).(*cache.CurrentStateOutput)
	if !ok || o == nil {
		return nil, errors.Wrap(ErrMissingAttribute, AttrCurrentStateOutput)
	}
	return o, nil
}

func resourcesOf(evt *pipeline.Event) (map[string]*model.Resource, error) {
	rs, ok := evt.Get(AttrResources).(map[string]*model.Resource)
	if !ok {
		return nil, errors.Wrap(ErrMissingAttribute, AttrResources)
	}
	return rs, nil
}

// RebalanceResultsOf returns the per resource outcomes of the last rebalance, nil if it did not run.
func RebalanceResultsOf(evt *pipeline.Event) []RebalanceResult {
	rs, _ := evt.Get(AttrRebalanceResults).([]RebalanceResult)
	return rs
}

// UpdatedIdealStatesOf returns the sorted resources whose ideal state the rebalance changed.
func UpdatedIdealStatesOf(evt *pipeline.Event) []string {
	rs, _ := evt.Get(AttrUpdatedIdealStates).([]string)
	return rs
}
