package stages

import (
	"github.com/funkygao/helix-controller/controller/pipeline"
	"github.com/funkygao/helix-controller/model"
)

var _ pipeline.Stage = &ResourceComputationStage{}

// ResourceComputationStage derives the resources from the ideal states.
// Resources that lost their ideal state but still have replicas reported
// are kept, so that their partitions can be dropped.
type ResourceComputationStage struct {
}

func (r *ResourceComputationStage) Init() {}

func (r *ResourceComputationStage) Name() string {
	return "ResourceComputationStage"
}

func (r *ResourceComputationStage) PreProcess() {}

func (r *ResourceComputationStage) PostProcess() {}

func (r *ResourceComputationStage) Process(evt *pipeline.Event) error {
	c, err := clusterDataOf(evt)
	if err != nil {
		return err
	}

	resources := make(map[string]*model.Resource)
	for name, is := range c.IdealStates() {
		resources[name] = model.NewResourceFromIdealState(is)
	}

	for _, instance := range c.LiveInstanceNames() {
		for name, cs := range c.CurrentStates(instance) {
			res, present := resources[name]
			if !present {
				res = model.NewResource(name)
				res.SetStateModelDef(cs.StateModelDef())
				resources[name] = res
			}
			if c.IdealState(name) != nil {
				continue
			}
			for p := range cs.PartitionStateMap() {
				res.AddPartition(p)
			}
		}
	}

	evt.Set(AttrResources, resources)
	return nil
}

func (r *ResourceComputationStage) Release() {}
