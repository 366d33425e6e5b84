package stages

import (
	"github.com/funkygao/helix-controller/controller/cache"
	"github.com/funkygao/helix-controller/controller/pipeline"
	log "github.com/sirupsen/logrus"
)

var _ pipeline.Stage = &CurrentStateComputationStage{}

// CurrentStateComputationStage aggregates the current states the live
// instances reported into a CurrentStateOutput.
type CurrentStateComputationStage struct {
}

func (s *CurrentStateComputationStage) Init() {}

func (s *CurrentStateComputationStage) Name() string {
	return "CurrentStateComputationStage"
}

func (s *CurrentStateComputationStage) PreProcess() {}

func (s *CurrentStateComputationStage) PostProcess() {}

func (s *CurrentStateComputationStage) Process(evt *pipeline.Event) error {
	c, err := clusterDataOf(evt)
	if err != nil {
		return err
	}
	resources, err := resourcesOf(evt)
	if err != nil {
		return err
	}

	output := cache.NewCurrentStateOutput()
	for _, instance := range c.LiveInstanceNames() {
		for name, cs := range c.CurrentStates(instance) {
			if _, present := resources[name]; !present {
				log.Warnf("%s reports current state of unknown resource %s", instance, name)
				continue
			}

			output.SetResourceStateModelDef(name, cs.StateModelDef())
			for partition, state := range cs.PartitionStateMap() {
				output.SetCurrentState(name, partition, instance, state)
			}
		}
	}

	evt.Set(AttrCurrentStateOutput, output)
	return nil
}

func (s *CurrentStateComputationStage) Release() {}
