package stages

import (
	"github.com/funkygao/helix-controller"
	"github.com/funkygao/helix-controller/controller/pipeline"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

var _ pipeline.Stage = &PersistIdealStateStage{}

// PersistIdealStateStage writes the ideal states the rebalance changed back to storage.
type PersistIdealStateStage struct {
}

func (s *PersistIdealStateStage) Init() {}

func (s *PersistIdealStateStage) Name() string {
	return "PersistIdealStateStage"
}

func (s *PersistIdealStateStage) PreProcess() {}

func (s *PersistIdealStateStage) PostProcess() {}

// Process attempts every write and then reports all failed ones.
func (s *PersistIdealStateStage) Process(evt *pipeline.Event) error {
	updated := UpdatedIdealStatesOf(evt)
	if len(updated) == 0 {
		return nil
	}

	c, err := clusterDataOf(evt)
	if err != nil {
		return err
	}
	m := evt.Manager()
	if m == nil {
		return errors.Wrap(ErrMissingAttribute, "manager")
	}
	if !m.IsConnected() {
		return helix.ErrNotConnected
	}

	accessor := m.DataAccessor()
	for _, resource := range updated {
		is := c.IdealState(resource)
		if is == nil {
			continue
		}

		if e := accessor.SetIdealState(resource, is); e != nil {
			idealStateWriteFailures.Inc()
			log.WithField("resource", resource).Errorf("write ideal state: %v", e)
			err = multierr.Append(err, errors.Wrapf(e, "write ideal state of %s", resource))
			continue
		}

		log.WithField("resource", resource).Info("ideal state written")
	}

	return err
}

func (s *PersistIdealStateStage) Release() {}
