package stages

import (
	"github.com/funkygao/helix-controller"
	"github.com/funkygao/helix-controller/controller/cache"
	"github.com/funkygao/helix-controller/controller/pipeline"
	"github.com/pkg/errors"
)

var _ pipeline.Stage = &ReadClusterDataStage{}

// ReadClusterDataStage loads a fresh cluster snapshot for the pass.
type ReadClusterDataStage struct {
}

func (r *ReadClusterDataStage) Init() {}

func (r *ReadClusterDataStage) Name() string {
	return "ReadClusterDataStage"
}

func (r *ReadClusterDataStage) PreProcess() {}

func (r *ReadClusterDataStage) PostProcess() {}

func (r *ReadClusterDataStage) Process(evt *pipeline.Event) error {
	m := evt.Manager()
	if m == nil {
		return errors.Wrap(ErrMissingAttribute, "manager")
	}
	if !m.IsConnected() {
		return helix.ErrNotConnected
	}

	c := cache.NewClusterDataCache()
	if err := c.Refresh(m.DataAccessor()); err != nil {
		return err
	}

	evt.Set(AttrClusterDataCache, c)
	return nil
}

func (r *ReadClusterDataStage) Release() {}
