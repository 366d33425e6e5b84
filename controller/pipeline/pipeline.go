package pipeline

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Pipeline struct {
	stages []Stage
}

func NewPipeline() *Pipeline {
	return &Pipeline{
		stages: []Stage{},
	}
}

func (p *Pipeline) AddStage(s Stage) {
	p.stages = append(p.stages, s)
	s.Init()
}

// HandleEvent runs the stages in order and stops at the first failing stage.
func (p *Pipeline) HandleEvent(evt *Event) (err error) {
	for _, s := range p.stages {
		s.PreProcess()

		t0 := time.Now()
		err = s.Process(evt)
		stageDuration.WithLabelValues(s.Name()).Observe(time.Since(t0).Seconds())
		if err != nil {
			return errors.Wrapf(err, "%s on %s", s.Name(), evt.Name)
		}

		log.Debugf("[%s] %s done in %s", evt.Name, s.Name(), time.Since(t0))
		s.PostProcess()
	}

	return
}

// Finish releases all stages. The pipeline must not be used afterwards.
func (p *Pipeline) Finish() {
	for _, s := range p.stages {
		s.Release()
	}
}
