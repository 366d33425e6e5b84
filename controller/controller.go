// Package controller provides implementation of the default Helix controller.
package controller

import (
	"sync"
	"time"

	"github.com/funkygao/helix-controller"
	"github.com/funkygao/helix-controller/controller/pipeline"
	"github.com/funkygao/helix-controller/controller/rebalancer"
	"github.com/funkygao/helix-controller/controller/stages"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultParallelism = stages.DefaultRebalanceParallelism
	DefaultTimeout     = stages.DefaultRebalanceTimeout
)

// Config tunes the controller. Zero values take the defaults.
type Config struct {
	// Resolver resolves user defined rebalancers, defaults to rebalancer.DefaultRegistry
	// with a fresh instance per pass.
	Resolver *rebalancer.Resolver

	Parallelism int
	Timeout     time.Duration

	// RefreshInterval triggers a periodicRefresh event, disabled if zero.
	RefreshInterval time.Duration

	// EventQueueSize bounds the pending events, defaults to 64.
	EventQueueSize int
}

// GenericHelixController is a loop that drives the current state towards the ideal state.
type GenericHelixController struct {
	manager  helix.HelixManager
	config   Config
	registry *pipeline.PipelineRegistry

	events   chan string
	stopper  chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewGenericHelixController(manager helix.HelixManager, config Config) *GenericHelixController {
	if config.EventQueueSize <= 0 {
		config.EventQueueSize = 64
	}

	c := &GenericHelixController{
		manager: manager,
		config:  config,
		events:  make(chan string, config.EventQueueSize),
		stopper: make(chan struct{}),
	}
	c.createDefaultRegistry()
	return c
}

func (c *GenericHelixController) createDefaultRegistry() {
	c.registry = pipeline.NewPipelineRegistry()

	// cluster data cache refresh
	dataRefresh := pipeline.NewPipeline()
	dataRefresh.AddStage(&stages.ReadClusterDataStage{})

	// rebalance pipeline
	rebalancePipeline := pipeline.NewPipeline()
	rebalancePipeline.AddStage(&stages.ResourceComputationStage{})
	rebalancePipeline.AddStage(&stages.CurrentStateComputationStage{})
	rebalancePipeline.AddStage(&stages.RebalanceIdealStateStage{
		Resolver:    c.config.Resolver,
		Parallelism: c.config.Parallelism,
		Timeout:     c.config.Timeout,
	})
	rebalancePipeline.AddStage(&stages.PersistIdealStateStage{})

	for _, evt := range []string{
		helix.EventIdealStateChange,
		helix.EventCurrentStateChange,
		helix.EventLiveInstanceChange,
		helix.EventConfigChange,
		helix.EventPeriodicRefresh,
	} {
		c.registry.Register(evt, dataRefresh, rebalancePipeline)
	}
}

// Start runs the event loop and forwards the manager change notifications to it.
func (c *GenericHelixController) Start() {
	c.wg.Add(2)
	go c.processClusterEvents()
	go c.watchChanges()

	if c.config.RefreshInterval > 0 {
		c.wg.Add(1)
		go c.periodicRefresh()
	}

	log.Infof("%s controller started for cluster %s", c.manager.Instance(), c.manager.Cluster())
}

// Stop waits for the event in progress and releases the pipelines.
func (c *GenericHelixController) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopper)
		c.wg.Wait()

		for _, p := range c.registry.Pipelines() {
			p.Finish()
		}
		log.Infof("%s controller stopped", c.manager.Instance())
	})
}

// Trigger queues an event. When the queue is full the event is dropped: the
// pending events reload the whole cluster anyway.
func (c *GenericHelixController) Trigger(eventName string) {
	select {
	case c.events <- eventName:
	default:
		log.Debugf("event queue full, %s dropped", eventName)
	}
}

func (c *GenericHelixController) watchChanges() {
	defer c.wg.Done()

	notifications := c.manager.ChangeNotifications()
	for {
		select {
		case <-c.stopper:
			return

		case n, ok := <-notifications:
			if !ok {
				return
			}

			if evt := n.Event(); evt != "" {
				c.Trigger(evt)
			} else {
				log.Debugf("%s change ignored", helix.ChangeNotificationText(n.ChangeType))
			}
		}
	}
}

func (c *GenericHelixController) periodicRefresh() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopper:
			return
		case <-ticker.C:
			c.Trigger(helix.EventPeriodicRefresh)
		}
	}
}

func (c *GenericHelixController) processClusterEvents() {
	defer c.wg.Done()

	for {
		select {
		case <-c.stopper:
			return

		case evt := <-c.events:
			if err := c.HandleEvent(evt); err != nil {
				log.Errorf("%s %v", c.manager.Instance(), err)
			}
		}
	}
}

// HandleEvent runs the pipelines registered for the event once. Events are
// ignored unless this controller leads an unpaused cluster.
func (c *GenericHelixController) HandleEvent(evt string) error {
	if !c.manager.IsLeader() {
		log.Warnf("%s is not leader, ignore the event %s", c.manager.Instance(), evt)
		return nil
	}

	if c.manager.IsPaused() {
		log.Warnf("%s is paused, ignore the event %s", c.manager.Instance(), evt)
		return nil
	}

	event := pipeline.NewEvent(evt, c.manager)
	for _, p := range c.registry.PipelineForEvent(evt) {
		if err := p.HandleEvent(event); err != nil {
			return err
		}
	}
	return nil
}
