package stages

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/funkygao/helix-controller/controller/cache"
	"github.com/funkygao/helix-controller/controller/rebalancer"
	"github.com/funkygao/helix-controller/model"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logHook = test.NewGlobal()

// resourceLogs returns the entries logged for a resource since the last reset.
func resourceLogs(resource string) []log.Entry {
	var entries []log.Entry
	for _, e := range logHook.AllEntries() {
		if e.Data["resource"] == resource {
			entries = append(entries, *e)
		}
	}
	return entries
}

func newRebalanceStage(reg *rebalancer.Registry, options ...rebalancer.ResolverOption) *RebalanceIdealStateStage {
	s := &RebalanceIdealStateStage{
		Resolver: rebalancer.NewResolver(reg, options...),
		Timeout:  time.Second,
	}
	s.Init()
	return s
}

func TestRebalanceIdealStateStageDefaults(t *testing.T) {
	s := &RebalanceIdealStateStage{}
	s.Init()
	assert.NotNil(t, s.Resolver)
	assert.Equal(t, DefaultRebalanceParallelism, s.Parallelism)
	assert.Equal(t, DefaultRebalanceTimeout, s.Timeout)
	assert.Equal(t, "RebalanceIdealStateStage", s.Name())
}

func TestRebalanceIdealStateStageScenario(t *testing.T) {
	reg := rebalancer.NewRegistry()
	reg.Register("custom.EvenSplit", factoryOf(evenSplit{}))

	c := newClusterData([]string{"nodeA", "nodeB"},
		newIdealState("R1", 2),
		newIdealState("R2", 2, "custom.EvenSplit"),
		newIdealState("R3", 2, "missing.NoSuchPlugin"))
	before := snapshot(c)

	logHook.Reset()
	evt := newRebalanceEvent(c, cache.NewCurrentStateOutput())
	require.NoError(t, newRebalanceStage(reg).Process(evt))

	entries := resourceLogs("R3")
	require.Equal(t, 1, len(entries))
	assert.Equal(t, log.WarnLevel, entries[0].Level)
	assert.Equal(t, "resolution", entries[0].Data["reason"])
	assert.Equal(t, "missing.NoSuchPlugin", entries[0].Data["rebalancer"])
	assert.Empty(t, resourceLogs("R1"))
	assert.Empty(t, resourceLogs("R2"))

	assert.True(t, c.IdealState("R1").Equal(before["R1"]))
	assert.True(t, c.IdealState("R3").Equal(before["R3"]))

	r2 := c.IdealState("R2")
	assert.Equal(t, []string{"R2_0", "R2_1"}, r2.PartitionSet())
	assert.Equal(t, map[string]string{"nodeA": "ONLINE"}, r2.InstanceStateMap("R2_0"))
	assert.Equal(t, map[string]string{"nodeB": "ONLINE"}, r2.InstanceStateMap("R2_1"))
	assert.Equal(t, []string{"nodeA"}, r2.PreferenceList("R2_0"))
	assert.Equal(t, []string{"nodeB"}, r2.PreferenceList("R2_1"))
	id, _ := r2.RebalancerClassName()
	assert.Equal(t, "custom.EvenSplit", id)

	results := RebalanceResultsOf(evt)
	require.Equal(t, 2, len(results))
	assert.Equal(t, "R2", results[0].Resource)
	assert.True(t, results[0].OK())
	assert.Equal(t, "R3", results[1].Resource)
	assert.Equal(t, "resolution", results[1].Reason())
	assert.Nil(t, results[1].IdealState)
	assert.Equal(t, []string{"R2"}, UpdatedIdealStatesOf(evt))
}

func TestRebalanceIdealStateStageDeterministic(t *testing.T) {
	reg := rebalancer.NewRegistry()
	reg.Register("custom.EvenSplit", factoryOf(evenSplit{}))

	run := func() map[string]*model.IdealState {
		c := newClusterData([]string{"nodeC", "nodeA", "nodeB"},
			newIdealState("even", 7, "custom.EvenSplit"),
			newIdealState("rr", 5, "RoundRobin"))
		cso := cache.NewCurrentStateOutput()
		cso.SetCurrentState("rr", "rr_0", "nodeB", "ONLINE")
		require.NoError(t, newRebalanceStage(reg).Process(newRebalanceEvent(c, cso)))
		return snapshot(c)
	}

	first, second := run(), run()
	for r, is := range first {
		assert.True(t, is.Equal(second[r]), r)
	}

	// a second pass over its own output converges
	c := newClusterData([]string{"nodeA", "nodeB"}, newIdealState("even", 4, "custom.EvenSplit"))
	s := newRebalanceStage(reg)
	require.NoError(t, s.Process(newRebalanceEvent(c, cache.NewCurrentStateOutput())))
	converged := c.IdealState("even").Clone()
	evt := newRebalanceEvent(c, cache.NewCurrentStateOutput())
	require.NoError(t, s.Process(evt))
	assert.True(t, converged.Equal(c.IdealState("even")))
	assert.Empty(t, UpdatedIdealStatesOf(evt))
}

func TestRebalanceIdealStateStageIsolatesFailures(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	cases := []struct {
		rebalancer *scripted
		reason     string
		level      log.Level
	}{
		{&scripted{err: errors.New("no capacity")}, "compute", log.WarnLevel},
		{&scripted{err: errors.New("no capacity"), mutations: true}, "compute", log.WarnLevel},
		{&scripted{panics: true, mutations: true}, "compute", log.WarnLevel},
		{&scripted{initErr: errors.New("bad config")}, "init", log.WarnLevel},
		{&scripted{resource: "someone-else"}, "contract_violation", log.ErrorLevel},
		{&scripted{noResult: true}, "contract_violation", log.ErrorLevel},
		{&scripted{overflow: true}, "contract_violation", log.ErrorLevel},
		{&scripted{fresh: true}, "contract_violation", log.ErrorLevel},
		{&scripted{identifier: "custom.EvenSplit"}, "contract_violation", log.ErrorLevel},
		{&scripted{grow: 50}, "contract_violation", log.ErrorLevel},
		{&scripted{uncounted: true}, "contract_violation", log.ErrorLevel},
		{&scripted{block: release}, "compute", log.WarnLevel},
	}

	for i, tc := range cases {
		reg := rebalancer.NewRegistry()
		reg.Register("custom.EvenSplit", factoryOf(evenSplit{}))
		reg.Register("custom.Broken", factoryOf(tc.rebalancer))

		c := newClusterData([]string{"nodeA", "nodeB"},
			newIdealState("broken", 3, "custom.Broken"),
			newIdealState("healthy", 2, "custom.EvenSplit"))
		before := snapshot(c)

		s := newRebalanceStage(reg)
		s.Timeout = 50 * time.Millisecond
		logHook.Reset()
		evt := newRebalanceEvent(c, cache.NewCurrentStateOutput())
		require.NoError(t, s.Process(evt), "case %d", i)

		entries := resourceLogs("broken")
		require.Equal(t, 1, len(entries), "case %d", i)
		assert.Equal(t, tc.level, entries[0].Level, "case %d", i)
		assert.Equal(t, tc.reason, entries[0].Data["reason"], "case %d", i)
		id, present := c.IdealState("broken").RebalancerClassName()
		assert.True(t, present, "case %d", i)
		assert.Equal(t, "custom.Broken", id, "case %d", i)
		assert.Equal(t, 3, c.IdealState("broken").NumPartitions(), "case %d", i)

		assert.True(t, c.IdealState("broken").Equal(before["broken"]), "case %d", i)
		assert.False(t, c.IdealState("healthy").Equal(before["healthy"]), "case %d", i)
		assert.Equal(t, []string{"healthy"}, UpdatedIdealStatesOf(evt), "case %d", i)

		results := RebalanceResultsOf(evt)
		require.Equal(t, 2, len(results))
		assert.Equal(t, tc.reason, results[0].Reason(), "case %d: %v", i, results[0].Err)
		assert.True(t, results[1].OK())
	}
}

func TestRebalanceIdealStateStageZeroValue(t *testing.T) {
	reg := rebalancer.NewRegistry()
	reg.Register("custom.EvenSplit", factoryOf(evenSplit{}))

	c := newClusterData([]string{"nodeA", "nodeB"}, newIdealState("even", 2, "custom.EvenSplit"))
	s := &RebalanceIdealStateStage{Resolver: rebalancer.NewResolver(reg)}

	done := make(chan error, 1)
	go func() {
		done <- s.Process(newRebalanceEvent(c, cache.NewCurrentStateOutput()))
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Process without Init did not return")
	}

	assert.Equal(t, DefaultRebalanceParallelism, s.Parallelism)
	assert.Equal(t, DefaultRebalanceTimeout, s.Timeout)
	assert.Equal(t, map[string]string{"nodeB": "ONLINE"}, c.IdealState("even").InstanceStateMap("even_1"))
}

func TestRebalanceIdealStateStageOnlyTouchesPluggableResources(t *testing.T) {
	reg := rebalancer.NewRegistry()
	reg.Register("custom.EvenSplit", factoryOf(evenSplit{}))

	const n, k = 10, 3
	var idealStates []*model.IdealState
	for i := 0; i < n; i++ {
		if i < k {
			idealStates = append(idealStates, newIdealState(fmt.Sprintf("db%d", i), 4, "custom.EvenSplit"))
		} else {
			idealStates = append(idealStates, newIdealState(fmt.Sprintf("db%d", i), 4))
		}
	}
	c := newClusterData([]string{"nodeA", "nodeB"}, idealStates...)
	before := snapshot(c)

	s := newRebalanceStage(reg)
	s.Parallelism = 2
	evt := newRebalanceEvent(c, cache.NewCurrentStateOutput())
	require.NoError(t, s.Process(evt))

	differ := 0
	for r, is := range before {
		if !is.Equal(c.IdealState(r)) {
			differ++
			_, present := is.RebalancerClassName()
			assert.True(t, present, r)
		}
	}
	assert.Equal(t, k, differ)
	assert.Equal(t, k, len(RebalanceResultsOf(evt)))
}

func TestRebalanceIdealStateStageMissingAttributes(t *testing.T) {
	s := newRebalanceStage(rebalancer.NewRegistry())

	err := s.Process(newRebalanceEvent(nil, cache.NewCurrentStateOutput()))
	assert.True(t, errors.Is(err, ErrMissingAttribute))

	err = s.Process(newRebalanceEvent(cache.NewClusterDataCache(), nil))
	assert.True(t, errors.Is(err, ErrMissingAttribute))
}

func TestRebalanceIdealStateStageEmptyIdentifier(t *testing.T) {
	c := newClusterData([]string{"nodeA"}, newIdealState("db", 1, ""))
	before := snapshot(c)

	evt := newRebalanceEvent(c, cache.NewCurrentStateOutput())
	require.NoError(t, newRebalanceStage(rebalancer.NewRegistry()).Process(evt))

	assert.True(t, before["db"].Equal(c.IdealState("db")))
	results := RebalanceResultsOf(evt)
	require.Equal(t, 1, len(results))
	assert.Equal(t, "resolution", results[0].Reason())
}

func TestRebalanceIdealStateStageReusedInstances(t *testing.T) {
	// the first instance fails, every later one succeeds
	f := &countingFactory{make: func(n int) rebalancer.Rebalancer {
		if n == 1 {
			return &scripted{err: errors.New("warming up")}
		}
		return evenSplit{}
	}}
	reg := rebalancer.NewRegistry()
	reg.Register("custom.Stateful", f.factory)

	c := newClusterData([]string{"nodeA", "nodeB"}, newIdealState("db", 2, "custom.Stateful"))
	s := newRebalanceStage(reg, rebalancer.WithInstanceReuse(8))

	for pass := 1; pass <= 3; pass++ {
		evt := newRebalanceEvent(c, cache.NewCurrentStateOutput())
		require.NoError(t, s.Process(evt))
		assert.Equal(t, pass > 1, RebalanceResultsOf(evt)[0].OK(), "pass %d", pass)
	}

	// failed instance evicted, the healthy one kept
	assert.Equal(t, 2, f.constructed())
}

func TestRebalanceIdealStateStageFreshInstances(t *testing.T) {
	f := &countingFactory{make: func(int) rebalancer.Rebalancer { return evenSplit{} }}
	reg := rebalancer.NewRegistry()
	reg.Register("custom.Stateless", f.factory)

	c := newClusterData([]string{"nodeA"}, newIdealState("db", 2, "custom.Stateless"))
	s := newRebalanceStage(reg)
	for pass := 0; pass < 3; pass++ {
		require.NoError(t, s.Process(newRebalanceEvent(c, cache.NewCurrentStateOutput())))
	}
	assert.Equal(t, 3, f.constructed())
}
