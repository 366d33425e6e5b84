package strategy

import (
	"sort"

	"github.com/funkygao/helix-controller/model"
)

// RebalanceStrategy computes the assignment of partition->instance.
type RebalanceStrategy interface {

	// Init perform the necessary initialization for the rebalance strategy object.
	// states is the state priority list of the resource state model.
	// maximumPerNode of 0 means unlimited.
	Init(resourceName string, partitions []string, states []string, replicas int, maximumPerNode int)

	// PartitionAssignment compute the preference lists for the given resource:
	// one list field per partition. currentMapping is partition -> instance -> observed state.
	PartitionAssignment(liveInstances []string, currentMapping map[string]map[string]string) *model.Record
}

// New returns a strategy by name, nil if unknown.
// IMPORTANT the returned strategy might be nil: it is caller's job to check.
func New(name string) RebalanceStrategy {
	switch name {
	case RoundRobin:
		return &roundRobinStrategy{}
	case Sticky:
		return &stickyStrategy{}
	}
	return nil
}

const (
	// RoundRobin spreads replicas over the sorted live instances, ignoring where they are now.
	RoundRobin = "RoundRobin"

	// Sticky keeps replicas where they are observed and fills the gaps round-robin.
	Sticky = "Sticky"
)

type base struct {
	resource   string
	partitions []string
	states     []string
	replicas   int
	maxPerNode int

	load map[string]int
}

func (b *base) Init(resourceName string, partitions []string, states []string, replicas int, maximumPerNode int) {
	b.resource = resourceName
	b.partitions = partitions
	b.states = states
	b.replicas = replicas
	b.maxPerNode = maximumPerNode
}

func (b *base) full(instance string) bool {
	return b.maxPerNode > 0 && b.load[instance] >= b.maxPerNode
}

// fill appends round-robin candidates to pref until it holds replicas instances.
func (b *base) fill(pref []string, idx int, nodes []string) []string {
	for j := 0; j < len(nodes) && len(pref) < b.replicas; j++ {
		n := nodes[(idx+j)%len(nodes)]
		if contains(pref, n) || b.full(n) {
			continue
		}
		pref = append(pref, n)
		b.load[n]++
	}
	return pref
}

func sorted(instances []string) []string {
	nodes := append([]string(nil), instances...)
	sort.Strings(nodes)
	return nodes
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}
