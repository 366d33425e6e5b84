package model

import (
	"sort"
)

// A resource contains a set of partitions and its replicas are managed by a state model.
type Resource struct {
	name         string
	partitionMap map[string]struct{}

	stateModelDef string
	replicas      int
	rebalancer    string
}

func NewResource(name string) *Resource {
	return &Resource{
		name:         name,
		partitionMap: make(map[string]struct{}),
	}
}

// NewResourceFromIdealState derives the resource definition an ideal state declares.
// Partitions missing from the mapping but covered by NUM_PARTITIONS are included.
func NewResourceFromIdealState(is *IdealState) *Resource {
	r := NewResource(is.Resource())
	r.stateModelDef = is.StateModelDefRef()
	r.replicas = is.Replicas()
	r.rebalancer, _ = is.RebalancerClassName()
	for _, p := range is.PartitionSet() {
		r.AddPartition(p)
	}
	for i := 0; i < is.NumPartitions(); i++ {
		r.AddPartition(is.PartitionName(i))
	}
	return r
}

func (r Resource) Name() string {
	return r.name
}

func (r Resource) StateModelDef() string {
	return r.stateModelDef
}

func (r *Resource) SetStateModelDef(def string) {
	r.stateModelDef = def
}

func (r Resource) Replicas() int {
	return r.replicas
}

// Rebalancer returns the user defined rebalancer identifier, empty if none.
func (r Resource) Rebalancer() string {
	return r.rebalancer
}

// Partitions returns the sorted partition names.
func (r Resource) Partitions() []string {
	rs := make([]string, 0, len(r.partitionMap))
	for p := range r.partitionMap {
		rs = append(rs, p)
	}
	sort.Strings(rs)
	return rs
}

func (r *Resource) AddPartition(partitionName string) *Resource {
	r.partitionMap[partitionName] = struct{}{}
	return r
}

func (r Resource) String() string {
	return r.name
}
