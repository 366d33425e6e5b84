package cache

import (
	"sort"
)

// CurrentStateOutput is the observed state of every partition replica,
// keyed by resource, partition and instance.
// It is built once per pass by the current state computation stage and is
// read-only afterwards.
type CurrentStateOutput struct {
	currentStateMap map[string]map[string]map[string]string // resource -> partition -> instance -> state
	stateModelDefs  map[string]string                       // key is resource
}

func NewCurrentStateOutput() *CurrentStateOutput {
	return &CurrentStateOutput{
		currentStateMap: make(map[string]map[string]map[string]string),
		stateModelDefs:  make(map[string]string),
	}
}

func (o *CurrentStateOutput) SetCurrentState(resource, partition, instance, state string) {
	partitions, present := o.currentStateMap[resource]
	if !present {
		partitions = make(map[string]map[string]string)
		o.currentStateMap[resource] = partitions
	}
	if _, present = partitions[partition]; !present {
		partitions[partition] = make(map[string]string)
	}
	partitions[partition][instance] = state
}

// CurrentState returns the observed state of a replica, empty if not reported.
func (o *CurrentStateOutput) CurrentState(resource, partition, instance string) string {
	return o.currentStateMap[resource][partition][instance]
}

// CurrentStateMap returns a copy of the observed state of a partition keyed by instance.
func (o *CurrentStateOutput) CurrentStateMap(resource, partition string) map[string]string {
	m := make(map[string]string, len(o.currentStateMap[resource][partition]))
	for i, s := range o.currentStateMap[resource][partition] {
		m[i] = s
	}
	return m
}

// Partitions returns the sorted partitions of a resource with any observed state.
func (o *CurrentStateOutput) Partitions(resource string) []string {
	partitions := make([]string, 0, len(o.currentStateMap[resource]))
	for p := range o.currentStateMap[resource] {
		partitions = append(partitions, p)
	}
	sort.Strings(partitions)
	return partitions
}

// Resources returns the sorted resources with any observed state.
func (o *CurrentStateOutput) Resources() []string {
	resources := make([]string, 0, len(o.currentStateMap))
	for r := range o.currentStateMap {
		resources = append(resources, r)
	}
	sort.Strings(resources)
	return resources
}

func (o *CurrentStateOutput) SetResourceStateModelDef(resource, stateModelDef string) {
	o.stateModelDefs[resource] = stateModelDef
}

func (o *CurrentStateOutput) ResourceStateModelDef(resource string) string {
	return o.stateModelDefs[resource]
}
