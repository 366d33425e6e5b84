package model

import (
	"fmt"
	"sort"
	"strconv"
)

// IdealState simple field names.
const (
	IdealStateNumPartitions       = "NUM_PARTITIONS"
	IdealStateReplicas            = "REPLICAS"
	IdealStateRebalanceMode       = "REBALANCE_MODE"
	IdealStateStateModelDefRef    = "STATE_MODEL_DEF_REF"
	IdealStateRebalancerClassName = "REBALANCER_CLASS_NAME"
)

// ideal state content example:
// {
//   "id" : "MyResource",
//   "simpleFields" : {
//     "NUM_PARTITIONS" : "2",
//     "REBALANCE_MODE" : "USER_DEFINED",
//     "REBALANCER_CLASS_NAME" : "Sticky",
//     "REPLICAS" : "2",
//     "STATE_MODEL_DEF_REF" : "MasterSlave"
//   },
//   "mapFields" : {
//     "MyResource_0" : {
//       "localhost_12000" : "MASTER",
//       "localhost_12001" : "SLAVE"
//     },
//     "MyResource_1" : {
//       "localhost_12000" : "SLAVE",
//       "localhost_12001" : "MASTER"
//     }
//   },
//   "listFields" : {
//     "MyResource_0" : [ "localhost_12000", "localhost_12001" ],
//     "MyResource_1" : [ "localhost_12001", "localhost_12000" ]
//   }
// }
//
// The list field of a partition is its ordered preference list, the map field
// holds the desired state on each instance.
type IdealState struct {
	*Record
}

func NewIdealState(resource string) *IdealState {
	return &IdealState{Record: NewRecord(resource)}
}

func NewIdealStateFromRecord(record *Record) *IdealState {
	return &IdealState{Record: record}
}

// Clone returns a deep copy of the ideal state.
func (is *IdealState) Clone() *IdealState {
	return &IdealState{Record: is.Record.Clone()}
}

// Equal reports whether both ideal states hold the same content.
func (is *IdealState) Equal(that *IdealState) bool {
	if is == nil || that == nil {
		return is == that
	}
	return is.Record.Equal(that.Record)
}

func (is *IdealState) Resource() string {
	return is.ID
}

func (is *IdealState) NumPartitions() int {
	return is.GetIntField(IdealStateNumPartitions, 0)
}

func (is *IdealState) SetNumPartitions(n int) {
	is.SetIntField(IdealStateNumPartitions, n)
}

func (is *IdealState) Replicas() int {
	return is.GetIntField(IdealStateReplicas, 0)
}

func (is *IdealState) SetReplicas(n int) {
	is.SetIntField(IdealStateReplicas, n)
}

func (is *IdealState) RebalanceMode() string {
	return is.GetStringField(IdealStateRebalanceMode, "")
}

func (is *IdealState) SetRebalanceMode(mode string) {
	is.SetStringField(IdealStateRebalanceMode, mode)
}

func (is *IdealState) StateModelDefRef() string {
	return is.GetStringField(IdealStateStateModelDefRef, "")
}

func (is *IdealState) SetStateModelDefRef(def string) {
	is.SetStringField(IdealStateStateModelDefRef, def)
}

// RebalancerClassName returns the identifier of the user defined rebalancer.
// present is false when the field is absent, which opts the resource out of
// pluggable rebalancing. An empty but present identifier is never resolvable.
func (is *IdealState) RebalancerClassName() (name string, present bool) {
	return is.GetSimpleField(IdealStateRebalancerClassName)
}

func (is *IdealState) SetRebalancerClassName(name string) {
	is.SetStringField(IdealStateRebalancerClassName, name)
}

// PartitionName returns the conventional name of the i-th partition: {resource}_{i}.
func (is *IdealState) PartitionName(i int) string {
	return PartitionName(is.ID, i)
}

func PartitionName(resource string, i int) string {
	return resource + "_" + strconv.Itoa(i)
}

// PartitionSet returns the sorted names of all partitions with a preference
// list or an instance state map.
func (is *IdealState) PartitionSet() []string {
	set := make(map[string]struct{}, len(is.MapFields))
	for p := range is.MapFields {
		set[p] = struct{}{}
	}
	for p := range is.ListFields {
		set[p] = struct{}{}
	}

	partitions := make([]string, 0, len(set))
	for p := range set {
		partitions = append(partitions, p)
	}
	sort.Strings(partitions)
	return partitions
}

// PreferenceList returns the ordered instances a partition should be placed on.
func (is *IdealState) PreferenceList(partition string) []string {
	return is.GetListField(partition)
}

func (is *IdealState) SetPreferenceList(partition string, instances []string) {
	is.SetListField(partition, instances)
}

// InstanceStateMap returns the desired state of a partition keyed by instance.
func (is *IdealState) InstanceStateMap(partition string) map[string]string {
	return is.MapFields[partition]
}

// SetPartitionState appends the instance to the partition preference list if
// absent and records its desired state.
func (is *IdealState) SetPartitionState(partition, instance, state string) {
	found := false
	for _, i := range is.GetListField(partition) {
		if i == instance {
			found = true
			break
		}
	}
	if !found {
		is.AddListField(partition, instance)
	}
	is.SetMapField(partition, instance, state)
}

// Validate checks the partition set against the declared partition count.
func (is *IdealState) Validate() error {
	if is == nil || is.Record == nil || is.ID == "" {
		return fmt.Errorf("ideal state without resource")
	}

	n := is.NumPartitions()
	if n > 0 && len(is.PartitionSet()) > n {
		return fmt.Errorf("resource %s declares %d partitions, has %d", is.ID, n, len(is.PartitionSet()))
	}
	return nil
}

// ValidateReplacement checks that is may replace declared: same resource, same
// rebalancer identifier and partition count, and a partition set within the
// count declared before.
func (is *IdealState) ValidateReplacement(declared *IdealState) error {
	if err := is.Validate(); err != nil {
		return err
	}

	if is.ID != declared.ID {
		return fmt.Errorf("ideal state of %s replaces %s", is.ID, declared.ID)
	}
	for _, key := range []string{IdealStateRebalancerClassName, IdealStateNumPartitions} {
		want, wantPresent := declared.GetSimpleField(key)
		got, gotPresent := is.GetSimpleField(key)
		if want != got || wantPresent != gotPresent {
			return fmt.Errorf("resource %s: %s changed from %q to %q", is.ID, key, want, got)
		}
	}

	n := declared.NumPartitions()
	if n > 0 && len(is.PartitionSet()) > n {
		return fmt.Errorf("resource %s declares %d partitions, has %d", is.ID, n, len(is.PartitionSet()))
	}
	return nil
}
