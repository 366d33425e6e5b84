package zk

import (
	"fmt"
)

// keyBuilder generates the Zookeeper paths of a cluster the controller uses.
//
// /{cluster}/CONFIGS
// /{cluster}/CONTROLLER
// /{cluster}/CONTROLLER/LEADER
// /{cluster}/CONTROLLER/PAUSE
// /{cluster}/IDEALSTATES/{resource}
// /{cluster}/INSTANCES/{instance}/CURRENTSTATES/{session}/{resource}
// /{cluster}/LIVEINSTANCES/{instance}
// /{cluster}/STATEMODELDEFS
type keyBuilder struct {
	clusterID string
}

func newKeyBuilder(cluster string) keyBuilder {
	return keyBuilder{clusterID: cluster}
}

func (k *keyBuilder) cluster() string {
	return fmt.Sprintf("/%s", k.clusterID)
}

func (k *keyBuilder) configs() string {
	return fmt.Sprintf("/%s/CONFIGS", k.clusterID)
}

func (k *keyBuilder) controller() string {
	return fmt.Sprintf("/%s/CONTROLLER", k.clusterID)
}

func (k *keyBuilder) controllerLeader() string {
	return fmt.Sprintf("/%s/CONTROLLER/LEADER", k.clusterID)
}

func (k *keyBuilder) pause() string {
	return fmt.Sprintf("/%s/CONTROLLER/PAUSE", k.clusterID)
}

func (k *keyBuilder) idealStates() string {
	return fmt.Sprintf("/%s/IDEALSTATES", k.clusterID)
}

func (k *keyBuilder) idealStateForResource(resource string) string {
	return fmt.Sprintf("/%s/IDEALSTATES/%s", k.clusterID, resource)
}

func (k *keyBuilder) liveInstances() string {
	return fmt.Sprintf("/%s/LIVEINSTANCES", k.clusterID)
}

func (k *keyBuilder) liveInstance(participantID string) string {
	return fmt.Sprintf("/%s/LIVEINSTANCES/%s", k.clusterID, participantID)
}

func (k *keyBuilder) instances() string {
	return fmt.Sprintf("/%s/INSTANCES", k.clusterID)
}

func (k *keyBuilder) currentStatesForSession(participantID string, sessionID string) string {
	return fmt.Sprintf("/%s/INSTANCES/%s/CURRENTSTATES/%s", k.clusterID, participantID, sessionID)
}

func (k *keyBuilder) currentStateForResource(participantID string, sessionID string, resourceID string) string {
	return fmt.Sprintf("/%s/INSTANCES/%s/CURRENTSTATES/%s/%s", k.clusterID, participantID, sessionID, resourceID)
}

func (k *keyBuilder) stateModelDefs() string {
	return fmt.Sprintf("/%s/STATEMODELDEFS", k.clusterID)
}

// clusterSetupPaths are the paths a cluster must have before a controller connects.
func (k *keyBuilder) clusterSetupPaths() []string {
	return []string{
		k.cluster(),
		k.configs(),
		k.controller(),
		k.idealStates(),
		k.instances(),
		k.liveInstances(),
		k.stateModelDefs(),
	}
}
