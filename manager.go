package helix

import (
	"github.com/funkygao/helix-controller/model"
)

// HelixManager is a facade component that connects the controller with the cluster.
type HelixManager interface {

	// Connect will connect manager to storage and start housekeeping.
	Connect() error

	// Disconnect will disconnect manager from storage.
	Disconnect()

	// IsConnected checks if the connection is alive.
	IsConnected() bool

	// Cluster returns the cluster name associated with this cluster manager.
	Cluster() string

	// IsLeader checks if this is a controller and a leader of the cluster.
	IsLeader() bool

	// IsPaused checks if the cluster controller has been paused by an administrator.
	IsPaused() bool

	// Instance returns the instance name used to connect to the cluster.
	Instance() string

	// InstanceType returns the manager instance type.
	InstanceType() InstanceType

	// SessionID returns the session id associated with the connection to cluster data store.
	SessionID() string

	// DataAccessor returns the accessor to read and write cluster metadata.
	DataAccessor() HelixDataAccessor

	// ChangeNotifications delivers cluster metadata changes the controller reacts to.
	ChangeNotifications() <-chan ChangeNotification
}

// HelixDataAccessor is the storage contract the controller reads the cluster
// snapshot from and writes ideal states to.
type HelixDataAccessor interface {

	// IdealStates returns all ideal states keyed by resource name.
	IdealStates() (map[string]*model.IdealState, error)

	// LiveInstances returns all live instances keyed by instance name.
	LiveInstances() (map[string]*model.LiveInstance, error)

	// CurrentStates returns the current states an instance reported in the given session,
	// keyed by resource name.
	CurrentStates(instance, sessionID string) (map[string]*model.CurrentState, error)

	// SetIdealState overwrites the ideal state of a resource.
	SetIdealState(resource string, is *model.IdealState) error
}
