package helix

import (
	"errors"
)

var (
	// ErrClusterNotSetup means the helix data structure in zookeeper /{CLUSTER_NAME}
	// is not correct or does not exist
	ErrClusterNotSetup = errors.New("cluster not setup")

	// ErrNotConnected is returned when an operation needs a live storage connection.
	ErrNotConnected = errors.New("not connected")

	// ErrInvalidArgument is returned when a required argument is empty or malformed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNodeNotExist the zookeeper node does not exist when it is expected to
	ErrNodeNotExist = errors.New("node does not exist")

	// ErrNotLeader is returned when a leader-only operation runs on a standby controller.
	ErrNotLeader = errors.New("not controller leader")
)
