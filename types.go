package helix

// InstanceType is the role a manager plays in the cluster.
type InstanceType string

func (it InstanceType) IsController() bool {
	return it == InstanceTypeControllerStandalone || it == InstanceTypeControllerDistributed
}

type ChangeNotificationType uint8

// ChangeNotification is emitted by the storage layer whenever cluster metadata
// the controller depends on changes.
type ChangeNotification struct {
	ChangeType ChangeNotificationType
	ChangeData interface{}
}

// Event returns the controller pipeline event name for this notification.
func (n ChangeNotification) Event() string {
	return changeNotificationEvent[n.ChangeType]
}
