package helix

const (
	ExternalViewChanged   ChangeNotificationType = 0
	LiveInstanceChanged   ChangeNotificationType = 1
	IdealStateChanged     ChangeNotificationType = 2
	CurrentStateChanged   ChangeNotificationType = 3
	InstanceConfigChanged ChangeNotificationType = 4
	PeriodicRefresh       ChangeNotificationType = 5
)

var changeNotificationText = map[ChangeNotificationType]string{
	ExternalViewChanged:   "ExternalView",
	LiveInstanceChanged:   "LiveInstance",
	IdealStateChanged:     "IdealState",
	CurrentStateChanged:   "CurrentState",
	InstanceConfigChanged: "InstanceConfig",
	PeriodicRefresh:       "PeriodicRefresh",
}

func ChangeNotificationText(t ChangeNotificationType) string {
	return changeNotificationText[t]
}

// Controller pipeline event names.
const (
	EventIdealStateChange   = "idealStateChange"
	EventCurrentStateChange = "currentStateChange"
	EventLiveInstanceChange = "liveInstanceChange"
	EventConfigChange       = "configChange"
	EventPeriodicRefresh    = "periodicRefresh"
)

var changeNotificationEvent = map[ChangeNotificationType]string{
	LiveInstanceChanged:   EventLiveInstanceChange,
	IdealStateChanged:     EventIdealStateChange,
	CurrentStateChanged:   EventCurrentStateChange,
	InstanceConfigChanged: EventConfigChange,
	PeriodicRefresh:       EventPeriodicRefresh,
}

const (
	InstanceTypeParticipant           InstanceType = "PARTICIPANT"
	InstanceTypeSpectator             InstanceType = "SPECTATOR"
	InstanceTypeControllerStandalone  InstanceType = "CONTROLLER"
	InstanceTypeControllerDistributed InstanceType = "CONTROLLER_PARTICIPANT"
	InstanceTypeAdministrator         InstanceType = "ADMINISTRATOR"
)

const (
	RebalancerModeFullAuto    = "FULL_AUTO"
	RebalancerModeSemiAuto    = "SEMI_AUTO"
	RebalancerModeCustomized  = "CUSTOMIZED"
	RebalancerModeUserDefined = "USER_DEFINED"
	RebalancerModeTask        = "TASK"
)
