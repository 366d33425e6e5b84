package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/funkygao/helix-controller"
)

var _ helix.HelixManager = &Manager{}

// Manager is a HelixManager over an in-memory Accessor. It is the leader
// and unpaused unless told otherwise.
type Manager struct {
	sync.RWMutex

	cluster   string
	instance  string
	sessionID string
	accessor  *Accessor

	connected bool
	leader    bool
	paused    bool

	notifications chan helix.ChangeNotification
}

func NewManager(cluster, instance string, accessor *Accessor) *Manager {
	if accessor == nil {
		accessor = NewAccessor()
	}

	return &Manager{
		cluster:       cluster,
		instance:      instance,
		sessionID:     fmt.Sprintf("%x", time.Now().UnixNano()),
		accessor:      accessor,
		leader:        true,
		notifications: make(chan helix.ChangeNotification, 16),
	}
}

func (m *Manager) Connect() error {
	m.Lock()
	m.connected = true
	m.Unlock()
	return nil
}

func (m *Manager) Disconnect() {
	m.Lock()
	m.connected = false
	m.Unlock()
}

func (m *Manager) IsConnected() bool {
	m.RLock()
	defer m.RUnlock()
	return m.connected
}

func (m *Manager) Cluster() string {
	return m.cluster
}

func (m *Manager) IsLeader() bool {
	m.RLock()
	defer m.RUnlock()
	return m.leader
}

func (m *Manager) SetLeader(leader bool) {
	m.Lock()
	m.leader = leader
	m.Unlock()
}

func (m *Manager) IsPaused() bool {
	m.RLock()
	defer m.RUnlock()
	return m.paused
}

func (m *Manager) SetPaused(paused bool) {
	m.Lock()
	m.paused = paused
	m.Unlock()
}

func (m *Manager) Instance() string {
	return m.instance
}

func (m *Manager) InstanceType() helix.InstanceType {
	return helix.InstanceTypeControllerStandalone
}

func (m *Manager) SessionID() string {
	return m.sessionID
}

func (m *Manager) DataAccessor() helix.HelixDataAccessor {
	return m.accessor
}

// Accessor returns the underlying store for seeding and inspection.
func (m *Manager) Accessor() *Accessor {
	return m.accessor
}

func (m *Manager) ChangeNotifications() <-chan helix.ChangeNotification {
	return m.notifications
}

// Notify emits a change notification. It blocks when nobody consumes them.
func (m *Manager) Notify(changeType helix.ChangeNotificationType) {
	m.notifications <- helix.ChangeNotification{ChangeType: changeType}
}
