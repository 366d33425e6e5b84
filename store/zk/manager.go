package zk

import (
	"sync"
	"sync/atomic"

	"github.com/funkygao/helix-controller"
	"github.com/go-zookeeper/zk"
	log "github.com/sirupsen/logrus"
)

var _ helix.HelixManager = &Manager{}

// Manager is the HelixManager of a standalone controller with zookeeper as storage.
type Manager struct {
	sync.RWMutex

	closeOnce sync.Once
	wg        sync.WaitGroup

	zkSvr     string
	conn      *connection
	connected atomic.Bool
	leader    atomic.Bool
	stop      chan struct{}

	clusterID  string
	instanceID string
	kb         keyBuilder
	accessor   *dataAccessor
	watches    bool

	watchMu sync.Mutex
	watched map[string]struct{} // paths being watched

	changeNotificationChan chan helix.ChangeNotification
}

// NewZkHelixManager creates a controller HelixManager implementation with zk as storage.
func NewZkHelixManager(clusterID, instanceID, zkSvr string, options ...ManagerOption) (*Manager, error) {
	if clusterID == "" || instanceID == "" {
		return nil, helix.ErrInvalidArgument
	}

	conn, err := newConnection(zkSvr)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		zkSvr:                  zkSvr,
		conn:                   conn,
		stop:                   make(chan struct{}),
		clusterID:              clusterID,
		instanceID:             instanceID,
		kb:                     newKeyBuilder(clusterID),
		watches:                true,
		watched:                make(map[string]struct{}),
		changeNotificationChan: make(chan helix.ChangeNotification, 16),
	}
	m.accessor = newDataAccessor(conn, m.kb)

	// apply additional options over the default
	for _, option := range options {
		option(m)
	}

	return m, nil
}

func (m *Manager) Connect() error {
	m.Lock()
	defer m.Unlock()
	if m.IsConnected() {
		return nil
	}

	log.Infof("manager{cluster:%s, instance:%s, zk:%s} connecting...", m.clusterID, m.instanceID, m.zkSvr)

	if err := m.conn.Connect(); err != nil {
		return err
	}

	if ok, err := m.conn.IsClusterSetup(m.clusterID); !ok || err != nil {
		m.conn.Disconnect()
		if err != nil {
			return err
		}
		return helix.ErrClusterNotSetup
	}

	m.connected.Store(true)

	m.wg.Add(2)
	go m.handleSessionEvents()
	go m.electLeader()

	if m.watches {
		m.watchIdealStates()
		m.watchLiveInstances()
	}

	log.Infof("%s connected", m.shortID())
	return nil
}

func (m *Manager) Disconnect() {
	m.closeOnce.Do(func() {
		m.watchMu.Lock()
		close(m.stop)
		m.watchMu.Unlock()

		m.conn.Disconnect()
		m.connected.Store(false)
		m.leader.Store(false)
		m.wg.Wait()

		log.Infof("manager{cluster:%s, instance:%s} disconnected", m.clusterID, m.instanceID)
	})
}

func (m *Manager) shortID() string {
	return m.instanceID + "/" + m.conn.SessionID() + "@" + m.clusterID
}

func (m *Manager) IsConnected() bool {
	return m.connected.Load()
}

func (m *Manager) Cluster() string {
	return m.clusterID
}

func (m *Manager) IsLeader() bool {
	return m.IsConnected() && m.leader.Load()
}

// IsPaused reports whether an administrator created the pause node.
func (m *Manager) IsPaused() bool {
	if !m.IsConnected() {
		return false
	}

	paused, err := m.conn.Exists(m.kb.pause())
	if err != nil {
		log.Warnf("%s pause check: %v", m.shortID(), err)
		return false
	}
	return paused
}

func (m *Manager) Instance() string {
	return m.instanceID
}

func (m *Manager) InstanceType() helix.InstanceType {
	return helix.InstanceTypeControllerStandalone
}

func (m *Manager) SessionID() string {
	return m.conn.SessionID()
}

func (m *Manager) DataAccessor() helix.HelixDataAccessor {
	return m.accessor
}

func (m *Manager) ChangeNotifications() <-chan helix.ChangeNotification {
	return m.changeNotificationChan
}

func (m *Manager) notify(changeType helix.ChangeNotificationType, data interface{}) {
	select {
	case m.changeNotificationChan <- helix.ChangeNotification{ChangeType: changeType, ChangeData: data}:
	case <-m.stop:
	}
}

func (m *Manager) handleSessionEvents() {
	defer m.wg.Done()

	events := m.conn.Events()
	for {
		select {
		case <-m.stop:
			return

		case evt, ok := <-events:
			if !ok {
				return
			}
			if evt.Type != zk.EventSession {
				continue
			}

			switch evt.State {
			case zk.StateExpired:
				// the ephemeral leader node is gone with the session
				m.leader.Store(false)
				log.Warnf("%s session expired", m.shortID())

			case zk.StateHasSession:
				log.Infof("%s has session", m.shortID())

			case zk.StateDisconnected:
				log.Warnf("%s disconnected from %s", m.shortID(), evt.Server)
			}
		}
	}
}
