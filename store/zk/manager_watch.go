package zk

import (
	"time"

	"github.com/funkygao/helix-controller"
	"github.com/funkygao/helix-controller/model"
	"github.com/go-zookeeper/zk"
	log "github.com/sirupsen/logrus"
)

// startWatch registers a watcher of path, false if it is watched already or
// the manager stopped.
func (m *Manager) startWatch(path string) bool {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()

	select {
	case <-m.stop:
		return false
	default:
	}

	if _, present := m.watched[path]; present {
		return false
	}
	m.watched[path] = struct{}{}
	m.wg.Add(1)
	return true
}

func (m *Manager) endWatch(path string) {
	m.watchMu.Lock()
	delete(m.watched, path)
	m.watchMu.Unlock()
	m.wg.Done()
}

// watchChildren notifies on every change of the children of path until the
// path is deleted. onChildren sees the children before each notification.
func (m *Manager) watchChildren(path string, changeType helix.ChangeNotificationType, onChildren func([]string)) {
	if !m.startWatch(path) {
		return
	}

	go func() {
		defer m.endWatch(path)

		for {
			children, events, err := m.conn.ChildrenW(path)
			if err == zk.ErrNoNode {
				return
			} else if err != nil {
				log.Warnf("%s watch %s: %v", m.shortID(), path, err)
				if !m.sleep(time.Second) {
					return
				}
				continue
			}

			if onChildren != nil {
				onChildren(children)
			}
			m.notify(changeType, path)

			select {
			case evt := <-events:
				if evt.Type == zk.EventNodeDeleted {
					return
				}
			case <-m.stop:
				return
			}
		}
	}()
}

// watchData notifies on every change of the data of path until the path is deleted.
func (m *Manager) watchData(path string, changeType helix.ChangeNotificationType) {
	if !m.startWatch(path) {
		return
	}

	go func() {
		defer m.endWatch(path)

		for {
			_, events, err := m.conn.GetW(path)
			if err == zk.ErrNoNode {
				return
			} else if err != nil {
				log.Warnf("%s watch %s: %v", m.shortID(), path, err)
				if !m.sleep(time.Second) {
					return
				}
				continue
			}

			select {
			case evt := <-events:
				switch evt.Type {
				case zk.EventNodeDeleted:
					return
				case zk.EventNodeDataChanged:
					m.notify(changeType, path)
				}
			case <-m.stop:
				return
			}
		}
	}()
}

func (m *Manager) watchIdealStates() {
	m.watchChildren(m.kb.idealStates(), helix.IdealStateChanged, func(resources []string) {
		for _, r := range resources {
			m.watchData(m.kb.idealStateForResource(r), helix.IdealStateChanged)
		}
	})
}

// watchLiveInstances also watches the current states of each live instance
// session. Sessions whose current state node is created after the instance
// went live are picked up by the next live instance change.
func (m *Manager) watchLiveInstances() {
	m.watchChildren(m.kb.liveInstances(), helix.LiveInstanceChanged, func(instances []string) {
		for _, instance := range instances {
			record, err := m.conn.GetRecord(m.kb.liveInstance(instance))
			if err != nil {
				if err != zk.ErrNoNode {
					log.Warnf("%s live instance %s: %v", m.shortID(), instance, err)
				}
				continue
			}

			instance, sessionID := instance, model.NewLiveInstanceFromRecord(record).SessionID()
			m.watchChildren(m.kb.currentStatesForSession(instance, sessionID), helix.CurrentStateChanged, func(resources []string) {
				for _, r := range resources {
					m.watchData(m.kb.currentStateForResource(instance, sessionID, r), helix.CurrentStateChanged)
				}
			})
		}
	})
}
