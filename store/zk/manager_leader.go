package zk

import (
	"time"

	"github.com/funkygao/helix-controller"
	"github.com/funkygao/helix-controller/model"
	"github.com/go-zookeeper/zk"
	log "github.com/sirupsen/logrus"
)

// electLeader competes for the ephemeral leader node until the manager stops.
// The leader node holds the live instance record of the leader.
func (m *Manager) electLeader() {
	defer m.wg.Done()

	for {
		events, err := m.tryLeadership()
		if err != nil {
			log.Warnf("%s leader election: %v", m.shortID(), err)
			if !m.sleep(time.Second) {
				return
			}
			continue
		}

		if events == nil {
			// leader node vanished between create and read
			continue
		}

		select {
		case <-events:
		case <-m.stop:
			return
		}
	}
}

func (m *Manager) tryLeadership() (<-chan zk.Event, error) {
	path := m.kb.controllerLeader()
	data, err := model.NewLiveInstanceRecord(m.instanceID, m.SessionID()).Marshal()
	if err != nil {
		return nil, err
	}

	if err = m.conn.Create(path, data, zk.FlagEphemeral); err != nil && err != zk.ErrNodeExists {
		return nil, err
	}

	data, events, err := m.conn.GetW(path)
	if err == zk.ErrNoNode {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	record, err := model.NewRecordFromBytes(data)
	if err != nil {
		return nil, err
	}

	leader := model.NewLiveInstanceFromRecord(record)
	isLeader := leader.Node() == m.instanceID && leader.SessionID() == m.SessionID()
	if was := m.leader.Swap(isLeader); was != isLeader {
		if isLeader {
			log.Infof("%s became leader", m.shortID())

			// run a full pass as the new leader
			go m.notify(helix.PeriodicRefresh, nil)
		} else {
			log.Infof("%s lost leadership to %s", m.shortID(), leader.Node())
		}
	}

	return events, nil
}

// sleep waits for d and reports false if the manager stopped meanwhile.
func (m *Manager) sleep(d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-m.stop:
		return false
	}
}
