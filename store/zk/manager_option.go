package zk

import (
	"time"
)

type ManagerOption func(*Manager)

func WithZkSessionTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.conn.sessionTimeout = d
	}
}

// WithZkMaxRetries bounds the retries of a failed zookeeper operation.
func WithZkMaxRetries(n uint64) ManagerOption {
	return func(m *Manager) {
		m.conn.maxRetries = n
	}
}

// WithoutWatches disables change notifications, for one-shot runs.
func WithoutWatches() ManagerOption {
	return func(m *Manager) {
		m.watches = false
	}
}
