package zk

import (
	"path"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/funkygao/helix-controller"
	"github.com/funkygao/helix-controller/model"
	"github.com/go-zookeeper/zk"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const defaultMaxRetries = 5

type connection struct {
	sync.RWMutex

	sessionTimeout time.Duration
	maxRetries     uint64
	servers        []string
	chroot         string

	zkConn *zk.Conn
	events <-chan zk.Event
}

func newConnection(zkSvr string) (*connection, error) {
	servers, chroot, err := parseZkConnStr(zkSvr)
	if err != nil {
		return nil, err
	}

	return &connection{
		servers:        servers,
		chroot:         chroot,
		sessionTimeout: time.Second * 30,
		maxRetries:     defaultMaxRetries,
	}, nil
}

func (conn *connection) Connect() error {
	zkConn, events, err := zk.Connect(conn.servers, conn.sessionTimeout, zk.WithLogger(log.StandardLogger()))
	if err != nil {
		return err
	}

	conn.Lock()
	conn.zkConn, conn.events = zkConn, events
	conn.Unlock()

	if err = conn.waitUntilConnected(); err != nil {
		conn.Disconnect()
		return err
	}

	return nil
}

func (conn *connection) waitUntilConnected() error {
	return conn.retry(func(c *zk.Conn) error {
		_, _, err := c.Exists("/zookeeper")
		return err
	})
}

func (conn *connection) realPath(path string) string {
	if conn.chroot == "" {
		return path
	}

	return conn.chroot + path
}

func (conn *connection) client() *zk.Conn {
	conn.RLock()
	defer conn.RUnlock()
	return conn.zkConn
}

func (conn *connection) IsConnected() bool {
	return conn != nil && conn.client() != nil
}

// Events delivers the session events of the connection.
func (conn *connection) Events() <-chan zk.Event {
	conn.RLock()
	defer conn.RUnlock()
	return conn.events
}

func (conn *connection) SessionID() string {
	c := conn.client()
	if c == nil {
		return ""
	}
	return strconv.FormatInt(c.SessionID(), 10)
}

func (conn *connection) Disconnect() {
	conn.Lock()
	defer conn.Unlock()

	if conn.zkConn != nil {
		conn.zkConn.Close()
		conn.zkConn = nil
	}
}

// retry runs op with exponential backoff. Errors that retrying can not fix
// are returned at once.
func (conn *connection) retry(op func(c *zk.Conn) error) error {
	c := conn.client()
	if c == nil {
		return helix.ErrNotConnected
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Millisecond * 50
	b.MaxInterval = time.Second

	return backoff.RetryNotify(func() error {
		switch err := op(c); err {
		case nil:
			return nil
		case zk.ErrNoNode, zk.ErrNodeExists, zk.ErrBadVersion, zk.ErrNotEmpty, zk.ErrClosing, zk.ErrConnectionClosed:
			return backoff.Permanent(err)
		default:
			return err
		}
	}, backoff.WithMaxRetries(b, conn.maxRetries), func(err error, d time.Duration) {
		log.Debugf("zk retry in %s: %v", d, err)
	})
}

func (conn *connection) Exists(path string) (exists bool, err error) {
	err = conn.retry(func(c *zk.Conn) (e error) {
		exists, _, e = c.Exists(conn.realPath(path))
		return
	})
	return
}

func (conn *connection) ExistsAll(paths ...string) (bool, error) {
	for _, path := range paths {
		if exists, err := conn.Exists(path); err != nil || !exists {
			return exists, err
		}
	}

	return true, nil
}

func (conn *connection) ExistsW(path string) (exists bool, events <-chan zk.Event, err error) {
	err = conn.retry(func(c *zk.Conn) (e error) {
		exists, _, events, e = c.ExistsW(conn.realPath(path))
		return
	})
	return
}

func (conn *connection) Get(path string) (data []byte, stat *zk.Stat, err error) {
	err = conn.retry(func(c *zk.Conn) (e error) {
		data, stat, e = c.Get(conn.realPath(path))
		return
	})
	return
}

func (conn *connection) GetW(path string) (data []byte, events <-chan zk.Event, err error) {
	err = conn.retry(func(c *zk.Conn) (e error) {
		data, _, events, e = c.GetW(conn.realPath(path))
		return
	})
	return
}

func (conn *connection) Children(path string) (children []string, err error) {
	err = conn.retry(func(c *zk.Conn) (e error) {
		children, _, e = c.Children(conn.realPath(path))
		return
	})
	return
}

func (conn *connection) ChildrenW(path string) (children []string, events <-chan zk.Event, err error) {
	err = conn.retry(func(c *zk.Conn) (e error) {
		children, _, events, e = c.ChildrenW(conn.realPath(path))
		return
	})
	return
}

func (conn *connection) Create(path string, data []byte, flags int32) error {
	return conn.retry(func(c *zk.Conn) error {
		_, err := c.Create(conn.realPath(path), data, flags, zk.WorldACL(zk.PermAll))
		return err
	})
}

func (conn *connection) Set(path string, data []byte, version int32) error {
	return conn.retry(func(c *zk.Conn) error {
		_, err := c.Set(conn.realPath(path), data, version)
		return err
	})
}

func (conn *connection) Delete(path string) error {
	return conn.retry(func(c *zk.Conn) error {
		return c.Delete(conn.realPath(path), -1)
	})
}

// ensurePathExists creates the persistent path and its missing parents.
func (conn *connection) ensurePathExists(p string) error {
	if exists, err := conn.Exists(p); exists || err != nil {
		return err
	}

	if parent := path.Dir(p); parent != "/" {
		if err := conn.ensurePathExists(parent); err != nil {
			return err
		}
	}

	if err := conn.Create(p, nil, 0); err != nil && err != zk.ErrNodeExists {
		return err
	}
	return nil
}

func (conn *connection) IsClusterSetup(cluster string) (bool, error) {
	if cluster == "" {
		return false, helix.ErrInvalidArgument
	}

	kb := newKeyBuilder(cluster)
	return conn.ExistsAll(kb.clusterSetupPaths()...)
}

func (conn *connection) GetRecord(path string) (*model.Record, error) {
	data, _, err := conn.Get(path)
	if err != nil {
		return nil, err
	}

	r, err := model.NewRecordFromBytes(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return r, nil
}

// SetRecord writes the record, creating the node when absent. A concurrent
// update between read and write fails with zk.ErrBadVersion.
func (conn *connection) SetRecord(p string, r *model.Record) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}

	_, stat, err := conn.Get(p)
	switch err {
	case nil:
		return conn.Set(p, data, stat.Version)

	case zk.ErrNoNode:
		if err = conn.ensurePathExists(path.Dir(p)); err != nil {
			return err
		}
		return conn.Create(p, data, 0)

	default:
		return err
	}
}
