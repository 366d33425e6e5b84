package memory

import (
	"testing"

	"github.com/funkygao/helix-controller"
	"github.com/stretchr/testify/assert"
)

func TestManager(t *testing.T) {
	m := NewManager("cluster", "controller0", nil)
	assert.False(t, m.IsConnected())
	assert.NoError(t, m.Connect())
	assert.True(t, m.IsConnected())
	assert.True(t, m.IsLeader())
	assert.False(t, m.IsPaused())
	assert.True(t, m.InstanceType().IsController())
	assert.NotEmpty(t, m.SessionID())
	assert.Equal(t, "cluster", m.Cluster())
	assert.Equal(t, "controller0", m.Instance())
	assert.True(t, m.DataAccessor() == helix.HelixDataAccessor(m.Accessor()))

	m.Notify(helix.LiveInstanceChanged)
	n := <-m.ChangeNotifications()
	assert.Equal(t, helix.EventLiveInstanceChange, n.Event())

	m.Disconnect()
	assert.False(t, m.IsConnected())
}
