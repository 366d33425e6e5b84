package helix

import "sync"

// Context is a goroutine safe property bag for storing data between pipeline stages.
type Context struct {
	sync.RWMutex
	data map[string]interface{}

	manager HelixManager
}

// NewContext creates a new Context instance.
func NewContext(m HelixManager) *Context {
	return &Context{
		data:    make(map[string]interface{}),
		manager: m,
	}
}

// Manager returns the controller handle this context was created with, might be nil.
func (c *Context) Manager() HelixManager {
	return c.manager
}

// Set sets a key value pair.
func (c *Context) Set(key string, value interface{}) {
	c.Lock()
	c.data[key] = value
	c.Unlock()
}

// SetNX sets the key only if it is absent and reports whether it did so.
func (c *Context) SetNX(key string, value interface{}) bool {
	c.Lock()
	defer c.Unlock()

	if _, present := c.data[key]; present {
		return false
	}
	c.data[key] = value
	return true
}

// Get gets the value of a key.
func (c *Context) Get(key string) interface{} {
	c.RLock()
	v, ok := c.data[key]
	c.RUnlock()
	if !ok {
		return nil
	}

	return v
}
