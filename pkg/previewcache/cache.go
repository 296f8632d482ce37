// Package previewcache holds short-lived post-preview search sessions.
//
// Sessions are keyed by a generated id that travels inside callback data,
// so the cache is the only server-side state a paginated search needs.
// Size and lifetime are both bounded; an evicted session simply makes the
// user run the search again.
package previewcache

import (
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
)

const (
	defaultTTL      = 15 * time.Minute
	defaultCapacity = 256
)

// Session is one in-flight movie search awaiting selection.
type Session struct {
	AdminID      int64
	Query        string
	DownloadLink string
	Page         int
}

// Cache is a bounded TTL cache of preview sessions.
type Cache struct {
	inner *ttlcache.Cache[string, Session]
}

// New creates a started cache with default bounds.
func New() *Cache {
	inner := ttlcache.New[string, Session](
		ttlcache.WithTTL[string, Session](defaultTTL),
		ttlcache.WithCapacity[string, Session](defaultCapacity),
	)
	go inner.Start()
	return &Cache{inner: inner}
}

// Put stores a session under a fresh id and returns the id.
func (c *Cache) Put(s Session) string {
	id := uuid.NewString()
	c.inner.Set(id, s, ttlcache.DefaultTTL)
	return id
}

// Update overwrites an existing session, refreshing its TTL.
func (c *Cache) Update(id string, s Session) {
	c.inner.Set(id, s, ttlcache.DefaultTTL)
}

// Get returns the session for id, if it is still alive.
func (c *Cache) Get(id string) (Session, bool) {
	item := c.inner.Get(id)
	if item == nil {
		return Session{}, false
	}
	return item.Value(), true
}

// Delete removes a session once it has been consumed.
func (c *Cache) Delete(id string) {
	c.inner.Delete(id)
}

// Stop halts background expiry.
func (c *Cache) Stop() {
	c.inner.Stop()
}
