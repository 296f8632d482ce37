package previewcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetDelete(t *testing.T) {
	c := New()
	defer c.Stop()

	id := c.Put(Session{AdminID: 42, Query: "oldboy", DownloadLink: "https://example.com/dl", Page: 1})
	require.NotEmpty(t, id)

	got, ok := c.Get(id)
	require.True(t, ok)
	assert.Equal(t, int64(42), got.AdminID)
	assert.Equal(t, "oldboy", got.Query)

	c.Delete(id)
	_, ok = c.Get(id)
	assert.False(t, ok)
}

func TestGet_UnknownID(t *testing.T) {
	c := New()
	defer c.Stop()

	_, ok := c.Get("nonexistent")
	assert.False(t, ok)
}

func TestUpdate_RefreshesSession(t *testing.T) {
	c := New()
	defer c.Stop()

	id := c.Put(Session{AdminID: 1, Query: "parasite", Page: 1})

	s, ok := c.Get(id)
	require.True(t, ok)
	s.Page = 3
	c.Update(id, s)

	got, ok := c.Get(id)
	require.True(t, ok)
	assert.Equal(t, 3, got.Page)
}

func TestPut_DistinctIDs(t *testing.T) {
	c := New()
	defer c.Stop()

	a := c.Put(Session{AdminID: 1})
	b := c.Put(Session{AdminID: 2})
	assert.NotEqual(t, a, b)
}
