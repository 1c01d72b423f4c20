package diskcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(t.TempDir())
	require.NoError(t, err)
	return c
}

func TestSetThenGetBytesRoundTrips(t *testing.T) {
	c := newTestCache(t)
	key := "abc123DEF_-0"

	require.NoError(t, c.SetBytes(key, []byte("hello world")))

	data, ok, err := c.GetBytes(key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("hello world"), data)
}

func TestGetBytesMissingIsNotAnError(t *testing.T) {
	c := newTestCache(t)
	data, ok, err := c.GetBytes("doesnotexist")
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, data)
}

func TestHasReflectsPresence(t *testing.T) {
	c := newTestCache(t)
	ok, err := c.Has("missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.SetBytes("present", []byte("x")))
	ok, err = c.Has("present")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRemoveMissingKeyIsSuccess(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.Remove("never-existed"))
}

func TestRemoveDeletesEntry(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.SetBytes("k", []byte("v")))
	require.NoError(t, c.Remove("k"))

	ok, err := c.Has("k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestClearRemovesEverything(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.SetBytes("a", []byte("1")))
	require.NoError(t, c.SetBytes("b", []byte("2")))

	require.NoError(t, c.Clear())

	_, ok, _ := c.GetBytes("a")
	require.False(t, ok)
	_, ok, _ = c.GetBytes("b")
	require.False(t, ok)
}

func TestKeyValidationRejectsPathTraversal(t *testing.T) {
	c := newTestCache(t)

	cases := []string{"", "../escape", "a/b", "a\\b", "a..b", "has space", "semi;colon"}
	for _, key := range cases {
		_, _, err := c.GetBytes(key)
		require.ErrorIs(t, err, ErrInvalidKey, "key %q should be rejected", key)
	}
}

func TestSetBytesWritesToDisk(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, c.SetBytes("onfile", []byte("payload")))

	raw, err := os.ReadFile(filepath.Join(dir, "onfile"))
	require.NoError(t, err)
	require.Equal(t, "payload", string(raw))
}

func TestJSONRoundTrip(t *testing.T) {
	c := newTestCache(t)
	type payload struct {
		CacheKey string `json:"cache_key"`
		Count    int    `json:"count"`
	}
	want := payload{CacheKey: "deadbeef", Count: 3}

	require.NoError(t, c.SetJSON("deadbeef", want))

	var got payload
	ok, err := c.GetJSON("deadbeef", &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestJSONAndBytesKeyspacesDoNotCollide(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.SetBytes("samekey", []byte("raw")))
	require.NoError(t, c.SetJSON("samekey", map[string]string{"k": "typed"}))

	raw, ok, err := c.GetBytes("samekey")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("raw"), raw)

	var typed map[string]string
	ok, err = c.GetJSON("samekey", &typed)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "typed", typed["k"])
}
