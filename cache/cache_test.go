package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *ResponseCache {
	t.Helper()

	c, err := New(t.TempDir())
	require.NoError(t, err)
	return c
}

func TestGetPut(t *testing.T) {
	assert := assert.New(t)
	c := newTestCache(t)

	t.Run("Miss", func(t *testing.T) {
		data, state := c.Get("friends", "1")
		assert.Equal(Miss, state)
		assert.Nil(data)
	})

	t.Run("Roundtrip", func(t *testing.T) {
		c.Put("friends", "1", json.RawMessage(`[2,3]`))

		data, state := c.Get("friends", "1")
		assert.Equal(Hit, state)
		assert.JSONEq(`[2,3]`, string(data))
	})

	t.Run("FileFormat", func(t *testing.T) {
		content, err := os.ReadFile(filepath.Join(c.Dir(), "friends-1.json"))
		require.NoError(t, err)
		assert.JSONEq(`{"data": [2,3]}`, string(content))
	})

	t.Run("NegativeEntry", func(t *testing.T) {
		c.Put("users", "9", nil)

		data, state := c.Get("users", "9")
		assert.Equal(NegativeHit, state)
		assert.Nil(data)

		content, err := os.ReadFile(filepath.Join(c.Dir(), "users-9.json"))
		require.NoError(t, err)
		assert.JSONEq(`{"data": null}`, string(content))
	})

	t.Run("CorruptEntry", func(t *testing.T) {
		path := filepath.Join(c.Dir(), "friends-7.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

		data, state := c.Get("friends", "7")
		assert.Equal(Miss, state)
		assert.Nil(data)
	})
}

func TestOnce(t *testing.T) {
	assert := assert.New(t)
	c := newTestCache(t)

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return []int64{2, 3, 5}, nil
	}

	first, err := c.Once("friends", "42", compute)
	assert.NoError(err)
	assert.JSONEq(`[2,3,5]`, string(first))
	assert.Equal(1, calls)

	second, err := c.Once("friends", "42", compute)
	assert.NoError(err)
	assert.Equal(string(first), string(second))
	assert.Equal(1, calls, "second call must be served from cache")
}

func TestOnceSurvivesRestart(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	c, err := New(dir)
	require.NoError(t, err)

	_, err = c.Once("friends", "42", func() (interface{}, error) {
		return []int64{1}, nil
	})
	require.NoError(t, err)

	// A fresh cache over the same directory simulates a new run.
	c2, err := New(dir)
	require.NoError(t, err)

	data, err := c2.Once("friends", "42", func() (interface{}, error) {
		t.Fatal("compute must not run on a warm cache")
		return nil, nil
	})
	assert.NoError(err)
	assert.JSONEq(`[1]`, string(data))
}

func TestBatch(t *testing.T) {
	assert := assert.New(t)

	t.Run("PartialHit", func(t *testing.T) {
		c := newTestCache(t)
		c.Put("users", "1", json.RawMessage(`{"id":1}`))
		c.Put("users", "2", json.RawMessage(`{"id":2}`))

		var computed []string
		results, err := c.Batch("users", []string{"1", "2", "3", "4"}, func(keys []string) ([]Entry, error) {
			computed = keys
			entries := make([]Entry, 0, len(keys))
			for _, key := range keys {
				entries = append(entries, Entry{ArgKey: key, Data: json.RawMessage(`{"id":` + key + `}`)})
			}
			return entries, nil
		})

		assert.NoError(err)
		assert.Equal([]string{"3", "4"}, computed, "only uncached keys reach the compute function")
		assert.Len(results, 4)
		for _, raw := range results {
			assert.NotNil(raw)
		}
	})

	t.Run("AllHits", func(t *testing.T) {
		c := newTestCache(t)
		c.Put("users", "1", json.RawMessage(`{"id":1}`))

		results, err := c.Batch("users", []string{"1"}, func(keys []string) ([]Entry, error) {
			t.Fatal("compute must not run when every key hits")
			return nil, nil
		})
		assert.NoError(err)
		assert.Len(results, 1)
	})

	t.Run("NegativePersistence", func(t *testing.T) {
		c := newTestCache(t)

		results, err := c.Batch("users", []string{"8", "9"}, func(keys []string) ([]Entry, error) {
			entries := make([]Entry, 0, len(keys))
			for _, key := range keys {
				entries = append(entries, Entry{ArgKey: key})
			}
			return entries, nil
		})
		assert.NoError(err)
		assert.Empty(results, "negative entries are excluded from results")

		// Second round must be answered entirely by the negative entries.
		results, err = c.Batch("users", []string{"8", "9"}, func(keys []string) ([]Entry, error) {
			t.Fatal("negative entries must not be recomputed")
			return nil, nil
		})
		assert.NoError(err)
		assert.Empty(results)
	})
}

func TestClearAndStats(t *testing.T) {
	assert := assert.New(t)
	c := newTestCache(t)

	c.Put("friends", "1", json.RawMessage(`[]`))
	c.Put("friends", "2", json.RawMessage(`[]`))
	c.Put("users", "1", json.RawMessage(`{"id":1}`))

	stats, err := c.Stats()
	assert.NoError(err)
	assert.Equal(map[string]int{"friends": 2, "users": 1}, stats)

	removed, err := c.Clear()
	assert.NoError(err)
	assert.Equal(3, removed)

	_, state := c.Get("friends", "1")
	assert.Equal(Miss, state)
}
