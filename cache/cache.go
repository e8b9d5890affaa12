package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	memcache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

// State is the outcome of a cache lookup.
type State int

const (
	// Miss means no usable entry exists and the caller must compute.
	Miss State = iota

	// Hit means a payload was found.
	Hit

	// NegativeHit means an entry exists but records a null payload: the
	// remote side was asked before and could not resolve the key.
	NegativeHit
)

// Entry is the unit of memoization for batch lookups. A nil Data marks a
// negative result that is persisted so the next run does not re-ask.
type Entry struct {
	ArgKey string
	Data   json.RawMessage
}

// BatchFunc computes entries for keys missing from the cache, one Entry
// per requested key, each tagged with its originating ArgKey.
type BatchFunc func(keys []string) ([]Entry, error)

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// ResponseCache memoizes remote responses as one JSON file per entry,
// named <fn>-<key>.json with body {"data": <payload>}. An in-memory layer
// in front of the files keeps a single run from re-reading entries it has
// already touched.
type ResponseCache struct {
	dir string
	mem *memcache.Cache
}

// New opens (and creates if necessary) the cache directory at dir.
func New(dir string) (*ResponseCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating cache directory %s: %w", dir, err)
	}
	return &ResponseCache{
		dir: dir,
		mem: memcache.New(memcache.NoExpiration, 0),
	}, nil
}

// Dir returns the cache directory.
func (c *ResponseCache) Dir() string {
	return c.dir
}

func (c *ResponseCache) path(fn, key string) string {
	return filepath.Join(c.dir, fmt.Sprintf("%s-%s.json", fn, key))
}

func isNull(data json.RawMessage) bool {
	return len(data) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

// Get looks up the payload stored for fn and key. Read and parse failures
// are reported as a Miss, never as an error.
func (c *ResponseCache) Get(fn, key string) (json.RawMessage, State) {
	path := c.path(fn, key)

	if v, ok := c.mem.Get(path); ok {
		data := v.(json.RawMessage)
		if isNull(data) {
			return nil, NegativeHit
		}
		return data, Hit
	}

	content, err := os.ReadFile(path)
	if err != nil {
		log.WithField("key", key).Debugf("missed cache for %s", fn)
		return nil, Miss
	}

	var env envelope
	if err := json.Unmarshal(content, &env); err != nil {
		log.WithError(err).Warnf("corrupt cache entry %s", path)
		return nil, Miss
	}

	if isNull(env.Data) {
		c.mem.Set(path, json.RawMessage(nil), memcache.NoExpiration)
		return nil, NegativeHit
	}

	c.mem.Set(path, env.Data, memcache.NoExpiration)
	return env.Data, Hit
}

// Put stores data for fn and key, overwriting any existing entry. A nil
// data records a negative result. Write failures are logged and swallowed:
// the worst case is a miss on the next run.
func (c *ResponseCache) Put(fn, key string, data json.RawMessage) {
	path := c.path(fn, key)

	if isNull(data) {
		data = nil
	}

	body, err := json.MarshalIndent(envelope{Data: data}, "", "  ")
	if err != nil {
		log.WithError(err).Errorf("error encoding cache entry %s", path)
		return
	}

	if err := os.WriteFile(path, body, 0644); err != nil {
		log.WithError(err).Errorf("error writing cache entry %s", path)
		return
	}

	c.mem.Set(path, data, memcache.NoExpiration)
}

// Once memoizes a single-key computation: on a miss it invokes compute,
// stores the encoded result and returns it; any non-miss state returns
// the stored payload (nil for a negative entry) without computing.
func (c *ResponseCache) Once(fn, key string, compute func() (interface{}, error)) (json.RawMessage, error) {
	if data, state := c.Get(fn, key); state != Miss {
		return data, nil
	}

	v, err := compute()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("error encoding %s result: %w", fn, err)
	}

	c.Put(fn, key, data)
	return data, nil
}

// Batch memoizes a bulk computation. Every key is looked up individually;
// missing keys are handed to compute in one call, and every computed entry
// is persisted, negatives included. The returned payloads are cache hits
// first, then fresh results -- never request order -- and never contain a
// negative entry.
func (c *ResponseCache) Batch(fn string, keys []string, compute BatchFunc) ([]json.RawMessage, error) {
	var (
		hits   []json.RawMessage
		missed []string
	)

	for _, key := range keys {
		switch data, state := c.Get(fn, key); state {
		case Hit:
			hits = append(hits, data)
		case Miss:
			missed = append(missed, key)
		}
		// NegativeHit: known unresolvable, skip without recomputing.
	}

	log.WithFields(log.Fields{
		"fn":     fn,
		"hits":   len(hits),
		"misses": len(missed),
	}).Debug("bundle cache")

	if len(missed) == 0 {
		return hits, nil
	}

	entries, err := compute(missed)
	if err != nil {
		return nil, err
	}

	results := hits
	for _, entry := range entries {
		c.Put(fn, entry.ArgKey, entry.Data)
		if !isNull(entry.Data) {
			results = append(results, entry.Data)
		}
	}

	return results, nil
}

// Clear removes every entry file and resets the in-memory layer. It
// returns the number of entries removed.
func (c *ResponseCache) Clear() (int, error) {
	paths, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("error removing cache entry %s: %w", path, err)
		}
		removed++
	}

	c.mem.Flush()
	return removed, nil
}

// Stats counts on-disk entries grouped by function name.
func (c *ResponseCache) Stats() (map[string]int, error) {
	paths, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".json")
		fn, _, found := strings.Cut(name, "-")
		if !found {
			continue
		}
		counts[fn]++
	}

	return counts, nil
}
