package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
)

// ResponseCache is a content-addressed store of AI analysis results, backed
// by a single JSON file so results survive process restarts. The file is
// loaded fully into memory on first access and rewritten in full on every
// put; the mutex serializes the read-modify-write cycle because the
// full-file strategy is not safe under concurrent writers. Entries are never
// evicted.
type ResponseCache struct {
	path string

	mu      sync.Mutex
	entries map[string]json.RawMessage
	loaded  bool
}

// NewResponseCache creates a cache backed by the file at path. The file is
// created empty on the first put if it does not exist.
func NewResponseCache(path string) *ResponseCache {
	return &ResponseCache{path: path}
}

// MakeKey computes a stable digest over prefix and the canonical JSON
// serialization of inputs. Identical logical inputs (order-sensitive) always
// hash to the identical key across calls and process restarts.
func MakeKey(prefix string, inputs any) string {
	b, err := json.Marshal(inputs)
	if err != nil {
		// Record slices and result structs always marshal; a failure here
		// means a programming error, so key on the error text rather than
		// poisoning unrelated entries.
		b = []byte(err.Error())
	}
	h := sha256.New()
	h.Write([]byte(prefix))
	h.Write([]byte{':'})
	h.Write(b)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the raw cached value for key, if present.
func (c *ResponseCache) Get(key string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.load()
	v, ok := c.entries[key]
	return v, ok
}

// GetInto unmarshals the cached value for key into out. It reports false on
// a miss or if the stored value no longer matches the expected shape.
func (c *ResponseCache) GetInto(key string, out any) bool {
	raw, ok := c.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("Cache entry %s is malformed, ignoring: %v", key, err)
		return false
	}
	return true
}

// Put stores value under key and rewrites the backing file.
func (c *ResponseCache) Put(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize cache value: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.load()
	c.entries[key] = raw

	data, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("failed to serialize cache file: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file %s: %w", c.path, err)
	}
	return nil
}

// Len returns the number of cached entries.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.load()
	return len(c.entries)
}

// load reads the backing file once. Callers must hold c.mu.
func (c *ResponseCache) load() {
	if c.loaded {
		return
	}
	c.loaded = true
	c.entries = make(map[string]json.RawMessage)

	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Failed to read cache file %s, starting empty: %v", c.path, err)
		}
		return
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		log.Printf("Cache file %s is corrupt, starting empty: %v", c.path, err)
		c.entries = make(map[string]json.RawMessage)
	}
}
