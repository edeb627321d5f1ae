// SPDX-License-Identifier: EPL-2.0

package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"
)

const (
	// Key is the store key of the history document.
	Key = "audfx-history"

	// Capacity is the maximum number of items kept.
	Capacity = 8

	// DefaultPayloadWindow is how many recent items keep their payload.
	DefaultPayloadWindow = 3

	// DocumentVersion is written into every persisted document.
	DocumentVersion = "1.0.0"

	supportedVersions = "^1.0"
)

type document struct {
	Version string `json:"version"`
	Items   []Item `json:"items"`
}

// Cache is the list of recent exports, most recent first. Every mutation
// writes the whole list back to the store.
type Cache struct {
	mu     sync.Mutex
	store  Store
	items  []Item
	window int
	log    *logrus.Logger
}

type Option func(*Cache)

func WithLogger(l *logrus.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

// WithPayloadWindow sets how many recent items keep their payload. Zero
// drops every payload.
func WithPayloadWindow(n int) Option {
	return func(c *Cache) {
		if n >= 0 {
			c.window = n
		}
	}
}

func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:  store,
		window: DefaultPayloadWindow,
		log:    logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Load replaces the in-memory list with the persisted one. A missing
// document gives an empty list; so does a corrupt one, which is logged.
// Only store failures are returned.
func (c *Cache) Load() ([]Item, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil

	data, err := c.store.Get(Key)
	if errors.Is(err, ErrNotFound) {
		return []Item{}, nil
	}
	if err != nil {
		return []Item{}, fmt.Errorf("loading history: %w", err)
	}

	items, err := decode(data)
	if err != nil {
		c.log.WithError(err).WithField("key", Key).Warn("discarding history")
		return []Item{}, nil
	}

	c.items = c.trim(items)
	return c.copyItems(), nil
}

// Record puts item first, evicts what falls past Capacity and persists
// the list. The in-memory list is updated even when persisting fails.
func (c *Cache) Record(item Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]Item, 0, len(c.items)+1)
	items = append(items, item)
	items = append(items, c.items...)
	c.items = c.trim(items)

	return c.persist()
}

// Clear empties the list and persists it.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	return c.persist()
}

// Items returns a copy of the list, most recent first.
func (c *Cache) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyItems()
}

func (c *Cache) copyItems() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cache) trim(items []Item) []Item {
	if len(items) > Capacity {
		items = items[:Capacity]
	}
	for i := c.window; i < len(items); i++ {
		items[i].Payload = ""
	}
	return items
}

func (c *Cache) persist() error {
	items := c.items
	if items == nil {
		items = []Item{}
	}

	data, err := json.Marshal(document{Version: DocumentVersion, Items: items})
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	if err := c.store.Set(Key, data); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

// decode accepts the versioned document and the older bare array.
func decode(data []byte) ([]Item, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrCorrupt)
	}

	if data[0] == '[' {
		var legacy []legacyItem
		if err := json.Unmarshal(data, &legacy); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		items := make([]Item, len(legacy))
		for i, l := range legacy {
			items[i] = l.item()
		}
		return items, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if err := checkVersion(doc.Version); err != nil {
		return nil, err
	}
	if doc.Items == nil {
		doc.Items = []Item{}
	}
	return doc.Items, nil
}

func checkVersion(v string) error {
	version, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: version %q: %w", ErrCorrupt, v, err)
	}
	constraint, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	if !constraint.Check(version) {
		return fmt.Errorf("%w: unsupported version %s", ErrCorrupt, version)
	}
	return nil
}
