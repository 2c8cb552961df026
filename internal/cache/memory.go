// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process store. Entries live until Clear or process exit.
type Memory struct {
	c *gocache.Cache
}

// NewMemory returns an empty in-process store with no expiry and no
// janitor goroutine.
func NewMemory() *Memory {
	return &Memory{c: gocache.New(gocache.NoExpiration, 0)}
}

// Get returns a copy of the stored bytes.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	x, found := m.c.Get(key)
	if !found {
		return nil, ErrMiss
	}
	stored := x.([]byte)
	out := make([]byte, len(stored))
	copy(out, stored)
	return out, nil
}

// Set stores a copy of value. An existing entry is left in place.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	// Add fails when the key exists, which keeps the first entry.
	_ = m.c.Add(key, stored, gocache.NoExpiration)
	return nil
}

// Clear drops every entry.
func (m *Memory) Clear(context.Context) error {
	m.c.Flush()
	return nil
}

// Close does nothing.
func (m *Memory) Close() error { return nil }

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	return m.c.ItemCount()
}
