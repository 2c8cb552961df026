// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache memoizes extraction results by content. Keys are derived
// from the exact input text plus any parameters that shape the result;
// entries never expire and are never rewritten once stored.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-analyzer/pkg/types"
)

// ErrMiss is returned by Store.Get when the key is absent.
var ErrMiss = errors.New("cache miss")

// DefaultPrefix namespaces keys in shared stores.
const DefaultPrefix = "paper-analyzer:"

// Store is a byte-oriented key/value cache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error
	Close() error
}

// New opens the store selected by cfg.Backend. An empty backend means memory.
func New(ctx context.Context, cfg types.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case "", types.CacheMemory:
		return NewMemory(), nil
	case types.CacheRedis:
		prefix := cfg.Prefix
		if prefix == "" {
			prefix = DefaultPrefix
		}
		return NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, prefix)
	case types.CacheNone:
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Key derives a content address for parts under namespace. Parts are
// length-delimited so ("ab", "c") and ("a", "bc") differ.
func Key(namespace string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%d:", len(p))
		h.Write([]byte(p))
	}
	return namespace + ":" + hex.EncodeToString(h.Sum(nil))
}

// Memoize returns the cached value for key, or computes it with fn and
// stores the JSON encoding. Cache failures are logged and otherwise
// ignored: the cache never changes a result, only whether fn runs. An
// error from fn is returned as is and nothing is stored.
func Memoize[T any](ctx context.Context, s Store, key string, fn func() (T, error)) (T, error) {
	data, err := s.Get(ctx, key)
	switch {
	case err == nil:
		var v T
		uerr := json.Unmarshal(data, &v)
		if uerr == nil {
			return v, nil
		}
		zap.L().Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(uerr))
	case !errors.Is(err, ErrMiss):
		zap.L().Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	v, err := fn()
	if err != nil {
		return v, err
	}

	if data, merr := json.Marshal(v); merr != nil {
		zap.L().Warn("encoding cache entry", zap.String("key", key), zap.Error(merr))
	} else if serr := s.Set(ctx, key, data); serr != nil {
		zap.L().Warn("cache write failed", zap.String("key", key), zap.Error(serr))
	}
	return v, nil
}

// Nop caches nothing.
type Nop struct{}

// Get always misses.
func (Nop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }

// Set discards the value.
func (Nop) Set(context.Context, string, []byte) error { return nil }

// Clear does nothing.
func (Nop) Clear(context.Context) error { return nil }

// Close does nothing.
func (Nop) Close() error { return nil }
