package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

const (
	defaultCacheTTL     = time.Hour
	defaultCacheTimeout = 5 * time.Second
)

var (
	errCacheKeyRequired   = errors.New("cache key is required")
	errCacheValueRequired = errors.New("cache value is required")
)

type KeyType interface {
	string | uuid.UUID
}

// CacheBuilder issues a single cache command. A builder created with a nil
// client behaves as an always-empty cache: Get misses, Set and Delete are no-ops.
type CacheBuilder struct {
	client  valkey.Client
	key     string
	payload string
	ttl     time.Duration
	ctx     context.Context
	timeout time.Duration
	err     error
}

func NewCacheBuilder[K KeyType](client valkey.Client, key K) *CacheBuilder {
	builder := &CacheBuilder{
		client:  client,
		ttl:     defaultCacheTTL,
		ctx:     context.Background(),
		timeout: defaultCacheTimeout,
	}

	switch k := any(key).(type) {
	case string:
		builder.key = k
	case uuid.UUID:
		if k != uuid.Nil {
			builder.key = k.String()
		}
	}

	return builder
}

func (cb *CacheBuilder) WithValue(value string) *CacheBuilder {
	cb.payload = value
	return cb
}

// WithStruct stores value as JSON. Encoding errors surface from Set.
func (cb *CacheBuilder) WithStruct(value any) *CacheBuilder {
	encoded, err := json.Marshal(value)
	if err != nil {
		cb.err = fmt.Errorf("encode cache value: %w", err)
		return cb
	}

	cb.payload = string(encoded)
	return cb
}

// WithHash namespaces the key as "hash:key".
func (cb *CacheBuilder) WithHash(hash string) *CacheBuilder {
	if hash != "" && cb.key != "" {
		cb.key = hash + ":" + cb.key
	}
	return cb
}

func (cb *CacheBuilder) WithTTL(ttl time.Duration) *CacheBuilder {
	cb.ttl = ttl
	return cb
}

func (cb *CacheBuilder) WithContext(ctx context.Context) *CacheBuilder {
	if ctx != nil {
		cb.ctx = ctx
	}
	return cb
}

func (cb *CacheBuilder) WithTimeout(timeout time.Duration) *CacheBuilder {
	cb.timeout = timeout
	return cb
}

func (cb *CacheBuilder) Key() string {
	return cb.key
}

func (cb *CacheBuilder) Set() error {
	if err := cb.check(); err != nil {
		return err
	}
	if cb.payload == "" {
		return errCacheValueRequired
	}
	if cb.client == nil {
		return nil
	}

	ctx, cancel := cb.commandContext()
	defer cancel()

	command := cb.client.B().Set().Key(cb.key).Value(cb.payload).Ex(cb.ttl).Build()
	return cb.client.Do(ctx, command).Error()
}

// SetIfAbsent stores the value only when the key does not exist. It reports
// whether the value was written.
func (cb *CacheBuilder) SetIfAbsent() (bool, error) {
	if err := cb.check(); err != nil {
		return false, err
	}
	if cb.payload == "" {
		return false, errCacheValueRequired
	}
	if cb.client == nil {
		return false, nil
	}

	ctx, cancel := cb.commandContext()
	defer cancel()

	command := cb.client.B().Set().Key(cb.key).Value(cb.payload).Nx().Ex(cb.ttl).Build()
	err := cb.client.Do(ctx, command).Error()
	if valkey.IsValkeyNil(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Get decodes the cached JSON into result and reports whether the key was present.
func (cb *CacheBuilder) Get(result any) (bool, error) {
	if err := cb.check(); err != nil {
		return false, err
	}
	if cb.client == nil {
		return false, nil
	}

	ctx, cancel := cb.commandContext()
	defer cancel()

	raw, err := cb.client.Do(ctx, cb.client.B().Get().Key(cb.key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) || (err == nil && len(raw) == 0) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(raw, result); err != nil {
		return false, fmt.Errorf("decode cache value %q: %w", cb.key, err)
	}

	return true, nil
}

func (cb *CacheBuilder) Delete() error {
	if err := cb.check(); err != nil {
		return err
	}
	if cb.client == nil {
		return nil
	}

	ctx, cancel := cb.commandContext()
	defer cancel()

	return cb.client.Do(ctx, cb.client.B().Del().Key(cb.key).Build()).Error()
}

func (cb *CacheBuilder) check() error {
	if cb.err != nil {
		return cb.err
	}
	if cb.key == "" {
		return errCacheKeyRequired
	}
	return nil
}

// commandContext applies the builder timeout unless the caller's deadline is sooner.
func (cb *CacheBuilder) commandContext() (context.Context, context.CancelFunc) {
	if deadline, ok := cb.ctx.Deadline(); ok && time.Until(deadline) < cb.timeout {
		return context.WithCancel(cb.ctx)
	}
	return context.WithTimeout(cb.ctx, cb.timeout)
}
