package storage

import (
	"context"

	"github.com/wempy/storefront/internal/domain"
)

// Store is a string key-value store
type Store interface {
	// Get returns the value under key and whether it exists
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Stores groups the backends of both persistence scopes
type Stores struct {
	Session Store
	Profile Store
}

// For returns the store of the given scope
func (s Stores) For(scope domain.Scope) Store {
	if scope == domain.ScopeSession {
		return s.Session
	}
	return s.Profile
}

// Namespaced returns both stores with keys confined under prefix, so that
// every browser profile sees its own keys.
func (s Stores) Namespaced(prefix string) Stores {
	return Stores{
		Session: Namespace(s.Session, prefix),
		Profile: Namespace(s.Profile, prefix),
	}
}

type namespaced struct {
	inner  Store
	prefix string
}

// Namespace prefixes every key with prefix + ":"
func Namespace(inner Store, prefix string) Store {
	return &namespaced{inner: inner, prefix: prefix + ":"}
}

func (n *namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Remove(ctx context.Context, key string) error {
	return n.inner.Remove(ctx, n.prefix+key)
}
