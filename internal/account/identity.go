package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/wempy/storefront/internal/domain"
	"github.com/wempy/storefront/internal/storage"
)

// Identity holds the signed in user of one browser profile. It is always
// profile scoped so every read path sees the same user.
type Identity struct {
	kv  storage.Store
	key string
}

func NewIdentity(kv storage.Store, key string) *Identity {
	return &Identity{kv: kv, key: key}
}

// Current returns the signed in user id, if any
func (i *Identity) Current(ctx context.Context) (domain.ID, bool, error) {
	raw, ok, err := i.kv.Get(ctx, i.key)
	if err != nil {
		return "", false, fmt.Errorf("failed to read user identity: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" || raw == "null" {
		return "", false, nil
	}
	return domain.ID(raw), true, nil
}

func (i *Identity) Save(ctx context.Context, id domain.ID) error {
	if id.IsZero() {
		return fmt.Errorf("refusing to save an empty user id")
	}
	return i.kv.Set(ctx, i.key, id.String())
}

func (i *Identity) Clear(ctx context.Context) error {
	return i.kv.Remove(ctx, i.key)
}
