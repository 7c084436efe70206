package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration test, runs only when TEST_REDIS_ADDR points at a server
func TestRedis_GetSetRemove(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	r := NewRedis(addr, 0, "storefront-test", time.Minute)
	t.Cleanup(func() { _ = r.Close() })
	require.NoError(t, r.Ping(ctx))

	require.NoError(t, r.Set(ctx, "wempyCart", `[{"variantId":1,"qty":1,"unitPrice":"5"}]`))
	v, ok, err := r.Get(ctx, "wempyCart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, v, "variantId")

	require.NoError(t, r.Remove(ctx, "wempyCart"))
	_, ok, err = r.Get(ctx, "wempyCart")
	require.NoError(t, err)
	assert.False(t, ok)
}
