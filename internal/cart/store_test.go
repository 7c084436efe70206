package cart

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wempy/storefront/internal/domain"
	"github.com/wempy/storefront/internal/storage"
	"github.com/wempy/storefront/pkg/errors"
)

const testKey = "wempyCart"

func newTestStore(t *testing.T, opts ...Option) (*Store, *storage.Memory) {
	t.Helper()
	kv := storage.NewMemory(0)
	return NewStore(kv, testKey, zap.NewNop(), opts...), kv
}

func shawarma(variantID int64, price string) domain.LineItem {
	return domain.LineItem{VariantID: variantID, Name: "شاورما", UnitPrice: dec(price), Category: "category-1"}
}

func TestStore_ReadEmptyWhenAbsent(t *testing.T) {
	store, _ := newTestStore(t)

	c, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Empty(t, c)
}

func TestStore_ReadEmptyWhenMalformed(t *testing.T) {
	ctx := context.Background()
	cases := map[string]string{
		"not json":       "{oops",
		"null":           "null",
		"wrong shape":    `{"variantId": 1}`,
		"zero quantity":  `[{"variantId": 1, "unitPrice": "10", "qty": 0}]`,
		"no identity":    `[{"name": "x", "unitPrice": "10", "qty": 1}]`,
		"negative price": `[{"variantId": 1, "unitPrice": "-1", "qty": 1}]`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			store, kv := newTestStore(t)
			require.NoError(t, kv.Set(ctx, testKey, raw))

			c, err := store.Read(ctx)
			require.NoError(t, err)
			assert.Empty(t, c)
		})
	}
}

func TestStore_ReadLegacyNumericPrices(t *testing.T) {
	ctx := context.Background()
	store, kv := newTestStore(t)
	require.NoError(t, kv.Set(ctx, testKey, `[{"variantId":3,"name":"فول","unitPrice":12.5,"qty":2,"image":"","category":"category-2"}]`))

	c, err := store.Read(ctx)
	require.NoError(t, err)
	require.Len(t, c, 1)
	assert.True(t, dec("12.5").Equal(c[0].UnitPrice))
	assert.Equal(t, 2, c[0].Qty)
}

func TestStore_AddOrIncrementMergesByIdentity(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, err := store.AddOrIncrement(ctx, shawarma(10, "25"), 1)
	require.NoError(t, err)
	_, err = store.AddOrIncrement(ctx, shawarma(11, "40"), 1)
	require.NoError(t, err)

	c, err := store.AddOrIncrement(ctx, shawarma(10, "25"), 3)
	require.NoError(t, err)

	require.Len(t, c, 2)
	assert.Equal(t, int64(10), c[0].VariantID)
	assert.Equal(t, 4, c[0].Qty)
	assert.Equal(t, 5, c.TotalQty())

	persisted, err := store.Read(ctx)
	require.NoError(t, err)
	require.Len(t, persisted, 2)
	assert.Equal(t, 4, persisted[0].Qty)
	assert.Equal(t, int64(11), persisted[1].VariantID)
}

func TestStore_AddOrIncrementLocalItems(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	item := domain.LineItem{ID: "7-كبير", Name: "بيتزا (كبير)", UnitPrice: dec("60")}
	_, err := store.AddOrIncrement(ctx, item, 1)
	require.NoError(t, err)
	c, err := store.AddOrIncrement(ctx, item, 2)
	require.NoError(t, err)

	require.Len(t, c, 1)
	assert.Equal(t, 3, c[0].Qty)
}

func TestStore_AddOrIncrementRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	_, err := store.AddOrIncrement(ctx, shawarma(1, "10"), 0)
	var verr *errors.ErrValidation
	require.True(t, stderrors.As(err, &verr))
	assert.Equal(t, errors.ReasonInvalidQuantity, verr.Reason)

	_, err = store.AddOrIncrement(ctx, shawarma(1, "-3"), 1)
	require.True(t, stderrors.As(err, &verr))
	assert.Equal(t, errors.ReasonInvalidPrice, verr.Reason)

	_, err = store.AddOrIncrement(ctx, domain.LineItem{Name: "x", UnitPrice: dec("1")}, 1)
	require.True(t, stderrors.As(err, &verr))
	assert.Equal(t, errors.ReasonUnorderableItem, verr.Reason)

	c, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, c)
}

func TestStore_SetQuantityZeroRemovesRow(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	for _, id := range []int64{1, 2, 3} {
		_, err := store.AddOrIncrement(ctx, shawarma(id, "5"), 1)
		require.NoError(t, err)
	}

	c, err := store.SetQuantity(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, c, 2)
	assert.Equal(t, int64(1), c[0].VariantID)
	assert.Equal(t, int64(3), c[1].VariantID)

	c, err = store.SetQuantity(ctx, 0, -4)
	require.NoError(t, err)
	require.Len(t, c, 1)
	assert.Equal(t, int64(3), c[0].VariantID)

	c, err = store.SetQuantity(ctx, 0, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, c[0].Qty)
}

func TestStore_IncrementDecrement(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	_, err := store.AddOrIncrement(ctx, shawarma(1, "5"), 1)
	require.NoError(t, err)

	c, err := store.Increment(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, c[0].Qty)

	c, err = store.Decrement(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, c[0].Qty)

	c, err = store.Decrement(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, c)
}

func TestStore_RemoveAndIndexErrors(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	_, err := store.AddOrIncrement(ctx, shawarma(1, "5"), 9)
	require.NoError(t, err)

	_, err = store.Remove(ctx, 3)
	var nf *errors.ErrNotFound
	require.True(t, stderrors.As(err, &nf))

	_, err = store.SetQuantity(ctx, -1, 2)
	require.True(t, stderrors.As(err, &nf))

	c, err := store.Remove(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, c)
}

func TestStore_WriteNotifiesListeners(t *testing.T) {
	ctx := context.Background()
	fee := dec("10")
	var summaries []Summary
	store, _ := newTestStore(t,
		WithDeliveryFee(func() *decimal.Decimal { return &fee }),
		OnChange(func(s Summary) { summaries = append(summaries, s) }),
	)

	_, err := store.AddOrIncrement(ctx, shawarma(1, "25"), 2)
	require.NoError(t, err)
	_, err = store.AddOrIncrement(ctx, shawarma(2, "40"), 1)
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx))

	require.Len(t, summaries, 3)
	assert.Equal(t, 3, summaries[1].ItemCount)
	assert.True(t, dec("90").Equal(summaries[1].Totals.Subtotal))
	assert.True(t, dec("100").Equal(summaries[1].Totals.Total))
	assert.False(t, summaries[2].Visible)
}

func TestStore_ClearThenReadIsEmpty(t *testing.T) {
	ctx := context.Background()
	store, kv := newTestStore(t)
	_, err := store.AddOrIncrement(ctx, shawarma(1, "5"), 1)
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx))
	assert.Zero(t, kv.Len())

	c, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, c)
}

func TestStore_SubtractKeepsUnorderedRows(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	_, err := store.AddOrIncrement(ctx, shawarma(1, "5"), 3)
	require.NoError(t, err)
	_, err = store.AddOrIncrement(ctx, shawarma(2, "7"), 1)
	require.NoError(t, err)
	_, err = store.AddOrIncrement(ctx, domain.LineItem{ID: "12-كبير", Name: "عصير", UnitPrice: dec("15")}, 1)
	require.NoError(t, err)

	c, err := store.Subtract(ctx, []domain.OrderItem{{VariantID: 1, Quantity: 2}, {VariantID: 2, Quantity: 5}, {VariantID: 9, Quantity: 1}})
	require.NoError(t, err)

	require.Len(t, c, 2)
	assert.Equal(t, int64(1), c[0].VariantID)
	assert.Equal(t, 1, c[0].Qty)
	assert.Equal(t, "12-كبير", c[1].ID)

	persisted, err := store.Read(ctx)
	require.NoError(t, err)
	require.Len(t, persisted, 2)
	assert.Equal(t, 1, persisted[0].Qty)
	assert.Equal(t, 1, persisted[1].Qty)
}

func TestStore_SharedLockKeepsConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory(0)
	var locks Locks

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store := NewStore(kv, testKey, zap.NewNop(), WithLock(locks.For("profile-1")))
			_, err := store.AddOrIncrement(ctx, shawarma(1, "5"), 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	c, err := NewStore(kv, testKey, zap.NewNop()).Read(ctx)
	require.NoError(t, err)
	require.Len(t, c, 1)
	assert.Equal(t, 20, c[0].Qty)
}
