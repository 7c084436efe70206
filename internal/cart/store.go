package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wempy/storefront/internal/domain"
	"github.com/wempy/storefront/internal/storage"
	"github.com/wempy/storefront/pkg/errors"
)

var validate = validator.New()

// Store owns the persisted cart of one profile
type Store struct {
	kv        storage.Store
	key       string
	mu        *sync.Mutex
	fee       func() *decimal.Decimal
	listeners []func(Summary)
	logger    *zap.Logger
}

type Option func(*Store)

// WithLock serialises read-modify-write cycles with every Store sharing mu
func WithLock(mu *sync.Mutex) Option {
	return func(s *Store) { s.mu = mu }
}

// WithDeliveryFee sets where the running total takes its delivery fee from
func WithDeliveryFee(fee func() *decimal.Decimal) Option {
	return func(s *Store) { s.fee = fee }
}

// OnChange registers fn to be called with the new summary after every write
func OnChange(fn func(Summary)) Option {
	return func(s *Store) { s.listeners = append(s.listeners, fn) }
}

// NewStore creates a cart store persisting under key
func NewStore(kv storage.Store, key string, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    key,
		mu:     &sync.Mutex{},
		fee:    func() *decimal.Decimal { return nil },
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read returns the persisted cart. Absent or malformed data reads as an
// empty cart; only a storage failure is an error.
func (s *Store) Read(ctx context.Context) (domain.Cart, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return domain.Cart{}, nil
	}

	var c domain.Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		s.logger.Warn("Discarding malformed cart", zap.String("key", s.key), zap.Error(err))
		return domain.Cart{}, nil
	}
	for i, item := range c {
		if err := checkItem(item); err != nil {
			s.logger.Warn("Discarding malformed cart",
				zap.String("key", s.key),
				zap.Int("row", i),
				zap.Error(err),
			)
			return domain.Cart{}, nil
		}
	}
	if c == nil {
		c = domain.Cart{}
	}
	return c, nil
}

// Write persists the cart and refreshes every listener
func (s *Store) Write(ctx context.Context, c domain.Cart) error {
	if c == nil {
		c = domain.Cart{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("failed to write cart: %w", err)
	}
	s.notify(c)
	return nil
}

// Clear destroys the persisted cart
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	s.notify(domain.Cart{})
	return nil
}

// AddOrIncrement adds qty of item. A row with the same identity key has its
// quantity increased instead of a second row being appended.
func (s *Store) AddOrIncrement(ctx context.Context, item domain.LineItem, qty int) (domain.Cart, error) {
	if qty < 1 {
		return nil, &errors.ErrValidation{Reason: errors.ReasonInvalidQuantity, Message: "quantity must be at least 1"}
	}
	if item.VariantID == 0 && item.ID == "" {
		return nil, &errors.ErrValidation{Reason: errors.ReasonUnorderableItem, Message: "item has no identity"}
	}
	if item.UnitPrice.IsNegative() {
		return nil, &errors.ErrValidation{Reason: errors.ReasonInvalidPrice, Message: "unit price must not be negative"}
	}

	return s.mutate(ctx, func(c domain.Cart) (domain.Cart, error) {
		if idx := c.IndexOf(item.Key()); idx >= 0 {
			c[idx].Qty += qty
			return c, nil
		}
		item.Qty = qty
		return append(c, item), nil
	})
}

// SetQuantity sets the quantity of the row at index, clamped at 0.
// A quantity of 0 removes the row.
func (s *Store) SetQuantity(ctx context.Context, index, qty int) (domain.Cart, error) {
	return s.mutate(ctx, func(c domain.Cart) (domain.Cart, error) {
		if err := checkIndex(c, index); err != nil {
			return nil, err
		}
		if qty <= 0 {
			return removeAt(c, index), nil
		}
		c[index].Qty = qty
		return c, nil
	})
}

// Increment adds one to the row at index
func (s *Store) Increment(ctx context.Context, index int) (domain.Cart, error) {
	return s.mutate(ctx, func(c domain.Cart) (domain.Cart, error) {
		if err := checkIndex(c, index); err != nil {
			return nil, err
		}
		c[index].Qty++
		return c, nil
	})
}

// Decrement removes one from the row at index, dropping the row at 0
func (s *Store) Decrement(ctx context.Context, index int) (domain.Cart, error) {
	return s.mutate(ctx, func(c domain.Cart) (domain.Cart, error) {
		if err := checkIndex(c, index); err != nil {
			return nil, err
		}
		if c[index].Qty <= 1 {
			return removeAt(c, index), nil
		}
		c[index].Qty--
		return c, nil
	})
}

// Remove deletes the row at index unconditionally
func (s *Store) Remove(ctx context.Context, index int) (domain.Cart, error) {
	return s.mutate(ctx, func(c domain.Cart) (domain.Cart, error) {
		if err := checkIndex(c, index); err != nil {
			return nil, err
		}
		return removeAt(c, index), nil
	})
}

// Subtract takes ordered quantities out of the cart, dropping rows that
// reach zero. Rows and quantities that were not ordered stay.
func (s *Store) Subtract(ctx context.Context, ordered []domain.OrderItem) (domain.Cart, error) {
	return s.mutate(ctx, func(c domain.Cart) (domain.Cart, error) {
		for _, item := range ordered {
			remaining := item.Quantity
			for i := range c {
				if remaining <= 0 {
					break
				}
				if c[i].VariantID != item.VariantID || c[i].Qty <= 0 {
					continue
				}
				taken := remaining
				if taken > c[i].Qty {
					taken = c[i].Qty
				}
				c[i].Qty -= taken
				remaining -= taken
			}
		}

		out := make(domain.Cart, 0, len(c))
		for _, row := range c {
			if row.Qty > 0 {
				out = append(out, row)
			}
		}
		return out, nil
	})
}

// Summary returns the HUD indicators of the persisted cart
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	c, err := s.Read(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(c, s.fee()), nil
}

// Totals prices the persisted cart with the configured delivery fee
func (s *Store) Totals(ctx context.Context) (domain.Totals, error) {
	c, err := s.Read(ctx)
	if err != nil {
		return domain.Totals{}, err
	}
	return ComputeTotals(c, s.fee()), nil
}

func (s *Store) mutate(ctx context.Context, fn func(domain.Cart) (domain.Cart, error)) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Read(ctx)
	if err != nil {
		return nil, err
	}
	c, err = fn(c)
	if err != nil {
		return nil, err
	}
	if err := s.Write(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) notify(c domain.Cart) {
	if len(s.listeners) == 0 {
		return
	}
	summary := Summarize(c, s.fee())
	for _, fn := range s.listeners {
		fn(summary)
	}
}

func checkItem(item domain.LineItem) error {
	if err := validate.Struct(item); err != nil {
		return err
	}
	if item.UnitPrice.IsNegative() {
		return fmt.Errorf("negative unit price %s", item.UnitPrice)
	}
	return nil
}

func checkIndex(c domain.Cart, index int) error {
	if index < 0 || index >= len(c) {
		return &errors.ErrNotFound{Resource: "cart row", ID: strconv.Itoa(index)}
	}
	return nil
}

func removeAt(c domain.Cart, index int) domain.Cart {
	out := make(domain.Cart, 0, len(c)-1)
	out = append(out, c[:index]...)
	return append(out, c[index+1:]...)
}
