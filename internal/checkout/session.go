package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wempy/storefront/internal/domain"
	"github.com/wempy/storefront/internal/storage"
	"github.com/wempy/storefront/pkg/errors"
)

// Address form fields. Editing any of them drops a saved address selection.
const (
	FieldName     = "name"
	FieldPhone    = "phone"
	FieldPhone2   = "phone2"
	FieldBuilding = "building"
	FieldStreet   = "street"
	FieldCity     = "city"
)

// Session is the checkout state of one browser tab: the choices made on the
// cart page, passed explicitly to the orchestrator.
type Session struct {
	Zone           *domain.Zone       `json:"zone,omitempty"`
	PaymentID      int                `json:"payment_id,omitempty"`
	SavedAddressID int                `json:"saved_address_id,omitempty"`
	Form           domain.AddressForm `json:"form"`
	ExternalNotes  string             `json:"external_notes"`
}

// SelectZone sets the delivery zone. The zone is part of the address, so a
// saved address selection is dropped. A nil zone clears the selection.
func (s *Session) SelectZone(zone *domain.Zone) {
	s.Zone = zone
	s.SavedAddressID = 0
}

func (s *Session) SelectPayment(paymentID int) {
	s.PaymentID = paymentID
}

// SelectSavedAddress fills the form from addr and reuses its id on submit.
// zones resolves the address zone, it may be nil.
func (s *Session) SelectSavedAddress(addr domain.Address, zones []domain.Zone) {
	s.Form.Name = addr.RecipientName
	s.Form.Phone = addr.RecipientPhone
	s.Form.Phone2 = deref(addr.Phone2)
	s.Form.Building = addr.Building
	s.Form.Street = addr.Street
	s.Form.City = addr.City
	if notes := deref(addr.DeliveryNotes); notes != "" {
		s.Form.Notes = notes
	}
	for i := range zones {
		if zones[i].ZoneID == addr.ZoneID {
			zone := zones[i]
			s.Zone = &zone
			break
		}
	}
	s.SavedAddressID = addr.AddressID
}

// EditField changes one address field, invalidating any saved selection
func (s *Session) EditField(field, value string) error {
	switch field {
	case FieldName:
		s.Form.Name = value
	case FieldPhone:
		s.Form.Phone = value
	case FieldPhone2:
		s.Form.Phone2 = value
	case FieldBuilding:
		s.Form.Building = value
	case FieldStreet:
		s.Form.Street = value
	case FieldCity:
		s.Form.City = value
	default:
		return &errors.ErrNotFound{Resource: "address field", ID: field}
	}
	s.SavedAddressID = 0
	return nil
}

// SetNotes sets the order notes and the free text external items
func (s *Session) SetNotes(orderNotes, externalNotes string) {
	s.Form.Notes = orderNotes
	s.ExternalNotes = externalNotes
}

// RefreshZone replaces the selected zone snapshot with its current version
// from zones. A zone no longer offered is deselected like SelectZone(nil).
// It reports whether the session changed.
func (s *Session) RefreshZone(zones []domain.Zone) bool {
	if s.Zone == nil {
		return false
	}
	for i := range zones {
		if zones[i].ZoneID != s.Zone.ZoneID {
			continue
		}
		if zones[i].ZoneName == s.Zone.ZoneName && zones[i].DeliveryCost.Equal(s.Zone.DeliveryCost) {
			return false
		}
		zone := zones[i]
		s.Zone = &zone
		return true
	}
	s.SelectZone(nil)
	return true
}

// DeliveryFee returns the fee of the selected zone, nil when none is selected
func (s *Session) DeliveryFee() *decimal.Decimal {
	if s == nil || s.Zone == nil {
		return nil
	}
	fee := s.Zone.DeliveryCost
	return &fee
}

// AddressInput builds the address creation body. Missing values fall back
// to placeholders and optional fields are sent as null.
func (s *Session) AddressInput(defaultCity string) domain.AddressInput {
	input := domain.AddressInput{
		RecipientName:  orPlaceholder(s.Form.Name),
		Street:         orPlaceholder(s.Form.Street),
		Building:       strings.TrimSpace(s.Form.Building),
		City:           strings.TrimSpace(s.Form.City),
		RecipientPhone: orPlaceholder(s.Form.Phone),
		Phone2:         optional(s.Form.Phone2),
		DeliveryNotes:  optional(s.Form.Notes),
	}
	if input.City == "" {
		input.City = defaultCity
	}
	if s.Zone != nil {
		input.ZoneID = s.Zone.ZoneID
	}
	return input
}

// SessionStore persists Sessions as JSON under one key
type SessionStore struct {
	kv     storage.Store
	key    string
	mu     *sync.Mutex
	logger *zap.Logger
}

type SessionOption func(*SessionStore)

// WithSessionLock serialises Update cycles with every SessionStore sharing mu
func WithSessionLock(mu *sync.Mutex) SessionOption {
	return func(st *SessionStore) { st.mu = mu }
}

func NewSessionStore(kv storage.Store, key string, logger *zap.Logger, opts ...SessionOption) *SessionStore {
	st := &SessionStore{kv: kv, key: key, mu: &sync.Mutex{}, logger: logger}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// Update loads the session, applies fn and saves the result under the
// store lock. fn must not block on the network. Nothing is saved when fn
// fails.
func (st *SessionStore) Update(ctx context.Context, fn func(*Session) error) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, err := st.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	if err := st.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Load returns the persisted session. Absent or malformed data yields a
// fresh session.
func (st *SessionStore) Load(ctx context.Context) (*Session, error) {
	raw, ok, err := st.kv.Get(ctx, st.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkout session: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return &Session{}, nil
	}

	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		st.logger.Warn("Discarding malformed checkout session", zap.String("key", st.key), zap.Error(err))
		return &Session{}, nil
	}
	return &s, nil
}

func (st *SessionStore) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal checkout session: %w", err)
	}
	if err := st.kv.Set(ctx, st.key, string(data)); err != nil {
		return fmt.Errorf("failed to write checkout session: %w", err)
	}
	return nil
}

func (st *SessionStore) Clear(ctx context.Context) error {
	return st.kv.Remove(ctx, st.key)
}

func orPlaceholder(v string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return msgAddressPlaceholder
}

func optional(v string) *string {
	if v = strings.TrimSpace(v); v != "" {
		return &v
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
