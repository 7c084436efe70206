package checkout

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

func TestSession_EditInvalidatesSavedAddress(t *testing.T) {
	fields := []string{FieldName, FieldPhone, FieldPhone2, FieldBuilding, FieldStreet, FieldCity}

	for _, field := range fields {
		t.Run(field, func(t *testing.T) {
			s := &Session{}
			s.SelectSavedAddress(domain.Address{AddressID: 9}, nil)
			require.Equal(t, 9, s.SavedAddressID)

			require.NoError(t, s.EditField(field, "x"))
			assert.Zero(t, s.SavedAddressID)
		})
	}
}

func TestSession_ZoneChangeInvalidatesSavedAddress(t *testing.T) {
	s := &Session{}
	s.SelectSavedAddress(domain.Address{AddressID: 9}, nil)

	s.SelectZone(&domain.Zone{ZoneID: 2})
	assert.Zero(t, s.SavedAddressID)
}

func TestSession_NotesKeepSavedAddress(t *testing.T) {
	s := &Session{}
	s.SelectSavedAddress(domain.Address{AddressID: 9}, nil)

	s.SetNotes("الدور الثالث", "بيبسي")
	assert.Equal(t, 9, s.SavedAddressID)
	assert.Equal(t, "الدور الثالث", s.Form.Notes)
	assert.Equal(t, "بيبسي", s.ExternalNotes)
}

func TestSession_UnknownField(t *testing.T) {
	s := &Session{SavedAddressID: 9}
	assert.Error(t, s.EditField("zip", "12345"))
	assert.Equal(t, 9, s.SavedAddressID)
}

func TestSession_SelectSavedAddressFillsForm(t *testing.T) {
	phone2 := "01111111111"
	zones := []domain.Zone{
		{ZoneID: 1, ZoneName: "المهندسين", DeliveryCost: decimal.RequireFromString("15")},
		{ZoneID: 2, ZoneName: "الدقي", DeliveryCost: decimal.RequireFromString("10")},
	}
	s := &Session{}

	s.SelectSavedAddress(domain.Address{
		AddressID:      4,
		RecipientName:  "سارة",
		RecipientPhone: "01000000000",
		Phone2:         &phone2,
		Street:         "شارع مصدق",
		Building:       "12",
		City:           "الجيزة",
		ZoneID:         2,
	}, zones)

	assert.Equal(t, 4, s.SavedAddressID)
	assert.Equal(t, "سارة", s.Form.Name)
	assert.Equal(t, phone2, s.Form.Phone2)
	assert.Equal(t, "شارع مصدق", s.Form.Street)
	require.NotNil(t, s.Zone)
	assert.Equal(t, 2, s.Zone.ZoneID)
	assert.True(t, s.DeliveryFee().Equal(decimal.RequireFromString("10")))
}

func TestSession_DeliveryFeeWithoutZone(t *testing.T) {
	var s *Session
	assert.Nil(t, s.DeliveryFee())
	assert.Nil(t, (&Session{}).DeliveryFee())
}

func TestSessionStore_RoundTripAndMalformed(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory(0)
	st := NewSessionStore(kv, "wempyCheckout", zap.NewNop())

	s, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, s.Zone)

	s.SelectPayment(2)
	s.SelectZone(&domain.Zone{ZoneID: 5, DeliveryCost: decimal.RequireFromString("20")})
	require.NoError(t, st.Save(ctx, s))

	loaded, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.PaymentID)
	require.NotNil(t, loaded.Zone)
	assert.Equal(t, 5, loaded.Zone.ZoneID)

	require.NoError(t, kv.Set(ctx, "wempyCheckout", "{not json"))
	fresh, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.PaymentID)

	require.NoError(t, st.Clear(ctx))
	_, ok, err := kv.Get(ctx, "wempyCheckout")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore_UpdateSerialisesWriters(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory(0)
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 1; i <= 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st := NewSessionStore(kv, "wempyCheckout", zap.NewNop(), WithSessionLock(&mu))
			_, err := st.Update(ctx, func(s *Session) error {
				if i == 1 {
					s.SelectPayment(4)
				} else {
					s.SelectZone(&domain.Zone{ZoneID: 3, DeliveryCost: decimal.RequireFromString("10")})
				}
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	s, err := NewSessionStore(kv, "wempyCheckout", zap.NewNop()).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, s.PaymentID)
	require.NotNil(t, s.Zone)
	assert.Equal(t, 3, s.Zone.ZoneID)
}

func TestSessionStore_UpdateKeepsStateOnError(t *testing.T) {
	ctx := context.Background()
	st := NewSessionStore(storage.NewMemory(0), "wempyCheckout", zap.NewNop())
	_, err := st.Update(ctx, func(s *Session) error {
		s.SelectPayment(2)
		return nil
	})
	require.NoError(t, err)

	_, err = st.Update(ctx, func(s *Session) error {
		s.SelectPayment(9)
		return s.EditField("floor", "3")
	})
	var notFound *errors.ErrNotFound
	require.True(t, stderrors.As(err, &notFound), "err = %v", err)

	s, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, s.PaymentID)
}

func TestSession_RefreshZone(t *testing.T) {
	zones := []domain.Zone{{ZoneID: 3, ZoneName: "الدقي", DeliveryCost: decimal.RequireFromString("10")}}

	s := &Session{}
	assert.False(t, s.RefreshZone(zones))

	s.SelectZone(&domain.Zone{ZoneID: 3, ZoneName: "الدقي", DeliveryCost: decimal.RequireFromString("10.00")})
	s.SavedAddressID = 8
	assert.False(t, s.RefreshZone(zones))

	snapshot := s.Zone
	zones[0].DeliveryCost = decimal.RequireFromString("15")
	assert.True(t, s.RefreshZone(zones))
	assert.True(t, s.DeliveryFee().Equal(decimal.RequireFromString("15")))
	assert.True(t, snapshot.DeliveryCost.Equal(decimal.RequireFromString("10")))
	assert.Equal(t, 8, s.SavedAddressID)

	assert.True(t, s.RefreshZone([]domain.Zone{{ZoneID: 4}}))
	assert.Nil(t, s.Zone)
	assert.Zero(t, s.SavedAddressID)
}
