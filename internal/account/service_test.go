package account

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wempy/storefront/internal/domain"
	"github.com/wempy/storefront/internal/notify"
	"github.com/wempy/storefront/internal/storage"
	"github.com/wempy/storefront/pkg/errors"
)

type stubUsers struct {
	registered []domain.RegisterInput
	loginErr   error
	orders     []domain.OrderSummary
	ordersErr  error
}

func (s *stubUsers) Register(_ context.Context, input domain.RegisterInput) (*domain.User, error) {
	s.registered = append(s.registered, input)
	return &domain.User{UserID: "21", FName: input.FName, PhoneNumber: input.PhoneNumber, Email: input.Email}, nil
}

func (s *stubUsers) Login(_ context.Context, input domain.LoginInput) (*domain.User, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &domain.User{UserID: "21", PhoneNumber: input.PhoneNumber}, nil
}

func (s *stubUsers) User(_ context.Context, userID domain.ID) (*domain.User, error) {
	return &domain.User{UserID: userID}, nil
}

func (s *stubUsers) UserOrders(context.Context, domain.ID) ([]domain.OrderSummary, error) {
	return s.orders, s.ordersErr
}

func newTestService(users *stubUsers) (*Service, *Identity) {
	identity := NewIdentity(storage.NewMemory(0), "wempyUserID")
	return NewService(users, identity, zap.NewNop()), identity
}

func TestLogin_SavesIdentity(t *testing.T) {
	svc, identity := newTestService(&stubUsers{})
	ctx := context.Background()

	user, err := svc.Login(ctx, " 01000000000 ", notify.NewRecorder())
	require.NoError(t, err)
	assert.Equal(t, "01000000000", user.PhoneNumber)

	id, ok, err := identity.Current(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.ID("21"), id)
}

func TestLogin_UnknownPhone(t *testing.T) {
	svc, identity := newTestService(&stubUsers{loginErr: &errors.ErrAPI{Op: "login", StatusCode: 404}})
	feedback := notify.NewRecorder()

	_, err := svc.Login(context.Background(), "01000000000", feedback)
	assert.True(t, errors.IsNotFound(err))

	got := feedback.Notifications()
	require.Len(t, got, 1)
	assert.Equal(t, "رقم الهاتف غير مسجل. الرجاء إنشاء حساب جديد", got[0].Message)

	_, ok, err := identity.Current(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogin_RequiresPhone(t *testing.T) {
	svc, _ := newTestService(&stubUsers{})

	_, err := svc.Login(context.Background(), "  ", notify.NewRecorder())
	var vErr *errors.ErrValidation
	assert.True(t, stderrors.As(err, &vErr))
}

func TestRegister_DefaultsEmail(t *testing.T) {
	users := &stubUsers{}
	svc, identity := newTestService(users)

	_, err := svc.Register(context.Background(), domain.RegisterInput{FName: "منى", PhoneNumber: "0100"}, notify.NewRecorder())
	require.NoError(t, err)

	require.Len(t, users.registered, 1)
	assert.Equal(t, "user@example.com", users.registered[0].Email)

	_, ok, err := identity.Current(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLogout_ClearsIdentityAndRedirects(t *testing.T) {
	svc, identity := newTestService(&stubUsers{})
	ctx := context.Background()
	require.NoError(t, identity.Save(ctx, "21"))
	feedback := notify.NewRecorder()

	require.NoError(t, svc.Logout(ctx, feedback, "login.html", 2*time.Second))

	_, ok, err := identity.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NotNil(t, feedback.RedirectTo())
	assert.Equal(t, "login.html", feedback.RedirectTo().Target)
}

func TestCurrent_NotAuthenticated(t *testing.T) {
	svc, _ := newTestService(&stubUsers{})

	_, err := svc.Current(context.Background())
	var authErr *errors.ErrNotAuthenticated
	assert.True(t, stderrors.As(err, &authErr))
}

func TestRecentOrders_NewestFirstCapped(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var orders []domain.OrderSummary
	for i := 0; i < 7; i++ {
		orders = append(orders, domain.OrderSummary{
			OrderNumber:    domain.ID(string(rune('A' + i))),
			OrderTimestamp: domain.Timestamp{Time: base.Add(time.Duration(i) * time.Hour)},
		})
	}
	svc, identity := newTestService(&stubUsers{orders: orders})
	ctx := context.Background()
	require.NoError(t, identity.Save(ctx, "21"))

	got, err := svc.RecentOrders(ctx)
	require.NoError(t, err)
	require.Len(t, got, RecentOrdersLimit)
	assert.Equal(t, domain.ID("G"), got[0].OrderNumber)
	assert.Equal(t, domain.ID("C"), got[4].OrderNumber)
}

func TestRecentOrders_DegradesToEmpty(t *testing.T) {
	svc, identity := newTestService(&stubUsers{ordersErr: &errors.ErrNetwork{Op: "list orders", Err: context.Canceled}})
	ctx := context.Background()
	require.NoError(t, identity.Save(ctx, "21"))

	got, err := svc.RecentOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestIdentity_SaveRejectsEmpty(t *testing.T) {
	identity := NewIdentity(storage.NewMemory(0), "wempyUserID")
	assert.Error(t, identity.Save(context.Background(), ""))
}
