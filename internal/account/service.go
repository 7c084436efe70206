package account

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wempy/storefront/internal/domain"
	"github.com/wempy/storefront/internal/notify"
	"github.com/wempy/storefront/pkg/errors"
)

// RecentOrdersLimit caps the order history shown on the account page
const RecentOrdersLimit = 5

// Users is the remote account API
type Users interface {
	Register(ctx context.Context, input domain.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input domain.LoginInput) (*domain.User, error)
	User(ctx context.Context, userID domain.ID) (*domain.User, error)
	UserOrders(ctx context.Context, userID domain.ID) ([]domain.OrderSummary, error)
}

type Service struct {
	users    Users
	identity *Identity
	logger   *zap.Logger
}

// NewService creates a new account service
func NewService(users Users, identity *Identity, logger *zap.Logger) *Service {
	return &Service{
		users:    users,
		identity: identity,
		logger:   logger,
	}
}

// Register creates an account and signs it in
func (s *Service) Register(ctx context.Context, input domain.RegisterInput, feedback notify.Feedback) (*domain.User, error) {
	input.FName = strings.TrimSpace(input.FName)
	input.LName = strings.TrimSpace(input.LName)
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	input.Email = strings.TrimSpace(input.Email)

	if input.FName == "" {
		notify.Warning(feedback, msgFirstNameRequired)
		return nil, &errors.ErrValidation{Message: "first name is required"}
	}
	if input.PhoneNumber == "" {
		notify.Warning(feedback, msgPhoneRequired)
		return nil, &errors.ErrValidation{Message: "phone number is required"}
	}
	if input.Email == "" {
		input.Email = defaultEmail
	}

	user, err := s.users.Register(ctx, input)
	if err != nil {
		s.logger.Error("Failed to register user", zap.Error(err))
		notify.Error(feedback, orDefault(errors.Detail(err), msgRegisterFailed))
		return nil, err
	}

	if err := s.identity.Save(ctx, user.UserID); err != nil {
		s.logger.Error("Failed to save user session", zap.Error(err))
		return nil, err
	}

	s.logger.Info("User registered", zap.String("user_id", user.UserID.String()))
	notify.Success(feedback, msgRegisterSuccess)
	return user, nil
}

// Login signs in the account owning phone
func (s *Service) Login(ctx context.Context, phone string, feedback notify.Feedback) (*domain.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		notify.Warning(feedback, msgPhoneRequired)
		return nil, &errors.ErrValidation{Message: "phone number is required"}
	}

	user, err := s.users.Login(ctx, domain.LoginInput{PhoneNumber: phone})
	if err != nil {
		if errors.IsNotFound(err) {
			notify.Error(feedback, msgPhoneNotFound)
			return nil, &errors.ErrNotFound{Resource: "user", ID: phone}
		}
		s.logger.Error("Failed to login", zap.Error(err))
		notify.Error(feedback, orDefault(errors.Detail(err), msgLoginFailed))
		return nil, err
	}

	if err := s.identity.Save(ctx, user.UserID); err != nil {
		s.logger.Error("Failed to save user session", zap.Error(err))
		return nil, err
	}

	s.logger.Info("User logged in", zap.String("user_id", user.UserID.String()))
	notify.Success(feedback, msgLoginSuccess)
	return user, nil
}

// Logout forgets the signed in user
func (s *Service) Logout(ctx context.Context, feedback notify.Feedback, redirectTo string, after time.Duration) error {
	if err := s.identity.Clear(ctx); err != nil {
		s.logger.Error("Failed to clear user session", zap.Error(err))
		return err
	}
	notify.Success(feedback, msgLogoutSuccess)
	feedback.Redirect(redirectTo, after)
	return nil
}

// Current returns the signed in user
func (s *Service) Current(ctx context.Context) (*domain.User, error) {
	userID, ok, err := s.identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &errors.ErrNotAuthenticated{}
	}
	return s.users.User(ctx, userID)
}

// RecentOrders returns the newest orders of the signed in user. Lookup
// failures degrade to an empty history.
func (s *Service) RecentOrders(ctx context.Context) ([]domain.OrderSummary, error) {
	userID, ok, err := s.identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &errors.ErrNotAuthenticated{}
	}

	orders, err := s.users.UserOrders(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to load user orders", zap.String("user_id", userID.String()), zap.Error(err))
		return []domain.OrderSummary{}, nil
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderTimestamp.After(orders[j].OrderTimestamp.Time)
	})
	if len(orders) > RecentOrdersLimit {
		orders = orders[:RecentOrdersLimit]
	}
	return orders, nil
}

func orDefault(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
