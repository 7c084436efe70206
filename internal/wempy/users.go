package wempy

import (
	"context"
	"net/http"

	"github.com/wempy/storefront/internal/domain"
)

// Register creates a user account
func (c *Client) Register(ctx context.Context, input domain.RegisterInput) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, "register user", http.MethodPost, RegisterPath, input, &user); err != nil {
		return nil, err
	}
	if err := c.validateOne("user", user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login resolves a user by phone number
func (c *Client) Login(ctx context.Context, input domain.LoginInput) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, "login user", http.MethodPost, LoginPath, input, &user); err != nil {
		return nil, err
	}
	if err := c.validateOne("user", user); err != nil {
		return nil, err
	}
	return &user, nil
}

// User fetches a single user
func (c *Client) User(ctx context.Context, userID domain.ID) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, "get user", http.MethodGet, UserPath(userID.String()), nil, &user); err != nil {
		return nil, err
	}
	if err := c.validateOne("user", user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserOrders lists the orders placed by a user
func (c *Client) UserOrders(ctx context.Context, userID domain.ID) ([]domain.OrderSummary, error) {
	var orders []domain.OrderSummary
	if err := c.do(ctx, "list user orders", http.MethodGet, UserOrdersPath(userID.String()), nil, &orders); err != nil {
		return nil, err
	}
	if err := validateEach(c, "order summary", orders); err != nil {
		return nil, err
	}
	return orders, nil
}
