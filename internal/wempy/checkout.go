package wempy

import (
	"context"
	"net/http"

	"github.com/wempy/storefront/internal/domain"
)

// Zones lists the delivery zones with their fees
func (c *Client) Zones(ctx context.Context) ([]domain.Zone, error) {
	var payloads []zonePayload
	if err := c.do(ctx, "list zones", http.MethodGet, ZonesPath, nil, &payloads); err != nil {
		return nil, err
	}
	if err := validateEach(c, "zone", payloads); err != nil {
		return nil, err
	}
	return toZones(payloads)
}

// PaymentMethods lists every payment method, active or not
func (c *Client) PaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	var methods []domain.PaymentMethod
	if err := c.do(ctx, "list payment methods", http.MethodGet, PaymentMethodsPath, nil, &methods); err != nil {
		return nil, err
	}
	if err := validateEach(c, "payment method", methods); err != nil {
		return nil, err
	}
	return methods, nil
}

// Shifts lists the operating shifts
func (c *Client) Shifts(ctx context.Context) ([]domain.Shift, error) {
	var shifts []domain.Shift
	if err := c.do(ctx, "list shifts", http.MethodGet, ShiftsPath, nil, &shifts); err != nil {
		return nil, err
	}
	if err := validateEach(c, "shift", shifts); err != nil {
		return nil, err
	}
	return shifts, nil
}

// UserAddresses lists the saved addresses of a user
func (c *Client) UserAddresses(ctx context.Context, userID domain.ID) ([]domain.Address, error) {
	var addresses []domain.Address
	if err := c.do(ctx, "list addresses", http.MethodGet, UserAddressesPath(userID.String()), nil, &addresses); err != nil {
		return nil, err
	}
	if err := validateEach(c, "address", addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// CreateAddress saves a new address for a user
func (c *Client) CreateAddress(ctx context.Context, userID domain.ID, input domain.AddressInput) (*domain.Address, error) {
	var address domain.Address
	if err := c.do(ctx, "create address", http.MethodPost, CreateAddressPath(userID.String()), input, &address); err != nil {
		return nil, err
	}
	if err := c.validateOne("address", address); err != nil {
		return nil, err
	}
	return &address, nil
}

// CreateOrder submits an order
func (c *Client) CreateOrder(ctx context.Context, order domain.Order) (*domain.OrderResult, error) {
	var result domain.OrderResult
	if err := c.do(ctx, "create order", http.MethodPost, CreateOrderPath, order, &result); err != nil {
		return nil, err
	}
	if err := c.validateOne("order", result); err != nil {
		return nil, err
	}
	return &result, nil
}
