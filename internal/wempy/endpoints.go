package wempy

import (
	"fmt"
	"net/url"
)

// Read-only catalog
const (
	CategoriesPath = "/categories/get_all_categories"
	ProductsPath   = "/products/all_products"
	VariantsPath   = "/product_variants/all_products"
)

// Checkout collaborators
const (
	ZonesPath          = "/zones/all_zones"
	PaymentMethodsPath = "/payment/all_payment_methods"
	ShiftsPath         = "/shifts/all_shifts"
	CreateOrderPath    = "/orders/create"
)

// Accounts
const (
	RegisterPath = "/users/register"
	LoginPath    = "/users/login"
)

// UserAddressesPath lists the saved addresses of a user
func UserAddressesPath(userID string) string {
	return fmt.Sprintf("/addresses/user/%s", url.PathEscape(userID))
}

// CreateAddressPath creates an address owned by a user
func CreateAddressPath(userID string) string {
	return fmt.Sprintf("/addresses/create/%s", url.PathEscape(userID))
}

// UserPath fetches a single user
func UserPath(userID string) string {
	return fmt.Sprintf("/users/%s", url.PathEscape(userID))
}

// UserOrdersPath lists the orders of a user
func UserOrdersPath(userID string) string {
	return fmt.Sprintf("/orders/user_orders/%s", url.PathEscape(userID))
}
