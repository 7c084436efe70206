package domain

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// LineItem represents one entry in a cart
type LineItem struct {
	VariantID int64           `json:"variantId,omitempty" validate:"required_without=ID"`
	ID        string          `json:"id,omitempty" validate:"required_without=VariantID"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Qty       int             `json:"qty" validate:"min=1"`
	Image     string          `json:"image,omitempty"`
	Category  string          `json:"category,omitempty"`
}

// Key returns the identity used to merge rows on add
func (i LineItem) Key() string {
	if i.VariantID != 0 {
		return "variant:" + strconv.FormatInt(i.VariantID, 10)
	}
	return "item:" + i.ID
}

// LineTotal returns qty x unit price
func (i LineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Qty)))
}

// Cart is an ordered sequence of line items. Order matters for display only.
type Cart []LineItem

// IndexOf returns the position of the row with the given identity key, or -1
func (c Cart) IndexOf(key string) int {
	for i, item := range c {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

// TotalQty returns the sum of all row quantities
func (c Cart) TotalQty() int {
	n := 0
	for _, item := range c {
		n += item.Qty
	}
	return n
}

// Totals holds the derived money figures of a cart
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

// Zone is a delivery area with its fee
type Zone struct {
	ZoneID       int             `json:"ZoneID" validate:"required"`
	ZoneName     string          `json:"ZoneName"`
	DeliveryCost decimal.Decimal `json:"DeliveryCost"`
}

// PaymentMethod is a payment option offered by the remote API
type PaymentMethod struct {
	PaymentID   int    `json:"PaymentID" validate:"required"`
	PaymentName string `json:"PaymentName"`
	IsActive    bool   `json:"IsActive"`
}

// Shift is an operating hours window
type Shift struct {
	ShiftID  int  `json:"ShiftID" validate:"required"`
	IsActive bool `json:"IsActive"`
}

// Address is a saved delivery address owned by a user
type Address struct {
	AddressID      int     `json:"AddressID" validate:"required"`
	RecipientName  string  `json:"RecipientName"`
	RecipientPhone string  `json:"RecipientPhone"`
	Phone2         *string `json:"Phone2"`
	Street         string  `json:"Street"`
	Building       string  `json:"Building"`
	City           string  `json:"City"`
	ZoneID         int     `json:"ZoneID"`
	DeliveryNotes  *string `json:"DeliveryNotes"`
}

// AddressInput is the body of an address creation request
type AddressInput struct {
	RecipientName  string  `json:"RecipientName"`
	Street         string  `json:"Street"`
	Building       string  `json:"Building"`
	City           string  `json:"City"`
	RecipientPhone string  `json:"RecipientPhone"`
	Phone2         *string `json:"Phone2"`
	DeliveryNotes  *string `json:"DeliveryNotes"`
	ZoneID         int     `json:"ZoneID"`
}

// AddressForm holds the address fields as typed by the user
type AddressForm struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Phone2   string `json:"phone2"`
	Building string `json:"building"`
	Street   string `json:"street"`
	City     string `json:"city"`
	Notes    string `json:"notes"`
}

// Order is the order creation request sent to the remote API
type Order struct {
	UserID        ID          `json:"UserID"`
	AddressID     int         `json:"AddressID"`
	PaymentID     int         `json:"PaymentID"`
	ShiftID       int         `json:"ShiftID"`
	OrderNotes    string      `json:"OrderNotes"`
	ExternalNotes string      `json:"ExternalNotes"`
	Items         []OrderItem `json:"items"`
}

type OrderItem struct {
	VariantID int64 `json:"VariantID"`
	Quantity  int   `json:"Quantity"`
}

// OrderResult is the remote API answer to an order creation
type OrderResult struct {
	OrderID     ID              `json:"OrderID,omitempty"`
	OrderNumber ID              `json:"OrderNumber" validate:"required"`
	TotalPrice  decimal.Decimal `json:"TotalPrice"`
}

// OrderSummary is one entry of a user's order history
type OrderSummary struct {
	OrderID        ID              `json:"OrderID"`
	OrderNumber    ID              `json:"OrderNumber" validate:"required"`
	TotalPrice     decimal.Decimal `json:"TotalPrice"`
	OrderStatus    string          `json:"OrderStatus,omitempty"`
	OrderTimestamp Timestamp       `json:"OrderTimestamp"`
}

// Category is a menu section
type Category struct {
	CategoryID   int    `json:"CategoryID" validate:"required"`
	CategoryName string `json:"CategoryName"`
}

// Product is a catalog entry. Its prices live on its variants.
type Product struct {
	ProductID   int    `json:"ProductID" validate:"required"`
	Name        string `json:"Name"`
	Description string `json:"Description"`
	ImageURL    string `json:"ImageUrl"`
	CategoryID  int    `json:"CategoryID"`
}

// Variant is a priced configuration of a product
type Variant struct {
	VariantID int64           `json:"VariantID" validate:"required"`
	ProductID int             `json:"ProductID" validate:"required"`
	Price     decimal.Decimal `json:"Price"`
	Sizes     VariantSize     `json:"sizes"`
	Types     VariantType     `json:"types"`
}

type VariantSize struct {
	SizeName string `json:"SizeName"`
}

type VariantType struct {
	TypeName string `json:"TypeName"`
}

// User is a storefront customer account
type User struct {
	UserID      ID     `json:"UserID" validate:"required"`
	FName       string `json:"FName"`
	LName       string `json:"LName"`
	PhoneNumber string `json:"PhoneNumber"`
	Email       string `json:"Email"`
}

// RegisterInput is the body of a user registration request
type RegisterInput struct {
	FName       string `json:"FName" validate:"required"`
	LName       string `json:"LName"`
	PhoneNumber string `json:"PhoneNumber" validate:"required"`
	Email       string `json:"Email"`
}

// LoginInput is the body of a login request
type LoginInput struct {
	PhoneNumber string `json:"PhoneNumber" validate:"required"`
}
