package wempy

import (
	"context"
	"net/http"

	"github.com/wempy/storefront/internal/domain"
)

// Categories lists the menu sections
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.do(ctx, "list categories", http.MethodGet, CategoriesPath, nil, &categories); err != nil {
		return nil, err
	}
	if err := validateEach(c, "category", categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Products lists every catalog product
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, "list products", http.MethodGet, ProductsPath, nil, &products); err != nil {
		return nil, err
	}
	if err := validateEach(c, "product", products); err != nil {
		return nil, err
	}
	return products, nil
}

// Variants lists every priced variant of every product
func (c *Client) Variants(ctx context.Context) ([]domain.Variant, error) {
	var payloads []variantPayload
	if err := c.do(ctx, "list variants", http.MethodGet, VariantsPath, nil, &payloads); err != nil {
		return nil, err
	}
	if err := validateEach(c, "variant", payloads); err != nil {
		return nil, err
	}
	return toVariants(payloads)
}
