package menu

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wempy/storefront/internal/domain"
)

type stubCatalog struct {
	categories  []domain.Category
	products    []domain.Product
	variants    []domain.Variant
	categoryErr error
	productErr  error
	variantErr  error
}

func (s *stubCatalog) Categories(context.Context) ([]domain.Category, error) {
	return s.categories, s.categoryErr
}

func (s *stubCatalog) Products(context.Context) ([]domain.Product, error) {
	return s.products, s.productErr
}

func (s *stubCatalog) Variants(context.Context) ([]domain.Variant, error) {
	return s.variants, s.variantErr
}

func TestLoad_GroupsProductsByCategory(t *testing.T) {
	catalog := &stubCatalog{
		categories: []domain.Category{{CategoryID: 1, CategoryName: "سندوتشات"}, {CategoryID: 2, CategoryName: "أطباق"}},
		products: []domain.Product{
			{ProductID: 10, Name: "كبدة", CategoryID: 1, ImageURL: "static/kebda.png", Description: noDescription},
			{ProductID: 20, Name: "ملوخية", CategoryID: 2, Description: "بالأرز"},
		},
		variants: []domain.Variant{
			{VariantID: 100, ProductID: 10, Price: decimal.NewFromInt(20), Types: domain.VariantType{TypeName: "عيش بلدي"}, Sizes: domain.VariantSize{SizeName: DefaultLabel}},
			{VariantID: 101, ProductID: 10, Price: decimal.NewFromInt(25), Types: domain.VariantType{TypeName: "عيش فينو"}, Sizes: domain.VariantSize{SizeName: DefaultLabel}},
			{VariantID: 200, ProductID: 20, Price: decimal.NewFromInt(40), Types: domain.VariantType{TypeName: DefaultLabel}, Sizes: domain.VariantSize{SizeName: DefaultLabel}},
		},
	}

	m := Load(context.Background(), catalog, "https://api.example", zap.NewNop())
	require.Len(t, m.Sections, 2)
	assert.Equal(t, "category-1", m.Sections[0].ID)
	require.Len(t, m.Sections[0].Entries, 1)

	kebda := m.Sections[0].Entries[0]
	assert.Equal(t, "https://api.example/static/kebda.png", kebda.ImageURL)
	assert.Empty(t, kebda.Description)
	assert.Equal(t, OptionKindType, kebda.Options.Kind)
	assert.True(t, decimal.NewFromInt(20).Equal(kebda.DefaultPrice))

	entry, section, ok := m.Find(20)
	require.True(t, ok)
	assert.Equal(t, "category-2", section.ID)
	assert.Equal(t, "بالأرز", entry.Description)
	assert.Equal(t, OptionKindSingle, entry.Options.Kind)

	_, _, ok = m.Find(99)
	assert.False(t, ok)
}

func TestLoad_DegradesToEmpty(t *testing.T) {
	m := Load(context.Background(), &stubCatalog{categoryErr: errors.New("boom")}, "", zap.NewNop())
	assert.Empty(t, m.Sections)
	assert.NotNil(t, m.Sections)

	m = Load(context.Background(), &stubCatalog{
		categories: []domain.Category{{CategoryID: 1}},
		productErr: errors.New("boom"),
	}, "", zap.NewNop())
	require.Len(t, m.Sections, 1)
	assert.Empty(t, m.Sections[0].Entries)
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "", ImageURL("https://a", ""))
	assert.Equal(t, "https://a/x.png", ImageURL("https://a/", "/x.png"))
	assert.Equal(t, "https://cdn/x.png", ImageURL("https://a", "https://cdn/x.png"))
}
