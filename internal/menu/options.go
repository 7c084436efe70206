package menu

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wempy/storefront/internal/domain"
)

// DefaultLabel marks a size or type that is not a real choice
const DefaultLabel = "افتراضي"

// OptionKind says which variant attribute a product is chosen by
type OptionKind string

const (
	OptionKindType   OptionKind = "type"
	OptionKindSize   OptionKind = "size"
	OptionKindSingle OptionKind = "single"
)

// Option is one mutually exclusive choice of a product
type Option struct {
	VariantID int64           `json:"variant_id"`
	Label     string          `json:"label"`
	Price     decimal.Decimal `json:"price"`
}

// OptionSet is the pricing view of a product's variants
type OptionSet struct {
	Kind    OptionKind `json:"kind"`
	Options []Option   `json:"options,omitempty"`

	variants []domain.Variant
}

// BuildOptions groups variants into choices. More than one non-default type
// makes the types the choices; failing that, more than one non-default size
// makes the sizes the choices; otherwise the first variant is the only price.
func BuildOptions(variants []domain.Variant) OptionSet {
	set := OptionSet{Kind: OptionKindSingle, variants: variants}

	var types, sizes []domain.Variant
	for _, v := range variants {
		if !isDefault(v.Types.TypeName) {
			types = append(types, v)
		}
		if !isDefault(v.Sizes.SizeName) {
			sizes = append(sizes, v)
		}
	}

	switch {
	case len(types) > 1:
		set.Kind = OptionKindType
		for _, v := range types {
			set.Options = append(set.Options, Option{VariantID: v.VariantID, Label: v.Types.TypeName, Price: v.Price})
		}
	case len(sizes) > 1:
		set.Kind = OptionKindSize
		for _, v := range sizes {
			set.Options = append(set.Options, Option{VariantID: v.VariantID, Label: v.Sizes.SizeName, Price: v.Price})
		}
	}
	return set
}

// Purchasable reports whether the product has any variant to sell
func (s OptionSet) Purchasable() bool {
	return len(s.variants) > 0
}

// DefaultPrice is the price shown before any choice is made
func (s OptionSet) DefaultPrice() decimal.Decimal {
	if len(s.Options) > 0 {
		return s.Options[0].Price
	}
	if len(s.variants) > 0 {
		return s.variants[0].Price
	}
	return decimal.Zero
}

// SelectedVariant resolves a selection to the variant to sell. A zero
// selection picks the first option, or the only variant of a product
// without choices. A selection that is not one of the offered choices is
// an error.
func SelectedVariant(set OptionSet, selection int64) (domain.Variant, error) {
	if len(set.variants) == 0 {
		return domain.Variant{}, fmt.Errorf("product has no variants")
	}

	if len(set.Options) == 0 {
		if selection == 0 || selection == set.variants[0].VariantID {
			return set.variants[0], nil
		}
		return domain.Variant{}, fmt.Errorf("variant %d is not offered", selection)
	}

	if selection == 0 {
		selection = set.Options[0].VariantID
	}
	for _, opt := range set.Options {
		if opt.VariantID != selection {
			continue
		}
		for _, v := range set.variants {
			if v.VariantID == selection {
				return v, nil
			}
		}
	}
	return domain.Variant{}, fmt.Errorf("variant %d is not offered", selection)
}

// DisplayName decorates a product name with the non-default size and type
func DisplayName(name string, v domain.Variant) string {
	if !isDefault(v.Sizes.SizeName) {
		name += fmt.Sprintf(" (%s)", v.Sizes.SizeName)
	}
	if !isDefault(v.Types.TypeName) {
		name += fmt.Sprintf(" (%s)", v.Types.TypeName)
	}
	return name
}

// LineItemFor is the cart row template committed by add to cart
func LineItemFor(p domain.Product, v domain.Variant, imageURL, category string) domain.LineItem {
	return domain.LineItem{
		VariantID: v.VariantID,
		Name:      DisplayName(p.Name, v),
		UnitPrice: v.Price,
		Image:     imageURL,
		Category:  category,
	}
}

// An empty name counts as default so variants without the attribute are not
// offered as a choice.
func isDefault(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || name == DefaultLabel
}
