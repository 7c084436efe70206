package menu

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wempy/storefront/internal/domain"
)

// LocalItem is a menu entry served from a bundled JSON file rather than the
// remote catalog. Its cart identity is composite: id, then size or type.
type LocalItem struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Price       PriceText   `json:"price"`
	Sizes       []LocalSize `json:"size"`
	Types       []string    `json:"type"`
	Category    string      `json:"category"`
}

type LocalSize struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// PriceText accepts a number, a numeric string, or a range such as "15-20"
// which resolves to its lower bound.
type PriceText struct {
	decimal.Decimal
	Set bool
}

func (p *PriceText) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*p = PriceText{}
	case float64:
		*p = PriceText{Decimal: decimal.NewFromFloat(v), Set: true}
	case string:
		d, ok := ParsePrice(v)
		*p = PriceText{Decimal: d, Set: ok}
	default:
		return fmt.Errorf("unsupported price %s", string(data))
	}
	return nil
}

// ParsePrice reads a price or the minimum of a price range
func ParsePrice(raw string) (decimal.Decimal, bool) {
	var (
		lowest decimal.Decimal
		found  bool
	)
	for _, part := range strings.Split(raw, "-") {
		d, err := decimal.NewFromString(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if !found || d.LessThan(lowest) {
			lowest = d
			found = true
		}
	}
	return lowest, found
}

// BasePrice is the price before a size is chosen
func (l LocalItem) BasePrice() decimal.Decimal {
	if l.Price.Set {
		return l.Price.Decimal
	}
	if len(l.Sizes) > 0 {
		return l.Sizes[0].Price
	}
	return decimal.Zero
}

// LineItem builds the cart row for a choice. Sizes take precedence over
// types; an empty choice picks the first one offered.
func (l LocalItem) LineItem(choice string) (domain.LineItem, error) {
	item := domain.LineItem{
		ID:        l.ID,
		Name:      l.Title,
		UnitPrice: l.BasePrice(),
		Image:     l.Image,
		Category:  l.Category,
	}

	switch {
	case len(l.Sizes) > 0:
		size := l.Sizes[0]
		if choice != "" {
			found := false
			for _, s := range l.Sizes {
				if s.Name == choice {
					size, found = s, true
					break
				}
			}
			if !found {
				return domain.LineItem{}, fmt.Errorf("size %q is not offered", choice)
			}
		}
		item.UnitPrice = size.Price
		item.Name = fmt.Sprintf("%s (%s)", l.Title, size.Name)
		item.ID = fmt.Sprintf("%s-%s", l.ID, size.Name)
	case len(l.Types) > 0:
		typeName := l.Types[0]
		if choice != "" {
			found := false
			for _, t := range l.Types {
				if t == choice {
					typeName, found = t, true
					break
				}
			}
			if !found {
				return domain.LineItem{}, fmt.Errorf("type %q is not offered", choice)
			}
		}
		item.Name = fmt.Sprintf("%s (%s)", l.Title, typeName)
		item.ID = fmt.Sprintf("%s-%s", l.ID, typeName)
	}
	return item, nil
}

// LoadLocal reads local menu items from a JSON file
func LoadLocal(path string) ([]LocalItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read local menu: %w", err)
	}
	var items []LocalItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse local menu: %w", err)
	}
	return items, nil
}
