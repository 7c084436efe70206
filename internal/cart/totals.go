package cart

import (
	"github.com/shopspring/decimal"

	"github.com/wempy/storefront/internal/domain"
)

// ComputeTotals prices a cart. A nil fee means no zone is selected and
// yields a zero delivery fee.
func ComputeTotals(c domain.Cart, fee *decimal.Decimal) domain.Totals {
	subtotal := decimal.Zero
	for _, item := range c {
		subtotal = subtotal.Add(item.LineTotal())
	}

	deliveryFee := decimal.Zero
	if fee != nil {
		deliveryFee = *fee
	}

	return domain.Totals{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Total:       subtotal.Add(deliveryFee),
	}
}

// Summary is what the cart badge and summary bar show
type Summary struct {
	ItemCount int           `json:"item_count"`
	RowCount  int           `json:"row_count"`
	Visible   bool          `json:"visible"`
	Totals    domain.Totals `json:"totals"`
}

// Summarize derives the HUD indicators of a cart
func Summarize(c domain.Cart, fee *decimal.Decimal) Summary {
	return Summary{
		ItemCount: c.TotalQty(),
		RowCount:  len(c),
		Visible:   len(c) > 0,
		Totals:    ComputeTotals(c, fee),
	}
}
