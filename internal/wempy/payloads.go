package wempy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wempy/storefront/internal/domain"
	apperrors "github.com/wempy/storefront/pkg/errors"
)

// Money fields decode as NullDecimal so an absent amount is told apart from
// an explicit zero. The outer field shadows the embedded one for encoding/json.

type variantPayload struct {
	domain.Variant
	Price decimal.NullDecimal `json:"Price"`
}

type zonePayload struct {
	domain.Zone
	DeliveryCost decimal.NullDecimal `json:"DeliveryCost"`
}

func checkMoney(resource string, index int, field string, amount decimal.NullDecimal) error {
	switch {
	case !amount.Valid:
		return &apperrors.ErrDecode{Resource: resource, Err: fmt.Errorf("item %d: %s is missing", index, field)}
	case amount.Decimal.IsNegative():
		return &apperrors.ErrDecode{Resource: resource, Err: fmt.Errorf("item %d: %s %s is negative", index, field, amount.Decimal)}
	}
	return nil
}

func toVariants(payloads []variantPayload) ([]domain.Variant, error) {
	variants := make([]domain.Variant, 0, len(payloads))
	for i, p := range payloads {
		if err := checkMoney("variant", i, "Price", p.Price); err != nil {
			return nil, err
		}
		v := p.Variant
		v.Price = p.Price.Decimal
		variants = append(variants, v)
	}
	return variants, nil
}

func toZones(payloads []zonePayload) ([]domain.Zone, error) {
	zones := make([]domain.Zone, 0, len(payloads))
	for i, p := range payloads {
		if err := checkMoney("zone", i, "DeliveryCost", p.DeliveryCost); err != nil {
			return nil, err
		}
		z := p.Zone
		z.DeliveryCost = p.DeliveryCost.Decimal
		zones = append(zones, z)
	}
	return zones, nil
}
