package service

import (
	"math"

	"chauffeurtop_backend/internal/quotes/domain"
	"chauffeurtop_backend/internal/quotes/transport"
	"chauffeurtop_backend/platform/apperr"
)

// roundCents rounds a float to the nearest cent (integer)
func roundCents(v float64) int64 {
	return int64(math.Round(v))
}

// ComputeBreakdown derives a full price breakdown from the composer input.
// Callers never supply totals; subtotal and total are always computed here
// so the stored breakdown is internally consistent.
//
// The total is deliberately not clamped at zero. A fixed discount larger
// than the subtotal produces a negative total, which the dashboard shows
// as-is so staff can spot the mistake.
func ComputeBreakdown(req transport.QuoteResponseRequest) (domain.PriceBreakdown, error) {
	if req.BasePriceCents <= 0 {
		return domain.PriceBreakdown{}, apperr.Validation("base price must be greater than zero")
	}

	breakdown := domain.PriceBreakdown{
		BasePriceCents: req.BasePriceCents,
	}

	subtotal := req.BasePriceCents
	if req.ReturnTrip {
		if req.ReturnBasePriceCents == nil || *req.ReturnBasePriceCents <= 0 {
			return domain.PriceBreakdown{}, apperr.Validation("return base price must be greater than zero for a return trip")
		}
		breakdown.ReturnBasePriceCents = req.ReturnBasePriceCents
		subtotal += *req.ReturnBasePriceCents
	}

	for _, item := range req.ExtraItems {
		if item.AmountCents < 0 {
			return domain.PriceBreakdown{}, apperr.Validation("extra item amount cannot be negative")
		}
		breakdown.ExtraItems = append(breakdown.ExtraItems, domain.ExtraItem{
			Description: item.Description,
			AmountCents: item.AmountCents,
		})
		subtotal += item.AmountCents
	}

	breakdown.SubtotalCents = subtotal
	breakdown.TotalCents = subtotal

	if req.Discount != nil {
		amount, err := discountAmount(subtotal, req.Discount)
		if err != nil {
			return domain.PriceBreakdown{}, err
		}
		breakdown.Discount = &domain.Discount{
			Type:        domain.DiscountType(req.Discount.Type),
			Value:       req.Discount.Value,
			AmountCents: amount,
			Reason:      req.Discount.Reason,
		}
		breakdown.TotalCents = subtotal - amount
	}

	return breakdown, nil
}

// discountAmount converts a discount definition to whole cents against
// the given subtotal. Percentage values outside [0,100] are rejected.
func discountAmount(subtotalCents int64, d *transport.DiscountRequest) (int64, error) {
	switch domain.DiscountType(d.Type) {
	case domain.DiscountPercentage:
		if d.Value < 0 || d.Value > 100 {
			return 0, apperr.Validation("percentage discount must be between 0 and 100")
		}
		return roundCents(float64(subtotalCents) * float64(d.Value) / 100.0), nil
	case domain.DiscountFixed:
		if d.Value < 0 {
			return 0, apperr.Validation("fixed discount cannot be negative")
		}
		return d.Value, nil
	default:
		return 0, apperr.Validation("unknown discount type")
	}
}

// DiscountedTotal applies a discount to an already-quoted price. Used by
// the discount follow-up, which re-prices the quote as a whole rather
// than re-running the composer.
func DiscountedTotal(priceCents int64, d *transport.DiscountRequest) (int64, int64, error) {
	amount, err := discountAmount(priceCents, d)
	if err != nil {
		return 0, 0, err
	}
	return priceCents - amount, amount, nil
}
