package service

import (
	"testing"

	"chauffeurtop_backend/internal/quotes/transport"
	"chauffeurtop_backend/platform/apperr"
)

func int64Ptr(v int64) *int64 { return &v }

func TestComputeBreakdown_ExtrasAndPercentageDiscount(t *testing.T) {
	req := transport.QuoteResponseRequest{
		BasePriceCents: 15000,
		ExtraItems: []transport.ExtraItemRequest{
			{Description: "Airport fee", AmountCents: 1500},
		},
		Discount: &transport.DiscountRequest{Type: "percentage", Value: 10},
	}

	result, err := ComputeBreakdown(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.SubtotalCents != 16500 {
		t.Fatalf("expected subtotal 16500, got %d", result.SubtotalCents)
	}
	if result.Discount == nil || result.Discount.AmountCents != 1650 {
		t.Fatalf("expected discount 1650, got %+v", result.Discount)
	}
	if result.TotalCents != 14850 {
		t.Fatalf("expected total 14850, got %d", result.TotalCents)
	}
}

func TestComputeBreakdown_ReturnTripSumsBothLegs(t *testing.T) {
	req := transport.QuoteResponseRequest{
		BasePriceCents:       12000,
		ReturnTrip:           true,
		ReturnBasePriceCents: int64Ptr(12000),
	}

	result, err := ComputeBreakdown(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.SubtotalCents != 24000 {
		t.Fatalf("expected subtotal 24000, got %d", result.SubtotalCents)
	}
	if result.TotalCents != 24000 {
		t.Fatalf("expected total 24000, got %d", result.TotalCents)
	}
	if result.ReturnBasePriceCents == nil || *result.ReturnBasePriceCents != 12000 {
		t.Fatalf("expected return base 12000, got %v", result.ReturnBasePriceCents)
	}
}

func TestComputeBreakdown_ReturnTripWithoutReturnPrice(t *testing.T) {
	req := transport.QuoteResponseRequest{
		BasePriceCents: 12000,
		ReturnTrip:     true,
	}

	if _, err := ComputeBreakdown(req); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestComputeBreakdown_FixedDiscountExceedingSubtotalGoesNegative(t *testing.T) {
	req := transport.QuoteResponseRequest{
		BasePriceCents: 5000,
		Discount:       &transport.DiscountRequest{Type: "fixed", Value: 8000},
	}

	result, err := ComputeBreakdown(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// No silent clamp; staff see the negative total and fix the input.
	if result.TotalCents != -3000 {
		t.Fatalf("expected total -3000, got %d", result.TotalCents)
	}
}

func TestComputeBreakdown_PercentageOutOfRange(t *testing.T) {
	for _, value := range []int64{101, 200} {
		req := transport.QuoteResponseRequest{
			BasePriceCents: 10000,
			Discount:       &transport.DiscountRequest{Type: "percentage", Value: value},
		}
		if _, err := ComputeBreakdown(req); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("expected validation error for %d%%, got %v", value, err)
		}
	}
}

func TestComputeBreakdown_ZeroBaseRejected(t *testing.T) {
	if _, err := ComputeBreakdown(transport.QuoteResponseRequest{}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestComputeBreakdown_PercentageRounding(t *testing.T) {
	// 15% of 10050 is 1507.5, rounds to 1508.
	req := transport.QuoteResponseRequest{
		BasePriceCents: 10050,
		Discount:       &transport.DiscountRequest{Type: "percentage", Value: 15},
	}

	result, err := ComputeBreakdown(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Discount.AmountCents != 1508 {
		t.Fatalf("expected discount 1508, got %d", result.Discount.AmountCents)
	}
	if result.TotalCents != 8542 {
		t.Fatalf("expected total 8542, got %d", result.TotalCents)
	}
}

func TestDiscountedTotal_FixedNotClamped(t *testing.T) {
	total, amount, err := DiscountedTotal(10000, &transport.DiscountRequest{Type: "fixed", Value: 12000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount != 12000 {
		t.Fatalf("expected amount 12000, got %d", amount)
	}
	if total != -2000 {
		t.Fatalf("expected total -2000, got %d", total)
	}
}

func TestDiscountedTotal_Percentage(t *testing.T) {
	total, amount, err := DiscountedTotal(20000, &transport.DiscountRequest{Type: "percentage", Value: 25})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amount != 5000 || total != 15000 {
		t.Fatalf("expected 5000 off leaving 15000, got amount %d total %d", amount, total)
	}
}
