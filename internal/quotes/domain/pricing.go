package domain

// DiscountType is how a discount value is interpreted.
type DiscountType string

const (
	// DiscountPercentage interprets Value as a percentage of the subtotal (0-100).
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed interprets Value as an absolute amount in cents.
	DiscountFixed DiscountType = "fixed"
)

// ExtraItem is a single priced line on top of the base fare(s).
type ExtraItem struct {
	Description string `json:"description"`
	AmountCents int64  `json:"amountCents"`
}

// Discount describes an applied discount. AmountCents is always derived from
// Type/Value against the subtotal, never entered directly.
type Discount struct {
	Type        DiscountType `json:"type"`
	Value       int64        `json:"value"`
	AmountCents int64        `json:"amountCents"`
	Reason      string       `json:"reason,omitempty"`
}

// PriceBreakdown is the structured decomposition of a quote's price.
// Invariants, enforced by the composer deriving rather than accepting totals:
//
//	SubtotalCents = BasePriceCents (+ ReturnBasePriceCents) + Σ ExtraItems
//	TotalCents    = SubtotalCents − Discount.AmountCents
//
// TotalCents is intentionally not clamped at zero: an over-sized fixed
// discount goes negative rather than being silently corrected.
type PriceBreakdown struct {
	BasePriceCents       int64       `json:"basePriceCents"`
	ReturnBasePriceCents *int64      `json:"returnBasePriceCents,omitempty"`
	ExtraItems           []ExtraItem `json:"extraItems,omitempty"`
	Discount             *Discount   `json:"discount,omitempty"`
	SubtotalCents        int64       `json:"subtotalCents"`
	TotalCents           int64       `json:"totalCents"`
}
