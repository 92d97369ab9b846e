package booking

import "time"

type RefundTier string

const (
	RefundFull RefundTier = "full"
	RefundHalf RefundTier = "half"
	RefundNone RefundTier = "none"
)

func (t RefundTier) Percentage() int {
	switch t {
	case RefundFull:
		return 100
	case RefundHalf:
		return 50
	default:
		return 0
	}
}

type RefundPolicy interface {
	Tier(checkIn, now time.Time) RefundTier
	Refund(total Money, checkIn, now time.Time) Money
}

// TieredRefundPolicy refunds everything up to FullWindow before check-in, half until
// check-in, nothing afterwards.
type TieredRefundPolicy struct {
	FullWindow time.Duration
}

func NewTieredRefundPolicy() *TieredRefundPolicy {
	return &TieredRefundPolicy{FullWindow: 24 * time.Hour}
}

func (p *TieredRefundPolicy) Tier(checkIn, now time.Time) RefundTier {
	until := checkIn.Sub(now)
	switch {
	case until >= p.FullWindow:
		return RefundFull
	case until > 0:
		return RefundHalf
	default:
		return RefundNone
	}
}

func (p *TieredRefundPolicy) Refund(total Money, checkIn, now time.Time) Money {
	switch p.Tier(checkIn, now) {
	case RefundFull:
		return total
	case RefundHalf:
		return total.Half()
	default:
		return 0
	}
}
