package booking

type PricingPolicy interface {
	NightlyRate() Money
	Total(r DateRange) Money
}

type NightlyRatePricing struct {
	rate Money
}

func NewNightlyRatePricing(rate int64) *NightlyRatePricing {
	return &NightlyRatePricing{rate: Money(rate)}
}

func (p *NightlyRatePricing) NightlyRate() Money {
	return p.rate
}

func (p *NightlyRatePricing) Total(r DateRange) Money {
	return Money(r.Nights()) * p.rate
}
