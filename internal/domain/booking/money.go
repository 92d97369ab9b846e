package booking

// Money is an amount in the currency's minor unit.
type Money int64

func (m Money) Int64() int64 { return int64(m) }

func (m Money) Half() Money { return m / 2 }

func (m Money) IsPositive() bool { return m > 0 }
