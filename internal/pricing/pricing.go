package pricing

import "math"

// Settings holds the five coefficients of the linear milk-pricing model.
// Exactly one settings record exists; callers pass the current value in so
// price calculations stay pure.
type Settings struct {
	BaseFat  float64
	BaseSNF  float64
	BaseRate float64
	FatRate  float64
	SNFRate  float64
}

// DefaultSettings is the pricing model seeded at first startup.
var DefaultSettings = Settings{
	BaseFat:  3.5,
	BaseSNF:  8.5,
	BaseRate: 30.0,
	FatRate:  4.0,
	SNFRate:  2.0,
}

// RateAndAmount computes the per-liter rate and the total amount for a
// collection entry.
//
//	rate   = baseRate + (fat - baseFat)*fatRate + (snf - baseSNF)*snfRate
//	amount = max(0, rate) * qtyLiters
//
// Both values are rounded to two decimals. The rate may come out negative
// when fat/snf sit far below base; the amount clamps it at zero first and is
// therefore never negative.
func RateAndAmount(fat, snf, qtyLiters float64, s Settings) (rate, amount float64) {
	rate = Round2(s.BaseRate + (fat-s.BaseFat)*s.FatRate + (snf-s.BaseSNF)*s.SNFRate)
	amount = Round2(math.Max(0.0, rate) * qtyLiters)
	return rate, amount
}

// EstimateSNF approximates SNF% from a lactometer reading and the milk
// temperature, using the standard lactometer correction:
//
//	clr = lr + (tempC - 27) * 0.2
//	snf = clr/4 + 0.21*fat + 0.36
//
// The result is rounded to two decimals. This is an approximation helper for
// data entry; only the arithmetic is guaranteed, not dairy-lab accuracy.
func EstimateSNF(lr, tempC, fat float64) float64 {
	clr := lr + (tempC-27.0)*0.2
	return Round2(clr/4.0 + 0.21*fat + 0.36)
}

// Round2 rounds to two decimals, halves away from zero. Every stored rate,
// amount, and estimated SNF in the system goes through this one rule.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
