package pricing

import (
	"math"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestRateAndAmount_PremiumFat(t *testing.T) {
	rate, amount := RateAndAmount(4.0, 8.5, 10.0, DefaultSettings)

	nearlyEqual(t, "rate", rate, 32.00)
	nearlyEqual(t, "amount", amount, 320.00)
}

func TestRateAndAmount_LowFatLowSNF(t *testing.T) {
	// 30 + (2.0-3.5)*4 + (6.0-8.5)*2 = 30 - 6 - 5
	rate, amount := RateAndAmount(2.0, 6.0, 10.0, DefaultSettings)

	nearlyEqual(t, "rate", rate, 19.00)
	nearlyEqual(t, "amount", amount, 190.00)
}

func TestRateAndAmount_ClampsNegativeRateToZeroAmount(t *testing.T) {
	// 30 + (0-3.5)*4 + (0-8.5)*2 = -1: the rate is reported as computed,
	// the amount never goes below zero.
	rate, amount := RateAndAmount(0.0, 0.0, 10.0, DefaultSettings)

	nearlyEqual(t, "rate", rate, -1.00)
	nearlyEqual(t, "amount", amount, 0.00)
}

func TestRateAndAmount_NegativePerPointRates(t *testing.T) {
	s := Settings{BaseFat: 3.5, BaseSNF: 8.5, BaseRate: 30.0, FatRate: -4.0, SNFRate: -2.0}

	rate, amount := RateAndAmount(4.5, 9.5, 2.0, s)

	nearlyEqual(t, "rate", rate, 24.00)
	nearlyEqual(t, "amount", amount, 48.00)
}

func TestEstimateSNF_AtReferenceTemperature(t *testing.T) {
	// clr = 30, snf = 30/4 + 0.84 + 0.36
	nearlyEqual(t, "snf", EstimateSNF(30.0, 27.0, 4.0), 8.70)
}

func TestEstimateSNF_TemperatureCorrection(t *testing.T) {
	// clr = 28 + 2.5*0.2 = 28.5, snf = 7.125 + 0.798 + 0.36 = 8.283
	nearlyEqual(t, "snf", EstimateSNF(28.0, 29.5, 3.8), 8.28)
}

func TestRound2_HalvesAwayFromZero(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0.125, 0.13},
		{-0.125, -0.13},
		{2.344, 2.34},
		{2.346, 2.35},
		{19.0, 19.0},
	}
	for _, c := range cases {
		nearlyEqual(t, "Round2", Round2(c.in), c.want)
	}
}
