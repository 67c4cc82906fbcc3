package domain

import "github.com/shopspring/decimal"

// AmountPrecision is the common fixed-point scale all amounts are upscaled to
// before summation. Source tables mix 2 and 6 decimal places; 6 is the
// highest scale any of them carries.
const AmountPrecision = 6

// NormalizeAmount brings an amount to the engine's common precision.
// Rounding is banker's rounding, which only ever applies to inputs carrying
// more than six decimal places.
func NormalizeAmount(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(AmountPrecision)
}
