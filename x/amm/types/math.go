package types

import (
	"math/big"

	"cosmossdk.io/math"
)

// Fixed point widths. Sqrt prices and liquidity are unsigned 128-bit values
// in Q64.64; token amounts fit in 64 bits. Arithmetic runs over big.Int, so
// nothing wraps: any result outside the target width fails with
// ErrMathOverflow.
var (
	// Q64 is the fixed binary point, 2^64.
	Q64 = new(big.Int).Lsh(big.NewInt(1), 64)

	// MaxUint64 bounds token amounts.
	MaxUint64 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 64), big.NewInt(1))

	// MaxUint128 bounds sqrt prices and liquidity.
	MaxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

	// MinSqrtPrice and MaxSqrtPrice are the absolute Q64.64 price rails;
	// pool configs may only narrow them.
	MinSqrtPrice = math.NewIntFromBigInt(big.NewInt(4295048016))
	MaxSqrtPrice = math.NewIntFromBigInt(mustBig("79226673521066979257578248091"))
)

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid big int literal: " + s)
	}
	return v
}

// MulDiv computes a*b/denominator with round-down semantics. The intermediate
// product is exact; only the final result is width-checked.
func MulDiv(a, b, denominator math.Int) (math.Int, error) {
	if denominator.IsZero() {
		return math.Int{}, ErrDivisionByZero
	}
	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	result := product.Quo(product, denominator.BigInt())
	if result.Cmp(MaxUint128) > 0 {
		return math.Int{}, ErrMathOverflow
	}
	return math.NewIntFromBigInt(result), nil
}

// MulDivRoundUp computes a*b/denominator rounding toward positive infinity.
// Used on the amount-in side so rounding never favors the trader.
func MulDivRoundUp(a, b, denominator math.Int) (math.Int, error) {
	if denominator.IsZero() {
		return math.Int{}, ErrDivisionByZero
	}
	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	quo, rem := new(big.Int).QuoRem(product, denominator.BigInt(), new(big.Int))
	if rem.Sign() != 0 {
		quo.Add(quo, big.NewInt(1))
	}
	if quo.Cmp(MaxUint128) > 0 {
		return math.Int{}, ErrMathOverflow
	}
	return math.NewIntFromBigInt(quo), nil
}

// CheckAmount verifies a token amount fits the 64-bit working width.
func CheckAmount(a math.Int) error {
	if a.IsNegative() || a.BigInt().Cmp(MaxUint64) > 0 {
		return ErrMathOverflow
	}
	return nil
}

// SqrtPriceFromPrice converts a price (B per A, 18-decimal LegacyDec) into its
// Q64.64 square root representation.
func SqrtPriceFromPrice(price math.LegacyDec) (math.Int, error) {
	if !price.IsPositive() {
		return math.Int{}, ErrInvalidPriceBounds
	}
	// sqrt(price) * 2^64 == sqrt(price * 2^128); work on the scaled integer
	// so precision survives the square root.
	scaled := new(big.Int).Mul(price.BigInt(), new(big.Int).Lsh(big.NewInt(1), 128))
	scaled.Quo(scaled, math.LegacyOneDec().BigInt())
	root := new(big.Int).Sqrt(scaled)
	if root.Cmp(MaxUint128) > 0 {
		return math.Int{}, ErrMathOverflow
	}
	return math.NewIntFromBigInt(root), nil
}

// PriceFromSqrtPrice converts a Q64.64 sqrt price back into an 18-decimal
// price. Round-down; the inverse of SqrtPriceFromPrice up to rounding.
func PriceFromSqrtPrice(sqrtPrice math.Int) math.LegacyDec {
	sq := new(big.Int).Mul(sqrtPrice.BigInt(), sqrtPrice.BigInt())
	sq.Mul(sq, math.LegacyOneDec().BigInt())
	sq.Rsh(sq, 128)
	return math.LegacyNewDecFromBigIntWithPrec(sq, math.LegacyPrecision)
}

// GetDeltaAmountA returns the token A amount for a liquidity slice between two
// sqrt prices: L * (upper - lower) * 2^64 / (upper * lower).
func GetDeltaAmountA(sqrtLower, sqrtUpper, liquidity math.Int, roundUp bool) (math.Int, error) {
	if sqrtLower.IsZero() || sqrtUpper.IsZero() {
		return math.Int{}, ErrDivisionByZero
	}
	diff := sqrtUpper.Sub(sqrtLower)
	if diff.IsNegative() {
		diff = diff.Neg()
	}
	num := new(big.Int).Mul(liquidity.BigInt(), diff.BigInt())
	num.Mul(num, Q64)
	den := new(big.Int).Mul(sqrtUpper.BigInt(), sqrtLower.BigInt())
	quo, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if roundUp && rem.Sign() != 0 {
		quo.Add(quo, big.NewInt(1))
	}
	if quo.Cmp(MaxUint64) > 0 {
		return math.Int{}, ErrMathOverflow
	}
	return math.NewIntFromBigInt(quo), nil
}

// GetDeltaAmountB returns the token B amount for a liquidity slice between two
// sqrt prices: L * (upper - lower) / 2^64.
func GetDeltaAmountB(sqrtLower, sqrtUpper, liquidity math.Int, roundUp bool) (math.Int, error) {
	diff := sqrtUpper.Sub(sqrtLower)
	if diff.IsNegative() {
		diff = diff.Neg()
	}
	num := new(big.Int).Mul(liquidity.BigInt(), diff.BigInt())
	quo, rem := new(big.Int).QuoRem(num, Q64, new(big.Int))
	if roundUp && rem.Sign() != 0 {
		quo.Add(quo, big.NewInt(1))
	}
	if quo.Cmp(MaxUint64) > 0 {
		return math.Int{}, ErrMathOverflow
	}
	return math.NewIntFromBigInt(quo), nil
}

// GetNextSqrtPriceFromAmountAIn computes the post-swap sqrt price when amountA
// is added to the pool (price moves down):
// sqrt' = L * sqrt * 2^64 / (L * 2^64 + amountA * sqrt), rounded up so the
// pool never undercharges.
func GetNextSqrtPriceFromAmountAIn(sqrtPrice, liquidity, amountA math.Int) (math.Int, error) {
	if liquidity.IsZero() {
		return math.Int{}, ErrDivisionByZero
	}
	num := new(big.Int).Mul(liquidity.BigInt(), sqrtPrice.BigInt())
	num.Mul(num, Q64)
	den := new(big.Int).Mul(liquidity.BigInt(), Q64)
	den.Add(den, new(big.Int).Mul(amountA.BigInt(), sqrtPrice.BigInt()))
	quo, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if rem.Sign() != 0 {
		quo.Add(quo, big.NewInt(1))
	}
	if quo.Cmp(MaxUint128) > 0 {
		return math.Int{}, ErrMathOverflow
	}
	return math.NewIntFromBigInt(quo), nil
}

// GetNextSqrtPriceFromAmountBIn computes the post-swap sqrt price when amountB
// is added to the pool (price moves up): sqrt' = sqrt + amountB * 2^64 / L,
// rounded down.
func GetNextSqrtPriceFromAmountBIn(sqrtPrice, liquidity, amountB math.Int) (math.Int, error) {
	if liquidity.IsZero() {
		return math.Int{}, ErrDivisionByZero
	}
	delta, err := MulDiv(amountB, math.NewIntFromBigInt(new(big.Int).Set(Q64)), liquidity)
	if err != nil {
		return math.Int{}, err
	}
	next := sqrtPrice.Add(delta)
	if next.BigInt().Cmp(MaxUint128) > 0 {
		return math.Int{}, ErrMathOverflow
	}
	return next, nil
}

// GetAmountAForPriceMove returns the token A input that moves the price from
// sqrtPrice down to sqrtTarget: L * 2^64 * (sqrt - target) / (sqrt * target).
// Round-up, so a partial fill never undercharges.
func GetAmountAForPriceMove(sqrtPrice, sqrtTarget, liquidity math.Int) (math.Int, error) {
	if sqrtPrice.IsZero() || sqrtTarget.IsZero() {
		return math.Int{}, ErrDivisionByZero
	}
	diff := sqrtPrice.Sub(sqrtTarget)
	if diff.IsNegative() {
		diff = diff.Neg()
	}
	num := new(big.Int).Mul(liquidity.BigInt(), Q64)
	num.Mul(num, diff.BigInt())
	den := new(big.Int).Mul(sqrtPrice.BigInt(), sqrtTarget.BigInt())
	quo, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if rem.Sign() != 0 {
		quo.Add(quo, big.NewInt(1))
	}
	if quo.Cmp(MaxUint64) > 0 {
		return math.Int{}, ErrMathOverflow
	}
	return math.NewIntFromBigInt(quo), nil
}

// GetAmountBForPriceMove returns the token B input that moves the price from
// sqrtPrice up to sqrtTarget: L * (target - sqrt) / 2^64, round-up.
func GetAmountBForPriceMove(sqrtPrice, sqrtTarget, liquidity math.Int) (math.Int, error) {
	return GetDeltaAmountB(sqrtPrice, sqrtTarget, liquidity, true)
}

// GetLiquidityFromAmounts derives the largest liquidity both amounts can fund
// with the pool spanning [sqrtMin, sqrtMax] at the current sqrt price. Token A
// covers the range above the current price, token B the range below.
func GetLiquidityFromAmounts(amountA, amountB, sqrtMin, sqrtMax, sqrtCurrent math.Int) (math.Int, error) {
	if err := CheckAmount(amountA); err != nil {
		return math.Int{}, err
	}
	if err := CheckAmount(amountB); err != nil {
		return math.Int{}, err
	}

	// L_a = amountA * sqrtCurrent * sqrtMax / (2^64 * (sqrtMax - sqrtCurrent))
	liquidityA := math.ZeroInt()
	if sqrtMax.GT(sqrtCurrent) {
		num := new(big.Int).Mul(amountA.BigInt(), sqrtCurrent.BigInt())
		num.Mul(num, sqrtMax.BigInt())
		den := new(big.Int).Mul(Q64, sqrtMax.Sub(sqrtCurrent).BigInt())
		v := num.Quo(num, den)
		if v.Cmp(MaxUint128) > 0 {
			return math.Int{}, ErrMathOverflow
		}
		liquidityA = math.NewIntFromBigInt(v)
	}

	// L_b = amountB * 2^64 / (sqrtCurrent - sqrtMin)
	liquidityB := math.ZeroInt()
	if sqrtCurrent.GT(sqrtMin) {
		num := new(big.Int).Mul(amountB.BigInt(), Q64)
		den := sqrtCurrent.Sub(sqrtMin).BigInt()
		v := num.Quo(num, den)
		if v.Cmp(MaxUint128) > 0 {
			return math.Int{}, ErrMathOverflow
		}
		liquidityB = math.NewIntFromBigInt(v)
	}

	switch {
	case liquidityA.IsZero():
		return liquidityB, nil
	case liquidityB.IsZero():
		return liquidityA, nil
	case liquidityA.LT(liquidityB):
		return liquidityA, nil
	default:
		return liquidityB, nil
	}
}

// GetAmountsForLiquidity returns the token deposits a liquidity amount
// requires with the pool spanning [sqrtMin, sqrtMax] at the current sqrt
// price. Both legs round up so deposits always fully fund the liquidity.
func GetAmountsForLiquidity(sqrtCurrent, sqrtMin, sqrtMax, liquidity math.Int) (amountA, amountB math.Int, err error) {
	amountA, err = GetDeltaAmountA(sqrtCurrent, sqrtMax, liquidity, true)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	amountB, err = GetDeltaAmountB(sqrtMin, sqrtCurrent, liquidity, true)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return amountA, amountB, nil
}
