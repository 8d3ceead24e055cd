package types

import (
	"math/big"
	"testing"

	"cosmossdk.io/math"
)

func q64(n int64) math.Int {
	return math.NewIntFromBigInt(new(big.Int).Mul(big.NewInt(n), Q64))
}

// TestMulDiv tests floor division and overflow detection
func TestMulDiv(t *testing.T) {
	v, err := MulDiv(math.NewInt(10), math.NewInt(7), math.NewInt(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Equal(math.NewInt(23)) {
		t.Errorf("expected floor(70/3)=23, got %s", v.String())
	}

	// Division by zero
	if _, err := MulDiv(math.NewInt(1), math.NewInt(1), math.ZeroInt()); err == nil {
		t.Error("expected division by zero error")
	}

	// Result above 2^128-1 must fail, not wrap
	huge := math.NewIntFromBigInt(MaxUint128)
	if _, err := MulDiv(huge, huge, math.NewInt(1)); err == nil {
		t.Error("expected overflow error for 2^128 * 2^128")
	}
}

// TestMulDivRoundUp tests ceiling division
func TestMulDivRoundUp(t *testing.T) {
	v, err := MulDivRoundUp(math.NewInt(10), math.NewInt(7), math.NewInt(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Equal(math.NewInt(24)) {
		t.Errorf("expected ceil(70/3)=24, got %s", v.String())
	}

	// Exact division does not round
	v, err = MulDivRoundUp(math.NewInt(10), math.NewInt(6), math.NewInt(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Equal(math.NewInt(20)) {
		t.Errorf("expected 20, got %s", v.String())
	}
}

// TestCheckAmount tests the token amount width limit
func TestCheckAmount(t *testing.T) {
	if err := CheckAmount(math.NewIntFromBigInt(MaxUint64)); err != nil {
		t.Errorf("2^64-1 should be a valid amount: %v", err)
	}
	over := math.NewIntFromBigInt(new(big.Int).Add(MaxUint64, big.NewInt(1)))
	if err := CheckAmount(over); err == nil {
		t.Error("expected overflow for 2^64")
	}
	if err := CheckAmount(math.NewInt(-1)); err == nil {
		t.Error("expected error for negative amount")
	}
}

// TestSqrtPriceBounds tests the absolute sqrt price rails
func TestSqrtPriceBounds(t *testing.T) {
	if !MinSqrtPrice.Equal(math.NewInt(4295048016)) {
		t.Errorf("unexpected min sqrt price %s", MinSqrtPrice.String())
	}
	expectedMax, ok := math.NewIntFromString("79226673521066979257578248091")
	if !ok || !MaxSqrtPrice.Equal(expectedMax) {
		t.Errorf("unexpected max sqrt price %s", MaxSqrtPrice.String())
	}
}

// TestSqrtPriceRoundTrip tests price <-> sqrt price conversion
func TestSqrtPriceRoundTrip(t *testing.T) {
	// price 4.0 -> sqrt price 2.0 in Q64.64
	sqrtPrice, err := SqrtPriceFromPrice(math.LegacyNewDec(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sqrtPrice.Equal(q64(2)) {
		t.Errorf("expected sqrt(4)=2Q, got %s", sqrtPrice.String())
	}

	price := PriceFromSqrtPrice(sqrtPrice)
	if !price.Equal(math.LegacyNewDec(4)) {
		t.Errorf("expected round trip to 4.0, got %s", price.String())
	}
}

// TestGetDeltaAmountA tests the token A delta for a price range
func TestGetDeltaAmountA(t *testing.T) {
	// L=1e6 over [2Q, 4Q]: deltaA = L*(4Q-2Q)*Q/(4Q*2Q) = L/4
	liquidity := math.NewInt(1_000_000)
	v, err := GetDeltaAmountA(q64(2), q64(4), liquidity, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Equal(math.NewInt(250_000)) {
		t.Errorf("expected 250000, got %s", v.String())
	}

	// Round-up variant on an exact division matches
	up, err := GetDeltaAmountA(q64(2), q64(4), liquidity, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !up.Equal(v) {
		t.Errorf("exact division should not round, got %s vs %s", up.String(), v.String())
	}
}

// TestGetDeltaAmountB tests the token B delta for a price range
func TestGetDeltaAmountB(t *testing.T) {
	// L=1e6 over [2Q, 4Q]: deltaB = L*(4Q-2Q)/Q = 2e6
	v, err := GetDeltaAmountB(q64(2), q64(4), math.NewInt(1_000_000), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Equal(math.NewInt(2_000_000)) {
		t.Errorf("expected 2000000, got %s", v.String())
	}
}

// TestGetNextSqrtPriceFromAmountBIn tests the B->A price move
func TestGetNextSqrtPriceFromAmountBIn(t *testing.T) {
	// s' = s + amount*Q/L: 2Q + 1e6*Q/1e6 = 3Q
	next, err := GetNextSqrtPriceFromAmountBIn(q64(2), math.NewInt(1_000_000), math.NewInt(1_000_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !next.Equal(q64(3)) {
		t.Errorf("expected 3Q, got %s", next.String())
	}
}

// TestGetNextSqrtPriceFromAmountAIn tests the A->B price move direction
func TestGetNextSqrtPriceFromAmountAIn(t *testing.T) {
	start := q64(2)
	next, err := GetNextSqrtPriceFromAmountAIn(start, math.NewInt(1_000_000), math.NewInt(1_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !next.LT(start) {
		t.Errorf("A in must move price down, got %s from %s", next.String(), start.String())
	}
	if next.IsZero() || next.IsNegative() {
		t.Errorf("next price must stay positive, got %s", next.String())
	}
}

// TestPriceMoveConsistency tests that the input back-computed for a price
// move reproduces at least that move
func TestPriceMoveConsistency(t *testing.T) {
	liquidity := math.NewInt(5_000_000)
	start := q64(3)
	target := q64(2)

	amountA, err := GetAmountAForPriceMove(start, target, liquidity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	next, err := GetNextSqrtPriceFromAmountAIn(start, liquidity, amountA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Round-up input moves the price at least to the target
	if next.GT(target) {
		t.Errorf("round-up input undershot the move: next %s > target %s", next.String(), target.String())
	}

	amountB, err := GetAmountBForPriceMove(q64(2), q64(3), liquidity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nextUp, err := GetNextSqrtPriceFromAmountBIn(q64(2), liquidity, amountB)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nextUp.LT(q64(3)) {
		t.Errorf("round-up input undershot the move: next %s < target 3Q", nextUp.String())
	}
}

// TestGetLiquidityFromAmounts tests liquidity derivation takes the limiting leg
func TestGetLiquidityFromAmounts(t *testing.T) {
	// At s=2Q in [Q, 4Q]: L_a = amountA*2Q*4Q/(Q*2Q) = amountA*4,
	// L_b = amountB*Q/(2Q-Q) = amountB
	liquidity, err := GetLiquidityFromAmounts(math.NewInt(1000), math.NewInt(8000), q64(1), q64(4), q64(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !liquidity.Equal(math.NewInt(4000)) {
		t.Errorf("expected limiting liquidity 4000, got %s", liquidity.String())
	}

	// Swap which leg limits
	liquidity, err = GetLiquidityFromAmounts(math.NewInt(10_000), math.NewInt(2000), q64(1), q64(4), q64(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !liquidity.Equal(math.NewInt(2000)) {
		t.Errorf("expected limiting liquidity 2000, got %s", liquidity.String())
	}
}

// TestGetAmountsForLiquidity tests the deposit legs for a liquidity amount
func TestGetAmountsForLiquidity(t *testing.T) {
	// L=1e6 at s=2Q in [Q, 4Q]: amountA over [2Q,4Q] = 250000,
	// amountB over [Q,2Q] = 1e6
	amountA, amountB, err := GetAmountsForLiquidity(q64(2), q64(1), q64(4), math.NewInt(1_000_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !amountA.Equal(math.NewInt(250_000)) {
		t.Errorf("expected amountA 250000, got %s", amountA.String())
	}
	if !amountB.Equal(math.NewInt(1_000_000)) {
		t.Errorf("expected amountB 1000000, got %s", amountB.String())
	}
}
