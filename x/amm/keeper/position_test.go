package keeper

import (
	"testing"

	"cosmossdk.io/math"

	"github.com/gatedfi/rwa-dex/x/amm/types"
)

// TestCollectFees tests the settle-and-pay path after an lp-fee swap
func TestCollectFees(t *testing.T) {
	k, ck, bank, ctx := setupKeeper(t)

	config := zeroFeeConfig("cfg-lpfee")
	config.BaseFee.CliffFeeNumerator = math.NewInt(10_000_000) // 1%
	pool, position := createTestPool(t, k, ck, ctx, config)
	verifyAccount(t, ck, ctx, trader)

	swapResult, err := k.Swap(ctx, trader, pool.PoolID, math.NewInt(1_000_000), math.ZeroInt(), types.DirectionBToA, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bank.sends = nil

	feeA, feeB, err := k.CollectFees(ctx, creator, position.PositionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The sole LP earns the whole fee, modulo fixed-point floor rounding
	if !feeA.IsPositive() || feeA.GT(swapResult.FeeAmount) {
		t.Errorf("expected fee in (0, %s], got %s", swapResult.FeeAmount.String(), feeA.String())
	}
	if !feeB.IsZero() {
		t.Errorf("no token B fees expected, got %s", feeB.String())
	}
	if len(bank.sends) != 1 || !bank.sends[0].coins.AmountOf(denomA).Equal(feeA) {
		t.Fatalf("payout transfer mismatch: %v", bank.sends)
	}

	// Owed balances zero out and a second collect pays nothing
	bank.sends = nil
	feeA, feeB, err = k.CollectFees(ctx, creator, position.PositionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !feeA.IsZero() || !feeB.IsZero() {
		t.Errorf("double collection: %s / %s", feeA.String(), feeB.String())
	}
	if len(bank.sends) != 0 {
		t.Error("empty collection must not transfer")
	}
}

// TestCollectFeesAuthorization tests ownership guards
func TestCollectFeesAuthorization(t *testing.T) {
	k, ck, _, ctx := setupKeeper(t)
	_, position := createTestPool(t, k, ck, ctx, zeroFeeConfig("cfg-1"))

	if _, _, err := k.CollectFees(ctx, creator, "missing"); err != types.ErrPositionNotFound {
		t.Errorf("expected ErrPositionNotFound, got %v", err)
	}
	if _, _, err := k.CollectFees(ctx, stranger, position.PositionID); err != types.ErrNotPositionOwner {
		t.Errorf("expected ErrNotPositionOwner, got %v", err)
	}
}

// TestClosePosition tests the emptied-and-settled requirements
func TestClosePosition(t *testing.T) {
	k, ck, _, ctx := setupKeeper(t)

	config := zeroFeeConfig("cfg-lpfee")
	config.BaseFee.CliffFeeNumerator = math.NewInt(10_000_000) // 1%
	pool, position := createTestPool(t, k, ck, ctx, config)
	verifyAccount(t, ck, ctx, trader)

	if _, err := k.Swap(ctx, trader, pool.PoolID, math.NewInt(1_000_000), math.ZeroInt(), types.DirectionBToA, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Still holds liquidity
	if err := k.ClosePosition(ctx, creator, position.PositionID); err != types.ErrPositionNotEmpty {
		t.Fatalf("expected ErrPositionNotEmpty, got %v", err)
	}

	if _, _, err := k.RemoveLiquidity(ctx, creator, position.PositionID, math.NewInt(1_000_000), math.ZeroInt(), math.ZeroInt()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Emptied, but the swap fees are still uncollected
	if err := k.ClosePosition(ctx, creator, position.PositionID); err != types.ErrOutstandingFees {
		t.Fatalf("expected ErrOutstandingFees, got %v", err)
	}

	if _, _, err := k.CollectFees(ctx, creator, position.PositionID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := k.ClosePosition(ctx, creator, position.PositionID); err != nil {
		t.Fatalf("expected close to succeed, got %v", err)
	}
	if k.GetPosition(ctx, position.PositionID) != nil {
		t.Error("closed position still stored")
	}
	if err := k.ClosePosition(ctx, creator, position.PositionID); err != types.ErrPositionNotFound {
		t.Errorf("expected ErrPositionNotFound, got %v", err)
	}
}

// TestWithdrawProtocolFees tests the authority-only protocol payout
func TestWithdrawProtocolFees(t *testing.T) {
	k, ck, bank, ctx := setupKeeper(t)

	config := zeroFeeConfig("cfg-fee")
	config.BaseFee.CliffFeeNumerator = math.NewInt(10_000_000) // 1%
	config.CollectFeeMode = types.CollectFeeModeProtocol
	pool, _ := createTestPool(t, k, ck, ctx, config)
	verifyAccount(t, ck, ctx, trader)

	if _, err := k.Swap(ctx, trader, pool.PoolID, math.NewInt(1_000_000), math.ZeroInt(), types.DirectionBToA, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := k.WithdrawProtocolFees(ctx, stranger, pool.PoolID, creator); err != types.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	bank.sends = nil
	feeA, feeB, err := k.WithdrawProtocolFees(ctx, testAuthority, pool.PoolID, creator)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Whole fee: no referral was attached
	if !feeB.Equal(math.NewInt(10_000)) || !feeA.IsZero() {
		t.Errorf("unexpected protocol fees %s / %s", feeA.String(), feeB.String())
	}
	if len(bank.sends) != 1 {
		t.Fatalf("expected one payout, got %d", len(bank.sends))
	}

	// Balances reset after payout
	updated := k.GetPool(ctx, pool.PoolID)
	if updated.ProtocolFeeA.IsPositive() || updated.ProtocolFeeB.IsPositive() {
		t.Error("protocol balances must reset after withdrawal")
	}
}
