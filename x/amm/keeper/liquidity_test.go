package keeper

import (
	"testing"

	"cosmossdk.io/math"

	"github.com/gatedfi/rwa-dex/x/amm/types"
	compliancetypes "github.com/gatedfi/rwa-dex/x/compliance/types"
)

// TestAddLiquidity tests a deposit into an existing position
func TestAddLiquidity(t *testing.T) {
	k, ck, bank, ctx := setupKeeper(t)
	pool, position := createTestPool(t, k, ck, ctx, zeroFeeConfig("cfg-1"))
	bank.sends = nil

	// Doubling the liquidity requires the same amounts as seeding it
	amountA, amountB, err := k.AddLiquidity(ctx, creator, position.PositionID, math.NewInt(1_000_000), math.NewInt(250_000), math.NewInt(1_000_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !amountA.Equal(math.NewInt(250_000)) || !amountB.Equal(math.NewInt(1_000_000)) {
		t.Errorf("unexpected amounts %s / %s", amountA.String(), amountB.String())
	}

	updated := k.GetPool(ctx, pool.PoolID)
	if !updated.Liquidity.Equal(math.NewInt(2_000_000)) {
		t.Errorf("expected pool liquidity 2000000, got %s", updated.Liquidity.String())
	}
	if !k.GetPosition(ctx, position.PositionID).Liquidity.Equal(math.NewInt(2_000_000)) {
		t.Error("position liquidity not updated")
	}
}

// TestAddLiquiditySlippage tests the per-leg threshold check
func TestAddLiquiditySlippage(t *testing.T) {
	k, ck, bank, ctx := setupKeeper(t)
	pool, position := createTestPool(t, k, ck, ctx, zeroFeeConfig("cfg-1"))
	bank.sends = nil

	// Token B needs 1e6 but the caller caps it below that
	_, _, err := k.AddLiquidity(ctx, creator, position.PositionID, math.NewInt(1_000_000), math.NewInt(250_000), math.NewInt(999_999))
	if err != types.ErrSlippageExceeded {
		t.Fatalf("expected ErrSlippageExceeded, got %v", err)
	}
	if len(bank.sends) != 0 {
		t.Error("rejected deposit must move no funds")
	}
	if !k.GetPool(ctx, pool.PoolID).Liquidity.Equal(math.NewInt(1_000_000)) {
		t.Error("rejected deposit must not change liquidity")
	}
}

// TestAddLiquidityAuthorization tests ownership and existence guards
func TestAddLiquidityAuthorization(t *testing.T) {
	k, ck, _, ctx := setupKeeper(t)
	_, position := createTestPool(t, k, ck, ctx, zeroFeeConfig("cfg-1"))

	if _, _, err := k.AddLiquidity(ctx, creator, "missing", math.NewInt(1), math.NewInt(1), math.NewInt(1)); err != types.ErrPositionNotFound {
		t.Errorf("expected ErrPositionNotFound, got %v", err)
	}
	if _, _, err := k.AddLiquidity(ctx, stranger, position.PositionID, math.NewInt(1), math.NewInt(1), math.NewInt(1)); err != types.ErrNotPositionOwner {
		t.Errorf("expected ErrNotPositionOwner, got %v", err)
	}
	if _, _, err := k.AddLiquidity(ctx, creator, position.PositionID, math.ZeroInt(), math.NewInt(1), math.NewInt(1)); err != types.ErrZeroAmount {
		t.Errorf("expected ErrZeroAmount, got %v", err)
	}
}

// TestRemoveLiquidity tests a withdrawal with both gated legs
func TestRemoveLiquidity(t *testing.T) {
	k, ck, bank, ctx := setupKeeper(t)
	pool, position := createTestPool(t, k, ck, ctx, zeroFeeConfig("cfg-1"))
	bank.sends = nil

	amountA, amountB, err := k.RemoveLiquidity(ctx, creator, position.PositionID, math.NewInt(500_000), math.ZeroInt(), math.ZeroInt())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Withdrawals round down: half the seeded amounts
	if !amountA.Equal(math.NewInt(125_000)) || !amountB.Equal(math.NewInt(500_000)) {
		t.Errorf("unexpected amounts %s / %s", amountA.String(), amountB.String())
	}

	updated := k.GetPool(ctx, pool.PoolID)
	if !updated.Liquidity.Equal(math.NewInt(500_000)) {
		t.Errorf("expected pool liquidity 500000, got %s", updated.Liquidity.String())
	}
	if len(bank.sends) != 1 || bank.sends[0].to != creator {
		t.Fatalf("expected one withdrawal to the owner, got %v", bank.sends)
	}
}

// TestRemoveLiquidityGuards tests over-withdrawal and minimum thresholds
func TestRemoveLiquidityGuards(t *testing.T) {
	k, ck, _, ctx := setupKeeper(t)
	_, position := createTestPool(t, k, ck, ctx, zeroFeeConfig("cfg-1"))

	if _, _, err := k.RemoveLiquidity(ctx, creator, position.PositionID, math.NewInt(2_000_000), math.ZeroInt(), math.ZeroInt()); err != types.ErrInsufficientLiquidity {
		t.Errorf("expected ErrInsufficientLiquidity, got %v", err)
	}
	if _, _, err := k.RemoveLiquidity(ctx, creator, position.PositionID, math.NewInt(500_000), math.NewInt(200_000), math.ZeroInt()); err != types.ErrSlippageExceeded {
		t.Errorf("expected ErrSlippageExceeded, got %v", err)
	}
}

// TestRemoveLiquidityInvariantGuard tests a withdrawal that would leave the
// pool in a bad state aborts before any funds move
func TestRemoveLiquidityInvariantGuard(t *testing.T) {
	k, ck, bank, ctx := setupKeeper(t)
	pool, position := createTestPool(t, k, ck, ctx, zeroFeeConfig("cfg-1"))

	// Force the pool's liquidity below the position's
	pool.Liquidity = math.NewInt(100_000)
	k.SetPool(ctx, pool)
	bank.sends = nil

	if _, _, err := k.RemoveLiquidity(ctx, creator, position.PositionID, math.NewInt(500_000), math.ZeroInt(), math.ZeroInt()); err != types.ErrInsufficientLiquidity {
		t.Fatalf("expected ErrInsufficientLiquidity, got %v", err)
	}
	if len(bank.sends) != 0 {
		t.Error("aborted withdrawal must move no funds")
	}
	if !k.GetPool(ctx, pool.PoolID).Liquidity.Equal(math.NewInt(100_000)) {
		t.Error("aborted withdrawal must not change liquidity")
	}
}

// TestRemoveLiquidityFrozenOwner tests the gate blocks withdrawals to a
// frozen account
func TestRemoveLiquidityFrozenOwner(t *testing.T) {
	k, ck, bank, ctx := setupKeeper(t)
	pool, position := createTestPool(t, k, ck, ctx, zeroFeeConfig("cfg-1"))
	bank.sends = nil

	frozen := compliancetypes.FlagFrozen
	if _, err := ck.UpdateComplianceRecord(ctx, creator, nil, nil, frozen, 0, nil, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := k.RemoveLiquidity(ctx, creator, position.PositionID, math.NewInt(500_000), math.ZeroInt(), math.ZeroInt()); err != compliancetypes.ErrAccountFrozen {
		t.Fatalf("expected ErrAccountFrozen, got %v", err)
	}
	if len(bank.sends) != 0 {
		t.Error("denied withdrawal must move no funds")
	}
	if !k.GetPool(ctx, pool.PoolID).Liquidity.Equal(math.NewInt(1_000_000)) {
		t.Error("denied withdrawal must not change liquidity")
	}
}
