package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/gatedfi/rwa-dex/x/amm/types"
)

// AddLiquidity deposits both token legs into an existing position. Required
// amounts are computed at the pool's current sqrt price and rounded up; if
// either leg exceeds the caller's threshold the whole operation fails with
// ErrSlippageExceeded before any funds move.
func (k *Keeper) AddLiquidity(ctx sdk.Context, owner, positionID string, liquidityDelta, maxAmountA, maxAmountB math.Int) (math.Int, math.Int, error) {
	zero := math.ZeroInt()

	position := k.GetPosition(ctx, positionID)
	if position == nil {
		return zero, zero, types.ErrPositionNotFound
	}
	if position.Owner != owner {
		return zero, zero, types.ErrNotPositionOwner
	}
	if !liquidityDelta.IsPositive() {
		return zero, zero, types.ErrZeroAmount
	}

	pool := k.GetPool(ctx, position.PoolID)
	if pool == nil {
		return zero, zero, types.ErrPoolNotFound
	}

	amountA, amountB, err := types.GetAmountsForLiquidity(pool.SqrtPrice, pool.SqrtMinPrice, pool.SqrtMaxPrice, liquidityDelta)
	if err != nil {
		return zero, zero, err
	}
	if amountA.GT(maxAmountA) || amountB.GT(maxAmountB) {
		return zero, zero, types.ErrSlippageExceeded
	}

	if err := position.Settle(pool); err != nil {
		return zero, zero, err
	}

	if err := k.gatedDeposit(ctx, owner, pool.TokenA, amountA, pool.TokenB, amountB); err != nil {
		return zero, zero, err
	}

	now := ctx.BlockTime().Unix()
	pool.Liquidity = pool.Liquidity.Add(liquidityDelta)
	pool.UpdatedAt = now
	position.Liquidity = position.Liquidity.Add(liquidityDelta)
	position.UpdatedAt = now

	k.SetPool(ctx, pool)
	k.SetPosition(ctx, position)

	k.logger.Info("liquidity added",
		"pool_id", pool.PoolID,
		"position_id", positionID,
		"liquidity_delta", liquidityDelta.String(),
	)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent("liquidity_added",
			sdk.NewAttribute("pool_id", pool.PoolID),
			sdk.NewAttribute("position_id", positionID),
			sdk.NewAttribute("amount_a", amountA.String()),
			sdk.NewAttribute("amount_b", amountB.String()),
		),
	)

	return amountA, amountB, nil
}

// RemoveLiquidity withdraws both token legs from a position. Withdrawal
// amounts round down, and ErrSlippageExceeded fires if either leg lands below
// the caller's minimum.
func (k *Keeper) RemoveLiquidity(ctx sdk.Context, owner, positionID string, liquidityDelta, minAmountA, minAmountB math.Int) (math.Int, math.Int, error) {
	zero := math.ZeroInt()

	position := k.GetPosition(ctx, positionID)
	if position == nil {
		return zero, zero, types.ErrPositionNotFound
	}
	if position.Owner != owner {
		return zero, zero, types.ErrNotPositionOwner
	}
	if !liquidityDelta.IsPositive() {
		return zero, zero, types.ErrZeroAmount
	}
	if liquidityDelta.GT(position.Liquidity) {
		return zero, zero, types.ErrInsufficientLiquidity
	}

	pool := k.GetPool(ctx, position.PoolID)
	if pool == nil {
		return zero, zero, types.ErrPoolNotFound
	}

	amountA, err := types.GetDeltaAmountA(pool.SqrtPrice, pool.SqrtMaxPrice, liquidityDelta, false)
	if err != nil {
		return zero, zero, err
	}
	amountB, err := types.GetDeltaAmountB(pool.SqrtMinPrice, pool.SqrtPrice, liquidityDelta, false)
	if err != nil {
		return zero, zero, err
	}
	if amountA.LT(minAmountA) || amountB.LT(minAmountB) {
		return zero, zero, types.ErrSlippageExceeded
	}

	if err := position.Settle(pool); err != nil {
		return zero, zero, err
	}

	now := ctx.BlockTime().Unix()
	pool.Liquidity = pool.Liquidity.Sub(liquidityDelta)
	pool.UpdatedAt = now
	position.Liquidity = position.Liquidity.Sub(liquidityDelta)
	position.UpdatedAt = now

	if err := pool.CheckInvariant(); err != nil {
		return zero, zero, err
	}

	if err := k.gatedWithdraw(ctx, owner, pool.TokenA, amountA, pool.TokenB, amountB); err != nil {
		return zero, zero, err
	}

	k.SetPool(ctx, pool)
	k.SetPosition(ctx, position)

	k.logger.Info("liquidity removed",
		"pool_id", pool.PoolID,
		"position_id", positionID,
		"liquidity_delta", liquidityDelta.String(),
	)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent("liquidity_removed",
			sdk.NewAttribute("pool_id", pool.PoolID),
			sdk.NewAttribute("position_id", positionID),
			sdk.NewAttribute("amount_a", amountA.String()),
			sdk.NewAttribute("amount_b", amountB.String()),
		),
	)

	return amountA, amountB, nil
}
