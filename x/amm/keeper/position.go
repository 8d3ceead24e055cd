package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/gatedfi/rwa-dex/x/amm/types"
)

// CollectFees settles and pays out a position's accrued LP fees through the
// compliance-checked path. Owed balances zero out only after the payout
// transfer succeeds.
func (k *Keeper) CollectFees(ctx sdk.Context, owner, positionID string) (math.Int, math.Int, error) {
	zero := math.ZeroInt()

	position := k.GetPosition(ctx, positionID)
	if position == nil {
		return zero, zero, types.ErrPositionNotFound
	}
	if position.Owner != owner {
		return zero, zero, types.ErrNotPositionOwner
	}

	pool := k.GetPool(ctx, position.PoolID)
	if pool == nil {
		return zero, zero, types.ErrPoolNotFound
	}

	if err := position.Settle(pool); err != nil {
		return zero, zero, err
	}

	feeA, feeB := position.OwedFeeA, position.OwedFeeB
	if feeA.IsPositive() || feeB.IsPositive() {
		if err := k.gatedWithdraw(ctx, owner, pool.TokenA, feeA, pool.TokenB, feeB); err != nil {
			return zero, zero, err
		}
		position.OwedFeeA = math.ZeroInt()
		position.OwedFeeB = math.ZeroInt()
	}

	position.UpdatedAt = ctx.BlockTime().Unix()
	k.SetPosition(ctx, position)

	k.logger.Info("fees collected",
		"position_id", positionID,
		"fee_a", feeA.String(),
		"fee_b", feeB.String(),
	)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent("fees_collected",
			sdk.NewAttribute("position_id", positionID),
			sdk.NewAttribute("owner", owner),
			sdk.NewAttribute("fee_a", feeA.String()),
			sdk.NewAttribute("fee_b", feeB.String()),
		),
	)

	return feeA, feeB, nil
}

// ClosePosition deletes an emptied position record. Liquidity must already be
// withdrawn and every fee balance collected.
func (k *Keeper) ClosePosition(ctx sdk.Context, owner, positionID string) error {
	position := k.GetPosition(ctx, positionID)
	if position == nil {
		return types.ErrPositionNotFound
	}
	if position.Owner != owner {
		return types.ErrNotPositionOwner
	}
	if position.Liquidity.IsPositive() {
		return types.ErrPositionNotEmpty
	}

	pool := k.GetPool(ctx, position.PoolID)
	if pool != nil {
		if err := position.Settle(pool); err != nil {
			return err
		}
	}
	if position.HasOutstandingFees() {
		return types.ErrOutstandingFees
	}

	k.DeletePosition(ctx, position)

	k.logger.Info("position closed", "position_id", positionID, "owner", owner)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent("position_closed",
			sdk.NewAttribute("position_id", positionID),
			sdk.NewAttribute("owner", owner),
		),
	)
	return nil
}

// WithdrawProtocolFees pays a pool's accumulated protocol fee balances to a
// recipient. Authority only.
func (k *Keeper) WithdrawProtocolFees(ctx sdk.Context, authority, poolID, recipient string) (math.Int, math.Int, error) {
	zero := math.ZeroInt()

	if authority != k.authority {
		return zero, zero, types.ErrUnauthorized
	}
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return zero, zero, types.ErrPoolNotFound
	}

	feeA, feeB := pool.ProtocolFeeA, pool.ProtocolFeeB
	if feeA.IsZero() && feeB.IsZero() {
		return zero, zero, nil
	}

	if err := k.gatedWithdraw(ctx, recipient, pool.TokenA, feeA, pool.TokenB, feeB); err != nil {
		return zero, zero, err
	}

	pool.ProtocolFeeA = math.ZeroInt()
	pool.ProtocolFeeB = math.ZeroInt()
	pool.UpdatedAt = ctx.BlockTime().Unix()
	k.SetPool(ctx, pool)

	k.logger.Info("protocol fees withdrawn",
		"pool_id", poolID,
		"recipient", recipient,
		"fee_a", feeA.String(),
		"fee_b", feeB.String(),
	)
	return feeA, feeB, nil
}
