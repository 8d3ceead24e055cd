package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/gatedfi/rwa-dex/x/amm/types"
	compliancekeeper "github.com/gatedfi/rwa-dex/x/compliance/keeper"
)

// Swap trades an exact input against a pool. The curve walk, compliance
// checks, and both transfer legs run inside a cache context that is written
// back only when every step has succeeded, so a denial or transfer failure
// leaves pool, position, and counter state untouched.
func (k *Keeper) Swap(ctx sdk.Context, trader, poolID string, amountIn, minimumAmountOut math.Int, direction uint8, referral string) (*types.SwapResult, error) {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}
	if !pool.IsActivated(ctx.BlockTime().Unix()) {
		return nil, types.ErrPoolNotActivated
	}

	feeNumerator, collectFeeMode, err := k.CurrentFeeNumerator(ctx, pool)
	if err != nil {
		return nil, err
	}

	result, err := pool.ComputeSwap(amountIn, feeNumerator, direction, collectFeeMode)
	if err != nil {
		return nil, err
	}
	if result.AmountOut.LT(minimumAmountOut) {
		return nil, types.ErrInsufficientOutputAmount
	}

	denomIn, denomOut := pool.TokenA, pool.TokenB
	if direction == types.DirectionBToA {
		denomIn, denomOut = pool.TokenB, pool.TokenA
	}

	cacheCtx, write := ctx.CacheContext()
	if err := k.executeSwap(cacheCtx, trader, pool, result, denomIn, denomOut, direction, referral); err != nil {
		return nil, err
	}
	write()

	ctx.EventManager().EmitEvent(
		sdk.NewEvent("swap",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("trader", trader),
			sdk.NewAttribute("token_in", denomIn),
			sdk.NewAttribute("token_out", denomOut),
			sdk.NewAttribute("amount_in", result.AmountIn.String()),
			sdk.NewAttribute("amount_out", result.AmountOut.String()),
			sdk.NewAttribute("fee", result.FeeAmount.String()),
		),
	)
	return result, nil
}

func (k *Keeper) executeSwap(ctx sdk.Context, trader string, pool *types.Pool, result *types.SwapResult, denomIn, denomOut string, direction uint8, referral string) error {
	vault := authtypes.NewModuleAddress(types.ModuleName).String()

	inDecision, err := k.complianceKeeper.EvaluateTransfer(ctx, trader, vault, denomIn, result.AmountIn, types.ModuleName)
	if err != nil {
		return err
	}
	// A dust input can consume the full fee and produce nothing. The gate
	// rejects zero-amount transfers, so only evaluate the out leg when it
	// actually moves coins, matching the bank send below.
	var outDecision *compliancekeeper.TransferDecision
	if result.AmountOut.IsPositive() {
		outDecision, err = k.complianceKeeper.EvaluateTransfer(ctx, vault, trader, denomOut, result.AmountOut, types.ModuleName)
		if err != nil {
			return err
		}
	}

	traderAddr, err := sdk.AccAddressFromBech32(trader)
	if err != nil {
		return err
	}
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, traderAddr, types.ModuleName, sdk.NewCoins(sdk.NewCoin(denomIn, result.AmountIn))); err != nil {
		return err
	}
	if result.AmountOut.IsPositive() {
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, traderAddr, sdk.NewCoins(sdk.NewCoin(denomOut, result.AmountOut))); err != nil {
			return err
		}
	}

	if err := k.settleSwapFee(ctx, pool, result, denomIn, denomOut, direction, referral); err != nil {
		return err
	}

	pool.SqrtPrice = result.NextSqrtPrice
	pool.UpdatedAt = ctx.BlockTime().Unix()
	if err := pool.CheckInvariant(); err != nil {
		return err
	}
	k.SetPool(ctx, pool)

	k.complianceKeeper.CommitTransfer(ctx, inDecision)
	if outDecision != nil {
		k.complianceKeeper.CommitTransfer(ctx, outDecision)
	}

	k.logger.Info("swap executed",
		"pool_id", pool.PoolID,
		"trader", trader,
		"amount_in", result.AmountIn.String(),
		"amount_out", result.AmountOut.String(),
		"partial_fill", result.PartialFill,
	)
	return nil
}

// settleSwapFee books the collected fee. Protocol-mode fees sit in the pool's
// withdrawable balances, with the referral share paid out immediately;
// LP-mode fees fold into the per-liquidity growth globals.
func (k *Keeper) settleSwapFee(ctx sdk.Context, pool *types.Pool, result *types.SwapResult, denomIn, denomOut string, direction uint8, referral string) error {
	if result.FeeAmount.IsZero() {
		return nil
	}

	if !result.FeeOnInput {
		return pool.AccrueLPFee(result.FeeAmount, direction == types.DirectionBToA)
	}

	protocolShare, referralShare := types.SplitReferralFee(result.FeeAmount, referral != "")
	if referralShare.IsPositive() {
		if err := k.payReferral(ctx, referral, denomIn, referralShare); err != nil {
			// A referral account the gate refuses forfeits its share to
			// the protocol.
			k.logger.Info("referral payout refused", "referral", referral, "err", err)
			protocolShare = protocolShare.Add(referralShare)
		}
	}

	if direction == types.DirectionAToB {
		pool.ProtocolFeeA = pool.ProtocolFeeA.Add(protocolShare)
	} else {
		pool.ProtocolFeeB = pool.ProtocolFeeB.Add(protocolShare)
	}
	return nil
}

func (k *Keeper) payReferral(ctx sdk.Context, referral, denom string, amount math.Int) error {
	vault := authtypes.NewModuleAddress(types.ModuleName).String()
	decision, err := k.complianceKeeper.EvaluateTransfer(ctx, vault, referral, denom, amount, types.ModuleName)
	if err != nil {
		return err
	}
	referralAddr, err := sdk.AccAddressFromBech32(referral)
	if err != nil {
		return err
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, referralAddr, sdk.NewCoins(sdk.NewCoin(denom, amount))); err != nil {
		return err
	}
	k.complianceKeeper.CommitTransfer(ctx, decision)
	return nil
}

// ============ Read-only projections ============

// QuoteSwap runs the swap computation without touching state. It shares the
// exact code path with Swap, so a quote and the execution it precedes cannot
// disagree.
func (k *Keeper) QuoteSwap(ctx sdk.Context, poolID string, amountIn math.Int, direction uint8) (*types.SwapResult, error) {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return nil, types.ErrPoolNotFound
	}
	if !pool.IsActivated(ctx.BlockTime().Unix()) {
		return nil, types.ErrPoolNotActivated
	}
	feeNumerator, collectFeeMode, err := k.CurrentFeeNumerator(ctx, pool)
	if err != nil {
		return nil, err
	}
	return pool.ComputeSwap(amountIn, feeNumerator, direction, collectFeeMode)
}

// PriceImpact returns the relative price move a swap of the given size would
// cause, as a decimal fraction of the current price.
func (k *Keeper) PriceImpact(ctx sdk.Context, poolID string, amountIn math.Int, direction uint8) (math.LegacyDec, error) {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return math.LegacyZeroDec(), types.ErrPoolNotFound
	}
	result, err := k.QuoteSwap(ctx, poolID, amountIn, direction)
	if err != nil {
		return math.LegacyZeroDec(), err
	}

	before := types.PriceFromSqrtPrice(pool.SqrtPrice)
	after := types.PriceFromSqrtPrice(result.NextSqrtPrice)
	if before.IsZero() {
		return math.LegacyZeroDec(), types.ErrDivisionByZero
	}
	return after.Sub(before).Abs().Quo(before), nil
}

// MaxSwapAmount returns the largest input the pool can fully absorb before
// its price hits the bound in the trade direction. Includes the input-leg fee
// when the pool collects fees on input.
func (k *Keeper) MaxSwapAmount(ctx sdk.Context, poolID string, direction uint8) (math.Int, error) {
	pool := k.GetPool(ctx, poolID)
	if pool == nil {
		return math.ZeroInt(), types.ErrPoolNotFound
	}
	if !pool.IsActivated(ctx.BlockTime().Unix()) {
		return math.ZeroInt(), types.ErrPoolNotActivated
	}
	feeNumerator, collectFeeMode, err := k.CurrentFeeNumerator(ctx, pool)
	if err != nil {
		return math.ZeroInt(), err
	}

	var curveMax math.Int
	switch direction {
	case types.DirectionAToB:
		curveMax, err = types.GetAmountAForPriceMove(pool.SqrtPrice, pool.SqrtMinPrice, pool.Liquidity)
	case types.DirectionBToA:
		curveMax, err = types.GetAmountBForPriceMove(pool.SqrtPrice, pool.SqrtMaxPrice, pool.Liquidity)
	default:
		return math.ZeroInt(), types.ErrInvalidDirection
	}
	if err != nil {
		return math.ZeroInt(), err
	}

	if collectFeeMode == types.CollectFeeModeProtocol && feeNumerator.IsPositive() {
		gross, err := types.MulDivRoundUp(curveMax, types.FeeDenominator, types.FeeDenominator.Sub(feeNumerator))
		if err != nil {
			return math.ZeroInt(), err
		}
		return gross, nil
	}
	return curveMax, nil
}
