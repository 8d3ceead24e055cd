package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/gatedfi/rwa-dex/x/amm/types"
	compliancekeeper "github.com/gatedfi/rwa-dex/x/compliance/keeper"
)

// CreatePoolConfig registers an immutable pool template. Only the module
// authority may create configs, and a schedule that could ever produce a fee
// rate of 1.0 is rejected here rather than surfacing during a swap.
func (k *Keeper) CreatePoolConfig(ctx sdk.Context, authority string, config *types.PoolConfig) error {
	if authority != k.authority {
		return types.ErrUnauthorized
	}
	if k.GetConfig(ctx, config.ConfigID) != nil {
		return types.ErrConfigAlreadyExists
	}
	if err := config.Validate(); err != nil {
		return err
	}

	config.CreatedAt = ctx.BlockTime().Unix()
	k.SetConfig(ctx, config)

	k.logger.Info("pool config created",
		"config_id", config.ConfigID,
		"cliff_fee", config.BaseFee.CliffFeeNumerator.String(),
		"scheduler_mode", config.BaseFee.SchedulerMode,
	)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent("pool_config_created",
			sdk.NewAttribute("config_id", config.ConfigID),
		),
	)
	return nil
}

// InitializePool creates a pool from a config and seeds it with the creator's
// initial deposit. Both deposit legs run through the compliance gate before
// any funds move.
func (k *Keeper) InitializePool(ctx sdk.Context, creator, configID, tokenA, tokenB string, initialLiquidity, initialSqrtPrice math.Int, activationTimestamp int64) (*types.Pool, *types.Position, math.Int, math.Int, error) {
	zero := math.ZeroInt()

	config := k.GetConfig(ctx, configID)
	if config == nil {
		return nil, nil, zero, zero, types.ErrConfigNotFound
	}
	if tokenA == tokenB {
		return nil, nil, zero, zero, types.ErrSameToken
	}

	poolID := types.DerivePoolID(configID, tokenA, tokenB)
	if k.GetPool(ctx, poolID) != nil {
		return nil, nil, zero, zero, types.ErrPoolAlreadyExists
	}

	if initialSqrtPrice.LT(config.SqrtMinPrice) || initialSqrtPrice.GT(config.SqrtMaxPrice) {
		return nil, nil, zero, zero, types.ErrInvalidPriceBounds
	}
	if initialLiquidity.LT(types.MinInitialLiquidity) {
		return nil, nil, zero, zero, types.ErrInsufficientLiquidity
	}

	amountA, amountB, err := types.GetAmountsForLiquidity(initialSqrtPrice, config.SqrtMinPrice, config.SqrtMaxPrice, initialLiquidity)
	if err != nil {
		return nil, nil, zero, zero, err
	}

	now := ctx.BlockTime().Unix()
	activation := now
	if config.ActivationType == types.ActivationTimestamp && activationTimestamp > now {
		activation = activationTimestamp
	}

	pool := &types.Pool{
		PoolID:              poolID,
		ConfigID:            configID,
		TokenA:              tokenA,
		TokenB:              tokenB,
		SqrtPrice:           initialSqrtPrice,
		Liquidity:           initialLiquidity,
		SqrtMinPrice:        config.SqrtMinPrice,
		SqrtMaxPrice:        config.SqrtMaxPrice,
		ProtocolFeeA:        math.ZeroInt(),
		ProtocolFeeB:        math.ZeroInt(),
		FeeGrowthGlobalA:    math.ZeroInt(),
		FeeGrowthGlobalB:    math.ZeroInt(),
		ActivationTimestamp: activation,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	position := types.NewPosition(creator, pool, now)
	position.Liquidity = initialLiquidity

	if err := k.gatedDeposit(ctx, creator, tokenA, amountA, tokenB, amountB); err != nil {
		return nil, nil, zero, zero, err
	}

	k.SetPool(ctx, pool)
	k.SetPosition(ctx, position)

	k.logger.Info("pool initialized",
		"pool_id", poolID,
		"config_id", configID,
		"pair", fmt.Sprintf("%s/%s", tokenA, tokenB),
		"liquidity", initialLiquidity.String(),
	)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent("pool_initialized",
			sdk.NewAttribute("pool_id", poolID),
			sdk.NewAttribute("creator", creator),
			sdk.NewAttribute("token_a", tokenA),
			sdk.NewAttribute("token_b", tokenB),
			sdk.NewAttribute("amount_a", amountA.String()),
			sdk.NewAttribute("amount_b", amountB.String()),
		),
	)

	return pool, position, amountA, amountB, nil
}

// CurrentFeeNumerator resolves the pool's active fee rate from its config
// schedule at the given block time.
func (k *Keeper) CurrentFeeNumerator(ctx sdk.Context, pool *types.Pool) (math.Int, uint8, error) {
	config := k.GetConfig(ctx, pool.ConfigID)
	if config == nil {
		return math.ZeroInt(), 0, types.ErrConfigNotFound
	}
	fee := config.BaseFee.CurrentFeeNumerator(pool.ActivationTimestamp, ctx.BlockTime().Unix())
	return fee, config.CollectFeeMode, nil
}

// ============ Gated transfers ============

// gatedDeposit moves both deposit legs from an account into the module vault.
// Every leg is evaluated before any funds move, and volume counters commit
// only after every transfer has succeeded.
func (k *Keeper) gatedDeposit(ctx sdk.Context, from, denomA string, amountA math.Int, denomB string, amountB math.Int) error {
	vault := authtypes.NewModuleAddress(types.ModuleName).String()

	var decisions []*compliancekeeper.TransferDecision
	for _, leg := range []struct {
		denom  string
		amount math.Int
	}{{denomA, amountA}, {denomB, amountB}} {
		if !leg.amount.IsPositive() {
			continue
		}
		decision, err := k.complianceKeeper.EvaluateTransfer(ctx, from, vault, leg.denom, leg.amount, types.ModuleName)
		if err != nil {
			return err
		}
		decisions = append(decisions, decision)
	}

	fromAddr, err := sdk.AccAddressFromBech32(from)
	if err != nil {
		return err
	}
	coins := sdk.NewCoins()
	if amountA.IsPositive() {
		coins = coins.Add(sdk.NewCoin(denomA, amountA))
	}
	if amountB.IsPositive() {
		coins = coins.Add(sdk.NewCoin(denomB, amountB))
	}
	if !coins.IsZero() {
		if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, fromAddr, types.ModuleName, coins); err != nil {
			return err
		}
	}

	for _, decision := range decisions {
		k.complianceKeeper.CommitTransfer(ctx, decision)
	}
	return nil
}

// gatedWithdraw moves both legs from the module vault to an account, gated
// the same way as deposits.
func (k *Keeper) gatedWithdraw(ctx sdk.Context, to, denomA string, amountA math.Int, denomB string, amountB math.Int) error {
	vault := authtypes.NewModuleAddress(types.ModuleName).String()

	var decisions []*compliancekeeper.TransferDecision
	for _, leg := range []struct {
		denom  string
		amount math.Int
	}{{denomA, amountA}, {denomB, amountB}} {
		if !leg.amount.IsPositive() {
			continue
		}
		decision, err := k.complianceKeeper.EvaluateTransfer(ctx, vault, to, leg.denom, leg.amount, types.ModuleName)
		if err != nil {
			return err
		}
		decisions = append(decisions, decision)
	}

	toAddr, err := sdk.AccAddressFromBech32(to)
	if err != nil {
		return err
	}
	coins := sdk.NewCoins()
	if amountA.IsPositive() {
		coins = coins.Add(sdk.NewCoin(denomA, amountA))
	}
	if amountB.IsPositive() {
		coins = coins.Add(sdk.NewCoin(denomB, amountB))
	}
	if !coins.IsZero() {
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, toAddr, coins); err != nil {
			return err
		}
	}

	for _, decision := range decisions {
		k.complianceKeeper.CommitTransfer(ctx, decision)
	}
	return nil
}
