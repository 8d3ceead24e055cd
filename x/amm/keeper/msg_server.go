package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/gatedfi/rwa-dex/x/amm/types"
)

// MsgServer defines the amm MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

func parseInt(s string) (sdkmath.Int, error) {
	if s == "" {
		return sdkmath.ZeroInt(), nil
	}
	v, ok := sdkmath.NewIntFromString(s)
	if !ok {
		return sdkmath.Int{}, types.ErrZeroAmount
	}
	return v, nil
}

// CreatePoolConfig handles MsgCreatePoolConfig
func (m *MsgServer) CreatePoolConfig(ctx context.Context, msg *types.MsgCreatePoolConfig) (*types.MsgCreatePoolConfigResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	cliff, err := parseInt(msg.CliffFeeNumerator)
	if err != nil {
		return nil, types.ErrInvalidFeeConfig
	}
	reduction, err := parseInt(msg.ReductionFactor)
	if err != nil {
		return nil, types.ErrInvalidFeeConfig
	}
	sqrtMin, err := parseInt(msg.SqrtMinPrice)
	if err != nil {
		return nil, types.ErrInvalidPriceBounds
	}
	sqrtMax, err := parseInt(msg.SqrtMaxPrice)
	if err != nil {
		return nil, types.ErrInvalidPriceBounds
	}

	config := &types.PoolConfig{
		ConfigID: msg.ConfigID,
		BaseFee: types.BaseFee{
			CliffFeeNumerator: cliff,
			NumberOfPeriod:    msg.NumberOfPeriod,
			ReductionFactor:   reduction,
			PeriodFrequency:   msg.PeriodFrequency,
			SchedulerMode:     msg.SchedulerMode,
		},
		SqrtMinPrice:   sqrtMin,
		SqrtMaxPrice:   sqrtMax,
		ActivationType: msg.ActivationType,
		CollectFeeMode: msg.CollectFeeMode,
	}
	if err := m.keeper.CreatePoolConfig(sdkCtx, msg.Authority, config); err != nil {
		return nil, err
	}
	return &types.MsgCreatePoolConfigResponse{ConfigID: config.ConfigID}, nil
}

// InitializePool handles MsgInitializePool
func (m *MsgServer) InitializePool(ctx context.Context, msg *types.MsgInitializePool) (*types.MsgInitializePoolResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	liquidity, err := parseInt(msg.InitialLiquidity)
	if err != nil {
		return nil, err
	}
	sqrtPrice, err := parseInt(msg.InitialSqrtPrice)
	if err != nil {
		return nil, err
	}

	pool, position, amountA, amountB, err := m.keeper.InitializePool(
		sdkCtx, msg.Creator, msg.ConfigID, msg.TokenA, msg.TokenB,
		liquidity, sqrtPrice, msg.ActivationTimestamp,
	)
	if err != nil {
		return nil, err
	}
	return &types.MsgInitializePoolResponse{
		PoolID:     pool.PoolID,
		PositionID: position.PositionID,
		AmountA:    amountA.String(),
		AmountB:    amountB.String(),
	}, nil
}

// AddLiquidity handles MsgAddLiquidity
func (m *MsgServer) AddLiquidity(ctx context.Context, msg *types.MsgAddLiquidity) (*types.MsgAddLiquidityResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	delta, err := parseInt(msg.LiquidityDelta)
	if err != nil {
		return nil, err
	}
	maxA, err := parseInt(msg.TokenAMaxAmount)
	if err != nil {
		return nil, err
	}
	maxB, err := parseInt(msg.TokenBMaxAmount)
	if err != nil {
		return nil, err
	}

	amountA, amountB, err := m.keeper.AddLiquidity(sdkCtx, msg.Owner, msg.PositionID, delta, maxA, maxB)
	if err != nil {
		return nil, err
	}
	return &types.MsgAddLiquidityResponse{AmountA: amountA.String(), AmountB: amountB.String()}, nil
}

// RemoveLiquidity handles MsgRemoveLiquidity
func (m *MsgServer) RemoveLiquidity(ctx context.Context, msg *types.MsgRemoveLiquidity) (*types.MsgRemoveLiquidityResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	delta, err := parseInt(msg.LiquidityDelta)
	if err != nil {
		return nil, err
	}
	minA, err := parseInt(msg.TokenAMinAmount)
	if err != nil {
		return nil, err
	}
	minB, err := parseInt(msg.TokenBMinAmount)
	if err != nil {
		return nil, err
	}

	amountA, amountB, err := m.keeper.RemoveLiquidity(sdkCtx, msg.Owner, msg.PositionID, delta, minA, minB)
	if err != nil {
		return nil, err
	}
	return &types.MsgRemoveLiquidityResponse{AmountA: amountA.String(), AmountB: amountB.String()}, nil
}

// Swap handles MsgSwap
func (m *MsgServer) Swap(ctx context.Context, msg *types.MsgSwap) (*types.MsgSwapResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	amountIn, err := parseInt(msg.AmountIn)
	if err != nil {
		return nil, err
	}
	minOut, err := parseInt(msg.MinimumAmountOut)
	if err != nil {
		return nil, err
	}

	result, err := m.keeper.Swap(sdkCtx, msg.Trader, msg.PoolID, amountIn, minOut, msg.Direction, msg.Referral)
	if err != nil {
		return nil, err
	}
	return &types.MsgSwapResponse{
		AmountIn:    result.AmountIn.String(),
		AmountOut:   result.AmountOut.String(),
		FeeAmount:   result.FeeAmount.String(),
		PartialFill: result.PartialFill,
	}, nil
}

// CollectFees handles MsgCollectFees
func (m *MsgServer) CollectFees(ctx context.Context, msg *types.MsgCollectFees) (*types.MsgCollectFeesResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	feeA, feeB, err := m.keeper.CollectFees(sdkCtx, msg.Owner, msg.PositionID)
	if err != nil {
		return nil, err
	}
	return &types.MsgCollectFeesResponse{FeeA: feeA.String(), FeeB: feeB.String()}, nil
}

// ClosePosition handles MsgClosePosition
func (m *MsgServer) ClosePosition(ctx context.Context, msg *types.MsgClosePosition) (*types.MsgClosePositionResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if err := m.keeper.ClosePosition(sdkCtx, msg.Owner, msg.PositionID); err != nil {
		return nil, err
	}
	return &types.MsgClosePositionResponse{PositionID: msg.PositionID}, nil
}
