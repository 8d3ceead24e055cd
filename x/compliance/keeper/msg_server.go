package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gatedfi/rwa-dex/x/compliance/types"
)

// MsgServer defines the compliance MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// SetComplianceRecord handles MsgSetComplianceRecord
func (m *MsgServer) SetComplianceRecord(ctx context.Context, msg *types.MsgSetComplianceRecord) (*types.MsgSetComplianceRecordResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	record, err := m.keeper.SetComplianceRecord(sdkCtx, msg.Address, msg.Tier, msg.Country, msg.State, msg.City)
	if err != nil {
		return nil, err
	}
	return &types.MsgSetComplianceRecordResponse{Address: record.Address}, nil
}

// UpdateComplianceRecord handles MsgUpdateComplianceRecord
func (m *MsgServer) UpdateComplianceRecord(ctx context.Context, msg *types.MsgUpdateComplianceRecord) (*types.MsgUpdateComplianceRecordResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	record, err := m.keeper.UpdateComplianceRecord(
		sdkCtx, msg.Address,
		msg.Tier, msg.RiskScore,
		msg.FlagsToSet, msg.FlagsToClear,
		msg.Country, msg.State, msg.City,
	)
	if err != nil {
		return nil, err
	}
	return &types.MsgUpdateComplianceRecordResponse{Address: record.Address, Flags: record.Flags}, nil
}

// SetAssetPolicy handles MsgSetAssetPolicy
func (m *MsgServer) SetAssetPolicy(ctx context.Context, msg *types.MsgSetAssetPolicy) (*types.MsgSetAssetPolicyResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	dailyLimit, ok := sdkmath.NewIntFromString(msg.DailyLimit)
	if !ok {
		dailyLimit = sdkmath.ZeroInt()
	}
	monthlyLimit, ok := sdkmath.NewIntFromString(msg.MonthlyLimit)
	if !ok {
		monthlyLimit = sdkmath.ZeroInt()
	}

	policy := &types.AssetPolicy{
		Denom:             msg.Denom,
		RequiredTier:      msg.RequiredTier,
		AllowedCountries:  msg.AllowedCountries,
		RestrictedRegions: msg.RestrictedRegions,
		DailyLimit:        dailyLimit,
		MonthlyLimit:      monthlyLimit,
	}
	if err := m.keeper.SetPolicy(sdkCtx, policy); err != nil {
		return nil, err
	}
	return &types.MsgSetAssetPolicyResponse{Denom: msg.Denom}, nil
}

// AddHookProgram handles MsgAddHookProgram
func (m *MsgServer) AddHookProgram(ctx context.Context, msg *types.MsgAddHookProgram) (*types.MsgAddHookProgramResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	count, err := m.keeper.AddHookProgram(sdkCtx, msg.Authority, msg.Program)
	if err != nil {
		return nil, err
	}
	return &types.MsgAddHookProgramResponse{ProgramCount: count}, nil
}

// RemoveHookProgram handles MsgRemoveHookProgram
func (m *MsgServer) RemoveHookProgram(ctx context.Context, msg *types.MsgRemoveHookProgram) (*types.MsgRemoveHookProgramResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	count, err := m.keeper.RemoveHookProgram(sdkCtx, msg.Authority, msg.Program)
	if err != nil {
		return nil, err
	}
	return &types.MsgRemoveHookProgramResponse{ProgramCount: count}, nil
}
