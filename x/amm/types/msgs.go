package types

import (
	"context"
	"fmt"

	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegisterInterfaces registers the module's interface types
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgCreatePoolConfig{},
		&MsgInitializePool{},
		&MsgAddLiquidity{},
		&MsgRemoveLiquidity{},
		&MsgSwap{},
		&MsgCollectFees{},
		&MsgClosePosition{},
	)
}

// Message types
const (
	TypeMsgCreatePoolConfig = "create_pool_config"
	TypeMsgInitializePool   = "initialize_pool"
	TypeMsgAddLiquidity     = "add_liquidity"
	TypeMsgRemoveLiquidity  = "remove_liquidity"
	TypeMsgSwap             = "swap"
	TypeMsgCollectFees      = "collect_fees"
	TypeMsgClosePosition    = "close_position"
)

// MsgServer defines the amm module's gRPC message service
type MsgServer interface {
	CreatePoolConfig(context.Context, *MsgCreatePoolConfig) (*MsgCreatePoolConfigResponse, error)
	InitializePool(context.Context, *MsgInitializePool) (*MsgInitializePoolResponse, error)
	AddLiquidity(context.Context, *MsgAddLiquidity) (*MsgAddLiquidityResponse, error)
	RemoveLiquidity(context.Context, *MsgRemoveLiquidity) (*MsgRemoveLiquidityResponse, error)
	Swap(context.Context, *MsgSwap) (*MsgSwapResponse, error)
	CollectFees(context.Context, *MsgCollectFees) (*MsgCollectFeesResponse, error)
	ClosePosition(context.Context, *MsgClosePosition) (*MsgClosePositionResponse, error)
}

// RegisterMsgServer registers the MsgServer to the configurator's MsgServer
func RegisterMsgServer(s interface{}, srv MsgServer) {
	// This is a placeholder - in production, this would use gRPC registration
	// For now, the messages are handled through the module's handler
}

// MsgCreatePoolConfig creates an immutable pool template.
type MsgCreatePoolConfig struct {
	Authority         string `json:"authority"`
	ConfigID          string `json:"config_id"`
	CliffFeeNumerator string `json:"cliff_fee_numerator"`
	NumberOfPeriod    uint16 `json:"number_of_period"`
	ReductionFactor   string `json:"reduction_factor"`
	PeriodFrequency   int64  `json:"period_frequency"`
	SchedulerMode     uint8  `json:"scheduler_mode"`
	SqrtMinPrice      string `json:"sqrt_min_price"`
	SqrtMaxPrice      string `json:"sqrt_max_price"`
	ActivationType    uint8  `json:"activation_type"`
	CollectFeeMode    uint8  `json:"collect_fee_mode"`
}

// Route implements sdk.Msg
func (msg MsgCreatePoolConfig) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCreatePoolConfig) Type() string { return TypeMsgCreatePoolConfig }

// ValidateBasic implements sdk.Msg
func (msg MsgCreatePoolConfig) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if msg.ConfigID == "" {
		return ErrConfigNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgCreatePoolConfig) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgCreatePoolConfig) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgCreatePoolConfig
func (msg *MsgCreatePoolConfig) XXX_MessageName() string {
	return "rwadex.amm.v1.MsgCreatePoolConfig"
}

// Reset implements proto.Message
func (msg *MsgCreatePoolConfig) Reset() { *msg = MsgCreatePoolConfig{} }

// String implements proto.Message
func (msg MsgCreatePoolConfig) String() string {
	return fmt.Sprintf("MsgCreatePoolConfig{ConfigID: %s}", msg.ConfigID)
}

// MsgCreatePoolConfigResponse is the response to MsgCreatePoolConfig.
type MsgCreatePoolConfigResponse struct {
	ConfigID string `json:"config_id"`
}

// MsgInitializePool creates and seeds a pool from a config.
type MsgInitializePool struct {
	Creator          string `json:"creator"`
	ConfigID         string `json:"config_id"`
	TokenA           string `json:"token_a"`
	TokenB           string `json:"token_b"`
	InitialLiquidity string `json:"initial_liquidity"`
	InitialSqrtPrice string `json:"initial_sqrt_price"`

	// Used only when the config's activation type is timestamp.
	ActivationTimestamp int64 `json:"activation_timestamp,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgInitializePool) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgInitializePool) Type() string { return TypeMsgInitializePool }

// ValidateBasic implements sdk.Msg
func (msg MsgInitializePool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Creator); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(msg.TokenA); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(msg.TokenB); err != nil {
		return err
	}
	if msg.TokenA == msg.TokenB {
		return ErrSameToken
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgInitializePool) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Creator)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgInitializePool) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgInitializePool
func (msg *MsgInitializePool) XXX_MessageName() string {
	return "rwadex.amm.v1.MsgInitializePool"
}

// Reset implements proto.Message
func (msg *MsgInitializePool) Reset() { *msg = MsgInitializePool{} }

// String implements proto.Message
func (msg MsgInitializePool) String() string {
	return fmt.Sprintf("MsgInitializePool{ConfigID: %s, TokenA: %s, TokenB: %s}", msg.ConfigID, msg.TokenA, msg.TokenB)
}

// MsgInitializePoolResponse is the response to MsgInitializePool.
type MsgInitializePoolResponse struct {
	PoolID     string `json:"pool_id"`
	PositionID string `json:"position_id"`
	AmountA    string `json:"amount_a"`
	AmountB    string `json:"amount_b"`
}

// MsgAddLiquidity deposits both token legs into a pool position.
type MsgAddLiquidity struct {
	Owner            string `json:"owner"`
	PositionID       string `json:"position_id"`
	LiquidityDelta   string `json:"liquidity_delta"`
	TokenAMaxAmount  string `json:"token_a_max_amount"`
	TokenBMaxAmount  string `json:"token_b_max_amount"`
}

// Route implements sdk.Msg
func (msg MsgAddLiquidity) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgAddLiquidity) Type() string { return TypeMsgAddLiquidity }

// ValidateBasic implements sdk.Msg
func (msg MsgAddLiquidity) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return err
	}
	if msg.PositionID == "" {
		return ErrPositionNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgAddLiquidity) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgAddLiquidity) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgAddLiquidity
func (msg *MsgAddLiquidity) XXX_MessageName() string {
	return "rwadex.amm.v1.MsgAddLiquidity"
}

// Reset implements proto.Message
func (msg *MsgAddLiquidity) Reset() { *msg = MsgAddLiquidity{} }

// String implements proto.Message
func (msg MsgAddLiquidity) String() string {
	return fmt.Sprintf("MsgAddLiquidity{PositionID: %s, LiquidityDelta: %s}", msg.PositionID, msg.LiquidityDelta)
}

// MsgAddLiquidityResponse is the response to MsgAddLiquidity.
type MsgAddLiquidityResponse struct {
	AmountA string `json:"amount_a"`
	AmountB string `json:"amount_b"`
}

// MsgRemoveLiquidity withdraws both token legs from a position.
type MsgRemoveLiquidity struct {
	Owner           string `json:"owner"`
	PositionID      string `json:"position_id"`
	LiquidityDelta  string `json:"liquidity_delta"`
	TokenAMinAmount string `json:"token_a_min_amount"`
	TokenBMinAmount string `json:"token_b_min_amount"`
}

// Route implements sdk.Msg
func (msg MsgRemoveLiquidity) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgRemoveLiquidity) Type() string { return TypeMsgRemoveLiquidity }

// ValidateBasic implements sdk.Msg
func (msg MsgRemoveLiquidity) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return err
	}
	if msg.PositionID == "" {
		return ErrPositionNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgRemoveLiquidity) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgRemoveLiquidity) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgRemoveLiquidity
func (msg *MsgRemoveLiquidity) XXX_MessageName() string {
	return "rwadex.amm.v1.MsgRemoveLiquidity"
}

// Reset implements proto.Message
func (msg *MsgRemoveLiquidity) Reset() { *msg = MsgRemoveLiquidity{} }

// String implements proto.Message
func (msg MsgRemoveLiquidity) String() string {
	return fmt.Sprintf("MsgRemoveLiquidity{PositionID: %s, LiquidityDelta: %s}", msg.PositionID, msg.LiquidityDelta)
}

// MsgRemoveLiquidityResponse is the response to MsgRemoveLiquidity.
type MsgRemoveLiquidityResponse struct {
	AmountA string `json:"amount_a"`
	AmountB string `json:"amount_b"`
}

// MsgSwap trades an exact input amount against a pool.
type MsgSwap struct {
	Trader           string `json:"trader"`
	PoolID           string `json:"pool_id"`
	AmountIn         string `json:"amount_in"`
	MinimumAmountOut string `json:"minimum_amount_out"`
	Direction        uint8  `json:"direction"`
	Referral         string `json:"referral,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgSwap) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSwap) Type() string { return TypeMsgSwap }

// ValidateBasic implements sdk.Msg
func (msg MsgSwap) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Trader); err != nil {
		return err
	}
	if msg.PoolID == "" {
		return ErrPoolNotFound
	}
	if msg.Direction != DirectionAToB && msg.Direction != DirectionBToA {
		return ErrInvalidDirection
	}
	if msg.Referral != "" {
		if _, err := sdk.AccAddressFromBech32(msg.Referral); err != nil {
			return err
		}
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgSwap) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Trader)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgSwap) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgSwap
func (msg *MsgSwap) XXX_MessageName() string {
	return "rwadex.amm.v1.MsgSwap"
}

// Reset implements proto.Message
func (msg *MsgSwap) Reset() { *msg = MsgSwap{} }

// String implements proto.Message
func (msg MsgSwap) String() string {
	return fmt.Sprintf("MsgSwap{PoolID: %s, AmountIn: %s, Direction: %d}", msg.PoolID, msg.AmountIn, msg.Direction)
}

// MsgSwapResponse is the response to MsgSwap.
type MsgSwapResponse struct {
	AmountIn    string `json:"amount_in"`
	AmountOut   string `json:"amount_out"`
	FeeAmount   string `json:"fee_amount"`
	PartialFill bool   `json:"partial_fill"`
}

// MsgCollectFees pays out a position's accrued fees.
type MsgCollectFees struct {
	Owner      string `json:"owner"`
	PositionID string `json:"position_id"`
}

// Route implements sdk.Msg
func (msg MsgCollectFees) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgCollectFees) Type() string { return TypeMsgCollectFees }

// ValidateBasic implements sdk.Msg
func (msg MsgCollectFees) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return err
	}
	if msg.PositionID == "" {
		return ErrPositionNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgCollectFees) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgCollectFees) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgCollectFees
func (msg *MsgCollectFees) XXX_MessageName() string {
	return "rwadex.amm.v1.MsgCollectFees"
}

// Reset implements proto.Message
func (msg *MsgCollectFees) Reset() { *msg = MsgCollectFees{} }

// String implements proto.Message
func (msg MsgCollectFees) String() string {
	return fmt.Sprintf("MsgCollectFees{PositionID: %s}", msg.PositionID)
}

// MsgCollectFeesResponse is the response to MsgCollectFees.
type MsgCollectFeesResponse struct {
	FeeA string `json:"fee_a"`
	FeeB string `json:"fee_b"`
}

// MsgClosePosition removes an emptied position record.
type MsgClosePosition struct {
	Owner      string `json:"owner"`
	PositionID string `json:"position_id"`
}

// Route implements sdk.Msg
func (msg MsgClosePosition) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgClosePosition) Type() string { return TypeMsgClosePosition }

// ValidateBasic implements sdk.Msg
func (msg MsgClosePosition) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Owner); err != nil {
		return err
	}
	if msg.PositionID == "" {
		return ErrPositionNotFound
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgClosePosition) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Owner)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgClosePosition) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgClosePosition
func (msg *MsgClosePosition) XXX_MessageName() string {
	return "rwadex.amm.v1.MsgClosePosition"
}

// Reset implements proto.Message
func (msg *MsgClosePosition) Reset() { *msg = MsgClosePosition{} }

// String implements proto.Message
func (msg MsgClosePosition) String() string {
	return fmt.Sprintf("MsgClosePosition{PositionID: %s}", msg.PositionID)
}

// MsgClosePositionResponse is the response to MsgClosePosition.
type MsgClosePositionResponse struct {
	PositionID string `json:"position_id"`
}
