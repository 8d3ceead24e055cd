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
		&MsgSetComplianceRecord{},
		&MsgUpdateComplianceRecord{},
		&MsgSetAssetPolicy{},
		&MsgAddHookProgram{},
		&MsgRemoveHookProgram{},
	)
}

// Message types
const (
	TypeMsgSetComplianceRecord    = "set_compliance_record"
	TypeMsgUpdateComplianceRecord = "update_compliance_record"
	TypeMsgSetAssetPolicy         = "set_asset_policy"
	TypeMsgAddHookProgram         = "add_hook_program"
	TypeMsgRemoveHookProgram      = "remove_hook_program"
)

// MsgServer defines the compliance module's gRPC message service
type MsgServer interface {
	SetComplianceRecord(context.Context, *MsgSetComplianceRecord) (*MsgSetComplianceRecordResponse, error)
	UpdateComplianceRecord(context.Context, *MsgUpdateComplianceRecord) (*MsgUpdateComplianceRecordResponse, error)
	SetAssetPolicy(context.Context, *MsgSetAssetPolicy) (*MsgSetAssetPolicyResponse, error)
	AddHookProgram(context.Context, *MsgAddHookProgram) (*MsgAddHookProgramResponse, error)
	RemoveHookProgram(context.Context, *MsgRemoveHookProgram) (*MsgRemoveHookProgramResponse, error)
}

// RegisterMsgServer registers the MsgServer to the configurator's MsgServer
func RegisterMsgServer(s interface{}, srv MsgServer) {
	// This is a placeholder - in production, this would use gRPC registration
	// For now, the messages are handled through the module's handler
}

// MsgSetComplianceRecord issues a new compliance record for an account.
type MsgSetComplianceRecord struct {
	Issuer  string `json:"issuer"`
	Address string `json:"address"`
	Tier    uint8  `json:"tier"`
	Country string `json:"country"`
	State   string `json:"state,omitempty"`
	City    string `json:"city,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgSetComplianceRecord) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSetComplianceRecord) Type() string { return TypeMsgSetComplianceRecord }

// ValidateBasic implements sdk.Msg
func (msg MsgSetComplianceRecord) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Issuer); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(msg.Address); err != nil {
		return err
	}
	if err := ValidateTier(msg.Tier); err != nil {
		return err
	}
	if err := ValidateCountry(msg.Country); err != nil {
		return err
	}
	if err := ValidateState(msg.State); err != nil {
		return err
	}
	return ValidateCity(msg.City)
}

// GetSigners implements sdk.Msg
func (msg MsgSetComplianceRecord) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Issuer)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgSetComplianceRecord) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgSetComplianceRecord
func (msg *MsgSetComplianceRecord) XXX_MessageName() string {
	return "rwadex.compliance.v1.MsgSetComplianceRecord"
}

// Reset implements proto.Message
func (msg *MsgSetComplianceRecord) Reset() { *msg = MsgSetComplianceRecord{} }

// String implements proto.Message
func (msg MsgSetComplianceRecord) String() string {
	return fmt.Sprintf("MsgSetComplianceRecord{Address: %s, Tier: %d, Country: %s}", msg.Address, msg.Tier, msg.Country)
}

// MsgSetComplianceRecordResponse is the response to MsgSetComplianceRecord.
type MsgSetComplianceRecordResponse struct {
	Address string `json:"address"`
}

// MsgUpdateComplianceRecord mutates an existing record. Nil pointers leave the
// field untouched; flags are applied as set-then-clear masks.
type MsgUpdateComplianceRecord struct {
	Issuer       string  `json:"issuer"`
	Address      string  `json:"address"`
	Tier         *uint8  `json:"tier,omitempty"`
	RiskScore    *uint8  `json:"risk_score,omitempty"`
	FlagsToSet   uint8   `json:"flags_to_set,omitempty"`
	FlagsToClear uint8   `json:"flags_to_clear,omitempty"`
	Country      *string `json:"country,omitempty"`
	State        *string `json:"state,omitempty"`
	City         *string `json:"city,omitempty"`
}

// Route implements sdk.Msg
func (msg MsgUpdateComplianceRecord) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgUpdateComplianceRecord) Type() string { return TypeMsgUpdateComplianceRecord }

// ValidateBasic implements sdk.Msg
func (msg MsgUpdateComplianceRecord) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Issuer); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(msg.Address); err != nil {
		return err
	}
	if msg.Tier != nil {
		if err := ValidateTier(*msg.Tier); err != nil {
			return err
		}
	}
	if msg.RiskScore != nil {
		if err := ValidateRiskScore(*msg.RiskScore); err != nil {
			return err
		}
	}
	if msg.Country != nil {
		if err := ValidateCountry(*msg.Country); err != nil {
			return err
		}
	}
	if msg.State != nil {
		if err := ValidateState(*msg.State); err != nil {
			return err
		}
	}
	if msg.City != nil {
		if err := ValidateCity(*msg.City); err != nil {
			return err
		}
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgUpdateComplianceRecord) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Issuer)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgUpdateComplianceRecord) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgUpdateComplianceRecord
func (msg *MsgUpdateComplianceRecord) XXX_MessageName() string {
	return "rwadex.compliance.v1.MsgUpdateComplianceRecord"
}

// Reset implements proto.Message
func (msg *MsgUpdateComplianceRecord) Reset() { *msg = MsgUpdateComplianceRecord{} }

// String implements proto.Message
func (msg MsgUpdateComplianceRecord) String() string {
	return fmt.Sprintf("MsgUpdateComplianceRecord{Address: %s}", msg.Address)
}

// MsgUpdateComplianceRecordResponse is the response to MsgUpdateComplianceRecord.
type MsgUpdateComplianceRecordResponse struct {
	Address string `json:"address"`
	Flags   uint8  `json:"flags"`
}

// MsgSetAssetPolicy creates or replaces the compliance policy for an asset.
type MsgSetAssetPolicy struct {
	Authority         string   `json:"authority"`
	Denom             string   `json:"denom"`
	RequiredTier      uint8    `json:"required_tier"`
	AllowedCountries  []string `json:"allowed_countries,omitempty"`
	RestrictedRegions []string `json:"restricted_regions,omitempty"`
	DailyLimit        string   `json:"daily_limit"`
	MonthlyLimit      string   `json:"monthly_limit"`
}

// Route implements sdk.Msg
func (msg MsgSetAssetPolicy) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgSetAssetPolicy) Type() string { return TypeMsgSetAssetPolicy }

// ValidateBasic implements sdk.Msg
func (msg MsgSetAssetPolicy) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if err := sdk.ValidateDenom(msg.Denom); err != nil {
		return err
	}
	if err := ValidateTier(msg.RequiredTier); err != nil {
		return err
	}
	for _, c := range msg.AllowedCountries {
		if err := ValidateCountry(c); err != nil {
			return err
		}
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgSetAssetPolicy) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgSetAssetPolicy) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgSetAssetPolicy
func (msg *MsgSetAssetPolicy) XXX_MessageName() string {
	return "rwadex.compliance.v1.MsgSetAssetPolicy"
}

// Reset implements proto.Message
func (msg *MsgSetAssetPolicy) Reset() { *msg = MsgSetAssetPolicy{} }

// String implements proto.Message
func (msg MsgSetAssetPolicy) String() string {
	return fmt.Sprintf("MsgSetAssetPolicy{Denom: %s, RequiredTier: %d}", msg.Denom, msg.RequiredTier)
}

// MsgSetAssetPolicyResponse is the response to MsgSetAssetPolicy.
type MsgSetAssetPolicyResponse struct {
	Denom string `json:"denom"`
}

// MsgAddHookProgram whitelists a transfer-initiating program.
type MsgAddHookProgram struct {
	Authority string `json:"authority"`
	Program   string `json:"program"`
}

// Route implements sdk.Msg
func (msg MsgAddHookProgram) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgAddHookProgram) Type() string { return TypeMsgAddHookProgram }

// ValidateBasic implements sdk.Msg
func (msg MsgAddHookProgram) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if msg.Program == "" {
		return ErrProgramNotWhitelisted
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgAddHookProgram) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgAddHookProgram) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgAddHookProgram
func (msg *MsgAddHookProgram) XXX_MessageName() string {
	return "rwadex.compliance.v1.MsgAddHookProgram"
}

// Reset implements proto.Message
func (msg *MsgAddHookProgram) Reset() { *msg = MsgAddHookProgram{} }

// String implements proto.Message
func (msg MsgAddHookProgram) String() string {
	return fmt.Sprintf("MsgAddHookProgram{Program: %s}", msg.Program)
}

// MsgAddHookProgramResponse is the response to MsgAddHookProgram.
type MsgAddHookProgramResponse struct {
	ProgramCount int `json:"program_count"`
}

// MsgRemoveHookProgram removes a program from the whitelist.
type MsgRemoveHookProgram struct {
	Authority string `json:"authority"`
	Program   string `json:"program"`
}

// Route implements sdk.Msg
func (msg MsgRemoveHookProgram) Route() string { return ModuleName }

// Type implements sdk.Msg
func (msg MsgRemoveHookProgram) Type() string { return TypeMsgRemoveHookProgram }

// ValidateBasic implements sdk.Msg
func (msg MsgRemoveHookProgram) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return err
	}
	if msg.Program == "" {
		return ErrProgramNotWhitelisted
	}
	return nil
}

// GetSigners implements sdk.Msg
func (msg MsgRemoveHookProgram) GetSigners() []sdk.AccAddress {
	addr, _ := sdk.AccAddressFromBech32(msg.Authority)
	return []sdk.AccAddress{addr}
}

// ProtoMessage implements proto.Message
func (*MsgRemoveHookProgram) ProtoMessage() {}

// XXX_MessageName returns the message type URL for MsgRemoveHookProgram
func (msg *MsgRemoveHookProgram) XXX_MessageName() string {
	return "rwadex.compliance.v1.MsgRemoveHookProgram"
}

// Reset implements proto.Message
func (msg *MsgRemoveHookProgram) Reset() { *msg = MsgRemoveHookProgram{} }

// String implements proto.Message
func (msg MsgRemoveHookProgram) String() string {
	return fmt.Sprintf("MsgRemoveHookProgram{Program: %s}", msg.Program)
}

// MsgRemoveHookProgramResponse is the response to MsgRemoveHookProgram.
type MsgRemoveHookProgramResponse struct {
	ProgramCount int `json:"program_count"`
}
