package keeper

import (
	"encoding/json"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gatedfi/rwa-dex/x/compliance/types"
)

// Store key prefixes
var (
	RecordKeyPrefix      = []byte{0x01}
	AssetPolicyKeyPrefix = []byte{0x02}
	WhitelistKey         = []byte{0x03}
)

// Keeper manages compliance records, asset policies and the hook whitelist.
// It owns all three stores; no peer module mutates them directly.
type Keeper struct {
	cdc       codec.BinaryCodec
	storeKey  storetypes.StoreKey
	logger    log.Logger
	authority string
}

// NewKeeper creates a new compliance keeper
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	authority string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:       cdc,
		storeKey:  storeKey,
		authority: authority,
		logger:    logger.With("module", "x/compliance"),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetAuthority returns the administrative authority address
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// ============ Record Operations ============

func recordKey(address string) []byte {
	return append(RecordKeyPrefix, []byte(address)...)
}

// SetRecord saves a compliance record to the store
func (k *Keeper) SetRecord(ctx sdk.Context, record *types.ComplianceRecord) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(record)
	store.Set(recordKey(record.Address), bz)
}

// GetRecord retrieves a compliance record, or nil if the account has none
func (k *Keeper) GetRecord(ctx sdk.Context, address string) *types.ComplianceRecord {
	store := k.GetStore(ctx)
	bz := store.Get(recordKey(address))
	if bz == nil {
		return nil
	}
	var record types.ComplianceRecord
	if err := json.Unmarshal(bz, &record); err != nil {
		return nil
	}
	return &record
}

// GetAllRecords returns every compliance record
func (k *Keeper) GetAllRecords(ctx sdk.Context) []*types.ComplianceRecord {
	store := k.GetStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, RecordKeyPrefix)
	defer iterator.Close()

	var records []*types.ComplianceRecord
	for ; iterator.Valid(); iterator.Next() {
		var record types.ComplianceRecord
		if err := json.Unmarshal(iterator.Value(), &record); err != nil {
			continue
		}
		records = append(records, &record)
	}
	return records
}

// ============ Asset Policy Operations ============

func assetPolicyKey(denom string) []byte {
	return append(AssetPolicyKeyPrefix, []byte(denom)...)
}

// SetAssetPolicy saves an asset policy to the store
func (k *Keeper) SetAssetPolicy(ctx sdk.Context, policy *types.AssetPolicy) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(policy)
	store.Set(assetPolicyKey(policy.Denom), bz)
}

// GetAssetPolicy retrieves the policy for a denom, falling back to the
// default basic-tier policy when none has been configured
func (k *Keeper) GetAssetPolicy(ctx sdk.Context, denom string) *types.AssetPolicy {
	store := k.GetStore(ctx)
	bz := store.Get(assetPolicyKey(denom))
	if bz == nil {
		return types.DefaultAssetPolicy(denom)
	}
	var policy types.AssetPolicy
	if err := json.Unmarshal(bz, &policy); err != nil {
		return types.DefaultAssetPolicy(denom)
	}
	return &policy
}

// ============ Whitelist Operations ============

// SetWhitelist saves the hook whitelist
func (k *Keeper) SetWhitelist(ctx sdk.Context, whitelist *types.HookWhitelist) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(whitelist)
	store.Set(WhitelistKey, bz)
}

// GetWhitelist retrieves the hook whitelist. An uninitialized whitelist is
// empty, so every initiator bypasses the gate until the first program is
// registered.
func (k *Keeper) GetWhitelist(ctx sdk.Context) *types.HookWhitelist {
	store := k.GetStore(ctx)
	bz := store.Get(WhitelistKey)
	if bz == nil {
		return &types.HookWhitelist{Authority: k.authority}
	}
	var whitelist types.HookWhitelist
	if err := json.Unmarshal(bz, &whitelist); err != nil {
		return &types.HookWhitelist{Authority: k.authority}
	}
	return &whitelist
}
