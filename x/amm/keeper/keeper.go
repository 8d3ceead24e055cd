package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/gatedfi/rwa-dex/x/amm/types"
	compliancekeeper "github.com/gatedfi/rwa-dex/x/compliance/keeper"
)

// Store key prefixes
var (
	ConfigKeyPrefix        = []byte{0x01}
	PoolKeyPrefix          = []byte{0x02}
	PositionKeyPrefix      = []byte{0x03}
	PositionOwnerKeyPrefix = []byte{0x04}
)

// BankKeeper defines the expected interface for the bank module
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
}

// ComplianceKeeper defines the expected interface for the compliance module
type ComplianceKeeper interface {
	EvaluateTransfer(ctx sdk.Context, source, destination, denom string, amount math.Int, initiator string) (*compliancekeeper.TransferDecision, error)
	CommitTransfer(ctx sdk.Context, decision *compliancekeeper.TransferDecision)
}

// Keeper manages the amm module state
type Keeper struct {
	cdc              codec.BinaryCodec
	storeKey         storetypes.StoreKey
	bankKeeper       BankKeeper
	complianceKeeper ComplianceKeeper
	authority        string
	logger           log.Logger
}

// NewKeeper creates a new amm keeper
func NewKeeper(
	cdc codec.BinaryCodec,
	storeKey storetypes.StoreKey,
	bankKeeper BankKeeper,
	complianceKeeper ComplianceKeeper,
	authority string,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		cdc:              cdc,
		storeKey:         storeKey,
		bankKeeper:       bankKeeper,
		complianceKeeper: complianceKeeper,
		authority:        authority,
		logger:           logger.With("module", "x/amm"),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetAuthority returns the module authority address
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// ============ Pool Config Store Operations ============

// SetConfig saves a pool config to the store
func (k *Keeper) SetConfig(ctx sdk.Context, config *types.PoolConfig) {
	store := ctx.KVStore(k.storeKey)
	key := append(ConfigKeyPrefix, []byte(config.ConfigID)...)
	bz, _ := json.Marshal(config)
	store.Set(key, bz)
}

// GetConfig retrieves a pool config by ID
func (k *Keeper) GetConfig(ctx sdk.Context, configID string) *types.PoolConfig {
	store := ctx.KVStore(k.storeKey)
	key := append(ConfigKeyPrefix, []byte(configID)...)
	bz := store.Get(key)
	if bz == nil {
		return nil
	}
	var config types.PoolConfig
	if err := json.Unmarshal(bz, &config); err != nil {
		return nil
	}
	return &config
}

// GetAllConfigs returns all pool configs
func (k *Keeper) GetAllConfigs(ctx sdk.Context) []*types.PoolConfig {
	store := ctx.KVStore(k.storeKey)
	iterator := storetypes.KVStorePrefixIterator(store, ConfigKeyPrefix)
	defer iterator.Close()

	var configs []*types.PoolConfig
	for ; iterator.Valid(); iterator.Next() {
		var config types.PoolConfig
		if err := json.Unmarshal(iterator.Value(), &config); err != nil {
			continue
		}
		configs = append(configs, &config)
	}
	return configs
}

// ============ Pool Store Operations ============

// SetPool saves a pool to the store
func (k *Keeper) SetPool(ctx sdk.Context, pool *types.Pool) {
	store := ctx.KVStore(k.storeKey)
	key := append(PoolKeyPrefix, []byte(pool.PoolID)...)
	bz, _ := json.Marshal(pool)
	store.Set(key, bz)
}

// GetPool retrieves a pool by ID
func (k *Keeper) GetPool(ctx sdk.Context, poolID string) *types.Pool {
	store := ctx.KVStore(k.storeKey)
	key := append(PoolKeyPrefix, []byte(poolID)...)
	bz := store.Get(key)
	if bz == nil {
		return nil
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return nil
	}
	return &pool
}

// GetAllPools returns all pools
func (k *Keeper) GetAllPools(ctx sdk.Context) []*types.Pool {
	store := ctx.KVStore(k.storeKey)
	iterator := storetypes.KVStorePrefixIterator(store, PoolKeyPrefix)
	defer iterator.Close()

	var pools []*types.Pool
	for ; iterator.Valid(); iterator.Next() {
		var pool types.Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			continue
		}
		pools = append(pools, &pool)
	}
	return pools
}

// ============ Position Store Operations ============

// SetPosition saves a position and its owner index entry
func (k *Keeper) SetPosition(ctx sdk.Context, position *types.Position) {
	store := ctx.KVStore(k.storeKey)
	key := append(PositionKeyPrefix, []byte(position.PositionID)...)
	bz, _ := json.Marshal(position)
	store.Set(key, bz)

	ownerKey := positionOwnerKey(position.Owner, position.PositionID)
	store.Set(ownerKey, []byte(position.PositionID))
}

// GetPosition retrieves a position by ID
func (k *Keeper) GetPosition(ctx sdk.Context, positionID string) *types.Position {
	store := ctx.KVStore(k.storeKey)
	key := append(PositionKeyPrefix, []byte(positionID)...)
	bz := store.Get(key)
	if bz == nil {
		return nil
	}
	var position types.Position
	if err := json.Unmarshal(bz, &position); err != nil {
		return nil
	}
	return &position
}

// DeletePosition removes a position and its owner index entry
func (k *Keeper) DeletePosition(ctx sdk.Context, position *types.Position) {
	store := ctx.KVStore(k.storeKey)
	store.Delete(append(PositionKeyPrefix, []byte(position.PositionID)...))
	store.Delete(positionOwnerKey(position.Owner, position.PositionID))
}

// GetPositionsByOwner returns all positions held by an owner
func (k *Keeper) GetPositionsByOwner(ctx sdk.Context, owner string) []*types.Position {
	store := ctx.KVStore(k.storeKey)
	prefix := append(PositionOwnerKeyPrefix, []byte(owner+"/")...)
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer iterator.Close()

	var positions []*types.Position
	for ; iterator.Valid(); iterator.Next() {
		position := k.GetPosition(ctx, string(iterator.Value()))
		if position != nil {
			positions = append(positions, position)
		}
	}
	return positions
}

// GetAllPositions returns all positions
func (k *Keeper) GetAllPositions(ctx sdk.Context) []*types.Position {
	store := ctx.KVStore(k.storeKey)
	iterator := storetypes.KVStorePrefixIterator(store, PositionKeyPrefix)
	defer iterator.Close()

	var positions []*types.Position
	for ; iterator.Valid(); iterator.Next() {
		var position types.Position
		if err := json.Unmarshal(iterator.Value(), &position); err != nil {
			continue
		}
		positions = append(positions, &position)
	}
	return positions
}

func positionOwnerKey(owner, positionID string) []byte {
	return append(PositionOwnerKeyPrefix, []byte(owner+"/"+positionID)...)
}
