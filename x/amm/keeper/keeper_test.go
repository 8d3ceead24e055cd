package keeper

import (
	"context"
	"fmt"
	"math/big"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/gatedfi/rwa-dex/x/amm/types"
	compliancekeeper "github.com/gatedfi/rwa-dex/x/compliance/keeper"
	compliancetypes "github.com/gatedfi/rwa-dex/x/compliance/types"
)

const (
	testAuthority = "rwa1authority"
	denomA        = "rwagold"
	denomB        = "usdr"
)

var (
	trader   = sdk.AccAddress([]byte("trader______________")).String()
	creator  = sdk.AccAddress([]byte("creator_____________")).String()
	stranger = sdk.AccAddress([]byte("stranger____________")).String()
)

func q64(n int64) math.Int {
	return math.NewIntFromBigInt(new(big.Int).Mul(big.NewInt(n), types.Q64))
}

// bankSend records one transfer through the mock bank
type bankSend struct {
	from, to string
	coins    sdk.Coins
}

// mockBankKeeper records transfers and can be told to fail on a denom
type mockBankKeeper struct {
	sends     []bankSend
	failDenom string
}

func (m *mockBankKeeper) SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	if m.failDenom != "" && amt.AmountOf(m.failDenom).IsPositive() {
		return fmt.Errorf("insufficient balance of %s", m.failDenom)
	}
	m.sends = append(m.sends, bankSend{from: senderAddr.String(), to: recipientModule, coins: amt})
	return nil
}

func (m *mockBankKeeper) SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	if m.failDenom != "" && amt.AmountOf(m.failDenom).IsPositive() {
		return fmt.Errorf("insufficient balance of %s", m.failDenom)
	}
	m.sends = append(m.sends, bankSend{from: senderModule, to: recipientAddr.String(), coins: amt})
	return nil
}

func (m *mockBankKeeper) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	return sdk.NewCoin(denom, math.ZeroInt())
}

// setupKeeper creates an amm keeper wired to a real compliance keeper and a
// mock bank, all over one in-memory multistore
func setupKeeper(tb testing.TB) (*Keeper, *compliancekeeper.Keeper, *mockBankKeeper, sdk.Context) {
	tb.Helper()

	ammKey := storetypes.NewKVStoreKey(types.StoreKey)
	complianceKey := storetypes.NewKVStoreKey(compliancetypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(ammKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(complianceKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		tb.Fatalf("failed to load store: %v", err)
	}

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())
	ctx = ctx.WithBlockTime(time.Unix(1_700_000_000, 0))

	interfaceRegistry := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(interfaceRegistry)

	complianceKeeper := compliancekeeper.NewKeeper(cdc, complianceKey, testAuthority, log.NewNopLogger())
	bank := &mockBankKeeper{}
	keeper := NewKeeper(cdc, ammKey, bank, complianceKeeper, testAuthority, log.NewNopLogger())

	// The amm module is the gated transfer path.
	if _, err := complianceKeeper.AddHookProgram(ctx, testAuthority, types.ModuleName); err != nil {
		tb.Fatalf("failed to whitelist amm: %v", err)
	}
	return keeper, complianceKeeper, bank, ctx
}

func verifyAccount(tb testing.TB, ck *compliancekeeper.Keeper, ctx sdk.Context, address string) {
	tb.Helper()
	if _, err := ck.SetComplianceRecord(ctx, address, compliancetypes.TierEnhanced, "US", "CA", ""); err != nil {
		tb.Fatalf("failed to verify %s: %v", address, err)
	}
}

func zeroFeeConfig(id string) *types.PoolConfig {
	return &types.PoolConfig{
		ConfigID: id,
		BaseFee: types.BaseFee{
			CliffFeeNumerator: math.ZeroInt(),
			NumberOfPeriod:    0,
			ReductionFactor:   math.ZeroInt(),
			PeriodFrequency:   0,
			SchedulerMode:     types.SchedulerModeLinear,
		},
		SqrtMinPrice:   q64(1),
		SqrtMaxPrice:   q64(4),
		ActivationType: types.ActivationImmediate,
		CollectFeeMode: types.CollectFeeModeLP,
	}
}

// createTestPool creates a zero-fee pool seeded by a verified creator
func createTestPool(tb testing.TB, k *Keeper, ck *compliancekeeper.Keeper, ctx sdk.Context, config *types.PoolConfig) (*types.Pool, *types.Position) {
	tb.Helper()
	verifyAccount(tb, ck, ctx, creator)
	if err := k.CreatePoolConfig(ctx, testAuthority, config); err != nil {
		tb.Fatalf("failed to create config: %v", err)
	}
	pool, position, _, _, err := k.InitializePool(ctx, creator, config.ConfigID, denomA, denomB, math.NewInt(1_000_000), q64(2), 0)
	if err != nil {
		tb.Fatalf("failed to initialize pool: %v", err)
	}
	return pool, position
}

// TestCreatePoolConfig tests template creation and its guards
func TestCreatePoolConfig(t *testing.T) {
	k, _, _, ctx := setupKeeper(t)

	config := zeroFeeConfig("cfg-1")
	if err := k.CreatePoolConfig(ctx, testAuthority, config); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := k.GetConfig(ctx, "cfg-1"); got == nil || got.ConfigID != "cfg-1" {
		t.Fatal("config not stored")
	}

	if err := k.CreatePoolConfig(ctx, testAuthority, zeroFeeConfig("cfg-1")); err != types.ErrConfigAlreadyExists {
		t.Errorf("expected ErrConfigAlreadyExists, got %v", err)
	}
	if err := k.CreatePoolConfig(ctx, stranger, zeroFeeConfig("cfg-2")); err != types.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	overCap := zeroFeeConfig("cfg-3")
	overCap.BaseFee.CliffFeeNumerator = types.MaxFeeNumerator.Add(math.OneInt())
	if err := k.CreatePoolConfig(ctx, testAuthority, overCap); err != types.ErrInvalidFeeConfig {
		t.Errorf("expected ErrInvalidFeeConfig, got %v", err)
	}

	badBounds := zeroFeeConfig("cfg-4")
	badBounds.SqrtMinPrice = q64(4)
	badBounds.SqrtMaxPrice = q64(1)
	if err := k.CreatePoolConfig(ctx, testAuthority, badBounds); err != types.ErrInvalidPriceBounds {
		t.Errorf("expected ErrInvalidPriceBounds, got %v", err)
	}
}

// TestInitializePool tests pool seeding with both gated deposit legs
func TestInitializePool(t *testing.T) {
	k, ck, bank, ctx := setupKeeper(t)
	pool, position := createTestPool(t, k, ck, ctx, zeroFeeConfig("cfg-1"))

	if pool.PoolID != types.DerivePoolID("cfg-1", denomA, denomB) {
		t.Errorf("unexpected pool id %s", pool.PoolID)
	}
	if !pool.SqrtPrice.Equal(q64(2)) || !pool.Liquidity.Equal(math.NewInt(1_000_000)) {
		t.Errorf("pool state wrong: price %s liquidity %s", pool.SqrtPrice.String(), pool.Liquidity.String())
	}
	if !position.Liquidity.Equal(math.NewInt(1_000_000)) || position.Owner != creator {
		t.Errorf("position state wrong: %+v", position)
	}

	// One combined deposit of both legs: 250000 A and 1e6 B
	if len(bank.sends) != 1 {
		t.Fatalf("expected a single deposit transfer, got %d", len(bank.sends))
	}
	coins := bank.sends[0].coins
	if !coins.AmountOf(denomA).Equal(math.NewInt(250_000)) || !coins.AmountOf(denomB).Equal(math.NewInt(1_000_000)) {
		t.Errorf("unexpected deposit %s", coins.String())
	}

	// Uniqueness per (config, pair)
	if _, _, _, _, err := k.InitializePool(ctx, creator, "cfg-1", denomA, denomB, math.NewInt(1_000_000), q64(2), 0); err != types.ErrPoolAlreadyExists {
		t.Errorf("expected ErrPoolAlreadyExists, got %v", err)
	}
}

// TestInitializePoolValidation tests the rejection paths
func TestInitializePoolValidation(t *testing.T) {
	k, ck, bank, ctx := setupKeeper(t)
	verifyAccount(t, ck, ctx, creator)
	if err := k.CreatePoolConfig(ctx, testAuthority, zeroFeeConfig("cfg-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, _, _, err := k.InitializePool(ctx, creator, "missing", denomA, denomB, math.NewInt(1_000_000), q64(2), 0); err != types.ErrConfigNotFound {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}
	if _, _, _, _, err := k.InitializePool(ctx, creator, "cfg-1", denomA, denomA, math.NewInt(1_000_000), q64(2), 0); err != types.ErrSameToken {
		t.Errorf("expected ErrSameToken, got %v", err)
	}
	if _, _, _, _, err := k.InitializePool(ctx, creator, "cfg-1", denomA, denomB, math.NewInt(1_000_000), q64(8), 0); err != types.ErrInvalidPriceBounds {
		t.Errorf("expected ErrInvalidPriceBounds, got %v", err)
	}
	if _, _, _, _, err := k.InitializePool(ctx, creator, "cfg-1", denomA, denomB, math.NewInt(10), q64(2), 0); err != types.ErrInsufficientLiquidity {
		t.Errorf("expected ErrInsufficientLiquidity, got %v", err)
	}

	// An unverified creator is denied before any funds move
	if _, _, _, _, err := k.InitializePool(ctx, stranger, "cfg-1", denomA, denomB, math.NewInt(1_000_000), q64(2), 0); err != compliancetypes.ErrRecordNotFound {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
	if len(bank.sends) != 0 {
		t.Errorf("denied initialization must move no funds, saw %d transfers", len(bank.sends))
	}
	if len(k.GetAllPools(ctx)) != 0 {
		t.Error("denied initialization must not create a pool")
	}
}

// TestPositionOwnerIndex tests the owner index round trip and deletion
func TestPositionOwnerIndex(t *testing.T) {
	k, ck, _, ctx := setupKeeper(t)
	_, position := createTestPool(t, k, ck, ctx, zeroFeeConfig("cfg-1"))

	positions := k.GetPositionsByOwner(ctx, creator)
	if len(positions) != 1 || positions[0].PositionID != position.PositionID {
		t.Fatalf("owner index lookup failed: %v", positions)
	}
	if len(k.GetPositionsByOwner(ctx, stranger)) != 0 {
		t.Error("stranger must own no positions")
	}

	k.DeletePosition(ctx, position)
	if k.GetPosition(ctx, position.PositionID) != nil {
		t.Error("position survived deletion")
	}
	if len(k.GetPositionsByOwner(ctx, creator)) != 0 {
		t.Error("owner index entry survived deletion")
	}
}

// TestPoolActivation tests timestamp-gated pools reject swaps until live
func TestPoolActivation(t *testing.T) {
	k, ck, _, ctx := setupKeeper(t)
	verifyAccount(t, ck, ctx, creator)

	config := zeroFeeConfig("cfg-delayed")
	config.ActivationType = types.ActivationTimestamp
	if err := k.CreatePoolConfig(ctx, testAuthority, config); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	activation := ctx.BlockTime().Unix() + 3600
	pool, _, _, _, err := k.InitializePool(ctx, creator, "cfg-delayed", denomA, denomB, math.NewInt(1_000_000), q64(2), activation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := k.Swap(ctx, creator, pool.PoolID, math.NewInt(1000), math.ZeroInt(), types.DirectionBToA, ""); err != types.ErrPoolNotActivated {
		t.Errorf("expected ErrPoolNotActivated, got %v", err)
	}

	live := ctx.WithBlockTime(ctx.BlockTime().Add(2 * time.Hour))
	if _, err := k.Swap(live, creator, pool.PoolID, math.NewInt(1000), math.ZeroInt(), types.DirectionBToA, ""); err != nil {
		t.Errorf("expected swap after activation, got %v", err)
	}
}
