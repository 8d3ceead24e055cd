package keeper

import (
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
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/gatedfi/rwa-dex/x/compliance/types"
)

const (
	testAuthority = "rwa1authority"
	testProgram   = "amm"
	testDenom     = "rwagold"

	alice = "rwa1alice"
	bob   = "rwa1bob"
)

// setupKeeper creates a test keeper with an in-memory store
func setupKeeper(tb testing.TB) (*Keeper, sdk.Context) {
	tb.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		tb.Fatalf("failed to load store: %v", err)
	}

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())
	ctx = ctx.WithBlockTime(time.Unix(1_700_000_000, 0))

	interfaceRegistry := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(interfaceRegistry)

	keeper := NewKeeper(cdc, storeKey, testAuthority, log.NewNopLogger())
	return keeper, ctx
}

// setupGate whitelists the test program so transfers it initiates are
// evaluated rather than bypassed
func setupGate(tb testing.TB) (*Keeper, sdk.Context) {
	tb.Helper()
	k, ctx := setupKeeper(tb)
	if _, err := k.AddHookProgram(ctx, testAuthority, testProgram); err != nil {
		tb.Fatalf("failed to whitelist program: %v", err)
	}
	return k, ctx
}

func mustCreateRecord(tb testing.TB, k *Keeper, ctx sdk.Context, address string, tier uint8, country, state string) *types.ComplianceRecord {
	tb.Helper()
	record, err := k.SetComplianceRecord(ctx, address, tier, country, state, "")
	if err != nil {
		tb.Fatalf("failed to create record for %s: %v", address, err)
	}
	return record
}

// TestEvaluateTransferBypass tests that non-whitelisted initiators skip the
// gate entirely. The gate instruments one known transfer path; this is a
// deliberate scope limit, not an access-control hole to fix.
func TestEvaluateTransferBypass(t *testing.T) {
	k, ctx := setupGate(t)

	// Neither account has a record, but the initiator is unknown to the
	// whitelist, so no check runs.
	decision, err := k.EvaluateTransfer(ctx, alice, bob, testDenom, math.NewInt(100), "some-other-program")
	if err != nil {
		t.Fatalf("expected bypass, got %v", err)
	}
	if !decision.Bypassed {
		t.Error("expected a bypassed decision")
	}

	// Committing a bypassed decision touches nothing.
	k.CommitTransfer(ctx, decision)
	if k.GetRecord(ctx, alice) != nil {
		t.Error("bypass must not create records")
	}
}

// TestEvaluateTransferAllow tests the happy path for two verified accounts
func TestEvaluateTransferAllow(t *testing.T) {
	k, ctx := setupGate(t)
	mustCreateRecord(t, k, ctx, alice, types.TierBasic, "US", "")
	mustCreateRecord(t, k, ctx, bob, types.TierEnhanced, "DE", "")

	decision, err := k.EvaluateTransfer(ctx, alice, bob, testDenom, math.NewInt(500), testProgram)
	if err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
	if decision.Bypassed {
		t.Error("whitelisted initiator must be evaluated, not bypassed")
	}
	if len(decision.Accounts) != 2 {
		t.Errorf("expected 2 evaluated accounts, got %d", len(decision.Accounts))
	}

	// Counters advance only on commit.
	if !k.GetRecord(ctx, alice).DailyVolume.IsZero() {
		t.Error("evaluation must not touch counters")
	}
	k.CommitTransfer(ctx, decision)
	if !k.GetRecord(ctx, alice).DailyVolume.Equal(math.NewInt(500)) {
		t.Errorf("expected daily volume 500 after commit, got %s", k.GetRecord(ctx, alice).DailyVolume.String())
	}
	if !k.GetRecord(ctx, bob).DailyVolume.Equal(math.NewInt(500)) {
		t.Errorf("destination counter must advance too, got %s", k.GetRecord(ctx, bob).DailyVolume.String())
	}
}

// TestEvaluateTransferVaultExempt tests that module vault accounts of
// whitelisted programs are skipped
func TestEvaluateTransferVaultExempt(t *testing.T) {
	k, ctx := setupGate(t)
	mustCreateRecord(t, k, ctx, alice, types.TierBasic, "US", "")

	vault := authtypes.NewModuleAddress(testProgram).String()
	decision, err := k.EvaluateTransfer(ctx, alice, vault, testDenom, math.NewInt(100), testProgram)
	if err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
	if len(decision.Accounts) != 1 || decision.Accounts[0] != alice {
		t.Errorf("vault must be exempt, evaluated accounts: %v", decision.Accounts)
	}
}

// TestEvaluateTransferDenialOrder tests the fixed check order: the first
// failing check fixes the reported reason
func TestEvaluateTransferDenialOrder(t *testing.T) {
	k, ctx := setupGate(t)
	mustCreateRecord(t, k, ctx, bob, types.TierInstitutional, "US", "")

	// No record at all
	if _, err := k.EvaluateTransfer(ctx, alice, bob, testDenom, math.NewInt(1), testProgram); err != types.ErrRecordNotFound {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}

	record := mustCreateRecord(t, k, ctx, alice, types.TierUnverified, "XX", "")

	// Frozen wins over sanctioned
	record.Flags = types.FlagFrozen | types.FlagSanctioned
	k.SetRecord(ctx, record)
	if _, err := k.EvaluateTransfer(ctx, alice, bob, testDenom, math.NewInt(1), testProgram); err != types.ErrAccountFrozen {
		t.Errorf("expected ErrAccountFrozen, got %v", err)
	}

	// Sanctioned wins over expired and tier
	record.Flags = types.FlagSanctioned | types.FlagExpired
	k.SetRecord(ctx, record)
	if _, err := k.EvaluateTransfer(ctx, alice, bob, testDenom, math.NewInt(1), testProgram); err != types.ErrSanctioned {
		t.Errorf("expected ErrSanctioned, got %v", err)
	}

	// Expired wins over tier
	record.Flags = types.FlagExpired
	k.SetRecord(ctx, record)
	if _, err := k.EvaluateTransfer(ctx, alice, bob, testDenom, math.NewInt(1), testProgram); err != types.ErrRecordExpired {
		t.Errorf("expected ErrRecordExpired, got %v", err)
	}

	// With flags clear the tier check fires (default policy wants basic)
	record.Flags = 0
	k.SetRecord(ctx, record)
	if _, err := k.EvaluateTransfer(ctx, alice, bob, testDenom, math.NewInt(1), testProgram); err != types.ErrInsufficientTier {
		t.Errorf("expected ErrInsufficientTier, got %v", err)
	}
}

// TestEvaluateTransferGeography tests country and region policy checks
func TestEvaluateTransferGeography(t *testing.T) {
	k, ctx := setupGate(t)
	mustCreateRecord(t, k, ctx, alice, types.TierEnhanced, "FR", "")
	mustCreateRecord(t, k, ctx, bob, types.TierEnhanced, "US", "NY")

	k.SetAssetPolicy(ctx, &types.AssetPolicy{
		Denom:             testDenom,
		RequiredTier:      types.TierBasic,
		AllowedCountries:  []string{"US", "DE"},
		RestrictedRegions: []string{"US_NY"},
		DailyLimit:        math.ZeroInt(),
		MonthlyLimit:      math.ZeroInt(),
	})

	// FR is outside the allow-list
	if _, err := k.EvaluateTransfer(ctx, alice, alice, testDenom, math.NewInt(1), testProgram); err != types.ErrInvalidCountry {
		t.Errorf("expected ErrInvalidCountry, got %v", err)
	}

	// US is allowed but NY is a restricted region
	if _, err := k.EvaluateTransfer(ctx, bob, bob, testDenom, math.NewInt(1), testProgram); err != types.ErrInvalidRegion {
		t.Errorf("expected ErrInvalidRegion, got %v", err)
	}

	// Same country, unrestricted state passes
	carol := "rwa1carol"
	mustCreateRecord(t, k, ctx, carol, types.TierEnhanced, "US", "CA")
	if _, err := k.EvaluateTransfer(ctx, carol, carol, testDenom, math.NewInt(1), testProgram); err != nil {
		t.Errorf("expected allow for US/CA, got %v", err)
	}
}

// TestEvaluateTransferVolumeLimits tests rolling counters against policy
// limits, including the projected pre-check and the day rollover
func TestEvaluateTransferVolumeLimits(t *testing.T) {
	k, ctx := setupGate(t)
	mustCreateRecord(t, k, ctx, alice, types.TierBasic, "US", "")

	k.SetAssetPolicy(ctx, &types.AssetPolicy{
		Denom:        testDenom,
		RequiredTier: types.TierBasic,
		DailyLimit:   math.NewInt(1000),
		MonthlyLimit: math.NewInt(1500),
	})

	// First 600 passes and commits
	decision, err := k.EvaluateTransfer(ctx, alice, alice, testDenom, math.NewInt(600), testProgram)
	if err != nil {
		t.Fatalf("expected allow, got %v", err)
	}
	k.CommitTransfer(ctx, decision)

	// A second 600 would project 1200 > 1000
	if _, err := k.EvaluateTransfer(ctx, alice, alice, testDenom, math.NewInt(600), testProgram); err != types.ErrVolumeLimitExceeded {
		t.Errorf("expected ErrVolumeLimitExceeded, got %v", err)
	}

	// 400 still fits exactly
	decision, err = k.EvaluateTransfer(ctx, alice, alice, testDenom, math.NewInt(400), testProgram)
	if err != nil {
		t.Fatalf("expected allow at the exact limit, got %v", err)
	}
	k.CommitTransfer(ctx, decision)

	// Next day the daily counter resets, but 600 would project the
	// monthly counter to 1600 > 1500
	nextDay := ctx.WithBlockTime(ctx.BlockTime().Add(24 * time.Hour))
	if _, err := k.EvaluateTransfer(nextDay, alice, alice, testDenom, math.NewInt(600), testProgram); err != types.ErrVolumeLimitExceeded {
		t.Errorf("expected monthly limit denial, got %v", err)
	}

	// A smaller amount passes after the day rollover
	decision, err = k.EvaluateTransfer(nextDay, alice, alice, testDenom, math.NewInt(500), testProgram)
	if err != nil {
		t.Fatalf("expected allow after day rollover, got %v", err)
	}
	k.CommitTransfer(nextDay, decision)
	record := k.GetRecord(ctx, alice)
	if !record.DailyVolume.Equal(math.NewInt(500)) {
		t.Errorf("expected daily volume reset to 500, got %s", record.DailyVolume.String())
	}
	if !record.MonthlyVolume.Equal(math.NewInt(1500)) {
		t.Errorf("expected monthly volume 1500, got %s", record.MonthlyVolume.String())
	}
}

// TestEvaluateTransferDenialLeavesStateUntouched tests that a denial is a
// pure read
func TestEvaluateTransferDenialLeavesStateUntouched(t *testing.T) {
	k, ctx := setupGate(t)
	record := mustCreateRecord(t, k, ctx, alice, types.TierBasic, "US", "")

	k.SetAssetPolicy(ctx, &types.AssetPolicy{
		Denom:        testDenom,
		RequiredTier: types.TierInstitutional,
		DailyLimit:   math.ZeroInt(),
		MonthlyLimit: math.ZeroInt(),
	})

	before := *record
	if _, err := k.EvaluateTransfer(ctx, alice, alice, testDenom, math.NewInt(100), testProgram); err != types.ErrInsufficientTier {
		t.Fatalf("expected ErrInsufficientTier, got %v", err)
	}
	after := k.GetRecord(ctx, alice)
	if !after.DailyVolume.Equal(before.DailyVolume) || !after.MonthlyVolume.Equal(before.MonthlyVolume) || after.LastUpdated != before.LastUpdated {
		t.Error("denial must not mutate the record")
	}
}

// TestEvaluateTransferInvalidAmount tests non-positive amounts
func TestEvaluateTransferInvalidAmount(t *testing.T) {
	k, ctx := setupGate(t)
	if _, err := k.EvaluateTransfer(ctx, alice, bob, testDenom, math.ZeroInt(), testProgram); err != types.ErrInvalidAmount {
		t.Errorf("expected ErrInvalidAmount for zero, got %v", err)
	}
	if _, err := k.EvaluateTransfer(ctx, alice, bob, testDenom, math.NewInt(-5), testProgram); err != types.ErrInvalidAmount {
		t.Errorf("expected ErrInvalidAmount for negative, got %v", err)
	}
}
