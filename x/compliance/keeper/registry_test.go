package keeper

import (
	"fmt"
	"testing"
	"time"

	"cosmossdk.io/math"

	"github.com/gatedfi/rwa-dex/x/compliance/types"
)

// TestSetComplianceRecord tests record issuance and shape validation
func TestSetComplianceRecord(t *testing.T) {
	k, ctx := setupKeeper(t)

	record, err := k.SetComplianceRecord(ctx, alice, types.TierEnhanced, "US", "CA", "San Francisco")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.RiskScore != types.DefaultRiskScore {
		t.Errorf("expected default risk score %d, got %d", types.DefaultRiskScore, record.RiskScore)
	}
	if record.Flags != 0 {
		t.Errorf("new record must have no flags, got %#x", record.Flags)
	}
	now := ctx.BlockTime().Unix()
	if record.LastResetDay != now/types.SecondsPerDay {
		t.Errorf("expected day stamp %d, got %d", now/types.SecondsPerDay, record.LastResetDay)
	}
	if record.LastResetMonth != now/types.SecondsPerMonth {
		t.Errorf("expected month stamp %d, got %d", now/types.SecondsPerMonth, record.LastResetMonth)
	}

	// Records are issued once
	if _, err := k.SetComplianceRecord(ctx, alice, types.TierBasic, "US", "", ""); err != types.ErrRecordAlreadyExists {
		t.Errorf("expected ErrRecordAlreadyExists, got %v", err)
	}
}

// TestSetComplianceRecordValidation tests field format rejection
func TestSetComplianceRecordValidation(t *testing.T) {
	k, ctx := setupKeeper(t)

	tests := []struct {
		name    string
		tier    uint8
		country string
		state   string
		city    string
		wantErr error
	}{
		{"tier out of range", 4, "US", "", "", types.ErrInvalidTier},
		{"lowercase country", types.TierBasic, "us", "", "", types.ErrInvalidCountryFormat},
		{"three letter country", types.TierBasic, "USA", "", "", types.ErrInvalidCountryFormat},
		{"long state", types.TierBasic, "US", "NYC", "", types.ErrInvalidStateFormat},
		{"oversized city", types.TierBasic, "US", "NY", string(make([]byte, 40)), types.ErrInvalidCityFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := k.SetComplianceRecord(ctx, bob, tt.tier, tt.country, tt.state, tt.city); err != tt.wantErr {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestUpdateComplianceRecord tests partial updates and flag masking
func TestUpdateComplianceRecord(t *testing.T) {
	k, ctx := setupKeeper(t)
	if _, err := k.SetComplianceRecord(ctx, alice, types.TierBasic, "US", "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Unknown account
	if _, err := k.UpdateComplianceRecord(ctx, bob, nil, nil, 0, 0, nil, nil, nil); err != types.ErrRecordNotFound {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}

	// Tier upgrade, nothing else touched
	tier := types.TierInstitutional
	record, err := k.UpdateComplianceRecord(ctx, alice, &tier, nil, 0, 0, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Tier != types.TierInstitutional || record.Country != "US" {
		t.Errorf("partial update corrupted record: tier %d country %s", record.Tier, record.Country)
	}

	// Set two flags, then clear one
	record, err = k.UpdateComplianceRecord(ctx, alice, nil, nil, types.FlagSanctioned|types.FlagPEP, 0, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !record.IsSanctioned() || !record.IsPEP() {
		t.Errorf("expected sanctioned+pep, got %#x", record.Flags)
	}
	record, err = k.UpdateComplianceRecord(ctx, alice, nil, nil, 0, types.FlagSanctioned, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.IsSanctioned() || !record.IsPEP() {
		t.Errorf("expected only pep to remain, got %#x", record.Flags)
	}

	// Risk score cap
	over := uint8(101)
	if _, err := k.UpdateComplianceRecord(ctx, alice, nil, &over, 0, 0, nil, nil, nil); err != types.ErrInvalidRiskScore {
		t.Errorf("expected ErrInvalidRiskScore, got %v", err)
	}
}

// TestAccumulateVolumeRollover tests the reset-then-accumulate counter law
func TestAccumulateVolumeRollover(t *testing.T) {
	now := int64(1_700_000_000)
	record := types.NewComplianceRecord(alice, types.TierBasic, "US", "", "", now)

	record.AccumulateVolume(now, math.NewInt(100))
	record.AccumulateVolume(now, math.NewInt(200))
	if !record.DailyVolume.Equal(math.NewInt(300)) {
		t.Errorf("same-day accumulation expected 300, got %s", record.DailyVolume.String())
	}

	// New day resets the daily counter before adding; the month persists
	nextDay := now + types.SecondsPerDay
	record.AccumulateVolume(nextDay, math.NewInt(50))
	if !record.DailyVolume.Equal(math.NewInt(50)) {
		t.Errorf("day rollover expected 50, got %s", record.DailyVolume.String())
	}
	if !record.MonthlyVolume.Equal(math.NewInt(350)) {
		t.Errorf("monthly counter expected 350, got %s", record.MonthlyVolume.String())
	}

	// Accumulating twice at the same stamp does not re-reset
	record.AccumulateVolume(nextDay, math.NewInt(25))
	if !record.DailyVolume.Equal(math.NewInt(75)) {
		t.Errorf("expected idempotent rollover, got %s", record.DailyVolume.String())
	}

	// New month resets both counters
	nextMonth := now + types.SecondsPerMonth + types.SecondsPerDay
	record.AccumulateVolume(nextMonth, math.NewInt(10))
	if !record.DailyVolume.Equal(math.NewInt(10)) || !record.MonthlyVolume.Equal(math.NewInt(10)) {
		t.Errorf("month rollover expected 10/10, got %s/%s", record.DailyVolume.String(), record.MonthlyVolume.String())
	}
}

// TestAssetPolicyFallback tests the default policy when none is stored
func TestAssetPolicyFallback(t *testing.T) {
	k, ctx := setupKeeper(t)

	policy := k.GetAssetPolicy(ctx, "unknowndenom")
	if policy.RequiredTier != types.TierBasic {
		t.Errorf("default policy must require basic tier, got %d", policy.RequiredTier)
	}
	if len(policy.AllowedCountries) != 0 || !policy.DailyLimit.IsZero() {
		t.Error("default policy must be unconstrained")
	}

	stored := &types.AssetPolicy{
		Denom:        "unknowndenom",
		RequiredTier: types.TierInstitutional,
		DailyLimit:   math.NewInt(9),
		MonthlyLimit: math.ZeroInt(),
	}
	k.SetAssetPolicy(ctx, stored)
	if got := k.GetAssetPolicy(ctx, "unknowndenom"); got.RequiredTier != types.TierInstitutional {
		t.Errorf("stored policy not returned, got tier %d", got.RequiredTier)
	}
}

// TestHookWhitelistAdmin tests whitelist mutation, authorization, and the
// size cap
func TestHookWhitelistAdmin(t *testing.T) {
	k, ctx := setupKeeper(t)

	count, err := k.AddHookProgram(ctx, testAuthority, "amm")
	if err != nil || count != 1 {
		t.Fatalf("expected first add to succeed, got count %d err %v", count, err)
	}

	// Wrong authority
	if _, err := k.AddHookProgram(ctx, "rwa1intruder", "evil"); err != types.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	// Duplicates rejected
	if _, err := k.AddHookProgram(ctx, testAuthority, "amm"); err != types.ErrProgramAlreadyWhitelisted {
		t.Errorf("expected ErrProgramAlreadyWhitelisted, got %v", err)
	}

	// Fill to the cap
	for i := 1; i < types.MaxWhitelistedPrograms; i++ {
		if _, err := k.AddHookProgram(ctx, testAuthority, fmt.Sprintf("program-%d", i)); err != nil {
			t.Fatalf("add %d failed: %v", i, err)
		}
	}
	if _, err := k.AddHookProgram(ctx, testAuthority, "one-too-many"); err != types.ErrWhitelistFull {
		t.Errorf("expected ErrWhitelistFull, got %v", err)
	}

	// Remove and membership
	if _, err := k.RemoveHookProgram(ctx, testAuthority, "amm"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if k.GetWhitelist(ctx).Contains("amm") {
		t.Error("removed program still whitelisted")
	}
	if _, err := k.RemoveHookProgram(ctx, testAuthority, "amm"); err != types.ErrProgramNotWhitelisted {
		t.Errorf("expected ErrProgramNotWhitelisted, got %v", err)
	}
}

// TestUpdateWhitelistAuthority tests authority rotation
func TestUpdateWhitelistAuthority(t *testing.T) {
	k, ctx := setupKeeper(t)

	if err := k.UpdateWhitelistAuthority(ctx, testAuthority, "rwa1newauthority"); err != nil {
		t.Fatalf("rotation failed: %v", err)
	}
	// Old authority is locked out
	if _, err := k.AddHookProgram(ctx, testAuthority, "amm"); err != types.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized for old authority, got %v", err)
	}
	if _, err := k.AddHookProgram(ctx, "rwa1newauthority", "amm"); err != nil {
		t.Errorf("new authority rejected: %v", err)
	}
}

// TestWhitelistUpdatedAt tests the timestamp advances with mutations
func TestWhitelistUpdatedAt(t *testing.T) {
	k, ctx := setupKeeper(t)

	if _, err := k.AddHookProgram(ctx, testAuthority, "amm"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	first := k.GetWhitelist(ctx).UpdatedAt

	later := ctx.WithBlockTime(ctx.BlockTime().Add(time.Hour))
	if _, err := k.AddHookProgram(later, testAuthority, "second"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if got := k.GetWhitelist(ctx).UpdatedAt; got <= first {
		t.Errorf("expected UpdatedAt to advance, got %d after %d", got, first)
	}
}
