package api

import (
	"testing"

	"cosmossdk.io/math"

	"github.com/gatedfi/rwa-dex/api/types"
	ammtypes "github.com/gatedfi/rwa-dex/x/amm/types"
)

func stablePoolID() string {
	return ammtypes.DerivePoolID("stable-flat", "utbill", "uusdc")
}

func TestMockServicePools(t *testing.T) {
	s := NewMockService()

	pools, err := s.GetPools()
	if err != nil {
		t.Fatalf("GetPools: %v", err)
	}
	if len(pools) != 3 {
		t.Fatalf("expected 3 seeded pools, got %d", len(pools))
	}

	pool, err := s.GetPool(stablePoolID())
	if err != nil {
		t.Fatalf("GetPool: %v", err)
	}
	if pool.TokenA != "utbill" || pool.TokenB != "uusdc" {
		t.Fatalf("unexpected pair: %s/%s", pool.TokenA, pool.TokenB)
	}
	if !pool.Activated {
		t.Fatal("seeded stable pool should be activated")
	}

	if _, err := s.GetPool("missing"); err == nil {
		t.Fatal("expected error for unknown pool")
	}
}

func TestMockServiceQuote(t *testing.T) {
	s := NewMockService()
	poolID := stablePoolID()

	res, err := s.Quote(&types.QuoteRequest{
		PoolID:    poolID,
		AmountIn:  "1000000",
		Direction: ammtypes.DirectionAToB,
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if res.AmountIn != "1000000" {
		t.Fatalf("small trade should fill fully, consumed %s", res.AmountIn)
	}
	if res.PartialFill {
		t.Fatal("small trade should not be a partial fill")
	}

	// The stable pool sits at par with a 30bps input fee, so the output is
	// slightly below the input.
	in, _ := math.NewIntFromString(res.AmountIn)
	out, ok := math.NewIntFromString(res.AmountOut)
	if !ok || out.GTE(in) {
		t.Fatalf("expected output below input at par, got in=%s out=%s", res.AmountIn, res.AmountOut)
	}
	if res.FeeAmount == "0" {
		t.Fatal("expected a nonzero fee")
	}
}

func TestMockServiceQuoteValidation(t *testing.T) {
	s := NewMockService()

	if _, err := s.Quote(&types.QuoteRequest{PoolID: "missing", AmountIn: "1000"}); err == nil {
		t.Fatal("expected error for unknown pool")
	}
	if _, err := s.Quote(&types.QuoteRequest{PoolID: stablePoolID(), AmountIn: "abc"}); err == nil {
		t.Fatal("expected error for malformed amount")
	}
	if _, err := s.Quote(&types.QuoteRequest{PoolID: stablePoolID(), AmountIn: "-5"}); err == nil {
		t.Fatal("expected error for negative amount")
	}
}

func TestMockServiceCompliance(t *testing.T) {
	s := NewMockService()

	wl, err := s.GetWhitelist()
	if err != nil {
		t.Fatalf("GetWhitelist: %v", err)
	}
	found := false
	for _, p := range wl.Programs {
		if p == "amm" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected amm in the hook whitelist")
	}

	if _, err := s.GetRecord("rwadex1unknown"); err == nil {
		t.Fatal("expected error for unknown record")
	}
}
