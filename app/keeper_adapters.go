package app

import (
	"errors"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/gatedfi/rwa-dex/metrics"
	ammkeeper "github.com/gatedfi/rwa-dex/x/amm/keeper"
	compliancekeeper "github.com/gatedfi/rwa-dex/x/compliance/keeper"
	compliancetypes "github.com/gatedfi/rwa-dex/x/compliance/types"
)

// gatedComplianceAdapter sits between the amm keeper and the compliance gate.
// It forwards evaluations unchanged and records per-denom gate metrics, so
// the keepers themselves stay free of instrumentation.
type gatedComplianceAdapter struct {
	keeper    *compliancekeeper.Keeper
	collector *metrics.Collector
}

func newGatedComplianceAdapter(keeper *compliancekeeper.Keeper) ammkeeper.ComplianceKeeper {
	return gatedComplianceAdapter{
		keeper:    keeper,
		collector: metrics.GetCollector(),
	}
}

func (a gatedComplianceAdapter) EvaluateTransfer(ctx sdk.Context, source, destination, denom string, amount math.Int, initiator string) (*compliancekeeper.TransferDecision, error) {
	timer := metrics.NewTimer()
	decision, err := a.keeper.EvaluateTransfer(ctx, source, destination, denom, amount, initiator)
	if err != nil {
		a.collector.RecordGateCheck(denom, "denied", timer.ElapsedMs())
		a.collector.RecordGateDenial(denom, denialReason(err))
		return nil, err
	}

	outcome := "allowed"
	if decision.Bypassed {
		outcome = "bypassed"
	}
	a.collector.RecordGateCheck(denom, outcome, timer.ElapsedMs())
	return decision, nil
}

func (a gatedComplianceAdapter) CommitTransfer(ctx sdk.Context, decision *compliancekeeper.TransferDecision) {
	a.keeper.CommitTransfer(ctx, decision)
}

// denialReason maps a gate error to its stable reason label.
func denialReason(err error) string {
	switch {
	case errors.Is(err, compliancetypes.ErrRecordNotFound):
		return compliancetypes.ReasonRecordNotFound
	case errors.Is(err, compliancetypes.ErrAccountFrozen):
		return compliancetypes.ReasonAccountFrozen
	case errors.Is(err, compliancetypes.ErrSanctioned):
		return compliancetypes.ReasonSanctioned
	case errors.Is(err, compliancetypes.ErrRecordExpired):
		return compliancetypes.ReasonExpired
	case errors.Is(err, compliancetypes.ErrInsufficientTier):
		return compliancetypes.ReasonInsufficientTier
	case errors.Is(err, compliancetypes.ErrInvalidCountry):
		return compliancetypes.ReasonInvalidCountry
	case errors.Is(err, compliancetypes.ErrInvalidRegion):
		return compliancetypes.ReasonInvalidRegion
	case errors.Is(err, compliancetypes.ErrVolumeLimitExceeded):
		return compliancetypes.ReasonVolumeLimitExceeded
	default:
		return "other"
	}
}
