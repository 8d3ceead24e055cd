package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/gatedfi/rwa-dex/x/compliance/types"
)

// TransferDecision is the outcome of an allowed gate evaluation. It carries
// the counter mutations the evaluation earned so the caller can commit them
// once the whole operation has succeeded. Counters must never advance on a
// path that is later aborted, so evaluation and commit are separate steps.
type TransferDecision struct {
	Bypassed bool
	Denom    string
	Amount   math.Int
	Now      int64

	// Accounts whose rolling volume counters accumulate on commit.
	Accounts []string
}

// EvaluateTransfer validates a single token leg against the compliance state.
// It is a pure read: no counter is touched. The checks run in a fixed order
// and the first failing check wins, so callers always see the same reason for
// the same state.
//
// Transfers whose initiating program is not on the hook whitelist bypass the
// gate entirely. This instruments one known transfer path only; it is not a
// general access-control layer, and the same account can move value through a
// non-whitelisted path unchecked.
func (k *Keeper) EvaluateTransfer(ctx sdk.Context, source, destination, denom string, amount math.Int, initiator string) (*TransferDecision, error) {
	if !amount.IsPositive() {
		return nil, types.ErrInvalidAmount
	}

	now := ctx.BlockTime().Unix()
	whitelist := k.GetWhitelist(ctx)
	if !whitelist.Contains(initiator) {
		return &TransferDecision{Bypassed: true, Denom: denom, Amount: amount, Now: now}, nil
	}

	// Vault accounts of whitelisted programs are not end-user accounts and
	// carry no compliance record.
	exempt := make(map[string]bool, len(whitelist.Programs))
	for _, p := range whitelist.Programs {
		exempt[authtypes.NewModuleAddress(p).String()] = true
	}

	policy := k.GetAssetPolicy(ctx, denom)
	decision := &TransferDecision{Denom: denom, Amount: amount, Now: now}

	seen := make(map[string]bool, 2)
	for _, account := range []string{source, destination} {
		if exempt[account] || seen[account] {
			continue
		}
		seen[account] = true
		if err := k.evaluateAccount(ctx, account, policy, amount, now); err != nil {
			return nil, err
		}
		decision.Accounts = append(decision.Accounts, account)
	}

	return decision, nil
}

// evaluateAccount runs the ordered per-account checks. Order is significant:
// it fixes which reason a multi-problem account reports.
func (k *Keeper) evaluateAccount(ctx sdk.Context, account string, policy *types.AssetPolicy, amount math.Int, now int64) error {
	record := k.GetRecord(ctx, account)
	if record == nil {
		return k.deny(ctx, account, types.ReasonRecordNotFound, types.ErrRecordNotFound)
	}
	if record.IsFrozen() {
		return k.deny(ctx, account, types.ReasonAccountFrozen, types.ErrAccountFrozen)
	}
	if record.IsSanctioned() {
		return k.deny(ctx, account, types.ReasonSanctioned, types.ErrSanctioned)
	}
	if record.IsExpired() {
		return k.deny(ctx, account, types.ReasonExpired, types.ErrRecordExpired)
	}
	if record.Tier < policy.RequiredTier {
		return k.deny(ctx, account, types.ReasonInsufficientTier, types.ErrInsufficientTier)
	}
	if !policy.CountryAllowed(record.Country) {
		return k.deny(ctx, account, types.ReasonInvalidCountry, types.ErrInvalidCountry)
	}
	if record.State != "" && policy.RegionRestricted(record.Country+"_"+record.State) {
		return k.deny(ctx, account, types.ReasonInvalidRegion, types.ErrInvalidRegion)
	}
	if policy.DailyLimit.IsPositive() && record.ProjectedDailyVolume(now, amount).GT(policy.DailyLimit) {
		return k.deny(ctx, account, types.ReasonVolumeLimitExceeded, types.ErrVolumeLimitExceeded)
	}
	if policy.MonthlyLimit.IsPositive() && record.ProjectedMonthlyVolume(now, amount).GT(policy.MonthlyLimit) {
		return k.deny(ctx, account, types.ReasonVolumeLimitExceeded, types.ErrVolumeLimitExceeded)
	}
	return nil
}

func (k *Keeper) deny(ctx sdk.Context, account, reason string, err error) error {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"compliance_denied",
			sdk.NewAttribute("account", account),
			sdk.NewAttribute("reason", reason),
		),
	)
	k.logger.Info("transfer denied",
		"account", account,
		"reason", reason,
	)
	return err
}

// CommitTransfer applies the rolling-volume accumulation earned by an allowed
// evaluation, performing the day/month rollover as needed. Callers invoke it
// only after every leg of their operation has been approved and the token
// movement succeeded.
func (k *Keeper) CommitTransfer(ctx sdk.Context, decision *TransferDecision) {
	if decision == nil || decision.Bypassed {
		return
	}
	for _, account := range decision.Accounts {
		record := k.GetRecord(ctx, account)
		if record == nil {
			continue
		}
		record.AccumulateVolume(decision.Now, decision.Amount)
		k.SetRecord(ctx, record)
	}
}
