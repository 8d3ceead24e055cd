package keeper

import (
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gatedfi/rwa-dex/x/compliance/types"
)

// SetComplianceRecord issues a new record for an account. Authorization of the
// issuer is the host's responsibility; the keeper only enforces record shape
// and uniqueness.
func (k *Keeper) SetComplianceRecord(ctx sdk.Context, address string, tier uint8, country, state, city string) (*types.ComplianceRecord, error) {
	if err := types.ValidateTier(tier); err != nil {
		return nil, err
	}
	if err := types.ValidateCountry(country); err != nil {
		return nil, err
	}
	if err := types.ValidateState(state); err != nil {
		return nil, err
	}
	if err := types.ValidateCity(city); err != nil {
		return nil, err
	}
	if k.GetRecord(ctx, address) != nil {
		return nil, types.ErrRecordAlreadyExists
	}

	record := types.NewComplianceRecord(address, tier, country, state, city, ctx.BlockTime().Unix())
	k.SetRecord(ctx, record)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"compliance_record_created",
			sdk.NewAttribute("address", address),
			sdk.NewAttribute("tier", strconv.Itoa(int(tier))),
			sdk.NewAttribute("country", country),
		),
	)

	k.logger.Info("compliance record created",
		"address", address,
		"tier", tier,
		"country", country,
	)

	return record, nil
}

// UpdateComplianceRecord applies an authorized mutation to an existing record.
// Nil pointer fields are untouched; flags are set before they are cleared.
func (k *Keeper) UpdateComplianceRecord(
	ctx sdk.Context,
	address string,
	tier *uint8,
	riskScore *uint8,
	flagsToSet, flagsToClear uint8,
	country, state, city *string,
) (*types.ComplianceRecord, error) {
	record := k.GetRecord(ctx, address)
	if record == nil {
		return nil, types.ErrRecordNotFound
	}

	if tier != nil {
		if err := types.ValidateTier(*tier); err != nil {
			return nil, err
		}
		record.Tier = *tier
	}
	if riskScore != nil {
		if err := types.ValidateRiskScore(*riskScore); err != nil {
			return nil, err
		}
		record.RiskScore = *riskScore
	}
	record.Flags |= flagsToSet
	record.Flags &^= flagsToClear
	if country != nil {
		if err := types.ValidateCountry(*country); err != nil {
			return nil, err
		}
		record.Country = *country
	}
	if state != nil {
		if err := types.ValidateState(*state); err != nil {
			return nil, err
		}
		record.State = *state
	}
	if city != nil {
		if err := types.ValidateCity(*city); err != nil {
			return nil, err
		}
		record.City = *city
	}
	record.LastUpdated = ctx.BlockTime().Unix()
	k.SetRecord(ctx, record)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"compliance_record_updated",
			sdk.NewAttribute("address", address),
			sdk.NewAttribute("tier", strconv.Itoa(int(record.Tier))),
			sdk.NewAttribute("flags", strconv.Itoa(int(record.Flags))),
		),
	)

	k.logger.Info("compliance record updated",
		"address", address,
		"tier", record.Tier,
		"flags", record.Flags,
	)

	return record, nil
}

// SetPolicy creates or replaces an asset policy.
func (k *Keeper) SetPolicy(ctx sdk.Context, policy *types.AssetPolicy) error {
	if err := types.ValidateTier(policy.RequiredTier); err != nil {
		return err
	}
	for _, c := range policy.AllowedCountries {
		if err := types.ValidateCountry(c); err != nil {
			return err
		}
	}
	policy.UpdatedAt = ctx.BlockTime().Unix()
	k.SetAssetPolicy(ctx, policy)

	k.logger.Info("asset policy set",
		"denom", policy.Denom,
		"required_tier", policy.RequiredTier,
		"allowed_countries", len(policy.AllowedCountries),
		"restricted_regions", len(policy.RestrictedRegions),
	)
	return nil
}

// AddHookProgram whitelists a transfer-initiating program identity.
func (k *Keeper) AddHookProgram(ctx sdk.Context, authority, program string) (int, error) {
	whitelist := k.GetWhitelist(ctx)
	if whitelist.Authority != "" && whitelist.Authority != authority {
		return 0, types.ErrUnauthorized
	}
	if err := whitelist.Add(program); err != nil {
		return 0, err
	}
	whitelist.UpdatedAt = ctx.BlockTime().Unix()
	k.SetWhitelist(ctx, whitelist)

	k.logger.Info("hook program whitelisted",
		"program", program,
		"program_count", len(whitelist.Programs),
	)
	return len(whitelist.Programs), nil
}

// RemoveHookProgram removes a program from the whitelist.
func (k *Keeper) RemoveHookProgram(ctx sdk.Context, authority, program string) (int, error) {
	whitelist := k.GetWhitelist(ctx)
	if whitelist.Authority != "" && whitelist.Authority != authority {
		return 0, types.ErrUnauthorized
	}
	if err := whitelist.Remove(program); err != nil {
		return 0, err
	}
	whitelist.UpdatedAt = ctx.BlockTime().Unix()
	k.SetWhitelist(ctx, whitelist)

	k.logger.Info("hook program removed",
		"program", program,
		"program_count", len(whitelist.Programs),
	)
	return len(whitelist.Programs), nil
}

// UpdateWhitelistAuthority rotates the whitelist management authority.
func (k *Keeper) UpdateWhitelistAuthority(ctx sdk.Context, authority, newAuthority string) error {
	whitelist := k.GetWhitelist(ctx)
	if whitelist.Authority != "" && whitelist.Authority != authority {
		return types.ErrUnauthorized
	}
	whitelist.Authority = newAuthority
	whitelist.UpdatedAt = ctx.BlockTime().Unix()
	k.SetWhitelist(ctx, whitelist)

	k.logger.Info("whitelist authority rotated",
		"old_authority", authority,
		"new_authority", newAuthority,
	)
	return nil
}
