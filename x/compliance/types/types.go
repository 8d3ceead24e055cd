package types

import (
	"cosmossdk.io/math"
)

// Module name and store key
const (
	ModuleName = "compliance"
	StoreKey   = ModuleName
)

// Identity verification tiers
const (
	TierUnverified    = uint8(0)
	TierBasic         = uint8(1)
	TierEnhanced      = uint8(2)
	TierInstitutional = uint8(3)
)

// Record flag bits. Flags are independent: any single set flag can be
// sufficient to deny a transfer regardless of tier.
const (
	FlagSanctioned = uint8(0x01)
	FlagPEP        = uint8(0x02)
	FlagFrozen     = uint8(0x04)
	FlagExpired    = uint8(0x08)
)

// Calendar arithmetic used by the rolling volume counters. A month is the
// fixed 30-day bucket the issuer network settled on, not a calendar month.
const (
	SecondsPerDay   = int64(86400)
	SecondsPerMonth = int64(86400 * 30)
)

// DefaultRiskScore is assigned to newly issued records until an authorized
// update overrides it.
const DefaultRiskScore = uint8(50)

// MaxWhitelistedPrograms caps the hook whitelist size.
const MaxWhitelistedPrograms = 32

// Denial reasons surfaced in events and metrics. These are the stable reason
// labels matching the registered error taxonomy in errors.go.
const (
	ReasonRecordNotFound      = "record_not_found"
	ReasonAccountFrozen       = "account_frozen"
	ReasonSanctioned          = "sanctioned"
	ReasonExpired             = "record_expired"
	ReasonInsufficientTier    = "insufficient_tier"
	ReasonInvalidCountry      = "invalid_country"
	ReasonInvalidRegion       = "invalid_region"
	ReasonVolumeLimitExceeded = "volume_limit_exceeded"
)

// ComplianceRecord holds the policy state for a single account. Records are
// created once by an authorized issuer and never deleted; deactivation happens
// through the frozen flag.
type ComplianceRecord struct {
	Address   string `json:"address"`
	Tier      uint8  `json:"tier"`
	RiskScore uint8  `json:"risk_score"`
	Flags     uint8  `json:"flags"`
	Country   string `json:"country"`
	State     string `json:"state,omitempty"`
	City      string `json:"city,omitempty"`

	// Rolling transferred-volume counters with their last-reset stamps.
	DailyVolume    math.Int `json:"daily_volume"`
	MonthlyVolume  math.Int `json:"monthly_volume"`
	LastResetDay   int64    `json:"last_reset_day"`
	LastResetMonth int64    `json:"last_reset_month"`

	LastUpdated int64 `json:"last_updated"`
}

// NewComplianceRecord creates a record for an account at the given unix time.
func NewComplianceRecord(address string, tier uint8, country, state, city string, now int64) *ComplianceRecord {
	return &ComplianceRecord{
		Address:        address,
		Tier:           tier,
		RiskScore:      DefaultRiskScore,
		Flags:          0,
		Country:        country,
		State:          state,
		City:           city,
		DailyVolume:    math.ZeroInt(),
		MonthlyVolume:  math.ZeroInt(),
		LastResetDay:   now / SecondsPerDay,
		LastResetMonth: now / SecondsPerMonth,
		LastUpdated:    now,
	}
}

// IsSanctioned reports whether the sanctions flag is set.
func (r *ComplianceRecord) IsSanctioned() bool {
	return r.Flags&FlagSanctioned != 0
}

// IsPEP reports whether the politically-exposed-person flag is set.
func (r *ComplianceRecord) IsPEP() bool {
	return r.Flags&FlagPEP != 0
}

// IsFrozen reports whether the frozen flag is set.
func (r *ComplianceRecord) IsFrozen() bool {
	return r.Flags&FlagFrozen != 0
}

// IsExpired reports whether the verification-expired flag is set.
func (r *ComplianceRecord) IsExpired() bool {
	return r.Flags&FlagExpired != 0
}

// ProjectedDailyVolume returns the daily counter the record would carry after
// accumulating amount at the given time, honoring the day rollover. Pure; the
// stored counters are untouched.
func (r *ComplianceRecord) ProjectedDailyVolume(now int64, amount math.Int) math.Int {
	if r.LastResetDay != now/SecondsPerDay {
		return amount
	}
	return r.DailyVolume.Add(amount)
}

// ProjectedMonthlyVolume is the monthly analogue of ProjectedDailyVolume.
func (r *ComplianceRecord) ProjectedMonthlyVolume(now int64, amount math.Int) math.Int {
	if r.LastResetMonth != now/SecondsPerMonth {
		return amount
	}
	return r.MonthlyVolume.Add(amount)
}

// AccumulateVolume applies the reset-then-accumulate counter mutation for both
// rolling windows. Must only be called on approved transfers.
func (r *ComplianceRecord) AccumulateVolume(now int64, amount math.Int) {
	day := now / SecondsPerDay
	if r.LastResetDay != day {
		r.DailyVolume = math.ZeroInt()
		r.LastResetDay = day
	}
	r.DailyVolume = r.DailyVolume.Add(amount)

	month := now / SecondsPerMonth
	if r.LastResetMonth != month {
		r.MonthlyVolume = math.ZeroInt()
		r.LastResetMonth = month
	}
	r.MonthlyVolume = r.MonthlyVolume.Add(amount)
}

// ValidateTier checks a tier ordinal.
func ValidateTier(tier uint8) error {
	if tier > TierInstitutional {
		return ErrInvalidTier
	}
	return nil
}

// ValidateRiskScore checks a risk score.
func ValidateRiskScore(score uint8) error {
	if score > 100 {
		return ErrInvalidRiskScore
	}
	return nil
}

// ValidateCountry checks an ISO 3166-1 alpha-2 country code.
func ValidateCountry(country string) error {
	if len(country) != 2 {
		return ErrInvalidCountryFormat
	}
	for _, c := range country {
		if c < 'A' || c > 'Z' {
			return ErrInvalidCountryFormat
		}
	}
	return nil
}

// ValidateState checks a state/province code (empty allowed).
func ValidateState(state string) error {
	if len(state) > 2 {
		return ErrInvalidStateFormat
	}
	for _, c := range state {
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return ErrInvalidStateFormat
		}
	}
	return nil
}

// ValidateCity checks a free-text city name.
func ValidateCity(city string) error {
	if len(city) > 32 {
		return ErrInvalidCityFormat
	}
	for _, c := range city {
		if c > 127 || c < 32 {
			return ErrInvalidCityFormat
		}
	}
	return nil
}

// AssetPolicy describes the per-asset compliance requirements consulted by the
// gate. A zero limit means unlimited; an empty allowed-country list admits any
// country.
type AssetPolicy struct {
	Denom             string   `json:"denom"`
	RequiredTier      uint8    `json:"required_tier"`
	AllowedCountries  []string `json:"allowed_countries,omitempty"`
	RestrictedRegions []string `json:"restricted_regions,omitempty"` // "CC_SS" codes, e.g. "US_NY"
	DailyLimit        math.Int `json:"daily_limit"`
	MonthlyLimit      math.Int `json:"monthly_limit"`
	UpdatedAt         int64    `json:"updated_at"`
}

// CountryAllowed reports whether the record's country passes the policy.
func (p *AssetPolicy) CountryAllowed(country string) bool {
	if len(p.AllowedCountries) == 0 {
		return true
	}
	for _, c := range p.AllowedCountries {
		if c == country {
			return true
		}
	}
	return false
}

// RegionRestricted reports whether the "CC_SS" region code is restricted.
func (p *AssetPolicy) RegionRestricted(region string) bool {
	for _, r := range p.RestrictedRegions {
		if r == region {
			return true
		}
	}
	return false
}

// DefaultAssetPolicy admits every record at basic tier with no geographic or
// volume constraints. Used when an asset has no explicit policy.
func DefaultAssetPolicy(denom string) *AssetPolicy {
	return &AssetPolicy{
		Denom:        denom,
		RequiredTier: TierBasic,
		DailyLimit:   math.ZeroInt(),
		MonthlyLimit: math.ZeroInt(),
	}
}

// HookWhitelist is the set of trusted transfer-initiating program identities.
// Transfers from initiators outside the set bypass the gate entirely: the gate
// instruments a specific, known transfer path, it is not a general
// access-control layer.
type HookWhitelist struct {
	Authority string   `json:"authority"`
	Programs  []string `json:"programs"`
	UpdatedAt int64    `json:"updated_at"`
}

// Contains reports whether a program identity is whitelisted.
func (w *HookWhitelist) Contains(program string) bool {
	for _, p := range w.Programs {
		if p == program {
			return true
		}
	}
	return false
}

// Add appends a program, enforcing uniqueness and the size cap.
func (w *HookWhitelist) Add(program string) error {
	if len(w.Programs) >= MaxWhitelistedPrograms {
		return ErrWhitelistFull
	}
	if w.Contains(program) {
		return ErrProgramAlreadyWhitelisted
	}
	w.Programs = append(w.Programs, program)
	return nil
}

// Remove deletes a program, preserving order of the remainder.
func (w *HookWhitelist) Remove(program string) error {
	for i, p := range w.Programs {
		if p == program {
			w.Programs = append(w.Programs[:i], w.Programs[i+1:]...)
			return nil
		}
	}
	return ErrProgramNotWhitelisted
}
