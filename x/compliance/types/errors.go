package types

import (
	"cosmossdk.io/errors"
)

// Gate denial codes. The numeric codes are stable: calling layers branch on
// them and reporting pipelines store them. Order of registration mirrors the
// gate's evaluation order.
var (
	ErrRecordNotFound      = errors.Register(ModuleName, 2, "compliance record not found")
	ErrAccountFrozen       = errors.Register(ModuleName, 3, "account is frozen")
	ErrSanctioned          = errors.Register(ModuleName, 4, "account is sanctioned")
	ErrRecordExpired       = errors.Register(ModuleName, 5, "identity verification expired")
	ErrInsufficientTier    = errors.Register(ModuleName, 6, "identity tier below asset requirement")
	ErrInvalidCountry      = errors.Register(ModuleName, 7, "country not allowed for asset")
	ErrInvalidRegion       = errors.Register(ModuleName, 8, "region restricted for asset")
	ErrVolumeLimitExceeded = errors.Register(ModuleName, 9, "rolling volume limit exceeded")
)

// Administrative input errors.
var (
	ErrInvalidTier               = errors.Register(ModuleName, 20, "invalid identity tier")
	ErrInvalidRiskScore          = errors.Register(ModuleName, 21, "risk score must be 0-100")
	ErrInvalidCountryFormat      = errors.Register(ModuleName, 22, "country must be two uppercase letters")
	ErrInvalidStateFormat        = errors.Register(ModuleName, 23, "state must be at most two alphanumeric characters")
	ErrInvalidCityFormat         = errors.Register(ModuleName, 24, "city must be at most 32 printable ascii characters")
	ErrRecordAlreadyExists       = errors.Register(ModuleName, 25, "compliance record already exists")
	ErrWhitelistFull             = errors.Register(ModuleName, 26, "hook whitelist is full")
	ErrProgramAlreadyWhitelisted = errors.Register(ModuleName, 27, "program already whitelisted")
	ErrProgramNotWhitelisted     = errors.Register(ModuleName, 28, "program not whitelisted")
	ErrUnauthorized              = errors.Register(ModuleName, 29, "unauthorized")
	ErrInvalidAmount             = errors.Register(ModuleName, 30, "transfer amount must be positive")
)
