package types

import (
	"cosmossdk.io/errors"
)

// Module error codes. Codes are stable across releases: calling layers and
// reporting pipelines branch on them.
var (
	ErrInvalidPriceBounds       = errors.Register(ModuleName, 2, "sqrt price outside configured bounds")
	ErrInsufficientLiquidity    = errors.Register(ModuleName, 3, "liquidity below protocol minimum")
	ErrSlippageExceeded         = errors.Register(ModuleName, 4, "required amount exceeds slippage threshold")
	ErrInsufficientOutputAmount = errors.Register(ModuleName, 5, "output amount less than minimum required")
	ErrPriceLimitReached        = errors.Register(ModuleName, 6, "pool price is at its limit")
	ErrMathOverflow             = errors.Register(ModuleName, 7, "fixed point arithmetic overflow")

	ErrPoolNotFound        = errors.Register(ModuleName, 10, "pool not found")
	ErrPoolAlreadyExists   = errors.Register(ModuleName, 11, "pool already exists for token pair")
	ErrPoolNotActivated    = errors.Register(ModuleName, 12, "pool is not yet activated")
	ErrConfigNotFound      = errors.Register(ModuleName, 13, "pool config not found")
	ErrInvalidFeeConfig    = errors.Register(ModuleName, 14, "fee configuration would reach or exceed 100%")
	ErrPositionNotFound    = errors.Register(ModuleName, 15, "position not found")
	ErrNotPositionOwner    = errors.Register(ModuleName, 16, "not the position owner")
	ErrZeroAmount          = errors.Register(ModuleName, 17, "amount cannot be zero")
	ErrSameToken           = errors.Register(ModuleName, 18, "pool tokens must differ")
	ErrOutstandingFees     = errors.Register(ModuleName, 19, "position has uncollected fees")
	ErrPositionNotEmpty    = errors.Register(ModuleName, 20, "position still holds liquidity")
	ErrDivisionByZero      = errors.Register(ModuleName, 21, "division by zero")
	ErrInvalidDirection    = errors.Register(ModuleName, 22, "invalid trade direction")
	ErrConfigAlreadyExists = errors.Register(ModuleName, 23, "pool config already exists")
	ErrUnauthorized        = errors.Register(ModuleName, 24, "signer is not the module authority")
)
