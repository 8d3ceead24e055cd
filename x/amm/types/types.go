package types

import (
	"crypto/sha256"
	"encoding/hex"

	"cosmossdk.io/math"
	"github.com/google/uuid"
)

// Module name and store key
const (
	ModuleName = "amm"
	StoreKey   = ModuleName
)

// Fee arithmetic constants. Fee rates are numerators over FeeDenominator; the
// hard cap keeps every computable rate strictly below 1.0.
var (
	FeeDenominator  = math.NewInt(1_000_000_000)
	MaxFeeNumerator = math.NewInt(500_000_000) // 50%
	BasisPointMax   = math.NewInt(10_000)
)

// ReferralFeePercent is the share of the protocol fee routed to a referral
// account when one is attached to a swap.
const ReferralFeePercent = int64(20)

// MinInitialLiquidity rejects degenerate near-zero pools at initialization.
var MinInitialLiquidity = math.NewInt(1_000)

// Fee scheduler modes
const (
	SchedulerModeLinear      = uint8(0)
	SchedulerModeExponential = uint8(1)
)

// Fee collection modes
const (
	CollectFeeModeProtocol = uint8(0) // fee taken from the input leg, accrues to protocol balances
	CollectFeeModeLP       = uint8(1) // fee taken from the output leg, accrues to LP fee growth
)

// Activation policies
const (
	ActivationImmediate = uint8(0)
	ActivationTimestamp = uint8(1)
)

// Trade directions
const (
	DirectionAToB = uint8(0)
	DirectionBToA = uint8(1)
)

// BaseFee is the cliff-decay fee schedule of a pool config.
// PeriodFrequency == 0 or NumberOfPeriod == 0 means a constant fee equal to
// CliffFeeNumerator.
type BaseFee struct {
	CliffFeeNumerator math.Int `json:"cliff_fee_numerator"`
	NumberOfPeriod    uint16   `json:"number_of_period"`
	ReductionFactor   math.Int `json:"reduction_factor"`
	PeriodFrequency   int64    `json:"period_frequency"` // seconds per period
	SchedulerMode     uint8    `json:"scheduler_mode"`
}

// PoolConfig is the immutable template a pool is created from. Owned by the
// protocol; referenced by many pools; mutated only by explicit admin action.
type PoolConfig struct {
	ConfigID       string   `json:"config_id"`
	BaseFee        BaseFee  `json:"base_fee"`
	SqrtMinPrice   math.Int `json:"sqrt_min_price"`
	SqrtMaxPrice   math.Int `json:"sqrt_max_price"`
	ActivationType uint8    `json:"activation_type"`
	CollectFeeMode uint8    `json:"collect_fee_mode"`
	CreatedAt      int64    `json:"created_at"`
}

// Validate rejects misconfigured templates at creation time. A fee schedule
// that can reach 1.0 is fatal here, never a runtime error.
func (c *PoolConfig) Validate() error {
	if c.SqrtMinPrice.LT(MinSqrtPrice) || c.SqrtMaxPrice.GT(MaxSqrtPrice) || c.SqrtMinPrice.GTE(c.SqrtMaxPrice) {
		return ErrInvalidPriceBounds
	}
	return c.BaseFee.Validate()
}

// Validate checks the fee schedule produces rates in [0, 1.0) for every
// period.
func (f *BaseFee) Validate() error {
	if f.CliffFeeNumerator.IsNil() || f.CliffFeeNumerator.IsNegative() {
		return ErrInvalidFeeConfig
	}
	// The cliff is the maximum the schedule ever produces; both modes only
	// decay from it.
	if f.CliffFeeNumerator.GT(MaxFeeNumerator) {
		return ErrInvalidFeeConfig
	}
	if f.ReductionFactor.IsNil() || f.ReductionFactor.IsNegative() {
		return ErrInvalidFeeConfig
	}
	if f.SchedulerMode == SchedulerModeExponential && f.ReductionFactor.GT(BasisPointMax) {
		return ErrInvalidFeeConfig
	}
	if f.SchedulerMode != SchedulerModeLinear && f.SchedulerMode != SchedulerModeExponential {
		return ErrInvalidFeeConfig
	}
	if f.PeriodFrequency < 0 {
		return ErrInvalidFeeConfig
	}
	return nil
}

// Pool is the mutable state of one token pair. sqrtPrice stays within the
// config bounds at all times; liquidity never goes negative. Pools are never
// destroyed, only drained.
type Pool struct {
	PoolID   string `json:"pool_id"`
	ConfigID string `json:"config_id"`
	TokenA   string `json:"token_a"`
	TokenB   string `json:"token_b"`

	SqrtPrice    math.Int `json:"sqrt_price"`
	Liquidity    math.Int `json:"liquidity"`
	SqrtMinPrice math.Int `json:"sqrt_min_price"`
	SqrtMaxPrice math.Int `json:"sqrt_max_price"`

	// Accumulated protocol fee balances, withdrawable by the protocol.
	ProtocolFeeA math.Int `json:"protocol_fee_a"`
	ProtocolFeeB math.Int `json:"protocol_fee_b"`

	// LP fee growth globals: Q64.64 fee per unit of liquidity.
	FeeGrowthGlobalA math.Int `json:"fee_growth_global_a"`
	FeeGrowthGlobalB math.Int `json:"fee_growth_global_b"`

	ActivationTimestamp int64 `json:"activation_timestamp"`
	CreatedAt           int64 `json:"created_at"`
	UpdatedAt           int64 `json:"updated_at"`
}

// DerivePoolID derives the unique pool identity from its configuration key.
// One pool per (config, pair).
func DerivePoolID(configID, tokenA, tokenB string) string {
	h := sha256.Sum256([]byte(configID + "/" + tokenA + "/" + tokenB))
	return hex.EncodeToString(h[:16])
}

// CheckInvariant verifies the price-bound and liquidity invariants.
func (p *Pool) CheckInvariant() error {
	if p.SqrtPrice.LT(p.SqrtMinPrice) || p.SqrtPrice.GT(p.SqrtMaxPrice) {
		return ErrInvalidPriceBounds
	}
	if p.Liquidity.IsNegative() {
		return ErrInsufficientLiquidity
	}
	return nil
}

// IsActivated reports whether swaps and liquidity changes are open at the
// given unix time.
func (p *Pool) IsActivated(now int64) bool {
	return now >= p.ActivationTimestamp
}

// AccrueLPFee folds a collected LP fee into the per-liquidity growth global.
func (p *Pool) AccrueLPFee(fee math.Int, tokenA bool) error {
	if fee.IsZero() || p.Liquidity.IsZero() {
		return nil
	}
	growth, err := MulDiv(fee, math.NewIntFromBigInt(Q64), p.Liquidity)
	if err != nil {
		return err
	}
	if tokenA {
		p.FeeGrowthGlobalA = p.FeeGrowthGlobalA.Add(growth)
	} else {
		p.FeeGrowthGlobalB = p.FeeGrowthGlobalB.Add(growth)
	}
	return nil
}

// Position is a per-owner liquidity stake in one pool. The record persists at
// zero liquidity until explicitly closed, and cannot be closed while any fee
// balance is outstanding.
type Position struct {
	PositionID string `json:"position_id"`
	Owner      string `json:"owner"`
	PoolID     string `json:"pool_id"`

	Liquidity math.Int `json:"liquidity"`

	// Fee-growth checkpoints at last touch, Q64.64 per unit liquidity.
	FeeCheckpointA math.Int `json:"fee_checkpoint_a"`
	FeeCheckpointB math.Int `json:"fee_checkpoint_b"`

	// Fees owed but not yet paid out.
	OwedFeeA math.Int `json:"owed_fee_a"`
	OwedFeeB math.Int `json:"owed_fee_b"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// NewPosition creates an empty position for an owner in a pool, checkpointed
// at the pool's current fee growth.
func NewPosition(owner string, pool *Pool, now int64) *Position {
	return &Position{
		PositionID:     uuid.New().String(),
		Owner:          owner,
		PoolID:         pool.PoolID,
		Liquidity:      math.ZeroInt(),
		FeeCheckpointA: pool.FeeGrowthGlobalA,
		FeeCheckpointB: pool.FeeGrowthGlobalB,
		OwedFeeA:       math.ZeroInt(),
		OwedFeeB:       math.ZeroInt(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Settle accrues fees earned since the last checkpoint into the owed balances
// and advances the checkpoints. Never pays negative or stale fees: growth
// globals are monotone, so the delta is always >= 0.
func (pos *Position) Settle(pool *Pool) error {
	if pos.Liquidity.IsPositive() {
		deltaA := pool.FeeGrowthGlobalA.Sub(pos.FeeCheckpointA)
		deltaB := pool.FeeGrowthGlobalB.Sub(pos.FeeCheckpointB)
		if deltaA.IsPositive() {
			earned, err := MulDiv(pos.Liquidity, deltaA, math.NewIntFromBigInt(Q64))
			if err != nil {
				return err
			}
			pos.OwedFeeA = pos.OwedFeeA.Add(earned)
		}
		if deltaB.IsPositive() {
			earned, err := MulDiv(pos.Liquidity, deltaB, math.NewIntFromBigInt(Q64))
			if err != nil {
				return err
			}
			pos.OwedFeeB = pos.OwedFeeB.Add(earned)
		}
	}
	pos.FeeCheckpointA = pool.FeeGrowthGlobalA
	pos.FeeCheckpointB = pool.FeeGrowthGlobalB
	return nil
}

// HasOutstandingFees reports whether any fee balance is uncollected.
func (pos *Position) HasOutstandingFees() bool {
	return pos.OwedFeeA.IsPositive() || pos.OwedFeeB.IsPositive()
}
