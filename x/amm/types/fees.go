package types

import (
	"cosmossdk.io/math"
)

// PeriodsElapsed returns the number of whole fee periods since activation,
// capped at the configured period count. A zero frequency or zero period
// count pins the schedule to the cliff.
func (f *BaseFee) PeriodsElapsed(activationTimestamp, now int64) uint16 {
	if f.PeriodFrequency == 0 || f.NumberOfPeriod == 0 {
		return 0
	}
	if now <= activationTimestamp {
		return 0
	}
	elapsed := (now - activationTimestamp) / f.PeriodFrequency
	if elapsed >= int64(f.NumberOfPeriod) {
		return f.NumberOfPeriod
	}
	return uint16(elapsed)
}

// CurrentFeeNumerator computes the fee numerator (over FeeDenominator) in
// effect at the given time. Linear mode subtracts reductionFactor per period,
// floored at zero; exponential mode multiplies by (1 - reductionFactor/10000)
// per period. Both only decay from the cliff, so the configured cap keeps the
// rate strictly below 1.0.
func (f *BaseFee) CurrentFeeNumerator(activationTimestamp, now int64) math.Int {
	periods := f.PeriodsElapsed(activationTimestamp, now)
	if periods == 0 {
		return f.CliffFeeNumerator
	}

	switch f.SchedulerMode {
	case SchedulerModeExponential:
		fee := f.CliffFeeNumerator
		keep := BasisPointMax.Sub(f.ReductionFactor)
		for i := uint16(0); i < periods; i++ {
			if fee.IsZero() {
				break
			}
			fee = fee.Mul(keep).Quo(BasisPointMax)
		}
		return fee
	default:
		reduction := f.ReductionFactor.MulRaw(int64(periods))
		if reduction.GTE(f.CliffFeeNumerator) {
			return math.ZeroInt()
		}
		return f.CliffFeeNumerator.Sub(reduction)
	}
}

// ApplyFee splits an amount into the fee taken and the remainder, rounding
// the fee up so the pool never undercollects.
func ApplyFee(amount, feeNumerator math.Int) (fee, remainder math.Int, err error) {
	if feeNumerator.IsZero() {
		return math.ZeroInt(), amount, nil
	}
	fee, err = MulDivRoundUp(amount, feeNumerator, FeeDenominator)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if fee.GT(amount) {
		fee = amount
	}
	return fee, amount.Sub(fee), nil
}

// SplitReferralFee carves the referral share out of a collected fee.
func SplitReferralFee(fee math.Int, hasReferral bool) (protocol, referral math.Int) {
	if !hasReferral || fee.IsZero() {
		return fee, math.ZeroInt()
	}
	referral = fee.MulRaw(ReferralFeePercent).QuoRaw(100)
	return fee.Sub(referral), referral
}
