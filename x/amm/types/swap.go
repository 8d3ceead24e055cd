package types

import (
	"cosmossdk.io/math"
)

// SwapResult is the outcome of one curve walk. AmountIn is what the trader is
// actually debited: under the bounded partial fill policy it can be less than
// the requested input when the price bound truncates the trade.
type SwapResult struct {
	AmountIn      math.Int
	AmountOut     math.Int
	FeeAmount     math.Int
	NextSqrtPrice math.Int
	PartialFill   bool

	// FeeOnInput records which leg the fee was taken from, fixed by the
	// pool's collect-fee mode.
	FeeOnInput bool
}

// ComputeSwap walks the constant-product curve at the pool's current price
// using its active liquidity. The identical code path backs live swaps and
// read-only quotes, so a caller's pre-flight check can never diverge from
// execution.
//
// Direction A->B moves the price down toward the min bound, B->A up toward
// the max bound. When the requested input would push the price past a bound
// the swap fills up to the bound and leaves the remainder with the trader:
// the price never exits its configured range. A pool already sitting at the
// bound cannot fill at all and fails with ErrPriceLimitReached.
func (p *Pool) ComputeSwap(amountIn, feeNumerator math.Int, direction, collectFeeMode uint8) (*SwapResult, error) {
	if err := CheckAmount(amountIn); err != nil {
		return nil, err
	}
	if amountIn.IsZero() {
		return nil, ErrZeroAmount
	}
	if !p.Liquidity.IsPositive() {
		return nil, ErrInsufficientLiquidity
	}

	feeOnInput := collectFeeMode == CollectFeeModeProtocol

	curveIn := amountIn
	fee := math.ZeroInt()
	var err error
	if feeOnInput {
		fee, curveIn, err = ApplyFee(amountIn, feeNumerator)
		if err != nil {
			return nil, err
		}
	}

	switch direction {
	case DirectionAToB:
		return p.computeSwapAToB(amountIn, curveIn, fee, feeNumerator, feeOnInput)
	case DirectionBToA:
		return p.computeSwapBToA(amountIn, curveIn, fee, feeNumerator, feeOnInput)
	default:
		return nil, ErrInvalidDirection
	}
}

func (p *Pool) computeSwapAToB(requestedIn, curveIn, fee, feeNumerator math.Int, feeOnInput bool) (*SwapResult, error) {
	if p.SqrtPrice.LTE(p.SqrtMinPrice) {
		return nil, ErrPriceLimitReached
	}

	next, err := GetNextSqrtPriceFromAmountAIn(p.SqrtPrice, p.Liquidity, curveIn)
	if err != nil {
		return nil, err
	}

	partial := false
	consumedIn := curveIn
	if next.LT(p.SqrtMinPrice) {
		// Bounded partial fill: stop exactly at the bound and charge only
		// the input that move needs.
		next = p.SqrtMinPrice
		consumedIn, err = GetAmountAForPriceMove(p.SqrtPrice, next, p.Liquidity)
		if err != nil {
			return nil, err
		}
		partial = true
	}

	out, err := GetDeltaAmountB(next, p.SqrtPrice, p.Liquidity, false)
	if err != nil {
		return nil, err
	}

	return p.finishSwap(requestedIn, consumedIn, out, fee, feeNumerator, feeOnInput, next, partial)
}

func (p *Pool) computeSwapBToA(requestedIn, curveIn, fee, feeNumerator math.Int, feeOnInput bool) (*SwapResult, error) {
	if p.SqrtPrice.GTE(p.SqrtMaxPrice) {
		return nil, ErrPriceLimitReached
	}

	next, err := GetNextSqrtPriceFromAmountBIn(p.SqrtPrice, p.Liquidity, curveIn)
	if err != nil {
		return nil, err
	}

	partial := false
	consumedIn := curveIn
	if next.GT(p.SqrtMaxPrice) {
		next = p.SqrtMaxPrice
		consumedIn, err = GetAmountBForPriceMove(p.SqrtPrice, next, p.Liquidity)
		if err != nil {
			return nil, err
		}
		partial = true
	}

	out, err := GetDeltaAmountA(p.SqrtPrice, next, p.Liquidity, false)
	if err != nil {
		return nil, err
	}

	return p.finishSwap(requestedIn, consumedIn, out, fee, feeNumerator, feeOnInput, next, partial)
}

func (p *Pool) finishSwap(requestedIn, consumedIn, out, fee, feeNumerator math.Int, feeOnInput bool, next math.Int, partial bool) (*SwapResult, error) {
	var err error
	if !feeOnInput {
		fee, out, err = ApplyFee(out, feeNumerator)
		if err != nil {
			return nil, err
		}
	}

	amountIn := requestedIn
	if partial {
		// The unconsumed remainder stays with the trader. On input-fee
		// pools the fee is recomputed against the consumed amount so the
		// truncated trade is not overcharged.
		if feeOnInput {
			gross, err := grossUpInput(consumedIn, feeNumerator)
			if err != nil {
				return nil, err
			}
			amountIn = gross
			fee = amountIn.Sub(consumedIn)
		} else {
			amountIn = consumedIn
		}
		if amountIn.GT(requestedIn) {
			amountIn = requestedIn
		}
	}

	return &SwapResult{
		AmountIn:      amountIn,
		AmountOut:     out,
		FeeAmount:     fee,
		NextSqrtPrice: next,
		PartialFill:   partial,
		FeeOnInput:    feeOnInput,
	}, nil
}

// grossUpInput inverts ApplyFee: the smallest gross amount whose net, after
// the fee is rounded up, is at least net.
func grossUpInput(net, feeNumerator math.Int) (math.Int, error) {
	if feeNumerator.IsZero() {
		return net, nil
	}
	return MulDivRoundUp(net, FeeDenominator, FeeDenominator.Sub(feeNumerator))
}
