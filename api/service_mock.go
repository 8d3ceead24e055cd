package api

import (
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/math"

	"github.com/gatedfi/rwa-dex/api/types"
	ammtypes "github.com/gatedfi/rwa-dex/x/amm/types"
)

// MockService serves a fixed set of in-memory pools for development and
// testing. Quotes run through the same curve math as on-chain swaps, so a
// mock quote is numerically identical to what the chain would return for the
// same pool state.
type MockService struct {
	mu      sync.RWMutex
	pools   map[string]*mockPool
	records map[string]*types.RecordInfo
}

type mockPool struct {
	pool   *ammtypes.Pool
	config *ammtypes.PoolConfig
}

// NewMockService creates a MockService seeded with sample pools.
func NewMockService() *MockService {
	s := &MockService{
		pools:   make(map[string]*mockPool),
		records: make(map[string]*types.RecordInfo),
	}
	s.seedPools()
	s.seedRecords()
	return s
}

func (s *MockService) seedPools() {
	now := time.Now().Unix()

	// Tokenized treasury bill against USDC: flat 30bps fee, tight band
	// around par.
	stableCfg := &ammtypes.PoolConfig{
		ConfigID: "stable-flat",
		BaseFee: ammtypes.BaseFee{
			CliffFeeNumerator: math.NewInt(3_000_000), // 30 bps
			NumberOfPeriod:    0,
			ReductionFactor:   math.ZeroInt(),
			PeriodFrequency:   0,
			SchedulerMode:     ammtypes.SchedulerModeLinear,
		},
		SqrtMinPrice:   mustSqrtPrice("0.95"),
		SqrtMaxPrice:   mustSqrtPrice("1.05"),
		ActivationType: ammtypes.ActivationImmediate,
		CollectFeeMode: ammtypes.CollectFeeModeProtocol,
	}
	s.addPool(stableCfg, "utbill", "uusdc", "1.0", math.NewInt(50_000_000_000), now-86400)

	// Tokenized gold: flat fee, wide band.
	s.addPool(stableCfg, "uxau", "uusdc", "2400.0", math.NewInt(2_000_000_000), now-86400)

	// Freshly launched real-estate token: exponential cliff decay from 5%
	// over 24 hourly periods, LP-collected fees.
	launchCfg := &ammtypes.PoolConfig{
		ConfigID: "launch-decay",
		BaseFee: ammtypes.BaseFee{
			CliffFeeNumerator: math.NewInt(50_000_000), // 500 bps at launch
			NumberOfPeriod:    24,
			ReductionFactor:   math.NewInt(1_000),
			PeriodFrequency:   3600,
			SchedulerMode:     ammtypes.SchedulerModeExponential,
		},
		SqrtMinPrice:   ammtypes.MinSqrtPrice,
		SqrtMaxPrice:   ammtypes.MaxSqrtPrice,
		ActivationType: ammtypes.ActivationTimestamp,
		CollectFeeMode: ammtypes.CollectFeeModeLP,
	}
	s.addPool(launchCfg, "urealt", "uusdc", "12.5", math.NewInt(800_000_000), now-7200)
}

func (s *MockService) addPool(cfg *ammtypes.PoolConfig, tokenA, tokenB, price string, liquidity math.Int, activation int64) {
	poolID := ammtypes.DerivePoolID(cfg.ConfigID, tokenA, tokenB)
	s.pools[poolID] = &mockPool{
		config: cfg,
		pool: &ammtypes.Pool{
			PoolID:              poolID,
			ConfigID:            cfg.ConfigID,
			TokenA:              tokenA,
			TokenB:              tokenB,
			SqrtPrice:           mustSqrtPrice(price),
			Liquidity:           liquidity,
			SqrtMinPrice:        cfg.SqrtMinPrice,
			SqrtMaxPrice:        cfg.SqrtMaxPrice,
			ProtocolFeeA:        math.ZeroInt(),
			ProtocolFeeB:        math.ZeroInt(),
			FeeGrowthGlobalA:    math.ZeroInt(),
			FeeGrowthGlobalB:    math.ZeroInt(),
			ActivationTimestamp: activation,
			CreatedAt:           activation,
			UpdatedAt:           activation,
		},
	}
}

func (s *MockService) seedRecords() {
	now := time.Now().Unix()
	s.records["rwadex1qy352eufqy352eufqy352eufqy352eufd3v4xe"] = &types.RecordInfo{
		Address:       "rwadex1qy352eufqy352eufqy352eufqy352eufd3v4xe",
		Tier:          2,
		Flags:         0,
		Country:       "US",
		DailyVolume:   "125000000",
		MonthlyVolume: "2400000000",
		UpdatedAt:     now - 3600,
	}
	s.records["rwadex1zg69v7yszg69v7yszg69v7yszg69v7ys8s9qwp"] = &types.RecordInfo{
		Address:       "rwadex1zg69v7yszg69v7yszg69v7yszg69v7ys8s9qwp",
		Tier:          1,
		Flags:         0,
		Country:       "SG",
		DailyVolume:   "0",
		MonthlyVolume: "50000000",
		UpdatedAt:     now - 7200,
	}
}

// GetPools returns all pools.
func (s *MockService) GetPools() ([]*types.PoolInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now().Unix()
	infos := make([]*types.PoolInfo, 0, len(s.pools))
	for _, mp := range s.pools {
		infos = append(infos, poolInfo(mp, now))
	}
	return infos, nil
}

// GetPool returns a single pool by ID.
func (s *MockService) GetPool(poolID string) (*types.PoolInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mp, ok := s.pools[poolID]
	if !ok {
		return nil, fmt.Errorf("pool not found: %s", poolID)
	}
	return poolInfo(mp, time.Now().Unix()), nil
}

// GetTicker returns a price snapshot for a pool.
func (s *MockService) GetTicker(poolID string) (*types.TickerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mp, ok := s.pools[poolID]
	if !ok {
		return nil, fmt.Errorf("pool not found: %s", poolID)
	}

	now := time.Now().Unix()
	feeNum := mp.config.BaseFee.CurrentFeeNumerator(mp.pool.ActivationTimestamp, now)
	return &types.TickerInfo{
		PoolID:    poolID,
		Price:     ammtypes.PriceFromSqrtPrice(mp.pool.SqrtPrice).String(),
		FeeBps:    feeBpsString(feeNum),
		Liquidity: mp.pool.Liquidity.String(),
		Timestamp: now,
	}, nil
}

// Quote previews a swap against the mock pool state.
func (s *MockService) Quote(req *types.QuoteRequest) (*types.QuoteResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mp, ok := s.pools[req.PoolID]
	if !ok {
		return nil, fmt.Errorf("pool not found: %s", req.PoolID)
	}

	amountIn, ok := math.NewIntFromString(req.AmountIn)
	if !ok || !amountIn.IsPositive() {
		return nil, fmt.Errorf("invalid amount_in: %s", req.AmountIn)
	}

	now := time.Now().Unix()
	feeNum := mp.config.BaseFee.CurrentFeeNumerator(mp.pool.ActivationTimestamp, now)
	result, err := mp.pool.ComputeSwap(amountIn, feeNum, req.Direction, mp.config.CollectFeeMode)
	if err != nil {
		return nil, err
	}

	return &types.QuoteResult{
		PoolID:        req.PoolID,
		AmountIn:      result.AmountIn.String(),
		AmountOut:     result.AmountOut.String(),
		FeeAmount:     result.FeeAmount.String(),
		NextSqrtPrice: result.NextSqrtPrice.String(),
		PartialFill:   result.PartialFill,
	}, nil
}

// GetRecord returns the compliance record for an address.
func (s *MockService) GetRecord(address string) (*types.RecordInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[address]
	if !ok {
		return nil, fmt.Errorf("record not found: %s", address)
	}
	return rec, nil
}

// GetWhitelist returns the mock hook whitelist.
func (s *MockService) GetWhitelist() (*types.WhitelistInfo, error) {
	return &types.WhitelistInfo{
		Authority: "rwadex10d07y265gmmuvt4z0w9aw880jnsr700jclkw8c",
		Programs:  []string{"amm"},
		UpdatedAt: time.Now().Unix() - 86400,
	}, nil
}

func poolInfo(mp *mockPool, now int64) *types.PoolInfo {
	feeNum := mp.config.BaseFee.CurrentFeeNumerator(mp.pool.ActivationTimestamp, now)
	return &types.PoolInfo{
		PoolID:              mp.pool.PoolID,
		ConfigID:            mp.pool.ConfigID,
		TokenA:              mp.pool.TokenA,
		TokenB:              mp.pool.TokenB,
		SqrtPrice:           mp.pool.SqrtPrice.String(),
		Price:               ammtypes.PriceFromSqrtPrice(mp.pool.SqrtPrice).String(),
		Liquidity:           mp.pool.Liquidity.String(),
		FeeBps:              feeBpsString(feeNum),
		ProtocolFeeA:        mp.pool.ProtocolFeeA.String(),
		ProtocolFeeB:        mp.pool.ProtocolFeeB.String(),
		ActivationTimestamp: mp.pool.ActivationTimestamp,
		Activated:           mp.pool.IsActivated(now),
	}
}

// feeBpsString converts a parts-per-billion fee numerator to basis points.
func feeBpsString(feeNum math.Int) string {
	return math.LegacyNewDecFromInt(feeNum).QuoInt64(100_000).String()
}

func mustSqrtPrice(price string) math.Int {
	sqrt, err := ammtypes.SqrtPriceFromPrice(math.LegacyMustNewDecFromStr(price))
	if err != nil {
		panic(err)
	}
	return sqrt
}
