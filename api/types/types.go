package types

// PoolInfo is the REST view of a liquidity pool.
type PoolInfo struct {
	PoolID              string `json:"pool_id"`
	ConfigID            string `json:"config_id"`
	TokenA              string `json:"token_a"`
	TokenB              string `json:"token_b"`
	SqrtPrice           string `json:"sqrt_price"`
	Price               string `json:"price"`
	Liquidity           string `json:"liquidity"`
	FeeBps              string `json:"fee_bps"`
	ProtocolFeeA        string `json:"protocol_fee_a"`
	ProtocolFeeB        string `json:"protocol_fee_b"`
	ActivationTimestamp int64  `json:"activation_timestamp"`
	Activated           bool   `json:"activated"`
}

// TickerInfo is a compact price snapshot for a pool.
type TickerInfo struct {
	PoolID    string `json:"pool_id"`
	Price     string `json:"price"`
	FeeBps    string `json:"fee_bps"`
	Liquidity string `json:"liquidity"`
	Timestamp int64  `json:"timestamp"`
}

// QuoteRequest asks for a read-only swap preview.
type QuoteRequest struct {
	PoolID    string `json:"pool_id"`
	AmountIn  string `json:"amount_in"`
	Direction uint8  `json:"direction"` // 0 = A->B, 1 = B->A
}

// QuoteResult is a swap preview. AmountIn can be smaller than the requested
// input when the pool's price bound truncates the trade.
type QuoteResult struct {
	PoolID        string `json:"pool_id"`
	AmountIn      string `json:"amount_in"`
	AmountOut     string `json:"amount_out"`
	FeeAmount     string `json:"fee_amount"`
	NextSqrtPrice string `json:"next_sqrt_price"`
	PartialFill   bool   `json:"partial_fill"`
}

// RecordInfo is the REST view of a compliance record.
type RecordInfo struct {
	Address       string `json:"address"`
	Tier          uint8  `json:"tier"`
	Flags         uint32 `json:"flags"`
	Country       string `json:"country"`
	DailyVolume   string `json:"daily_volume"`
	MonthlyVolume string `json:"monthly_volume"`
	UpdatedAt     int64  `json:"updated_at"`
}

// WhitelistInfo lists the hook programs allowed to initiate gated transfers.
type WhitelistInfo struct {
	Authority string   `json:"authority"`
	Programs  []string `json:"programs"`
	UpdatedAt int64    `json:"updated_at"`
}

// PoolService serves pool state.
type PoolService interface {
	GetPools() ([]*PoolInfo, error)
	GetPool(poolID string) (*PoolInfo, error)
	GetTicker(poolID string) (*TickerInfo, error)
}

// QuoteService previews swaps without executing them.
type QuoteService interface {
	Quote(req *QuoteRequest) (*QuoteResult, error)
}

// ComplianceService serves compliance records and the hook whitelist.
type ComplianceService interface {
	GetRecord(address string) (*RecordInfo, error)
	GetWhitelist() (*WhitelistInfo, error)
}
