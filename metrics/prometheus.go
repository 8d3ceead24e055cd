package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RWA DEX Metrics Collector
// Provides comprehensive metrics for monitoring

var (
	// Singleton collector
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds all RWA DEX metrics
type Collector struct {
	// Swap metrics
	SwapsTotal        *prometheus.CounterVec
	SwapVolume        *prometheus.CounterVec
	SwapFees          *prometheus.CounterVec
	SwapLatency       *prometheus.HistogramVec
	PartialFillsTotal *prometheus.CounterVec

	// Pool metrics
	PoolsActive   prometheus.Gauge
	PoolLiquidity *prometheus.GaugeVec
	PoolPrice     *prometheus.GaugeVec
	PoolFeeBps    *prometheus.GaugeVec
	ProtocolFees  *prometheus.GaugeVec

	// Position metrics
	PositionsOpen        *prometheus.GaugeVec
	LiquidityEventsTotal *prometheus.CounterVec

	// Compliance gate metrics
	GateChecksTotal   *prometheus.CounterVec
	GateDenialsTotal  *prometheus.CounterVec
	GateLatency       *prometheus.HistogramVec
	WhitelistPrograms prometheus.Gauge

	// API metrics
	APIRequestsTotal  *prometheus.CounterVec
	APIRequestLatency *prometheus.HistogramVec
	APIErrorsTotal    *prometheus.CounterVec

	// WebSocket metrics
	WSConnectionsActive *prometheus.GaugeVec
	WSMessagesTotal     *prometheus.CounterVec
	WSSubscriptions     *prometheus.GaugeVec

	// System metrics
	BlockHeight prometheus.Gauge
	BlockTime   *prometheus.HistogramVec
}

// GetCollector returns the singleton metrics collector
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector()
	})
	return collector
}

// newCollector creates a new metrics collector
func newCollector() *Collector {
	c := &Collector{}

	// Swap metrics
	c.SwapsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rwadex",
			Subsystem: "swaps",
			Name:      "total",
			Help:      "Total number of swaps executed",
		},
		[]string{"pool_id", "direction"},
	)

	c.SwapVolume = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rwadex",
			Subsystem: "swaps",
			Name:      "volume",
			Help:      "Cumulative swap input volume by denom",
		},
		[]string{"pool_id", "denom"},
	)

	c.SwapFees = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rwadex",
			Subsystem: "swaps",
			Name:      "fees",
			Help:      "Cumulative swap fees by collection mode",
		},
		[]string{"pool_id", "mode"},
	)

	c.SwapLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rwadex",
			Subsystem: "swaps",
			Name:      "latency_ms",
			Help:      "Swap processing latency in milliseconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50},
		},
		[]string{"pool_id"},
	)

	c.PartialFillsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rwadex",
			Subsystem: "swaps",
			Name:      "partial_fills",
			Help:      "Total number of swaps clamped at a pool price bound",
		},
		[]string{"pool_id"},
	)

	// Pool metrics
	c.PoolsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rwadex",
			Subsystem: "pools",
			Name:      "active",
			Help:      "Number of initialized pools",
		},
	)

	c.PoolLiquidity = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rwadex",
			Subsystem: "pools",
			Name:      "liquidity",
			Help:      "Current pool liquidity",
		},
		[]string{"pool_id"},
	)

	c.PoolPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rwadex",
			Subsystem: "pools",
			Name:      "price",
			Help:      "Current pool price (token B per token A)",
		},
		[]string{"pool_id"},
	)

	c.PoolFeeBps = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rwadex",
			Subsystem: "pools",
			Name:      "fee_bps",
			Help:      "Current scheduled fee in basis points",
		},
		[]string{"pool_id"},
	)

	c.ProtocolFees = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rwadex",
			Subsystem: "pools",
			Name:      "protocol_fees",
			Help:      "Unwithdrawn protocol fee balance by denom",
		},
		[]string{"pool_id", "denom"},
	)

	// Position metrics
	c.PositionsOpen = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rwadex",
			Subsystem: "positions",
			Name:      "open",
			Help:      "Number of open liquidity positions",
		},
		[]string{"pool_id"},
	)

	c.LiquidityEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rwadex",
			Subsystem: "positions",
			Name:      "liquidity_events",
			Help:      "Total liquidity add/remove events",
		},
		[]string{"pool_id", "action"},
	)

	// Compliance gate metrics
	c.GateChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rwadex",
			Subsystem: "gate",
			Name:      "checks_total",
			Help:      "Total compliance gate evaluations by outcome",
		},
		[]string{"denom", "outcome"},
	)

	c.GateDenialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rwadex",
			Subsystem: "gate",
			Name:      "denials_total",
			Help:      "Total compliance gate denials by reason",
		},
		[]string{"denom", "reason"},
	)

	c.GateLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rwadex",
			Subsystem: "gate",
			Name:      "latency_ms",
			Help:      "Compliance gate evaluation latency in milliseconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"denom"},
	)

	c.WhitelistPrograms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rwadex",
			Subsystem: "gate",
			Name:      "whitelist_programs",
			Help:      "Number of whitelisted hook programs",
		},
	)

	// API metrics
	c.APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rwadex",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total API requests",
		},
		[]string{"method", "path", "status"},
	)

	c.APIRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rwadex",
			Subsystem: "api",
			Name:      "request_latency_ms",
			Help:      "API request latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"method", "path"},
	)

	c.APIErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rwadex",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Total API errors",
		},
		[]string{"method", "path", "error_type"},
	)

	// WebSocket metrics
	c.WSConnectionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rwadex",
			Subsystem: "websocket",
			Name:      "connections_active",
			Help:      "Number of active WebSocket connections",
		},
		[]string{},
	)

	c.WSMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rwadex",
			Subsystem: "websocket",
			Name:      "messages_total",
			Help:      "Total WebSocket messages sent",
		},
		[]string{"channel"},
	)

	c.WSSubscriptions = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rwadex",
			Subsystem: "websocket",
			Name:      "subscriptions",
			Help:      "Number of active channel subscriptions",
		},
		[]string{"channel"},
	)

	// System metrics
	c.BlockHeight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rwadex",
			Subsystem: "system",
			Name:      "block_height",
			Help:      "Current block height",
		},
	)

	c.BlockTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rwadex",
			Subsystem: "system",
			Name:      "block_time_ms",
			Help:      "Block time in milliseconds",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 5000},
		},
		[]string{},
	)

	// Register all metrics
	c.registerAll()

	return c
}

// registerAll registers all metrics with Prometheus
func (c *Collector) registerAll() {
	// Swap metrics
	prometheus.MustRegister(c.SwapsTotal)
	prometheus.MustRegister(c.SwapVolume)
	prometheus.MustRegister(c.SwapFees)
	prometheus.MustRegister(c.SwapLatency)
	prometheus.MustRegister(c.PartialFillsTotal)

	// Pool metrics
	prometheus.MustRegister(c.PoolsActive)
	prometheus.MustRegister(c.PoolLiquidity)
	prometheus.MustRegister(c.PoolPrice)
	prometheus.MustRegister(c.PoolFeeBps)
	prometheus.MustRegister(c.ProtocolFees)

	// Position metrics
	prometheus.MustRegister(c.PositionsOpen)
	prometheus.MustRegister(c.LiquidityEventsTotal)

	// Compliance gate metrics
	prometheus.MustRegister(c.GateChecksTotal)
	prometheus.MustRegister(c.GateDenialsTotal)
	prometheus.MustRegister(c.GateLatency)
	prometheus.MustRegister(c.WhitelistPrograms)

	// API metrics
	prometheus.MustRegister(c.APIRequestsTotal)
	prometheus.MustRegister(c.APIRequestLatency)
	prometheus.MustRegister(c.APIErrorsTotal)

	// WebSocket metrics
	prometheus.MustRegister(c.WSConnectionsActive)
	prometheus.MustRegister(c.WSMessagesTotal)
	prometheus.MustRegister(c.WSSubscriptions)

	// System metrics
	prometheus.MustRegister(c.BlockHeight)
	prometheus.MustRegister(c.BlockTime)
}

// ============ Recording Helpers ============

// RecordSwap records an executed swap
func (c *Collector) RecordSwap(poolID, direction, denomIn string, volume float64) {
	c.SwapsTotal.WithLabelValues(poolID, direction).Inc()
	c.SwapVolume.WithLabelValues(poolID, denomIn).Add(volume)
}

// RecordSwapFee records a collected swap fee
func (c *Collector) RecordSwapFee(poolID, mode string, fee float64) {
	c.SwapFees.WithLabelValues(poolID, mode).Add(fee)
}

// RecordSwapLatency records swap processing latency
func (c *Collector) RecordSwapLatency(poolID string, latencyMs float64) {
	c.SwapLatency.WithLabelValues(poolID).Observe(latencyMs)
}

// RecordPartialFill records a swap clamped at a pool price bound
func (c *Collector) RecordPartialFill(poolID string) {
	c.PartialFillsTotal.WithLabelValues(poolID).Inc()
}

// RecordLiquidityEvent records a liquidity add or remove
func (c *Collector) RecordLiquidityEvent(poolID, action string) {
	c.LiquidityEventsTotal.WithLabelValues(poolID, action).Inc()
}

// UpdatePool updates per-pool gauges
func (c *Collector) UpdatePool(poolID string, liquidity, price, feeBps float64) {
	c.PoolLiquidity.WithLabelValues(poolID).Set(liquidity)
	c.PoolPrice.WithLabelValues(poolID).Set(price)
	c.PoolFeeBps.WithLabelValues(poolID).Set(feeBps)
}

// RecordGateCheck records a compliance gate evaluation
func (c *Collector) RecordGateCheck(denom, outcome string, latencyMs float64) {
	c.GateChecksTotal.WithLabelValues(denom, outcome).Inc()
	c.GateLatency.WithLabelValues(denom).Observe(latencyMs)
}

// RecordGateDenial records a compliance gate denial
func (c *Collector) RecordGateDenial(denom, reason string) {
	c.GateDenialsTotal.WithLabelValues(denom, reason).Inc()
}

// RecordAPIRequest records an API request
func (c *Collector) RecordAPIRequest(method, path, status string, latencyMs float64) {
	c.APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.APIRequestLatency.WithLabelValues(method, path).Observe(latencyMs)
}

// RecordWSConnection records WebSocket connection changes
func (c *Collector) RecordWSConnection(delta int) {
	c.WSConnectionsActive.WithLabelValues().Add(float64(delta))
}

// RecordWSMessage records a WebSocket message
func (c *Collector) RecordWSMessage(channel string) {
	c.WSMessagesTotal.WithLabelValues(channel).Inc()
}

// UpdateSystemMetrics updates system-level metrics
func (c *Collector) UpdateSystemMetrics(blockHeight int64) {
	c.BlockHeight.Set(float64(blockHeight))
}

// ============ HTTP Handler ============

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for measuring latency
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ElapsedMs returns the elapsed time in milliseconds
func (t *Timer) ElapsedMs() float64 {
	return float64(time.Since(t.start).Microseconds()) / 1000.0
}
