package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gatedfi/rwa-dex/api/middleware"
	"github.com/gatedfi/rwa-dex/api/types"
	"github.com/gatedfi/rwa-dex/api/websocket"
	"github.com/gatedfi/rwa-dex/metrics"
)

// Server is the REST and WebSocket gateway. It serves pool state, swap
// quotes, and compliance lookups, and streams pool tickers over WebSocket.
type Server struct {
	httpServer *http.Server
	hub        *websocket.Hub
	config     *Config

	pools      types.PoolService
	quotes     types.QuoteService
	compliance types.ComplianceService

	history     *PriceHistory
	rateLimiter *middleware.RateLimiter
	collector   *metrics.Collector

	stopCh chan struct{}
}

// Config contains server configuration
type Config struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Sampling interval for the price history index and ticker stream.
	SampleInterval time.Duration

	// How long price samples are retained.
	HistoryRetention time.Duration

	DisableRateLimit bool // For testing purposes
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Host:             "0.0.0.0",
		Port:             8080,
		ReadTimeout:      30 * time.Second,
		WriteTimeout:     30 * time.Second,
		SampleInterval:   time.Second,
		HistoryRetention: 24 * time.Hour,
	}
}

// NewServer creates a server backed by the given services. Nil services fall
// back to the mock implementation.
func NewServer(config *Config, services *Services) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if services == nil {
		services = &Services{}
	}

	mock := NewMockService()
	if services.Pools == nil {
		services.Pools = mock
	}
	if services.Quotes == nil {
		services.Quotes = mock
	}
	if services.Compliance == nil {
		services.Compliance = mock
	}

	return &Server{
		config:      config,
		hub:         websocket.NewHub(websocket.DefaultHubConfig()),
		pools:       services.Pools,
		quotes:      services.Quotes,
		compliance:  services.Compliance,
		history:     NewPriceHistory(config.HistoryRetention),
		rateLimiter: middleware.NewRateLimiter(middleware.DefaultRateLimitConfig()),
		collector:   metrics.GetCollector(),
		stopCh:      make(chan struct{}),
	}
}

// Start starts the server. Blocks until the listener fails or the server is
// stopped.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/health", s.handleHealth)

	mux.HandleFunc("/v1/pools", s.handlePools)
	mux.HandleFunc("/v1/pools/", s.handlePool)

	quoteHandler := http.HandlerFunc(s.handleQuote)
	if s.config.DisableRateLimit {
		mux.Handle("/v1/quote", quoteHandler)
	} else {
		mux.Handle("/v1/quote", middleware.QuoteRateLimitMiddleware(s.rateLimiter)(quoteHandler))
	}

	mux.HandleFunc("/v1/compliance/records/", s.handleRecord)
	mux.HandleFunc("/v1/compliance/whitelist", s.handleWhitelist)

	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/ws", s.hub.ServeWS)

	// Middleware chain: CORS -> metrics -> rate limit -> mux
	var handler http.Handler = s.instrument(mux)
	if !s.config.DisableRateLimit {
		handler = middleware.RateLimitMiddleware(s.rateLimiter)(handler)
	}
	handler = corsMiddleware(handler)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	go s.hub.Run()
	go s.sampleLoop()

	log.Printf("API server starting on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	close(s.stopCh)
	s.rateLimiter.Stop()
	return s.httpServer.Shutdown(ctx)
}

// Hub returns the WebSocket hub for external broadcasters.
func (s *Server) Hub() *websocket.Hub {
	return s.hub
}

// History returns the price history index.
func (s *Server) History() *PriceHistory {
	return s.history
}

// sampleLoop samples pool tickers on the configured interval, feeding the
// history index and the WebSocket ticker stream.
func (s *Server) sampleLoop() {
	ticker := time.NewTicker(s.config.SampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.samplePools()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Server) samplePools() {
	pools, err := s.pools.GetPools()
	if err != nil {
		return
	}

	now := time.Now().Unix()
	for _, p := range pools {
		price, err := strconv.ParseFloat(p.Price, 64)
		if err != nil {
			continue
		}
		feeBps, _ := strconv.ParseFloat(p.FeeBps, 64)

		s.history.Record(p.PoolID, PricePoint{
			Timestamp: now,
			Price:     price,
			FeeBps:    feeBps,
		})

		s.hub.UpdateTicker(p.PoolID, &websocket.TickerMessage{
			PoolID:    p.PoolID,
			Price:     p.Price,
			FeeBps:    p.FeeBps,
			Liquidity: p.Liquidity,
			Timestamp: now,
		})
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"clients":   s.hub.GetClientCount(),
	})
}

// handlePools handles /v1/pools
func (s *Server) handlePools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	pools, err := s.pools.GetPools()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pools": pools,
	})
}

// handlePool handles /v1/pools/{id} and /v1/pools/{id}/{endpoint}
func (s *Server) handlePool(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	path := r.URL.Path[len("/v1/pools/"):]

	poolID := path
	endpoint := ""
	for i, c := range path {
		if c == '/' {
			poolID = path[:i]
			endpoint = path[i+1:]
			break
		}
	}

	if poolID == "" {
		writeError(w, http.StatusBadRequest, "Pool ID required")
		return
	}

	switch endpoint {
	case "":
		pool, err := s.pools.GetPool(poolID)
		if err != nil {
			writeError(w, http.StatusNotFound, "Pool not found")
			return
		}
		writeJSON(w, http.StatusOK, pool)

	case "ticker":
		ticker, err := s.pools.GetTicker(poolID)
		if err != nil {
			writeError(w, http.StatusNotFound, "Pool not found")
			return
		}
		writeJSON(w, http.StatusOK, ticker)

	case "history":
		from, to := parseWindow(r, time.Hour)
		points := s.history.Range(poolID, from, to)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"pool_id": poolID,
			"from":    from,
			"to":      to,
			"points":  points,
		})

	case "twap":
		from, to := parseWindow(r, time.Hour)
		twap, ok := s.history.TWAP(poolID, from, to)
		if !ok {
			writeError(w, http.StatusNotFound, "No samples in window")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"pool_id": poolID,
			"from":    from,
			"to":      to,
			"twap":    twap,
		})

	default:
		writeError(w, http.StatusNotFound, "Endpoint not found")
	}
}

// handleQuote handles /v1/quote?pool_id=..&amount_in=..&direction=..
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	q := r.URL.Query()
	direction := uint64(0)
	if d := q.Get("direction"); d != "" {
		var err error
		direction, err = strconv.ParseUint(d, 10, 8)
		if err != nil || direction > 1 {
			writeError(w, http.StatusBadRequest, "direction must be 0 or 1")
			return
		}
	}

	req := &types.QuoteRequest{
		PoolID:    q.Get("pool_id"),
		AmountIn:  q.Get("amount_in"),
		Direction: uint8(direction),
	}
	if req.PoolID == "" || req.AmountIn == "" {
		writeError(w, http.StatusBadRequest, "pool_id and amount_in required")
		return
	}

	result, err := s.quotes.Quote(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleRecord handles /v1/compliance/records/{address}
func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	address := r.URL.Path[len("/v1/compliance/records/"):]
	if address == "" {
		writeError(w, http.StatusBadRequest, "Address required")
		return
	}

	record, err := s.compliance.GetRecord(address)
	if err != nil {
		writeError(w, http.StatusNotFound, "Record not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// handleWhitelist handles /v1/compliance/whitelist
func (s *Server) handleWhitelist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	whitelist, err := s.compliance.GetWhitelist()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, whitelist)
}

// parseWindow reads from/to query params, defaulting to the trailing window.
func parseWindow(r *http.Request, def time.Duration) (from, to int64) {
	now := time.Now().Unix()
	to = now
	from = now - int64(def.Seconds())

	if f := r.URL.Query().Get("from"); f != "" {
		if v, err := strconv.ParseInt(f, 10, 64); err == nil {
			from = v
		}
	}
	if t := r.URL.Query().Get("to"); t != "" {
		if v, err := strconv.ParseInt(t, 10, 64); err == nil {
			to = v
		}
	}
	return from, to
}

// instrument records request metrics around the inner handler.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timer := metrics.NewTimer()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.collector.RecordAPIRequest(r.Method, r.URL.Path, strconv.Itoa(rec.status), timer.ElapsedMs())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": message,
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
