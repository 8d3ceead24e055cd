package websocket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gatedfi/rwa-dex/metrics"
)

// Hub maintains the set of active clients and broadcasts pool updates.
type Hub struct {
	clients  map[*Client]bool
	channels map[string]map[*Client]bool // channel -> clients

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	subscribe   chan *SubscriptionRequest
	unsubscribe chan *SubscriptionRequest

	// Latest ticker per pool, flushed on the ticker interval.
	tickerBuffer map[string]*TickerMessage

	mu sync.RWMutex

	config    *HubConfig
	collector *metrics.Collector
}

// HubConfig contains hub configuration
type HubConfig struct {
	TickerInterval time.Duration

	MaxClientsPerIP  int
	MaxSubscriptions int

	// Messages per second per client
	MessageRateLimit int
}

// DefaultHubConfig returns default hub configuration
func DefaultHubConfig() *HubConfig {
	return &HubConfig{
		TickerInterval:   time.Second,
		MaxClientsPerIP:  10,
		MaxSubscriptions: 50,
		MessageRateLimit: 100,
	}
}

// SubscriptionRequest represents a subscription request
type SubscriptionRequest struct {
	Client  *Client
	Channel string
	Action  string // "subscribe" or "unsubscribe"
}

// NewHub creates a new Hub
func NewHub(config *HubConfig) *Hub {
	if config == nil {
		config = DefaultHubConfig()
	}

	return &Hub{
		clients:      make(map[*Client]bool),
		channels:     make(map[string]map[*Client]bool),
		broadcast:    make(chan []byte, 256),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		subscribe:    make(chan *SubscriptionRequest, 256),
		unsubscribe:  make(chan *SubscriptionRequest, 256),
		tickerBuffer: make(map[string]*TickerMessage),
		config:       config,
		collector:    metrics.GetCollector(),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	tickerTicker := time.NewTicker(h.config.TickerInterval)
	defer tickerTicker.Stop()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case req := <-h.subscribe:
			h.handleSubscription(req)

		case req := <-h.unsubscribe:
			h.handleUnsubscription(req)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-tickerTicker.C:
			h.broadcastTickers()
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	h.collector.RecordWSConnection(1)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)

		for channel, clients := range h.channels {
			if _, subscribed := clients[client]; subscribed {
				delete(clients, client)
				h.collector.WSSubscriptions.WithLabelValues(channel).Dec()
			}
			if len(clients) == 0 {
				delete(h.channels, channel)
			}
		}

		close(client.send)
		h.collector.RecordWSConnection(-1)
	}
}

func (h *Hub) handleSubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	channel := req.Channel
	client := req.Client

	if _, ok := h.channels[channel]; !ok {
		h.channels[channel] = make(map[*Client]bool)
	}
	if !h.channels[channel][client] {
		h.channels[channel][client] = true
		h.collector.WSSubscriptions.WithLabelValues(channel).Inc()
	}

	confirmation := &WSMessage{
		Type:    "subscribed",
		Channel: channel,
	}
	data, _ := json.Marshal(confirmation)
	client.send <- data
}

func (h *Hub) handleUnsubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	channel := req.Channel
	client := req.Client

	if clients, ok := h.channels[channel]; ok {
		if _, subscribed := clients[client]; subscribed {
			delete(clients, client)
			h.collector.WSSubscriptions.WithLabelValues(channel).Dec()
		}
		if len(clients) == 0 {
			delete(h.channels, channel)
		}
	}

	confirmation := &WSMessage{
		Type:    "unsubscribed",
		Channel: channel,
	}
	data, _ := json.Marshal(confirmation)
	client.send <- data
}

func (h *Hub) broadcastMessage(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			// Client buffer is full, skip
		}
	}
}

// BroadcastToChannel sends a message to all clients subscribed to a channel
func (h *Hub) BroadcastToChannel(channel string, message interface{}) {
	h.mu.RLock()
	clients, ok := h.channels[channel]
	if !ok {
		h.mu.RUnlock()
		return
	}

	// Copy so the lock is not held during sends
	clientList := make([]*Client, 0, len(clients))
	for client := range clients {
		clientList = append(clientList, client)
	}
	h.mu.RUnlock()

	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	h.collector.RecordWSMessage(channel)

	for _, client := range clientList {
		select {
		case client.send <- data:
		default:
			// Client buffer is full, skip
		}
	}
}

// UpdateTicker updates the ticker buffer for a pool
func (h *Hub) UpdateTicker(poolID string, ticker *TickerMessage) {
	h.mu.Lock()
	h.tickerBuffer[poolID] = ticker
	h.mu.Unlock()
}

func (h *Hub) broadcastTickers() {
	h.mu.RLock()
	tickers := make(map[string]*TickerMessage)
	for k, v := range h.tickerBuffer {
		tickers[k] = v
	}
	h.mu.RUnlock()

	for poolID, ticker := range tickers {
		channel := "ticker:" + poolID
		msg := &WSMessage{
			Type:    "ticker",
			Channel: channel,
			Data:    ticker,
		}
		h.BroadcastToChannel(channel, msg)
	}
}

// BroadcastSwap broadcasts an executed swap to subscribers
func (h *Hub) BroadcastSwap(poolID string, swap *SwapMessage) {
	channel := "swaps:" + poolID
	msg := &WSMessage{
		Type:    "swap",
		Channel: channel,
		Data:    swap,
	}
	h.BroadcastToChannel(channel, msg)
}

// BroadcastPosition broadcasts a position update to its owner
func (h *Hub) BroadcastPosition(owner string, position *PositionMessage) {
	channel := "positions:" + owner
	msg := &WSMessage{
		Type:    "position",
		Channel: channel,
		Data:    position,
	}
	h.BroadcastToChannel(channel, msg)
}

// ============ Message Types ============

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Channel string      `json:"channel"`
	Data    interface{} `json:"data,omitempty"`
}

// TickerMessage represents a pool price update
type TickerMessage struct {
	PoolID    string `json:"pool_id"`
	Price     string `json:"price"`
	FeeBps    string `json:"fee_bps"`
	Liquidity string `json:"liquidity"`
	Timestamp int64  `json:"timestamp"`
}

// SwapMessage represents an executed swap
type SwapMessage struct {
	PoolID      string `json:"pool_id"`
	AmountIn    string `json:"amount_in"`
	AmountOut   string `json:"amount_out"`
	FeeAmount   string `json:"fee_amount"`
	Direction   uint8  `json:"direction"`
	PartialFill bool   `json:"partial_fill"`
	Timestamp   int64  `json:"timestamp"`
}

// PositionMessage represents a liquidity position update
type PositionMessage struct {
	PositionID string `json:"position_id"`
	PoolID     string `json:"pool_id"`
	Owner      string `json:"owner"`
	Liquidity  string `json:"liquidity"`
	FeeOwedA   string `json:"fee_owed_a"`
	FeeOwedB   string `json:"fee_owed_b"`
	Timestamp  int64  `json:"timestamp"`
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetChannelCount returns the number of active channels
func (h *Hub) GetChannelCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels)
}

// ServeWS handles WebSocket upgrade requests
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = generateID()
	}

	owner := r.URL.Query().Get("address")
	ip := clientIPFromRequest(r)

	client := NewClient(h, conn, clientID, owner, ip)

	h.register <- client

	go client.writePump()
	go client.readPump()
}

func clientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}

func generateID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
