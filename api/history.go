package api

import (
	"sync"
	"time"

	"github.com/google/btree"
)

const historyTreeDegree = 32

// PricePoint is one recorded price sample for a pool.
type PricePoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
	FeeBps    float64 `json:"fee_bps"`
}

// pricePointItem wraps a sample for use in btree, ordered by timestamp.
type pricePointItem struct {
	point PricePoint
}

func (a *pricePointItem) Less(b btree.Item) bool {
	return a.point.Timestamp < b.(*pricePointItem).point.Timestamp
}

// PriceHistory keeps a sliding window of price samples per pool in a B-tree
// keyed by timestamp. Range queries back the /history and /twap endpoints.
type PriceHistory struct {
	mu        sync.RWMutex
	trees     map[string]*btree.BTree
	retention time.Duration
}

// NewPriceHistory creates a history index that retains samples for the given
// duration. Zero retention keeps samples forever.
func NewPriceHistory(retention time.Duration) *PriceHistory {
	return &PriceHistory{
		trees:     make(map[string]*btree.BTree),
		retention: retention,
	}
}

// Record stores a sample and prunes anything older than the retention window.
// A sample with the same timestamp as an existing one replaces it.
func (h *PriceHistory) Record(poolID string, point PricePoint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	tree, ok := h.trees[poolID]
	if !ok {
		tree = btree.New(historyTreeDegree)
		h.trees[poolID] = tree
	}
	tree.ReplaceOrInsert(&pricePointItem{point: point})

	if h.retention > 0 {
		cutoff := point.Timestamp - int64(h.retention.Seconds())
		for {
			min := tree.Min()
			if min == nil || min.(*pricePointItem).point.Timestamp >= cutoff {
				break
			}
			tree.DeleteMin()
		}
	}
}

// Range returns all samples for a pool in [from, to], ascending by timestamp.
func (h *PriceHistory) Range(poolID string, from, to int64) []PricePoint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	tree, ok := h.trees[poolID]
	if !ok {
		return nil
	}

	var points []PricePoint
	tree.AscendGreaterOrEqual(&pricePointItem{point: PricePoint{Timestamp: from}}, func(item btree.Item) bool {
		p := item.(*pricePointItem).point
		if p.Timestamp > to {
			return false
		}
		points = append(points, p)
		return true
	})
	return points
}

// Latest returns the most recent sample for a pool.
func (h *PriceHistory) Latest(poolID string) (PricePoint, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	tree, ok := h.trees[poolID]
	if !ok {
		return PricePoint{}, false
	}
	max := tree.Max()
	if max == nil {
		return PricePoint{}, false
	}
	return max.(*pricePointItem).point, true
}

// TWAP computes the time-weighted average price over [from, to]. Each sample
// is weighted by the time until the next sample, the last by the time until
// the window end. Returns false when the window holds no samples.
func (h *PriceHistory) TWAP(poolID string, from, to int64) (float64, bool) {
	points := h.Range(poolID, from, to)
	if len(points) == 0 {
		return 0, false
	}
	if len(points) == 1 {
		return points[0].Price, true
	}

	var weighted float64
	var total float64
	for i, p := range points {
		end := to
		if i+1 < len(points) {
			end = points[i+1].Timestamp
		}
		dt := float64(end - p.Timestamp)
		if dt <= 0 {
			continue
		}
		weighted += p.Price * dt
		total += dt
	}
	if total == 0 {
		return points[len(points)-1].Price, true
	}
	return weighted / total, true
}

// Size returns the number of samples held for a pool.
func (h *PriceHistory) Size(poolID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	tree, ok := h.trees[poolID]
	if !ok {
		return 0
	}
	return tree.Len()
}
