package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/globaltripmarket/finance-api/models"
)

// ============================================================================
// AUTO-REFRESH
// ============================================================================

// Refresher re-runs the dashboard pipeline on a fixed interval and keeps the
// last good snapshot around for the websocket push and for callers that
// prefer stale data over a blank screen. At most one fetch is in flight at
// any moment; an overlapping tick is skipped, not queued.
type Refresher struct {
	n8n      *N8NService
	interval time.Duration
	onUpdate func(models.DashboardData)

	mu       sync.RWMutex
	fetching sync.Mutex
	latest   models.DashboardData
	hasData  bool
	updated  time.Time
}

func NewRefresher(n8n *N8NService, interval time.Duration, onUpdate func(models.DashboardData)) *Refresher {
	return &Refresher{
		n8n:      n8n,
		interval: interval,
		onUpdate: onUpdate,
	}
}

// Run blocks until ctx is cancelled. Call it from a goroutine.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

// Refresh fetches and rebuilds the snapshot once. Returns false when another
// refresh was already running or the upstream fetch failed; the previous
// snapshot stays in place either way.
func (r *Refresher) Refresh(ctx context.Context) bool {
	if !r.fetching.TryLock() {
		log.Println("⏭️ Skipping dashboard refresh, previous one still in flight")
		return false
	}
	defer r.fetching.Unlock()

	raw, err := r.n8n.FetchDashboardRaw(ctx)
	if err != nil {
		log.Printf("❌ Dashboard refresh failed: %v", err)
		return false
	}

	data := BuildDashboard(raw)

	r.mu.Lock()
	r.latest = data
	r.hasData = true
	r.updated = time.Now()
	r.mu.Unlock()

	log.Printf("✅ Dashboard refreshed: %d transactions", len(data.Transactions))
	if r.onUpdate != nil {
		r.onUpdate(data)
	}
	return true
}

// Latest returns the last good snapshot and when it was taken. ok is false
// until the first successful refresh.
func (r *Refresher) Latest() (models.DashboardData, time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest, r.updated, r.hasData
}
