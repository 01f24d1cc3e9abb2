// Package autosave coalesces campaign modification marks into periodic
// liveness touches. A touch updates only the campaign's last-modified
// timestamp; it never mutates campaign data.
package autosave

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/siegekeeper/engine/internal/model"
	"gorm.io/gorm"
)

// DefaultInterval is the flush interval used when none is configured.
const DefaultInterval = 30 * time.Second

// Dependencies holds all dependencies for the auto-save coordinator.
type Dependencies struct {
	DB       *gorm.DB
	Log      zerolog.Logger
	Interval time.Duration
}

// Coordinator tracks dirty campaigns and writes at most one touch per
// campaign per interval. Marking is a map write under a short lock, so the
// caller's write path never blocks on storage.
type Coordinator struct {
	deps Dependencies

	mu        sync.Mutex
	dirty     map[uint]time.Time
	isRunning bool
	stopChan  chan struct{}
}

// NewCoordinator creates a coordinator. A zero interval falls back to
// DefaultInterval.
func NewCoordinator(deps Dependencies) *Coordinator {
	if deps.Interval <= 0 {
		deps.Interval = DefaultInterval
	}
	return &Coordinator{
		deps:     deps,
		dirty:    make(map[uint]time.Time),
		stopChan: make(chan struct{}),
	}
}

// MarkModified records a local dirty timestamp for the campaign. Repeated
// marks within one interval coalesce into a single touch write.
func (c *Coordinator) MarkModified(campaignID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty[campaignID] = time.Now().UTC()
}

// IsRunning returns whether the flush loop is running.
func (c *Coordinator) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isRunning
}

// Start launches the background flush loop. A stopped coordinator can be
// started again.
func (c *Coordinator) Start() {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return
	}
	c.isRunning = true
	c.stopChan = make(chan struct{})
	stop := c.stopChan
	c.mu.Unlock()

	go c.flushLoop(stop)
}

// Stop terminates the flush loop and flushes campaigns still dirty before
// returning.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return
	}
	c.isRunning = false
	close(c.stopChan)
	c.mu.Unlock()

	c.flushOnce()
}

func (c *Coordinator) flushLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(c.deps.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.flushOnce()
		}
	}
}

// flushOnce drains the dirty set under the lock, then issues the touch writes
// outside it. A failed touch re-marks the campaign so the next tick retries.
func (c *Coordinator) flushOnce() {
	c.mu.Lock()
	pending := c.dirty
	c.dirty = make(map[uint]time.Time)
	c.mu.Unlock()

	for campaignID, markedAt := range pending {
		campaign := model.Campaign{Model: gorm.Model{ID: campaignID}}
		if err := campaign.Touch(c.deps.DB, time.Now().UTC()); err != nil {
			c.deps.Log.Error().Err(err).Uint("campaignID", campaignID).Msg("Failed to touch campaign")
			c.mu.Lock()
			if _, remarked := c.dirty[campaignID]; !remarked {
				c.dirty[campaignID] = markedAt
			}
			c.mu.Unlock()
			continue
		}
		c.deps.Log.Debug().Uint("campaignID", campaignID).Msg("Touched campaign")
	}
}
