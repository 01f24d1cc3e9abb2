package autosave

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/siegekeeper/engine/internal/database"
	"github.com/siegekeeper/engine/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestCoordinator(t *testing.T, interval time.Duration) (*Coordinator, *gorm.DB) {
	t.Helper()
	db, err := database.GetSqliteDBStandalone("")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.DatabaseModels...))

	c := NewCoordinator(Dependencies{
		DB:       db,
		Log:      zerolog.Nop(),
		Interval: interval,
	})
	return c, db
}

func lastModified(t *testing.T, db *gorm.DB, campaignID uint) time.Time {
	t.Helper()
	var campaign model.Campaign
	require.NoError(t, db.First(&campaign, campaignID).Error)
	return campaign.LastModified
}

func TestNewCoordinator_DefaultsInterval(t *testing.T) {
	c := NewCoordinator(Dependencies{Log: zerolog.Nop()})
	assert.Equal(t, DefaultInterval, c.deps.Interval)

	c = NewCoordinator(Dependencies{Log: zerolog.Nop(), Interval: 5 * time.Second})
	assert.Equal(t, 5*time.Second, c.deps.Interval)
}

func TestFlushOnce_TouchesDirtyCampaign(t *testing.T) {
	c, db := newTestCoordinator(t, time.Hour)

	stale := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	campaign := model.Campaign{Name: "Dusty", LastModified: stale}
	require.NoError(t, db.Create(&campaign).Error)

	c.MarkModified(campaign.ID)
	c.flushOnce()

	got := lastModified(t, db, campaign.ID)
	assert.True(t, got.After(stale), "last_modified should have advanced, got %v", got)
}

func TestMarkModified_CoalescesRepeatedMarks(t *testing.T) {
	c, db := newTestCoordinator(t, time.Hour)

	campaign := model.Campaign{Name: "Busy", LastModified: time.Now().UTC()}
	require.NoError(t, db.Create(&campaign).Error)

	c.MarkModified(campaign.ID)
	c.MarkModified(campaign.ID)
	c.MarkModified(campaign.ID)

	c.mu.Lock()
	pending := len(c.dirty)
	c.mu.Unlock()
	assert.Equal(t, 1, pending, "repeated marks within one interval collapse to one entry")
}

func TestFlushOnce_DrainsDirtySet(t *testing.T) {
	c, db := newTestCoordinator(t, time.Hour)

	campaign := model.Campaign{Name: "Once", LastModified: time.Now().UTC()}
	require.NoError(t, db.Create(&campaign).Error)

	c.MarkModified(campaign.ID)
	c.flushOnce()

	c.mu.Lock()
	pending := len(c.dirty)
	c.mu.Unlock()
	assert.Zero(t, pending)
}

func TestStartStop_Lifecycle(t *testing.T) {
	c, _ := newTestCoordinator(t, time.Hour)

	assert.False(t, c.IsRunning())
	c.Start()
	assert.True(t, c.IsRunning())
	c.Start() // second start is a no-op
	assert.True(t, c.IsRunning())

	c.Stop()
	assert.False(t, c.IsRunning())
	c.Stop() // second stop is a no-op
	assert.False(t, c.IsRunning())
}

func TestStop_FlushesPendingMarks(t *testing.T) {
	c, db := newTestCoordinator(t, time.Hour)

	stale := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	campaign := model.Campaign{Name: "Last Call", LastModified: stale}
	require.NoError(t, db.Create(&campaign).Error)

	c.Start()
	c.MarkModified(campaign.ID)
	c.Stop()

	got := lastModified(t, db, campaign.ID)
	assert.True(t, got.After(stale), "pending marks flush on shutdown, got %v", got)
}
