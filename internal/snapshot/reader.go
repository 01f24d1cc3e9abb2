// Package snapshot implements the campaign snapshot/restore engine: capture
// of a campaign's full relational state into one self-contained document, and
// atomic restore of such a document into a new, independent campaign with
// regenerated identifiers.
package snapshot

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/siegekeeper/engine/internal/model"
	"github.com/siegekeeper/engine/internal/model/convert"
	"github.com/siegekeeper/engine/pkg/core"
	"gorm.io/gorm"
)

// Reader aggregates one campaign's full state into a snapshot document.
type Reader struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewReader creates a snapshot reader over db.
func NewReader(db *gorm.DB, log zerolog.Logger) *Reader {
	return &Reader{db: db, log: log}
}

// Capture loads the campaign and all entities it owns and assembles them into
// a document. The reads are a bounded sequence of queries, not one atomic
// read; the contract is completeness and internal consistency of references
// as captured. Any failed read aborts the whole capture.
func (r *Reader) Capture(ctx context.Context, campaignID uint) (*core.Document, error) {
	start := time.Now()
	db := r.db.WithContext(ctx)

	var campaign model.Campaign
	if err := db.First(&campaign, campaignID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &TransientError{Op: "load campaign", Err: err}
	}

	doc := &core.Document{
		Campaign: core.CampaignInfo{ID: campaign.ID, Name: campaign.Name},
	}

	var combatants []model.Combatant
	err := db.Where("campaign_id = ?", campaignID).
		Order("combatants.id").
		Preload("Conditions", func(db *gorm.DB) *gorm.DB {
			return db.Order("conditions.id")
		}).
		Find(&combatants).Error
	if err != nil {
		return nil, &TransientError{Op: "load combatants", Err: err}
	}
	doc.Combatants = make([]core.Combatant, 0, len(combatants))
	for _, c := range combatants {
		doc.Combatants = append(doc.Combatants, convert.CombatantToCore(c))
	}

	var monsters []model.MonsterTemplate
	err = db.Where("campaign_id = ?", campaignID).
		Order("monster_templates.id").
		Find(&monsters).Error
	if err != nil {
		return nil, &TransientError{Op: "load monster templates", Err: err}
	}
	doc.Monsters = make([]core.Monster, 0, len(monsters))
	for _, m := range monsters {
		doc.Monsters = append(doc.Monsters, convert.MonsterToCore(m))
	}

	var instances []model.MonsterInstance
	err = db.Where(
		"monster_id IN (?)",
		db.Session(&gorm.Session{NewDB: true}).
			Model(&model.MonsterTemplate{}).
			Select("id").
			Where("campaign_id = ?", campaignID),
	).
		Order("monster_instances.id").
		Find(&instances).Error
	if err != nil {
		return nil, &TransientError{Op: "load monster instances", Err: err}
	}
	doc.MonsterInstances = make([]core.MonsterInstance, 0, len(instances))
	for _, i := range instances {
		doc.MonsterInstances = append(doc.MonsterInstances, convert.MonsterInstanceToCore(i))
	}

	var siege model.SiegeState
	err = db.Where("campaign_id = ?", campaignID).
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("siege_notes.id")
		}).
		First(&siege).Error
	switch {
	case err == nil:
		s := convert.SiegeStateToCore(siege)
		doc.SiegeState = &s
	case errors.Is(err, gorm.ErrRecordNotFound):
		// a campaign without a siege state captures as null
	default:
		return nil, &TransientError{Op: "load siege state", Err: err}
	}

	var locations []model.Location
	err = db.Where("campaign_id = ?", campaignID).
		Order("locations.id").
		Preload("PlotPoints", func(db *gorm.DB) *gorm.DB {
			return db.Order("plot_points.id")
		}).
		Find(&locations).Error
	if err != nil {
		return nil, &TransientError{Op: "load locations", Err: err}
	}
	doc.Locations = make([]core.Location, 0, len(locations))
	for _, l := range locations {
		doc.Locations = append(doc.Locations, convert.LocationToCore(l))
	}

	var preferences []model.Preference
	err = db.Where("campaign_id = ?", campaignID).
		Order("preferences.preference_key").
		Find(&preferences).Error
	if err != nil {
		return nil, &TransientError{Op: "load preferences", Err: err}
	}
	doc.Preferences = make([]core.Preference, 0, len(preferences))
	for _, p := range preferences {
		doc.Preferences = append(doc.Preferences, convert.PreferenceToCore(p))
	}

	recordCapture(ctx, time.Since(start), doc)

	r.log.Debug().
		Uint("campaignID", campaignID).
		Int("combatants", len(doc.Combatants)).
		Int("monsters", len(doc.Monsters)).
		Int("locations", len(doc.Locations)).
		Dur("elapsed", time.Since(start)).
		Msg("Captured campaign snapshot")

	return doc, nil
}
