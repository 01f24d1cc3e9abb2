package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/siegekeeper/engine/internal/database"
	"github.com/siegekeeper/engine/internal/model"
	"github.com/siegekeeper/engine/internal/model/convert"
	"github.com/siegekeeper/engine/pkg/core"
	"gorm.io/gorm"
)

// Writer materializes a snapshot document as a new, independent campaign.
type Writer struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewWriter creates a restore writer over db.
func NewWriter(db *gorm.DB, log zerolog.Logger) *Writer {
	return &Writer{db: db, log: log}
}

// Restore inserts the document's entities as a new campaign inside one
// transaction and returns the new campaign row. Parents are always inserted,
// and their new identifiers recorded in a per-call remap table, strictly
// before any child that references them; that ordering is what makes a single
// forward pass sufficient. On any failure the transaction rolls back in full
// and the new campaign does not exist at all.
func (w *Writer) Restore(ctx context.Context, doc *core.Document) (*model.Campaign, error) {
	if doc == nil {
		return nil, &ValidationError{Reason: fmt.Errorf("document is nil")}
	}
	if err := doc.Validate(); err != nil {
		return nil, &ValidationError{Reason: err}
	}

	start := time.Now()
	var campaign *model.Campaign

	err := database.RunAtomically(ctx, w.db, func(tx *gorm.DB) error {
		remap := NewRemapTable()

		c := model.Campaign{
			Name:         doc.Campaign.Name,
			LastModified: time.Now().UTC(),
		}
		if err := tx.Create(&c).Error; err != nil {
			return wrapWriteError("create campaign", err)
		}

		if err := w.restoreCombatants(tx, doc, c.ID, remap); err != nil {
			return err
		}
		if err := w.restoreMonsters(tx, doc, c.ID, remap); err != nil {
			return err
		}
		if err := w.restoreSiegeState(tx, doc, c.ID); err != nil {
			return err
		}
		if err := w.restoreLocations(tx, doc, c.ID, remap); err != nil {
			return err
		}
		if err := w.restorePreferences(tx, doc, c.ID); err != nil {
			return err
		}

		campaign = &c
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordRestore(ctx, time.Since(start), doc)

	w.log.Info().
		Uint("sourceID", doc.Campaign.ID).
		Uint("campaignID", campaign.ID).
		Str("name", campaign.Name).
		Dur("elapsed", time.Since(start)).
		Msg("Restored campaign from snapshot")

	return campaign, nil
}

// restoreCombatants inserts combatants in snapshot order, records each old ID
// in the remap table, then inserts the combatant's conditions against the new
// combatant identifier. Conditions need no remap entry; nothing references
// them.
func (w *Writer) restoreCombatants(tx *gorm.DB, doc *core.Document, campaignID uint, remap *RemapTable) error {
	for _, src := range doc.Combatants {
		row := convert.CoreToCombatant(src, campaignID)
		if err := tx.Create(&row).Error; err != nil {
			return wrapWriteError(fmt.Sprintf("create combatant %q", src.Name), err)
		}
		remap.Assign(KindCombatant, src.ID, row.ID)

		for _, cond := range src.Conditions {
			condRow := model.Condition{
				CombatantID: row.ID,
				Condition:   cond.Condition,
				AppliedAt:   cond.AppliedAt,
			}
			if err := tx.Create(&condRow).Error; err != nil {
				return wrapWriteError(fmt.Sprintf("create condition %q", cond.Condition), err)
			}
		}
	}
	return nil
}

// restoreMonsters inserts templates (recording remap entries), then instances.
// Instances resolve both parents through the remap table; a missing
// resolution means the snapshot carries an orphan and fails the whole
// restore.
func (w *Writer) restoreMonsters(tx *gorm.DB, doc *core.Document, campaignID uint, remap *RemapTable) error {
	for _, src := range doc.Monsters {
		row := convert.CoreToMonster(src, campaignID)
		if err := tx.Create(&row).Error; err != nil {
			return wrapWriteError(fmt.Sprintf("create monster template %q", src.Name), err)
		}
		remap.Assign(KindMonster, src.ID, row.ID)
	}

	for _, src := range doc.MonsterInstances {
		monsterID, err := remap.Resolve(KindMonster, src.MonsterID)
		if err != nil {
			return &IntegrityError{Op: fmt.Sprintf("resolve monster instance %q", src.InstanceName), Err: err}
		}
		combatantID, err := remap.Resolve(KindCombatant, src.CombatantID)
		if err != nil {
			return &IntegrityError{Op: fmt.Sprintf("resolve monster instance %q", src.InstanceName), Err: err}
		}

		row := model.MonsterInstance{
			MonsterID:    monsterID,
			CombatantID:  combatantID,
			InstanceName: src.InstanceName,
		}
		if err := tx.Create(&row).Error; err != nil {
			return wrapWriteError(fmt.Sprintf("create monster instance %q", src.InstanceName), err)
		}
	}
	return nil
}

// restoreSiegeState inserts the siege state row, then its notes. A document
// with a null siege state yields the default state a freshly created campaign
// would have, keeping the one-row-per-campaign invariant.
func (w *Writer) restoreSiegeState(tx *gorm.DB, doc *core.Document, campaignID uint) error {
	var row model.SiegeState
	if doc.SiegeState != nil {
		row = convert.CoreToSiegeState(*doc.SiegeState, campaignID)
	} else {
		row = model.DefaultSiegeState(campaignID)
	}
	if err := tx.Create(&row).Error; err != nil {
		return wrapWriteError("create siege state", err)
	}

	if doc.SiegeState == nil {
		return nil
	}
	for _, note := range doc.SiegeState.Notes {
		noteRow := model.SiegeNote{
			Model:        gorm.Model{CreatedAt: note.CreatedAt},
			SiegeStateID: row.ID,
			NoteText:     note.NoteText,
		}
		if err := tx.Create(&noteRow).Error; err != nil {
			return wrapWriteError("create siege note", err)
		}
	}
	return nil
}

// restoreLocations inserts locations (recording remap entries), then each
// location's plot points against the new location identifier.
func (w *Writer) restoreLocations(tx *gorm.DB, doc *core.Document, campaignID uint, remap *RemapTable) error {
	for _, src := range doc.Locations {
		row := convert.CoreToLocation(src, campaignID)
		if err := tx.Create(&row).Error; err != nil {
			return wrapWriteError(fmt.Sprintf("create location %q", src.Name), err)
		}
		remap.Assign(KindLocation, src.ID, row.ID)

		for _, p := range src.PlotPoints {
			pointRow := convert.CoreToPlotPoint(p, row.ID)
			if err := tx.Create(&pointRow).Error; err != nil {
				return wrapWriteError(fmt.Sprintf("create plot point %q", p.Name), err)
			}
		}
	}
	return nil
}

func (w *Writer) restorePreferences(tx *gorm.DB, doc *core.Document, campaignID uint) error {
	for _, src := range doc.Preferences {
		row, err := convert.CoreToPreference(src, campaignID)
		if err != nil {
			return &ValidationError{Reason: fmt.Errorf("preference %q: %w", src.Key, err)}
		}
		if err := tx.Create(&row).Error; err != nil {
			return wrapWriteError(fmt.Sprintf("create preference %q", src.Key), err)
		}
	}
	return nil
}
