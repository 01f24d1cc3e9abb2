package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/siegekeeper/engine/internal/database"
	"github.com/siegekeeper/engine/internal/model"
	"github.com/siegekeeper/engine/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.GetSqliteDBStandalone("")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.DatabaseModels...))
	return db
}

// seedCampaign populates a campaign exercising every entity kind and returns
// its ID.
func seedCampaign(t *testing.T, db *gorm.DB) uint {
	t.Helper()

	campaign, err := model.CreateCampaign(db, "The Siege of Kharvost")
	require.NoError(t, err)

	appliedAt := time.Date(2026, 8, 20, 18, 30, 0, 0, time.UTC)

	brynn := model.Combatant{
		CampaignID:     campaign.ID,
		Name:           "Brynn",
		Type:           "PC",
		Initiative:     14,
		AC:             17,
		CurrentHP:      24,
		MaxHP:          31,
		SaveStrength:   3,
		SaveDexterity:  1,
		CharacterClass: "Fighter",
		Level:          5,
		Notes:          "Wields the gate key",
	}
	require.NoError(t, db.Create(&brynn).Error)
	require.NoError(t, db.Create(&model.Condition{
		CombatantID: brynn.ID,
		Condition:   "poisoned",
		AppliedAt:   appliedAt,
	}).Error)
	require.NoError(t, db.Create(&model.Condition{
		CombatantID: brynn.ID,
		Condition:   "prone",
		AppliedAt:   appliedAt.Add(time.Minute),
	}).Error)

	goblinBody := model.Combatant{
		CampaignID: campaign.ID,
		Name:       "Goblin 1",
		Type:       "Monster",
		AC:         15,
		CurrentHP:  7,
		MaxHP:      7,
	}
	require.NoError(t, db.Create(&goblinBody).Error)

	goblin := model.MonsterTemplate{
		CampaignID:  campaign.ID,
		Name:        "Goblin",
		AC:          15,
		HPFormula:   "2d6",
		Speed:       "30 ft.",
		StatStr:     8,
		StatDex:     14,
		CR:          "1/4",
		Saves:       datatypes.NewJSONType(map[string]int{"dex": 2}),
		Skills:      datatypes.NewJSONType(map[string]int{"stealth": 6}),
		Resistances: datatypes.NewJSONType([]string{}),
		Immunities:  datatypes.NewJSONType([]string{"poison"}),
		Attacks: datatypes.NewJSONType([]model.Attack{
			{Name: "Scimitar", ToHit: 4, Damage: "1d6+2", DamageType: "slashing"},
		}),
		Abilities: datatypes.NewJSONType([]model.Ability{
			{Name: "Nimble Escape", Description: "Disengage or Hide as a bonus action"},
		}),
	}
	require.NoError(t, db.Create(&goblin).Error)
	require.NoError(t, db.Create(&model.MonsterInstance{
		MonsterID:    goblin.ID,
		CombatantID:  goblinBody.ID,
		InstanceName: "Goblin 1",
	}).Error)

	require.NoError(t, db.Model(&model.SiegeState{}).
		Where("campaign_id = ?", campaign.ID).
		Updates(map[string]any{
			"wall_integrity":  80,
			"defender_morale": 65,
			"supplies":        40,
			"day_of_siege":    12,
		}).Error)
	var siege model.SiegeState
	require.NoError(t, db.Where("campaign_id = ?", campaign.ID).First(&siege).Error)
	require.NoError(t, db.Create(&model.SiegeNote{
		SiegeStateID: siege.ID,
		NoteText:     "Sappers spotted near the north wall",
	}).Error)

	gate := model.Location{
		CampaignID:  campaign.ID,
		Name:        "North Gate",
		Status:      "contested",
		Description: "Main approach to the keep",
		CoordX:      120,
		CoordY:      84,
		CoordWidth:  40,
		CoordHeight: 24,
	}
	require.NoError(t, db.Create(&gate).Error)
	require.NoError(t, db.Create(&model.PlotPoint{
		LocationID: gate.ID,
		Name:       "Sapper tunnel",
		Status:     "active",
		CoordX:     131,
		CoordY:     90,
	}).Error)

	require.NoError(t, db.Create(&model.Preference{
		CampaignID:      campaign.ID,
		PreferenceKey:   "initiative_mode",
		PreferenceValue: datatypes.JSON(`"group"`),
	}).Error)
	require.NoError(t, db.Create(&model.Preference{
		CampaignID:      campaign.ID,
		PreferenceKey:   "grid_size",
		PreferenceValue: datatypes.JSON(`25`),
	}).Error)

	return campaign.ID
}

// normalize strips identifiers that are regenerated on restore and rewrites
// instance references to document positions, so two snapshots of equivalent
// campaigns compare equal.
func normalize(doc *core.Document) {
	combatantPos := make(map[uint]uint, len(doc.Combatants))
	for i := range doc.Combatants {
		combatantPos[doc.Combatants[i].ID] = uint(i)
		doc.Combatants[i].ID = 0
	}
	monsterPos := make(map[uint]uint, len(doc.Monsters))
	for i := range doc.Monsters {
		monsterPos[doc.Monsters[i].ID] = uint(i)
		doc.Monsters[i].ID = 0
	}
	for i := range doc.MonsterInstances {
		doc.MonsterInstances[i].MonsterID = monsterPos[doc.MonsterInstances[i].MonsterID]
		doc.MonsterInstances[i].CombatantID = combatantPos[doc.MonsterInstances[i].CombatantID]
	}
	for i := range doc.Locations {
		doc.Locations[i].ID = 0
	}
	for i := range doc.Combatants {
		for j := range doc.Combatants[i].Conditions {
			doc.Combatants[i].Conditions[j].AppliedAt = time.Time{}
		}
	}
	if doc.SiegeState != nil {
		for i := range doc.SiegeState.Notes {
			doc.SiegeState.Notes[i].CreatedAt = time.Time{}
		}
	}
	doc.Campaign = core.CampaignInfo{}
}

func TestCapture_UnknownCampaign(t *testing.T) {
	db := newTestDB(t)
	reader := NewReader(db, zerolog.Nop())

	_, err := reader.Capture(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCapture_FullDocument(t *testing.T) {
	db := newTestDB(t)
	campaignID := seedCampaign(t, db)
	reader := NewReader(db, zerolog.Nop())

	doc, err := reader.Capture(context.Background(), campaignID)
	require.NoError(t, err)

	assert.Equal(t, campaignID, doc.Campaign.ID)
	assert.Equal(t, "The Siege of Kharvost", doc.Campaign.Name)

	require.Len(t, doc.Combatants, 2)
	assert.Equal(t, "Brynn", doc.Combatants[0].Name)
	assert.Equal(t, core.CombatantPC, doc.Combatants[0].Type)
	require.Len(t, doc.Combatants[0].Conditions, 2)
	assert.Equal(t, "poisoned", doc.Combatants[0].Conditions[0].Condition)
	assert.Equal(t, "prone", doc.Combatants[0].Conditions[1].Condition)

	require.Len(t, doc.Monsters, 1)
	assert.Equal(t, "Goblin", doc.Monsters[0].Name)
	assert.Equal(t, []string{"poison"}, doc.Monsters[0].Immunities)
	require.Len(t, doc.Monsters[0].Attacks, 1)
	assert.Equal(t, 4, doc.Monsters[0].Attacks[0].ToHit)

	require.Len(t, doc.MonsterInstances, 1)
	assert.Equal(t, doc.Monsters[0].ID, doc.MonsterInstances[0].MonsterID)
	assert.Equal(t, doc.Combatants[1].ID, doc.MonsterInstances[0].CombatantID)

	require.NotNil(t, doc.SiegeState)
	assert.Equal(t, 80, doc.SiegeState.WallIntegrity)
	assert.Equal(t, 12, doc.SiegeState.DayOfSiege)
	require.Len(t, doc.SiegeState.Notes, 1)

	require.Len(t, doc.Locations, 1)
	assert.Equal(t, core.LocationContested, doc.Locations[0].Status)
	require.Len(t, doc.Locations[0].PlotPoints, 1)
	assert.Equal(t, core.PlotActive, doc.Locations[0].PlotPoints[0].Status)

	require.Len(t, doc.Preferences, 2)
	assert.Equal(t, "grid_size", doc.Preferences[0].Key)
	assert.Equal(t, float64(25), doc.Preferences[0].Value)
	assert.Equal(t, "initiative_mode", doc.Preferences[1].Key)
	assert.Equal(t, "group", doc.Preferences[1].Value)
}

func TestCapture_EmptyCampaignHasEmptyCollections(t *testing.T) {
	db := newTestDB(t)
	campaign := model.Campaign{Name: "Fresh Start", LastModified: time.Now().UTC()}
	require.NoError(t, db.Create(&campaign).Error)

	reader := NewReader(db, zerolog.Nop())
	doc, err := reader.Capture(context.Background(), campaign.ID)
	require.NoError(t, err)

	assert.NotNil(t, doc.Combatants)
	assert.Empty(t, doc.Combatants)
	assert.NotNil(t, doc.Monsters)
	assert.NotNil(t, doc.MonsterInstances)
	assert.NotNil(t, doc.Locations)
	assert.NotNil(t, doc.Preferences)
	assert.Nil(t, doc.SiegeState, "campaign without a siege row captures as null")
}

func TestCapture_Idempotent(t *testing.T) {
	db := newTestDB(t)
	campaignID := seedCampaign(t, db)
	reader := NewReader(db, zerolog.Nop())

	first, err := reader.Capture(context.Background(), campaignID)
	require.NoError(t, err)
	second, err := reader.Capture(context.Background(), campaignID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRestore_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	campaignID := seedCampaign(t, db)
	reader := NewReader(db, zerolog.Nop())
	writer := NewWriter(db, zerolog.Nop())

	doc, err := reader.Capture(context.Background(), campaignID)
	require.NoError(t, err)

	restored, err := writer.Restore(context.Background(), doc)
	require.NoError(t, err)
	assert.NotEqual(t, campaignID, restored.ID)
	assert.Equal(t, "The Siege of Kharvost", restored.Name)

	recaptured, err := reader.Capture(context.Background(), restored.ID)
	require.NoError(t, err)

	// condition timestamps survive the trip
	require.Len(t, recaptured.Combatants[0].Conditions, 2)
	assert.WithinDuration(t,
		doc.Combatants[0].Conditions[0].AppliedAt,
		recaptured.Combatants[0].Conditions[0].AppliedAt,
		time.Second)

	normalize(doc)
	normalize(recaptured)
	assert.Equal(t, doc, recaptured)
}

func TestRestore_IndependenceFromSource(t *testing.T) {
	db := newTestDB(t)
	campaignID := seedCampaign(t, db)
	reader := NewReader(db, zerolog.Nop())
	writer := NewWriter(db, zerolog.Nop())

	doc, err := reader.Capture(context.Background(), campaignID)
	require.NoError(t, err)
	restored, err := writer.Restore(context.Background(), doc)
	require.NoError(t, err)

	// wound a combatant in the restored campaign
	require.NoError(t, db.Model(&model.Combatant{}).
		Where("campaign_id = ? AND name = ?", restored.ID, "Brynn").
		Update("current_hp", 1).Error)

	var original model.Combatant
	require.NoError(t, db.
		Where("campaign_id = ? AND name = ?", campaignID, "Brynn").
		First(&original).Error)
	assert.Equal(t, 24, original.CurrentHP, "source campaign must be untouched")
}

func TestRestore_NullSiegeStateGetsDefaults(t *testing.T) {
	db := newTestDB(t)
	writer := NewWriter(db, zerolog.Nop())

	doc := &core.Document{
		Campaign: core.CampaignInfo{Name: "Quiet Start"},
	}
	restored, err := writer.Restore(context.Background(), doc)
	require.NoError(t, err)

	var siege model.SiegeState
	require.NoError(t, db.Where("campaign_id = ?", restored.ID).First(&siege).Error)
	assert.Equal(t, 100, siege.WallIntegrity)
	assert.Equal(t, 100, siege.DefenderMorale)
	assert.Equal(t, 100, siege.Supplies)
	assert.Equal(t, 1, siege.DayOfSiege)
}

func TestRestore_RejectsInvalidDocument(t *testing.T) {
	db := newTestDB(t)
	writer := NewWriter(db, zerolog.Nop())

	doc := &core.Document{
		Campaign: core.CampaignInfo{Name: "Broken"},
		Combatants: []core.Combatant{
			{ID: 1, Name: "Ghost", Type: core.CombatantPC, CurrentHP: 10, MaxHP: 5},
		},
	}

	_, err := writer.Restore(context.Background(), doc)
	require.Error(t, err)
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))

	var count int64
	require.NoError(t, db.Model(&model.Campaign{}).Count(&count).Error)
	assert.Zero(t, count, "validation failure must not create a campaign")
}

func TestRestore_NilDocument(t *testing.T) {
	db := newTestDB(t)
	writer := NewWriter(db, zerolog.Nop())

	_, err := writer.Restore(context.Background(), nil)
	require.Error(t, err)
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestRestore_OrphanInstanceRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	writer := NewWriter(db, zerolog.Nop())

	doc := &core.Document{
		Campaign: core.CampaignInfo{Name: "Corrupt Snapshot"},
		Combatants: []core.Combatant{
			{ID: 1, Name: "Brynn", Type: core.CombatantPC, CurrentHP: 10, MaxHP: 10},
		},
		Monsters: []core.Monster{
			{ID: 1, Name: "Goblin", CR: "1/4"},
		},
		MonsterInstances: []core.MonsterInstance{
			// references combatant 99 which is not in the document
			{MonsterID: 1, CombatantID: 99, InstanceName: "Goblin 1"},
		},
	}

	_, err := writer.Restore(context.Background(), doc)
	require.Error(t, err)
	var iErr *IntegrityError
	assert.True(t, errors.As(err, &iErr))
	assert.True(t, errors.Is(err, ErrMissingMapping))

	var campaigns, combatants, monsters int64
	require.NoError(t, db.Model(&model.Campaign{}).Count(&campaigns).Error)
	require.NoError(t, db.Model(&model.Combatant{}).Count(&combatants).Error)
	require.NoError(t, db.Model(&model.MonsterTemplate{}).Count(&monsters).Error)
	assert.Zero(t, campaigns, "no partial campaign may remain")
	assert.Zero(t, combatants)
	assert.Zero(t, monsters)
}

func TestRestore_DuplicateInstanceCombatantRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	writer := NewWriter(db, zerolog.Nop())

	doc := &core.Document{
		Campaign: core.CampaignInfo{Name: "Doubled Up"},
		Combatants: []core.Combatant{
			{ID: 1, Name: "Goblin 1", Type: core.CombatantMonster, CurrentHP: 7, MaxHP: 7},
		},
		Monsters: []core.Monster{
			{ID: 1, Name: "Goblin", CR: "1/4"},
		},
		MonsterInstances: []core.MonsterInstance{
			{MonsterID: 1, CombatantID: 1, InstanceName: "Goblin 1"},
			// a second claim on the same combatant trips the unique index
			{MonsterID: 1, CombatantID: 1, InstanceName: "Goblin 1 again"},
		},
	}
	require.NoError(t, doc.Validate(), "only the database can catch this one")

	_, err := writer.Restore(context.Background(), doc)
	require.Error(t, err)
	var iErr *IntegrityError
	assert.True(t, errors.As(err, &iErr))
	assert.False(t, errors.Is(err, ErrMissingMapping))

	var campaigns, combatants, monsters, instances int64
	require.NoError(t, db.Model(&model.Campaign{}).Count(&campaigns).Error)
	require.NoError(t, db.Model(&model.Combatant{}).Count(&combatants).Error)
	require.NoError(t, db.Model(&model.MonsterTemplate{}).Count(&monsters).Error)
	require.NoError(t, db.Model(&model.MonsterInstance{}).Count(&instances).Error)
	assert.Zero(t, campaigns, "no partial campaign may remain")
	assert.Zero(t, combatants)
	assert.Zero(t, monsters)
	assert.Zero(t, instances)
}

func TestRestore_CancelledContext(t *testing.T) {
	db := newTestDB(t)
	writer := NewWriter(db, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := &core.Document{Campaign: core.CampaignInfo{Name: "Never Happens"}}
	_, err := writer.Restore(ctx, doc)
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Campaign{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRestore_RepeatedImportCreatesSiblings(t *testing.T) {
	db := newTestDB(t)
	campaignID := seedCampaign(t, db)
	reader := NewReader(db, zerolog.Nop())
	writer := NewWriter(db, zerolog.Nop())

	doc, err := reader.Capture(context.Background(), campaignID)
	require.NoError(t, err)

	first, err := writer.Restore(context.Background(), doc)
	require.NoError(t, err)
	second, err := writer.Restore(context.Background(), doc)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&model.Campaign{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}
