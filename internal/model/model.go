package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Campaign{},
	&Combatant{},
	&Condition{},
	&MonsterTemplate{},
	&MonsterInstance{},
	&SiegeState{},
	&SiegeNote{},
	&Location{},
	&PlotPoint{},
	&Preference{},
}

////////////////////////
// CAMPAIGN
////////////////////////

// Campaign is the aggregate root. Every other entity is owned by exactly one
// campaign, directly or through a parent, and is removed with it.
type Campaign struct {
	gorm.Model
	Name         string    `json:"name" gorm:"size:200"`
	LastModified time.Time `json:"lastModified" gorm:"index:idx_campaign_last_modified"`

	Combatants  []Combatant       `json:"-"`
	Monsters    []MonsterTemplate `json:"-"`
	SiegeState  *SiegeState       `json:"-"`
	Locations   []Location        `json:"-"`
	Preferences []Preference      `json:"-"`
}

func (*Campaign) TableName() string {
	return "campaigns"
}

// Get loads the campaign row by primary key.
func (c *Campaign) Get(db *gorm.DB) error {
	return db.First(c, c.ID).Error
}

// Touch updates only the last-modified timestamp. Used by the auto-save
// coordinator; never touches campaign data.
func (c *Campaign) Touch(db *gorm.DB, at time.Time) error {
	return db.Model(c).UpdateColumn("last_modified", at).Error
}

////////////////////////
// COMBATANTS
////////////////////////

// Combatant is a player character, NPC, or monster body participating in
// combat.
type Combatant struct {
	gorm.Model
	CampaignID uint     `json:"campaignId" gorm:"index:idx_combatant_campaign_id"`
	Campaign   Campaign `json:"-" gorm:"foreignkey:CampaignID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	Name       string `json:"name" gorm:"size:127"`
	Type       string `json:"type" gorm:"size:16;check:type IN ('PC','NPC','Monster')"`
	Initiative int    `json:"initiative"`
	AC         int    `json:"ac"`
	CurrentHP  int    `json:"currentHp" gorm:"check:current_hp >= 0"`
	MaxHP      int    `json:"maxHp" gorm:"check:max_hp >= 1"`

	SaveStrength     int `json:"saveStrength"`
	SaveDexterity    int `json:"saveDexterity"`
	SaveConstitution int `json:"saveConstitution"`
	SaveIntelligence int `json:"saveIntelligence"`
	SaveWisdom       int `json:"saveWisdom"`
	SaveCharisma     int `json:"saveCharisma"`

	CharacterClass string `json:"characterClass" gorm:"size:64;default:NULL"`
	Level          int    `json:"level"`
	Notes          string `json:"notes" gorm:"size:2000"`

	Conditions []Condition `json:"conditions"`
}

func (*Combatant) TableName() string {
	return "combatants"
}

// Condition is a status effect on a combatant, drawn from a fixed vocabulary.
// Removed automatically with its combatant.
type Condition struct {
	gorm.Model
	CombatantID uint      `json:"combatantId" gorm:"index:idx_condition_combatant_id"`
	Combatant   Combatant `json:"-" gorm:"foreignkey:CombatantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Condition   string    `json:"condition" gorm:"size:32"`
	AppliedAt   time.Time `json:"appliedAt"`
}

func (*Condition) TableName() string {
	return "conditions"
}

////////////////////////
// MONSTERS
////////////////////////

// Attack is one structured attack entry in a monster stat block, stored as
// part of a JSON column.
type Attack struct {
	Name       string `json:"name"`
	ToHit      int    `json:"to_hit"`
	Damage     string `json:"damage"`
	DamageType string `json:"damage_type,omitempty"`
	Reach      string `json:"reach,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// Ability is one structured special-ability entry in a monster stat block.
type Ability struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Recharge    string `json:"recharge,omitempty"`
}

// MonsterTemplate is a reusable stat-block definition scoped to one campaign.
type MonsterTemplate struct {
	gorm.Model
	CampaignID uint     `json:"campaignId" gorm:"index:idx_monster_campaign_id"`
	Campaign   Campaign `json:"-" gorm:"foreignkey:CampaignID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	Name      string `json:"name" gorm:"size:127"`
	AC        int    `json:"ac"`
	HPFormula string `json:"hpFormula" gorm:"size:64"`
	Speed     string `json:"speed" gorm:"size:64"`

	StatStr int `json:"statStr"`
	StatDex int `json:"statDex"`
	StatCon int `json:"statCon"`
	StatInt int `json:"statInt"`
	StatWis int `json:"statWis"`
	StatCha int `json:"statCha"`

	Saves       datatypes.JSONType[map[string]int] `json:"saves"`
	Skills      datatypes.JSONType[map[string]int] `json:"skills"`
	Resistances datatypes.JSONType[[]string]       `json:"resistances"`
	Immunities  datatypes.JSONType[[]string]       `json:"immunities"`
	Senses      string                             `json:"senses" gorm:"size:255"`
	Languages   string                             `json:"languages" gorm:"size:255"`
	CR          string                             `json:"cr" gorm:"size:16"`
	Attacks     datatypes.JSONType[[]Attack]       `json:"attacks"`
	Abilities   datatypes.JSONType[[]Ability]      `json:"abilities"`
	Lore        string                             `json:"lore" gorm:"size:4000"`

	Instances []MonsterInstance `json:"-" gorm:"foreignkey:MonsterID"`
}

func (*MonsterTemplate) TableName() string {
	return "monster_templates"
}

// MonsterInstance is one combat-ready copy of a template. Its hit-point pool
// lives on the referenced combatant, which must have type Monster.
type MonsterInstance struct {
	gorm.Model
	MonsterID   uint            `json:"monsterId" gorm:"index:idx_instance_monster_id"`
	Monster     MonsterTemplate `json:"-" gorm:"foreignkey:MonsterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CombatantID uint            `json:"combatantId" gorm:"uniqueIndex:idx_instance_combatant_id"`
	Combatant   Combatant       `json:"-" gorm:"foreignkey:CombatantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	InstanceName string `json:"instanceName" gorm:"size:127"`
}

func (*MonsterInstance) TableName() string {
	return "monster_instances"
}

////////////////////////
// SIEGE
////////////////////////

// SiegeState holds the campaign's siege metrics. Exactly one row per campaign.
type SiegeState struct {
	gorm.Model
	CampaignID uint     `json:"campaignId" gorm:"uniqueIndex:idx_siege_campaign_id"`
	Campaign   Campaign `json:"-" gorm:"foreignkey:CampaignID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	WallIntegrity  int `json:"wallIntegrity" gorm:"default:100;check:wall_integrity BETWEEN 0 AND 100"`
	DefenderMorale int `json:"defenderMorale" gorm:"default:100;check:defender_morale BETWEEN 0 AND 100"`
	Supplies       int `json:"supplies" gorm:"default:100;check:supplies BETWEEN 0 AND 100"`
	DayOfSiege     int `json:"dayOfSiege" gorm:"default:1;check:day_of_siege >= 1"`

	CustomMetrics datatypes.JSONMap `json:"customMetrics"`

	Notes []SiegeNote `json:"notes"`
}

func (*SiegeState) TableName() string {
	return "siege_states"
}

// SiegeNote is one narrative note on the siege. Creation time is the row's
// CreatedAt.
type SiegeNote struct {
	gorm.Model
	SiegeStateID uint       `json:"siegeStateId" gorm:"index:idx_note_siege_state_id"`
	SiegeState   SiegeState `json:"-" gorm:"foreignkey:SiegeStateID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	NoteText     string     `json:"noteText" gorm:"size:2000"`
}

func (*SiegeNote) TableName() string {
	return "siege_notes"
}

////////////////////////
// MAP
////////////////////////

// Location is one named region on the campaign map. Coordinates are map-pixel
// values.
type Location struct {
	gorm.Model
	CampaignID uint     `json:"campaignId" gorm:"index:idx_location_campaign_id"`
	Campaign   Campaign `json:"-" gorm:"foreignkey:CampaignID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	Name        string  `json:"name" gorm:"size:127"`
	Status      string  `json:"status" gorm:"size:16;check:status IN ('controlled','contested','enemy','destroyed')"`
	Description string  `json:"description" gorm:"size:2000"`
	CoordX      float64 `json:"coordX"`
	CoordY      float64 `json:"coordY"`
	CoordWidth  float64 `json:"coordWidth"`
	CoordHeight float64 `json:"coordHeight"`

	PlotPoints []PlotPoint `json:"plotPoints"`
}

func (*Location) TableName() string {
	return "locations"
}

// PlotPoint is one story beat nested under a location.
type PlotPoint struct {
	gorm.Model
	LocationID uint     `json:"locationId" gorm:"index:idx_plot_point_location_id"`
	Location   Location `json:"-" gorm:"foreignkey:LocationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	Name        string  `json:"name" gorm:"size:127"`
	Description string  `json:"description" gorm:"size:2000"`
	Status      string  `json:"status" gorm:"size:16;check:status IN ('active','completed','failed')"`
	CoordX      float64 `json:"coordX"`
	CoordY      float64 `json:"coordY"`
}

func (*PlotPoint) TableName() string {
	return "plot_points"
}

////////////////////////
// PREFERENCES
////////////////////////

// Preference is one per-campaign key/value setting. The key is unique within
// a campaign; the value is arbitrary JSON.
type Preference struct {
	gorm.Model
	CampaignID uint     `json:"campaignId" gorm:"uniqueIndex:idx_campaign_preference_key"`
	Campaign   Campaign `json:"-" gorm:"foreignkey:CampaignID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	PreferenceKey   string         `json:"preferenceKey" gorm:"size:127;uniqueIndex:idx_campaign_preference_key"`
	PreferenceValue datatypes.JSON `json:"preferenceValue"`
}

func (*Preference) TableName() string {
	return "preferences"
}
