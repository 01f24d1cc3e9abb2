// Package core contains the portable snapshot document format for campaign
// state. A Document is self-contained: every reference inside it resolves to
// an entity also inside it, and its identifiers are meaningful only within
// the document itself.
package core

// Document is the root JSON structure of a campaign snapshot.
type Document struct {
	Campaign         CampaignInfo      `json:"campaign"`
	Combatants       []Combatant       `json:"combatants"`
	Monsters         []Monster         `json:"monsters"`
	MonsterInstances []MonsterInstance `json:"monsterInstances"`
	SiegeState       *SiegeState       `json:"siegeState"`
	Locations        []Location        `json:"locations"`
	Preferences      []Preference      `json:"preferences"`
}

// CampaignInfo identifies the snapshotted campaign.
type CampaignInfo struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Preference is one per-campaign key/value setting. Keys are unique within a
// campaign; values are arbitrary JSON.
type Preference struct {
	Key   string `json:"preference_key"`
	Value any    `json:"preference_value"`
}
