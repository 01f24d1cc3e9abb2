package core

// Monster is a reusable stat-block template. Instances reference it by ID.
type Monster struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	AC          int            `json:"ac"`
	HPFormula   string         `json:"hp_formula"`
	Speed       string         `json:"speed"`
	StatStr     int            `json:"stat_str"`
	StatDex     int            `json:"stat_dex"`
	StatCon     int            `json:"stat_con"`
	StatInt     int            `json:"stat_int"`
	StatWis     int            `json:"stat_wis"`
	StatCha     int            `json:"stat_cha"`
	Saves       map[string]int `json:"saves,omitempty"`
	Skills      map[string]int `json:"skills,omitempty"`
	Resistances []string       `json:"resistances"`
	Immunities  []string       `json:"immunities"`
	Senses      string         `json:"senses,omitempty"`
	Languages   string         `json:"languages,omitempty"`
	CR          string         `json:"cr"`
	Attacks     []Attack       `json:"attacks"`
	Abilities   []Ability      `json:"abilities"`
	Lore        string         `json:"lore,omitempty"`
}

// Attack is one structured attack entry in a stat block.
type Attack struct {
	Name       string `json:"name"`
	ToHit      int    `json:"to_hit"`
	Damage     string `json:"damage"`
	DamageType string `json:"damage_type,omitempty"`
	Reach      string `json:"reach,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// Ability is one structured special-ability entry in a stat block.
type Ability struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Recharge    string `json:"recharge,omitempty"`
}

// MonsterInstance binds one combat-ready copy of a template to the combatant
// that carries its hit-point pool. Both references are document-internal IDs.
type MonsterInstance struct {
	MonsterID    uint   `json:"monster_id"`
	CombatantID  uint   `json:"combatant_id"`
	InstanceName string `json:"instance_name"`
}
