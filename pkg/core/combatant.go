package core

import "time"

// CombatantType classifies a combatant.
type CombatantType string

const (
	CombatantPC      CombatantType = "PC"
	CombatantNPC     CombatantType = "NPC"
	CombatantMonster CombatantType = "Monster"
)

// Valid reports whether the type is one of the known values.
func (t CombatantType) Valid() bool {
	switch t {
	case CombatantPC, CombatantNPC, CombatantMonster:
		return true
	}
	return false
}

// ConditionVocabulary is the fixed set of status labels a condition may carry.
var ConditionVocabulary = map[string]bool{
	"blinded":       true,
	"charmed":       true,
	"deafened":      true,
	"exhaustion":    true,
	"frightened":    true,
	"grappled":      true,
	"incapacitated": true,
	"invisible":     true,
	"paralyzed":     true,
	"petrified":     true,
	"poisoned":      true,
	"prone":         true,
	"restrained":    true,
	"stunned":       true,
	"unconscious":   true,
}

// Combatant represents one participant in combat: a player character, an NPC,
// or a monster instance's combat body.
type Combatant struct {
	ID               uint          `json:"id"`
	Name             string        `json:"name"`
	Type             CombatantType `json:"type"`
	Initiative       int           `json:"initiative"`
	AC               int           `json:"ac"`
	CurrentHP        int           `json:"current_hp"`
	MaxHP            int           `json:"max_hp"`
	SaveStrength     int           `json:"save_strength"`
	SaveDexterity    int           `json:"save_dexterity"`
	SaveConstitution int           `json:"save_constitution"`
	SaveIntelligence int           `json:"save_intelligence"`
	SaveWisdom       int           `json:"save_wisdom"`
	SaveCharisma     int           `json:"save_charisma"`
	CharacterClass   string        `json:"character_class,omitempty"`
	Level            int           `json:"level,omitempty"`
	Notes            string        `json:"notes,omitempty"`
	Conditions       []Condition   `json:"conditions"`
}

// Condition is one status effect applied to a combatant.
type Condition struct {
	Condition string    `json:"condition"`
	AppliedAt time.Time `json:"applied_at"`
}
