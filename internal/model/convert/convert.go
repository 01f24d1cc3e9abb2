// Package convert provides functions to convert GORM models to core snapshot
// document types
package convert

import (
	"encoding/json"

	"github.com/siegekeeper/engine/internal/model"
	"github.com/siegekeeper/engine/pkg/core"
)

// CombatantToCore converts a GORM Combatant, including its loaded conditions,
// to a core.Combatant.
func CombatantToCore(c model.Combatant) core.Combatant {
	conditions := make([]core.Condition, 0, len(c.Conditions))
	for _, cond := range c.Conditions {
		conditions = append(conditions, core.Condition{
			Condition: cond.Condition,
			AppliedAt: cond.AppliedAt,
		})
	}

	return core.Combatant{
		ID:               c.ID,
		Name:             c.Name,
		Type:             core.CombatantType(c.Type),
		Initiative:       c.Initiative,
		AC:               c.AC,
		CurrentHP:        c.CurrentHP,
		MaxHP:            c.MaxHP,
		SaveStrength:     c.SaveStrength,
		SaveDexterity:    c.SaveDexterity,
		SaveConstitution: c.SaveConstitution,
		SaveIntelligence: c.SaveIntelligence,
		SaveWisdom:       c.SaveWisdom,
		SaveCharisma:     c.SaveCharisma,
		CharacterClass:   c.CharacterClass,
		Level:            c.Level,
		Notes:            c.Notes,
		Conditions:       conditions,
	}
}

// MonsterToCore converts a GORM MonsterTemplate to a core.Monster.
func MonsterToCore(m model.MonsterTemplate) core.Monster {
	attacks := make([]core.Attack, 0)
	for _, a := range m.Attacks.Data() {
		attacks = append(attacks, core.Attack(a))
	}
	abilities := make([]core.Ability, 0)
	for _, a := range m.Abilities.Data() {
		abilities = append(abilities, core.Ability(a))
	}

	resistances := m.Resistances.Data()
	if resistances == nil {
		resistances = []string{}
	}
	immunities := m.Immunities.Data()
	if immunities == nil {
		immunities = []string{}
	}

	return core.Monster{
		ID:          m.ID,
		Name:        m.Name,
		AC:          m.AC,
		HPFormula:   m.HPFormula,
		Speed:       m.Speed,
		StatStr:     m.StatStr,
		StatDex:     m.StatDex,
		StatCon:     m.StatCon,
		StatInt:     m.StatInt,
		StatWis:     m.StatWis,
		StatCha:     m.StatCha,
		Saves:       m.Saves.Data(),
		Skills:      m.Skills.Data(),
		Resistances: resistances,
		Immunities:  immunities,
		Senses:      m.Senses,
		Languages:   m.Languages,
		CR:          m.CR,
		Attacks:     attacks,
		Abilities:   abilities,
		Lore:        m.Lore,
	}
}

// MonsterInstanceToCore converts a GORM MonsterInstance to its document form.
// Both references stay as source identifiers.
func MonsterInstanceToCore(i model.MonsterInstance) core.MonsterInstance {
	return core.MonsterInstance{
		MonsterID:    i.MonsterID,
		CombatantID:  i.CombatantID,
		InstanceName: i.InstanceName,
	}
}

// SiegeStateToCore converts a GORM SiegeState, including its loaded notes, to
// a core.SiegeState.
func SiegeStateToCore(s model.SiegeState) core.SiegeState {
	notes := make([]core.SiegeNote, 0, len(s.Notes))
	for _, n := range s.Notes {
		notes = append(notes, core.SiegeNote{
			NoteText:  n.NoteText,
			CreatedAt: n.CreatedAt,
		})
	}

	// Custom metrics are numeric by construction; anything else in the
	// JSON column did not come from this engine and is dropped.
	metrics := make(map[string]float64, len(s.CustomMetrics))
	for k, v := range s.CustomMetrics {
		if f, ok := v.(float64); ok {
			metrics[k] = f
		}
	}

	return core.SiegeState{
		WallIntegrity:  s.WallIntegrity,
		DefenderMorale: s.DefenderMorale,
		Supplies:       s.Supplies,
		DayOfSiege:     s.DayOfSiege,
		CustomMetrics:  metrics,
		Notes:          notes,
	}
}

// LocationToCore converts a GORM Location, including its loaded plot points,
// to a core.Location.
func LocationToCore(l model.Location) core.Location {
	points := make([]core.PlotPoint, 0, len(l.PlotPoints))
	for _, p := range l.PlotPoints {
		points = append(points, core.PlotPoint{
			Name:        p.Name,
			Description: p.Description,
			Status:      core.PlotStatus(p.Status),
			CoordX:      p.CoordX,
			CoordY:      p.CoordY,
		})
	}

	return core.Location{
		ID:          l.ID,
		Name:        l.Name,
		Status:      core.LocationStatus(l.Status),
		Description: l.Description,
		CoordX:      l.CoordX,
		CoordY:      l.CoordY,
		CoordWidth:  l.CoordWidth,
		CoordHeight: l.CoordHeight,
		PlotPoints:  points,
	}
}

// PreferenceToCore converts a GORM Preference to its document form. The
// stored JSON value becomes an untyped document value.
func PreferenceToCore(p model.Preference) core.Preference {
	// The stored value is always valid JSON, CoreToPreference is the only
	// writer. An unparseable value maps to null rather than failing capture.
	var value any
	if len(p.PreferenceValue) > 0 {
		_ = json.Unmarshal(p.PreferenceValue, &value)
	}
	return core.Preference{
		Key:   p.PreferenceKey,
		Value: value,
	}
}
