package convert

import (
	"encoding/json"

	"github.com/siegekeeper/engine/internal/model"
	"github.com/siegekeeper/engine/pkg/core"
	"gorm.io/datatypes"
)

// CoreToCombatant converts a document combatant to a GORM Combatant bound to
// campaignID. Conditions are not converted here; the restore writer inserts
// them after the combatant row exists.
func CoreToCombatant(c core.Combatant, campaignID uint) model.Combatant {
	return model.Combatant{
		CampaignID:       campaignID,
		Name:             c.Name,
		Type:             string(c.Type),
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
	}
}

// CoreToMonster converts a document monster to a GORM MonsterTemplate bound
// to campaignID.
func CoreToMonster(m core.Monster, campaignID uint) model.MonsterTemplate {
	attacks := make([]model.Attack, 0, len(m.Attacks))
	for _, a := range m.Attacks {
		attacks = append(attacks, model.Attack(a))
	}
	abilities := make([]model.Ability, 0, len(m.Abilities))
	for _, a := range m.Abilities {
		abilities = append(abilities, model.Ability(a))
	}

	return model.MonsterTemplate{
		CampaignID:  campaignID,
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
		Saves:       datatypes.NewJSONType(m.Saves),
		Skills:      datatypes.NewJSONType(m.Skills),
		Resistances: datatypes.NewJSONType(m.Resistances),
		Immunities:  datatypes.NewJSONType(m.Immunities),
		Senses:      m.Senses,
		Languages:   m.Languages,
		CR:          m.CR,
		Attacks:     datatypes.NewJSONType(attacks),
		Abilities:   datatypes.NewJSONType(abilities),
		Lore:        m.Lore,
	}
}

// CoreToSiegeState converts a document siege state to a GORM SiegeState bound
// to campaignID. Notes are inserted separately once the row exists.
func CoreToSiegeState(s core.SiegeState, campaignID uint) model.SiegeState {
	metrics := make(datatypes.JSONMap, len(s.CustomMetrics))
	for k, v := range s.CustomMetrics {
		metrics[k] = v
	}

	return model.SiegeState{
		CampaignID:     campaignID,
		WallIntegrity:  s.WallIntegrity,
		DefenderMorale: s.DefenderMorale,
		Supplies:       s.Supplies,
		DayOfSiege:     s.DayOfSiege,
		CustomMetrics:  metrics,
	}
}

// CoreToLocation converts a document location to a GORM Location bound to
// campaignID. Plot points are inserted separately once the row exists.
func CoreToLocation(l core.Location, campaignID uint) model.Location {
	return model.Location{
		CampaignID:  campaignID,
		Name:        l.Name,
		Status:      string(l.Status),
		Description: l.Description,
		CoordX:      l.CoordX,
		CoordY:      l.CoordY,
		CoordWidth:  l.CoordWidth,
		CoordHeight: l.CoordHeight,
	}
}

// CoreToPlotPoint converts a document plot point to a GORM PlotPoint bound to
// locationID.
func CoreToPlotPoint(p core.PlotPoint, locationID uint) model.PlotPoint {
	return model.PlotPoint{
		LocationID:  locationID,
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		CoordX:      p.CoordX,
		CoordY:      p.CoordY,
	}
}

// CoreToPreference converts a document preference to a GORM Preference bound
// to campaignID. The untyped value is stored as JSON.
func CoreToPreference(p core.Preference, campaignID uint) (model.Preference, error) {
	value, err := json.Marshal(p.Value)
	if err != nil {
		return model.Preference{}, err
	}
	return model.Preference{
		CampaignID:      campaignID,
		PreferenceKey:   p.Key,
		PreferenceValue: datatypes.JSON(value),
	}, nil
}
