package core

import "fmt"

// Validate checks the document's structure and field-level invariants. It does
// not resolve cross-entity references; those are checked during restore, where
// a missing parent is an integrity failure rather than a malformed document.
func (d *Document) Validate() error {
	if d.Campaign.Name == "" {
		return fmt.Errorf("campaign name is required")
	}

	for i, c := range d.Combatants {
		if c.Name == "" {
			return fmt.Errorf("combatant %d: name is required", i)
		}
		if !c.Type.Valid() {
			return fmt.Errorf("combatant %q: unknown type %q", c.Name, c.Type)
		}
		if c.CurrentHP < 0 {
			return fmt.Errorf("combatant %q: current_hp %d is negative", c.Name, c.CurrentHP)
		}
		if c.MaxHP < 1 {
			return fmt.Errorf("combatant %q: max_hp %d must be at least 1", c.Name, c.MaxHP)
		}
		if c.CurrentHP > c.MaxHP {
			return fmt.Errorf("combatant %q: current_hp %d exceeds max_hp %d", c.Name, c.CurrentHP, c.MaxHP)
		}
		for _, cond := range c.Conditions {
			if !ConditionVocabulary[cond.Condition] {
				return fmt.Errorf("combatant %q: unknown condition %q", c.Name, cond.Condition)
			}
		}
	}

	for i, m := range d.Monsters {
		if m.Name == "" {
			return fmt.Errorf("monster %d: name is required", i)
		}
	}

	for i, inst := range d.MonsterInstances {
		if inst.MonsterID == 0 {
			return fmt.Errorf("monster instance %d: monster_id is required", i)
		}
		if inst.CombatantID == 0 {
			return fmt.Errorf("monster instance %d: combatant_id is required", i)
		}
	}

	if s := d.SiegeState; s != nil {
		for name, v := range map[string]int{
			"wall_integrity":  s.WallIntegrity,
			"defender_morale": s.DefenderMorale,
			"supplies":        s.Supplies,
		} {
			if v < 0 || v > 100 {
				return fmt.Errorf("siege state: %s %d out of range [0, 100]", name, v)
			}
		}
		if s.DayOfSiege < 1 {
			return fmt.Errorf("siege state: day_of_siege %d must be at least 1", s.DayOfSiege)
		}
	}

	for _, l := range d.Locations {
		if l.Name == "" {
			return fmt.Errorf("location %d: name is required", l.ID)
		}
		if !l.Status.Valid() {
			return fmt.Errorf("location %q: unknown status %q", l.Name, l.Status)
		}
		for _, p := range l.PlotPoints {
			if p.Name == "" {
				return fmt.Errorf("location %q: plot point name is required", l.Name)
			}
			if !p.Status.Valid() {
				return fmt.Errorf("plot point %q: unknown status %q", p.Name, p.Status)
			}
		}
	}

	seen := make(map[string]bool, len(d.Preferences))
	for _, p := range d.Preferences {
		if p.Key == "" {
			return fmt.Errorf("preference key is required")
		}
		if seen[p.Key] {
			return fmt.Errorf("duplicate preference key %q", p.Key)
		}
		seen[p.Key] = true
	}

	return nil
}
