package core

import "time"

// SiegeState holds the campaign's siege metrics. Each campaign has exactly one.
// The three percentage metrics are bounded to [0, 100]; the day counter starts
// at 1.
type SiegeState struct {
	WallIntegrity  int                `json:"wall_integrity"`
	DefenderMorale int                `json:"defender_morale"`
	Supplies       int                `json:"supplies"`
	DayOfSiege     int                `json:"day_of_siege"`
	CustomMetrics  map[string]float64 `json:"custom_metrics"`
	Notes          []SiegeNote        `json:"notes"`
}

// SiegeNote is one narrative note attached to the siege state.
type SiegeNote struct {
	NoteText  string    `json:"note_text"`
	CreatedAt time.Time `json:"created_at"`
}
