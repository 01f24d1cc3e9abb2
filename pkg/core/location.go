package core

// LocationStatus tracks who holds a map location.
type LocationStatus string

const (
	LocationControlled LocationStatus = "controlled"
	LocationContested  LocationStatus = "contested"
	LocationEnemy      LocationStatus = "enemy"
	LocationDestroyed  LocationStatus = "destroyed"
)

// Valid reports whether the status is one of the known values.
func (s LocationStatus) Valid() bool {
	switch s {
	case LocationControlled, LocationContested, LocationEnemy, LocationDestroyed:
		return true
	}
	return false
}

// PlotStatus tracks the progress of a plot point.
type PlotStatus string

const (
	PlotActive    PlotStatus = "active"
	PlotCompleted PlotStatus = "completed"
	PlotFailed    PlotStatus = "failed"
)

// Valid reports whether the status is one of the known values.
func (s PlotStatus) Valid() bool {
	switch s {
	case PlotActive, PlotCompleted, PlotFailed:
		return true
	}
	return false
}

// Location is one named region on the campaign map. Coordinates are map-pixel
// values, not geospatial.
type Location struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Status      LocationStatus `json:"status"`
	Description string         `json:"description,omitempty"`
	CoordX      float64        `json:"coord_x,omitempty"`
	CoordY      float64        `json:"coord_y,omitempty"`
	CoordWidth  float64        `json:"coord_width,omitempty"`
	CoordHeight float64        `json:"coord_height,omitempty"`
	PlotPoints  []PlotPoint    `json:"plot_points"`
}

// PlotPoint is one story beat nested under a location.
type PlotPoint struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      PlotStatus `json:"status"`
	CoordX      float64    `json:"coord_x,omitempty"`
	CoordY      float64    `json:"coord_y,omitempty"`
}
