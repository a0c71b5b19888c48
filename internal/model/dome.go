package model

// PlanetariumDome is a physical venue with a fixed seat grid.  Rows and
// SeatsInRow must both be positive; the total capacity is derived and
// never stored.
//
// Fields:
//
//	ID         – primary key identifier.
//	Name       – unique dome name.
//	Rows       – number of seating rows (stored as rows_count).
//	SeatsInRow – number of seats per row.
type PlanetariumDome struct {
	ID         uint64 `json:"id"`           // planetarium_domes.id
	Name       string `json:"name"`         // planetarium_domes.name
	Rows       int    `json:"rows"`         // planetarium_domes.rows_count
	SeatsInRow int    `json:"seats_in_row"` // planetarium_domes.seats_in_row
}

// Capacity returns the total number of seats in the dome.
func (d PlanetariumDome) Capacity() int {
	return d.Rows * d.SeatsInRow
}
