package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePosition(t *testing.T) {
	// In-range values pass, including both edges.
	assert.NoError(t, ValidatePosition("row", 1, 10))
	assert.NoError(t, ValidatePosition("row", 10, 10))
	assert.NoError(t, ValidatePosition("seat", 5, 10))

	// Out-of-range values fail on either side.
	assert.Error(t, ValidatePosition("row", 0, 10))
	assert.Error(t, ValidatePosition("row", 11, 10))
	assert.Error(t, ValidatePosition("seat", -3, 10))
}

func TestValidatePositionErrorNamesField(t *testing.T) {
	err := ValidatePosition("row", 15, 10)
	require.Error(t, err)
	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "row", verr.Field)
	assert.Equal(t, 15, verr.Value)
	assert.Equal(t, 10, verr.Limit)
	assert.Equal(t, "row number must be in available range: (1, rows): (1, 10), got 15", err.Error())

	err = ValidatePosition("seat", 0, 8)
	require.Error(t, err)
	assert.Equal(t, "seat number must be in available range: (1, seats): (1, 8), got 0", err.Error())
}

func TestTicketValidate(t *testing.T) {
	dome := PlanetariumDome{Rows: 5, SeatsInRow: 8}

	assert.NoError(t, Ticket{Row: 1, Seat: 1}.Validate(dome))
	assert.NoError(t, Ticket{Row: 5, Seat: 8}.Validate(dome))

	// Row is checked before seat, so a ticket invalid on both axes
	// reports the row.
	err := Ticket{Row: 6, Seat: 9}.Validate(dome)
	require.Error(t, err)
	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "row", verr.Field)

	err = Ticket{Row: 3, Seat: 9}.Validate(dome)
	require.Error(t, err)
	verr, ok = err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "seat", verr.Field)
}

func TestDomeCapacity(t *testing.T) {
	assert.Equal(t, 40, PlanetariumDome{Rows: 5, SeatsInRow: 8}.Capacity())
	assert.Equal(t, 1, PlanetariumDome{Rows: 1, SeatsInRow: 1}.Capacity())
}
