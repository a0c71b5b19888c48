package repository_test

import (
	"errors"

	"github.com/astroview/planetarium-reservation/internal/model"
)

func showFixture() *model.AstronomyShow {
	return &model.AstronomyShow{
		Title:       "Mars Tonight",
		Description: "The red planet up close",
		ThemeIDs:    []uint64{1, 2},
	}
}

// errDuplicate mimics the error text the MySQL driver produces for a
// unique-key violation.
func errDuplicate() error {
	return errors.New("Error 1062 (23000): Duplicate entry 'Mars Tonight' for key 'title'")
}
