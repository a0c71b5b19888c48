package model

// AstronomyShow represents an astronomy program offered for viewing.
// Titles are unique and a show may carry any number of themes (a
// many-to-many relation stored in the `astronomy_show_themes` join
// table, order irrelevant).
//
// Fields:
//
//	ID          – primary key identifier.
//	Title       – unique show title.
//	Description – free-form description text.
//	ThemeIDs    – identifiers of the themes attached to the show.
type AstronomyShow struct {
	ID          uint64   `json:"id"`          // astronomy_shows.id
	Title       string   `json:"title"`       // astronomy_shows.title
	Description string   `json:"description"` // astronomy_shows.description
	ThemeIDs    []uint64 `json:"show_theme"`  // astronomy_show_themes.show_theme_id
}
