package model

// ShowTheme is a categorical tag attachable to multiple astronomy shows.
// Theme names are unique.  This struct corresponds to a row in the
// `show_themes` table.
//
// Fields:
//
//	ID   – primary key identifier.
//	Name – unique theme name.
type ShowTheme struct {
	ID   uint64 `json:"id"`   // show_themes.id
	Name string `json:"name"` // show_themes.name
}
