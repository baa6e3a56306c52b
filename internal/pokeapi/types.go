// Package pokeapi queries the public PokeAPI GraphQL endpoint for Pokémon species.
//
// The package owns only the wire-format translation: a partial name, page size
// and offset go in; a total match count and one page of species (with nested
// Pokémon and their abilities) come out.
package pokeapi

// Species is a Pokémon species record: one name, one capture rate, one color
// classification, many member Pokémon forms.
type Species struct {
	ID          int
	Name        string
	CaptureRate int
	ColorName   *string // nil when the species has no color classification
	Pokemons    []Pokemon
}

// Color returns the color name or "" when the species has none.
func (s Species) Color() string {
	if s.ColorName == nil {
		return ""
	}
	return *s.ColorName
}

// Pokemon is one catchable form belonging to a species.
// Abilities are de-duplicated and keep server order. May be empty.
type Pokemon struct {
	ID        int
	Name      string
	Abilities []string
}

// SearchResult is one page of species plus the total match count across all pages.
type SearchResult struct {
	TotalCount int
	Species    []Species
}
