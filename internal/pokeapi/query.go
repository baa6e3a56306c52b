package pokeapi

import "strings"

// searchSpeciesQuery fetches a page of species and the unpaged match count
// for the same filter in a single round trip.
const searchSpeciesQuery = `query SearchSpecies($name: String!, $limit: Int!, $offset: Int!) {
  pokemon_v2_pokemonspecies(
    where: {name: {_ilike: $name}}
    order_by: {id: asc}
    limit: $limit
    offset: $offset
  ) {
    id
    name
    capture_rate
    pokemon_v2_pokemoncolor {
      name
    }
    pokemon_v2_pokemons(order_by: {id: asc}) {
      id
      name
      pokemon_v2_pokemonabilities {
        pokemon_v2_ability {
          name
        }
      }
    }
  }
  pokemon_v2_pokemonspecies_aggregate(where: {name: {_ilike: $name}}) {
    aggregate {
      count
    }
  }
}`

// graphqlRequest is the POST body sent to the GraphQL endpoint.
type graphqlRequest struct {
	OperationName string          `json:"operationName"`
	Query         string          `json:"query"`
	Variables     searchVariables `json:"variables"`
}

type searchVariables struct {
	Name   string `json:"name"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// graphqlResponse mirrors the endpoint's response. Pointers distinguish
// JSON null/missing from zero values.
type graphqlResponse struct {
	Data   *searchData    `json:"data"`
	Errors []graphqlError `json:"errors"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type searchData struct {
	Species   []*speciesNode `json:"pokemon_v2_pokemonspecies"`
	Aggregate *aggregateNode `json:"pokemon_v2_pokemonspecies_aggregate"`
}

type aggregateNode struct {
	Aggregate *struct {
		Count *int `json:"count"`
	} `json:"aggregate"`
}

type speciesNode struct {
	ID          *int           `json:"id"`
	Name        string         `json:"name"`
	CaptureRate *int           `json:"capture_rate"`
	Color       *namedNode     `json:"pokemon_v2_pokemoncolor"`
	Pokemons    []*pokemonNode `json:"pokemon_v2_pokemons"`
}

type pokemonNode struct {
	ID        *int           `json:"id"`
	Name      string         `json:"name"`
	Abilities []*abilityNode `json:"pokemon_v2_pokemonabilities"`
}

type abilityNode struct {
	Ability *namedNode `json:"pokemon_v2_ability"`
}

type namedNode struct {
	Name *string `json:"name"`
}

// namePattern normalizes user input into a case-insensitive substring match.
func namePattern(name string) string {
	return "%" + strings.ToLower(strings.TrimSpace(name)) + "%"
}

// flattenAbilities turns ability names into an ordered set: blanks dropped,
// first occurrence kept.
func flattenAbilities(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
