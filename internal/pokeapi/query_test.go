package pokeapi

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFlattenAbilities(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"dedup and drop blank", []string{"static", "static", "lightning-rod", ""}, []string{"static", "lightning-rod"}},
		{"whitespace only dropped", []string{"  ", "overgrow", "\t"}, []string{"overgrow"}},
		{"order kept", []string{"b", "a", "b", "c", "a"}, []string{"b", "a", "c"}},
		{"empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := flattenAbilities(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("flattenAbilities() mismatch (-want +got):\n%s", diff)
			}
			again := flattenAbilities(got)
			if diff := cmp.Diff(got, again); diff != "" {
				t.Errorf("flattenAbilities() not idempotent (-first +second):\n%s", diff)
			}
		})
	}
}

func TestNamePattern(t *testing.T) {
	tests := map[string]string{
		"pika":     "%pika%",
		"  Pika  ": "%pika%",
		"MR-MIME":  "%mr-mime%",
	}
	for in, want := range tests {
		if got := namePattern(in); got != want {
			t.Errorf("namePattern(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSearchQueryRequestsAggregate(t *testing.T) {
	for _, field := range []string{
		"pokemon_v2_pokemonspecies(",
		"pokemon_v2_pokemonspecies_aggregate(",
		"capture_rate",
		"pokemon_v2_pokemoncolor",
		"pokemon_v2_pokemonabilities",
		"_ilike: $name",
		"limit: $limit",
		"offset: $offset",
	} {
		if !strings.Contains(searchSpeciesQuery, field) {
			t.Errorf("query missing %q", field)
		}
	}
}

func TestErrorStrings(t *testing.T) {
	te := &TransportError{StatusCode: 503, Err: errTest("busy")}
	if got := te.Error(); !strings.Contains(got, "HTTP 503") || !strings.Contains(got, "busy") {
		t.Errorf("TransportError.Error() = %q", got)
	}
	pe := &ProtocolError{Reason: "graphql errors", Errors: []string{"x", "y"}}
	if got := pe.Error(); !strings.Contains(got, "x; y") {
		t.Errorf("ProtocolError.Error() = %q", got)
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
