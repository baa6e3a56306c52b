package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/abelbrown/pokesearch/internal/firstlaunch"
	"github.com/abelbrown/pokesearch/internal/store"
)

const pikachuPage = `{
  "data": {
    "pokemon_v2_pokemonspecies": [
      {
        "id": 25,
        "name": "pikachu",
        "capture_rate": 190,
        "pokemon_v2_pokemoncolor": {"name": "yellow"},
        "pokemon_v2_pokemons": [
          {
            "id": 25,
            "name": "pikachu",
            "pokemon_v2_pokemonabilities": [
              {"pokemon_v2_ability": {"name": "static"}},
              {"pokemon_v2_ability": {"name": "lightning-rod"}}
            ]
          }
        ]
      }
    ],
    "pokemon_v2_pokemonspecies_aggregate": {"aggregate": {"count": 1}}
  }
}`

// fixtureServer is a canned GraphQL endpoint that records the name
// pattern of every request.
type fixtureServer struct {
	*httptest.Server

	mu    sync.Mutex
	names []string
}

func newFixtureServer(t *testing.T) *fixtureServer {
	t.Helper()
	fs := &fixtureServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables struct {
				Name string `json:"name"`
			} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fs.mu.Lock()
		fs.names = append(fs.names, req.Variables.Name)
		fs.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(pikachuPage))
	}))
	t.Cleanup(fs.Close)
	return fs
}

// Names returns the name patterns received so far.
func (fs *fixtureServer) Names() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string(nil), fs.names...)
}

// readFirstLaunch opens the preference DB a finished run left behind.
func readFirstLaunch(homeDir string) (bool, error) {
	st, err := store.Open(filepath.Join(homeDir, ".pokesearch", "prefs.db"))
	if err != nil {
		return false, err
	}
	defer st.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return firstlaunch.New(st, "").IsFirstLaunch(ctx)
}
