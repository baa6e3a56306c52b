package pokeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abelbrown/pokesearch/internal/otel"
	"golang.org/x/time/rate"
)

// DefaultEndpoint is the public PokeAPI GraphQL endpoint.
const DefaultEndpoint = "https://beta.pokeapi.co/graphql/v1beta"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// Client queries species by partial name. Safe for concurrent use.
// It never retries: callers surface failures directly.
type Client struct {
	endpoint  string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
	events    *otel.Logger
}

// NewClient creates a Client for the given GraphQL endpoint.
// If endpoint is empty, DefaultEndpoint is used. If timeout is zero, 30s.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint:  endpoint,
		userAgent: "pokesearch/0.1 (+https://github.com/abelbrown/pokesearch)",
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Every(250*time.Millisecond), 2),
	}
}

// SetRateLimit replaces the client-side request limiter.
// An interval <= 0 disables limiting.
func (c *Client) SetRateLimit(interval time.Duration, burst int) {
	if interval <= 0 {
		c.limiter = rate.NewLimiter(rate.Inf, 1)
		return
	}
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Every(interval), burst)
}

// SetEventLog routes api.* events to l. A nil logger disables them.
func (c *Client) SetEventLog(l *otel.Logger) {
	c.events = l
}

// Endpoint returns the configured GraphQL endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// SearchSpecies returns the species whose name contains name (case-insensitive),
// paged by limit/offset, plus the total match count.
//
// A blank name short-circuits to an empty result without touching the network.
// Fails with *TransportError or *ProtocolError.
func (c *Client) SearchSpecies(ctx context.Context, name string, limit, offset int) (SearchResult, error) {
	if strings.TrimSpace(name) == "" {
		return SearchResult{TotalCount: 0, Species: []Species{}}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return SearchResult{}, &TransportError{Err: fmt.Errorf("rate limiter: %w", err)}
	}

	body, err := json.Marshal(graphqlRequest{
		OperationName: "SearchSpecies",
		Query:         searchSpeciesQuery,
		Variables: searchVariables{
			Name:   namePattern(name),
			Limit:  limit,
			Offset: offset,
		},
	})
	if err != nil {
		return SearchResult{}, fmt.Errorf("marshal request: %w", err)
	}

	c.events.Emit(otel.Event{
		Level: otel.LevelDebug,
		Kind:  otel.KindAPIRequest,
		Comp:  "pokeapi",
		Query: name,
		Extra: map[string]any{"limit": limit, "offset": offset},
	})
	start := time.Now()

	raw, err := c.post(ctx, body)
	if err == nil {
		var res SearchResult
		res, err = decodeSearch(raw)
		if err == nil {
			c.events.Emit(otel.Event{
				Level: otel.LevelDebug,
				Kind:  otel.KindAPIResponse,
				Comp:  "pokeapi",
				Query: name,
				Dur:   time.Since(start),
				Count: len(res.Species),
				Total: res.TotalCount,
			})
			return res, nil
		}
	}

	c.events.Emit(otel.Event{
		Level: otel.LevelWarn,
		Kind:  otel.KindAPIError,
		Comp:  "pokeapi",
		Query: name,
		Dur:   time.Since(start),
		Err:   err.Error(),
	})
	return SearchResult{}, err
}

// post sends one GraphQL request and returns the raw 2xx body.
func (c *Client) post(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &TransportError{Err: fmt.Errorf("request cancelled: %w", ctx.Err())}
		}
		return nil, &TransportError{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", truncateBody(raw, 200)),
		}
	}
	return raw, nil
}

// decodeSearch maps a GraphQL response body into a SearchResult.
func decodeSearch(raw []byte) (SearchResult, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return SearchResult{}, &ProtocolError{Reason: "empty response body"}
	}

	var resp graphqlResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return SearchResult{}, &ProtocolError{Reason: "decode response", Err: err}
	}

	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.Message)
		}
		return SearchResult{}, &ProtocolError{Reason: "graphql errors", Errors: msgs}
	}

	if resp.Data == nil {
		return SearchResult{}, &ProtocolError{Reason: "null data"}
	}
	agg := resp.Data.Aggregate
	if agg == nil || agg.Aggregate == nil || agg.Aggregate.Count == nil {
		return SearchResult{}, &ProtocolError{Reason: "missing aggregate count"}
	}

	species := make([]Species, 0, len(resp.Data.Species))
	for i, node := range resp.Data.Species {
		s, err := convertSpecies(node)
		if err != nil {
			return SearchResult{}, &ProtocolError{Reason: fmt.Sprintf("species[%d]", i), Err: err}
		}
		species = append(species, s)
	}

	return SearchResult{TotalCount: *agg.Aggregate.Count, Species: species}, nil
}

func convertSpecies(node *speciesNode) (Species, error) {
	if node == nil {
		return Species{}, fmt.Errorf("null species")
	}
	if node.ID == nil {
		return Species{}, fmt.Errorf("species %q: missing id", node.Name)
	}

	s := Species{
		ID:       *node.ID,
		Name:     node.Name,
		Pokemons: make([]Pokemon, 0, len(node.Pokemons)),
	}
	if node.CaptureRate != nil {
		s.CaptureRate = *node.CaptureRate
	}
	if node.Color != nil && node.Color.Name != nil {
		color := *node.Color.Name
		s.ColorName = &color
	}

	for j, pn := range node.Pokemons {
		if pn == nil || pn.ID == nil {
			return Species{}, fmt.Errorf("species %q: pokemon[%d] missing id", node.Name, j)
		}
		names := make([]string, 0, len(pn.Abilities))
		for _, a := range pn.Abilities {
			if a == nil || a.Ability == nil || a.Ability.Name == nil {
				continue
			}
			names = append(names, *a.Ability.Name)
		}
		s.Pokemons = append(s.Pokemons, Pokemon{
			ID:        *pn.ID,
			Name:      pn.Name,
			Abilities: flattenAbilities(names),
		})
	}
	return s, nil
}

// truncateBody shortens a response body for error messages.
func truncateBody(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
