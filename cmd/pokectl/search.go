package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abelbrown/pokesearch/internal/pokeapi"
	"golang.org/x/sync/errgroup"
)

// queryResult is one page fetched for one query.
type queryResult struct {
	Query    string               `json:"query"`
	Page     int                  `json:"page"` // one-based
	PageSize int                  `json:"page_size"`
	Took     time.Duration        `json:"-"`
	TookMs   int64                `json:"took_ms"`
	Result   pokeapi.SearchResult `json:"result"`
	Err      string               `json:"error,omitempty"`
	ErrKind  string               `json:"error_kind,omitempty"` // transport, protocol
}

// errorKind names the failure class of a client error.
func errorKind(err error) string {
	switch {
	case pokeapi.IsTransport(err):
		return "transport"
	case pokeapi.IsProtocol(err):
		return "protocol"
	case err != nil:
		return "other"
	}
	return ""
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	page := fs.Int("page", 1, "First page to fetch (one-based)")
	pages := fs.Int("pages", 1, "Number of consecutive pages to fetch per query")
	limit := fs.Int("limit", 0, "Page size (default: config page_size)")
	parallel := fs.Int("parallel", 4, "Maximum requests in flight")
	asJSON := fs.Bool("json", false, "Output JSON instead of text")
	fs.Parse(os.Args[1:])

	queries := fs.Args()
	if len(queries) == 0 {
		fmt.Fprintln(os.Stderr, "usage: pokectl search [--page N] [--pages K] [--limit N] [--json] <name> [name...]")
		os.Exit(1)
	}
	if *page < 1 || *pages < 1 {
		fatal("--page and --pages must be at least 1")
	}

	cfg := loadConfig()
	pageSize := cfg.Search.PageSize
	if *limit > 0 {
		pageSize = *limit
	}

	client := pokeapi.NewClient(cfg.API.Endpoint, cfg.Timeout())
	client.SetRateLimit(cfg.RateLimit(), cfg.API.RateLimitBurst)

	results := fetchAll(context.Background(), client, queries, *page, *pages, pageSize, *parallel)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			fatal("encode: %v", err)
		}
	} else {
		for _, r := range results {
			printResult(os.Stdout, r)
		}
	}

	for _, r := range results {
		if r.Err != "" {
			os.Exit(1)
		}
	}
}

// searcher is the client surface fetchAll needs.
type searcher interface {
	SearchSpecies(ctx context.Context, name string, limit, offset int) (pokeapi.SearchResult, error)
}

// fetchAll fetches pages [first, first+count) for every query with at most
// parallel requests in flight. Results keep query-then-page order. A failing
// page is recorded in its result and does not cancel the others.
func fetchAll(ctx context.Context, client searcher, queries []string, first, count, pageSize, parallel int) []queryResult {
	results := make([]queryResult, len(queries)*count)

	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for qi, q := range queries {
		for pi := 0; pi < count; pi++ {
			idx := qi*count + pi
			pageNum := first + pi
			g.Go(func() error {
				start := time.Now()
				res, err := client.SearchSpecies(ctx, q, pageSize, (pageNum-1)*pageSize)
				r := queryResult{
					Query:    q,
					Page:     pageNum,
					PageSize: pageSize,
					Took:     time.Since(start),
					Result:   res,
				}
				r.TookMs = r.Took.Milliseconds()
				if err != nil {
					r.Err = err.Error()
					r.ErrKind = errorKind(err)
				}
				results[idx] = r
				return nil
			})
		}
	}
	// Workers record failures in results and always return nil.
	g.Wait()
	return results
}

// printResult renders one page as indented text.
func printResult(w io.Writer, r queryResult) {
	fmt.Fprintf(w, "\n>>> QUERY: %q page %d", r.Query, r.Page)
	if r.Err != "" {
		kind := ""
		if r.ErrKind != "" {
			kind = " (" + r.ErrKind + ")"
		}
		fmt.Fprintf(w, " [%v]\n  ERROR%s: %s\n", r.Took.Round(time.Millisecond), kind, r.Err)
		return
	}
	totalPages := 1
	if r.Result.TotalCount > 0 && r.PageSize > 0 {
		totalPages = (r.Result.TotalCount + r.PageSize - 1) / r.PageSize
	}
	fmt.Fprintf(w, " of %d, %d total [%v]\n", totalPages, r.Result.TotalCount, r.Took.Round(time.Millisecond))
	fmt.Fprintln(w, strings.Repeat("-", 72))

	if len(r.Result.Species) == 0 {
		fmt.Fprintln(w, "  (no species)")
		return
	}
	for _, sp := range r.Result.Species {
		color := sp.Color()
		if color == "" {
			color = "-"
		}
		fmt.Fprintf(w, "  #%-5d %-24s capture=%-3d color=%s\n", sp.ID, truncate(sp.Name, 24), sp.CaptureRate, color)
		for _, p := range sp.Pokemons {
			abilities := "(none)"
			if len(p.Abilities) > 0 {
				abilities = strings.Join(p.Abilities, ", ")
			}
			fmt.Fprintf(w, "         %-24s %s\n", truncate(p.Name, 24), truncate(abilities, 40))
		}
	}
}
