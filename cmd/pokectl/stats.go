package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"time"

	"github.com/abelbrown/pokesearch/internal/config"
)

// latency summarizes a set of durations in milliseconds.
type latency struct {
	N   int
	P50 float64
	P95 float64
	Max float64
}

func newLatency(ms []float64) latency {
	if len(ms) == 0 {
		return latency{}
	}
	sorted := slices.Clone(ms)
	slices.Sort(sorted)
	at := func(q float64) float64 {
		i := int(q * float64(len(sorted)-1))
		return sorted[i]
	}
	return latency{N: len(sorted), P50: at(0.50), P95: at(0.95), Max: sorted[len(sorted)-1]}
}

// eventStats is the aggregate view of an event log.
type eventStats struct {
	Events   int
	Sessions int
	First    time.Time
	Last     time.Time
	ByKind   map[string]int
	Search   latency        // search.complete
	API      latency        // api.response
	Queries  map[string]int // search.start count per query text
}

// summarize reads a JSONL event log. session, if set, restricts the
// summary to one session ID.
func summarize(r io.Reader, session string) eventStats {
	st := eventStats{ByKind: map[string]int{}, Queries: map[string]int{}}
	sessions := map[string]struct{}{}
	var searchMs, apiMs []float64

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)
	for scanner.Scan() {
		var ev eventRecord
		if json.Unmarshal(scanner.Bytes(), &ev) != nil {
			continue
		}
		if session != "" && ev.SessionID != session {
			continue
		}
		st.Events++
		st.ByKind[ev.Kind]++
		sessions[ev.SessionID] = struct{}{}
		if st.First.IsZero() || ev.Time.Before(st.First) {
			st.First = ev.Time
		}
		if ev.Time.After(st.Last) {
			st.Last = ev.Time
		}

		switch ev.Kind {
		case "search.complete":
			searchMs = append(searchMs, ev.DurMs)
		case "api.response":
			apiMs = append(apiMs, ev.DurMs)
		case "search.start":
			if ev.Query != "" {
				st.Queries[ev.Query]++
			}
		}
	}

	st.Sessions = len(sessions)
	st.Search = newLatency(searchMs)
	st.API = newLatency(apiMs)
	return st
}

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	session := fs.String("session", "", "Restrict to one session ID")
	top := fs.Int("top", 10, "Number of most frequent queries to list")
	fs.Parse(os.Args[1:])

	f, err := os.Open(config.EventsPath())
	if err != nil {
		fatal("%v (run pokesearch first to generate events)", err)
	}
	defer f.Close()

	printStats(os.Stdout, summarize(f, *session), *top)
}

func printStats(w io.Writer, st eventStats, top int) {
	fmt.Fprintf(w, "Events:                %d\n", st.Events)
	fmt.Fprintf(w, "Sessions:              %d\n", st.Sessions)
	if st.Events == 0 {
		return
	}
	fmt.Fprintf(w, "Span:                  %s .. %s\n",
		st.First.Format(time.RFC3339), st.Last.Format(time.RFC3339))

	fmt.Fprintln(w, "\nSearch:")
	fmt.Fprintf(w, "  debounced            %d\n", st.ByKind["search.debounce"])
	fmt.Fprintf(w, "  started              %d\n", st.ByKind["search.start"])
	fmt.Fprintf(w, "  completed            %d\n", st.ByKind["search.complete"])
	fmt.Fprintf(w, "  failed               %d\n", st.ByKind["search.error"])
	fmt.Fprintf(w, "  cancelled            %d\n", st.ByKind["search.cancel"])
	fmt.Fprintf(w, "  stale                %d\n", st.ByKind["search.stale"])
	printLatency(w, "search latency", st.Search)

	fmt.Fprintln(w, "\nAPI:")
	fmt.Fprintf(w, "  requests             %d\n", st.ByKind["api.request"])
	fmt.Fprintf(w, "  errors               %d\n", st.ByKind["api.error"])
	printLatency(w, "api latency", st.API)

	if len(st.Queries) == 0 || top <= 0 {
		return
	}
	type qc struct {
		q string
		n int
	}
	var qs []qc
	for q, n := range st.Queries {
		qs = append(qs, qc{q, n})
	}
	sort.Slice(qs, func(i, j int) bool {
		if qs[i].n != qs[j].n {
			return qs[i].n > qs[j].n
		}
		return qs[i].q < qs[j].q
	})
	if len(qs) > top {
		qs = qs[:top]
	}
	fmt.Fprintf(w, "\nTop queries (%d):\n", len(qs))
	for _, q := range qs {
		fmt.Fprintf(w, "  %-30s %d\n", truncate(q.q, 30), q.n)
	}
}

func printLatency(w io.Writer, label string, l latency) {
	if l.N == 0 {
		fmt.Fprintf(w, "  %-20s (no samples)\n", label)
		return
	}
	fmt.Fprintf(w, "  %-20s p50=%.0fms p95=%.0fms max=%.0fms (n=%d)\n", label, l.P50, l.P95, l.Max, l.N)
}
