package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSummarize(t *testing.T) {
	st := summarize(strings.NewReader(sampleLog), "")

	if st.Events != 5 || st.Sessions != 2 {
		t.Errorf("events=%d sessions=%d, want 5 and 2", st.Events, st.Sessions)
	}
	wantKinds := map[string]int{
		"search.debounce": 1,
		"search.start":    1,
		"api.response":    1,
		"search.complete": 1,
		"search.error":    1,
	}
	if diff := cmp.Diff(wantKinds, st.ByKind); diff != "" {
		t.Errorf("ByKind mismatch (-want +got):\n%s", diff)
	}
	if st.Search != (latency{N: 1, P50: 150, P95: 150, Max: 150}) {
		t.Errorf("search latency = %+v", st.Search)
	}
	if st.API.N != 1 || st.API.Max != 120 {
		t.Errorf("api latency = %+v", st.API)
	}
	if st.Queries["pika"] != 1 {
		t.Errorf("queries = %v, want pika:1", st.Queries)
	}
	if !st.First.Before(st.Last) {
		t.Errorf("span %v .. %v is not ordered", st.First, st.Last)
	}
}

func TestSummarizeSession(t *testing.T) {
	st := summarize(strings.NewReader(sampleLog), "s2")
	if st.Events != 1 || st.ByKind["search.error"] != 1 {
		t.Errorf("session filter: events=%d kinds=%v", st.Events, st.ByKind)
	}
}

func TestNewLatency(t *testing.T) {
	if got := newLatency(nil); got != (latency{}) {
		t.Errorf("empty latency = %+v", got)
	}
	ms := []float64{50, 10, 40, 30, 20, 60, 70, 80, 90, 100}
	got := newLatency(ms)
	if got.N != 10 || got.P50 != 50 || got.P95 != 90 || got.Max != 100 {
		t.Errorf("latency = %+v", got)
	}
	if ms[0] != 50 {
		t.Error("newLatency must not reorder its input")
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, summarize(strings.NewReader(sampleLog), ""), 5)
	out := buf.String()
	for _, want := range []string{"Events:                5", "Sessions:              2", "search latency", "p50=150ms", "Top queries (1)", "pika"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	printStats(&buf, summarize(strings.NewReader(""), ""), 5)
	if strings.Contains(buf.String(), "Search:") {
		t.Errorf("empty log should print only totals:\n%s", buf.String())
	}
}
