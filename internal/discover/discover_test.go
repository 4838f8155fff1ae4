// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/topic-tree/internal/scholar"
	"github.com/pdiddy/topic-tree/pkg/types"
)

// --- fake graph API ---

type fakeAPI struct {
	searchResults []types.Paper
	searchErr     error
	citations     map[string][]types.Paper
	citationErrs  map[string]error

	searchCalls   []scholar.SearchParams
	citationCalls []string
}

func (f *fakeAPI) Search(_ context.Context, p scholar.SearchParams) ([]types.Paper, error) {
	f.searchCalls = append(f.searchCalls, p)
	return f.searchResults, f.searchErr
}

func (f *fakeAPI) Citations(_ context.Context, id string, _ int) ([]types.Paper, error) {
	f.citationCalls = append(f.citationCalls, id)
	if err := f.citationErrs[id]; err != nil {
		return nil, err
	}
	return f.citations[id], nil
}

func paper(id string, year, cites int) types.Paper {
	return types.Paper{ID: id, Title: "Paper " + id, Year: year, CitationCount: cites}
}

func assertNonIncreasing(t *testing.T, papers []types.Paper) {
	t.Helper()
	for i := 1; i < len(papers); i++ {
		assert.LessOrEqual(t, papers[i].CitationCount, papers[i-1].CitationCount,
			"citation counts increase at index %d", i)
	}
}

func testBuilder(api *fakeAPI) *Builder {
	return &Builder{
		Seeds:     &SeedFinder{API: api},
		Citations: &CitationExpander{API: api},
		Logger:    slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		now:       func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) },
		newID:     func() string { return "report-1" },
	}
}

// --- ranking ---

func TestTopByCitations(t *testing.T) {
	in := []types.Paper{paper("a", 0, 5), paper("b", 0, 50), paper("c", 0, 5), paper("d", 0, 10)}

	got := TopByCitations(in, 3)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"b", "d", "a"}, ids(got))
	assertNonIncreasing(t, got)
	assert.Equal(t, "a", in[0].ID, "input must not be reordered")
}

func TestTopByCitationsStableTies(t *testing.T) {
	in := []types.Paper{paper("x", 0, 7), paper("y", 0, 7), paper("z", 0, 7)}
	assert.Equal(t, []string{"x", "y", "z"}, ids(TopByCitations(in, 10)))
}

func TestTopByCitationsBounds(t *testing.T) {
	in := []types.Paper{paper("a", 0, 1), paper("b", 0, 2)}
	assert.Len(t, TopByCitations(in, 0), 0)
	assert.Len(t, TopByCitations(in, -1), 2)
	assert.Len(t, TopByCitations(nil, 5), 0)
}

// --- seed finder ---

func TestFindSeedsSortsAndTruncates(t *testing.T) {
	api := &fakeAPI{searchResults: []types.Paper{
		paper("p1", 2019, 300),
		paper("p2", 2020, 1200),
		paper("p3", 2018, 800),
		paper("p4", 2021, 50),
		paper("p5", 2022, 950),
	}}
	f := &SeedFinder{API: api, PageSize: 25}

	seeds, err := f.FindSeeds(context.Background(), "graph neural networks", 2018, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"p2", "p5", "p3"}, ids(seeds))
	assertNonIncreasing(t, seeds)
	require.Len(t, api.searchCalls, 1, "exactly one search call")
	assert.Equal(t, scholar.SearchParams{Query: "graph neural networks", MinYear: 2018, Limit: 25}, api.searchCalls[0])
}

func TestFindSeedsYearFilter(t *testing.T) {
	api := &fakeAPI{searchResults: []types.Paper{
		paper("old", 2015, 9999),
		paper("unknown", 0, 5000),
		paper("new", 2022, 10),
	}}
	f := &SeedFinder{API: api}

	seeds, err := f.FindSeeds(context.Background(), "topic", 2021, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, ids(seeds))

	all, err := f.FindSeeds(context.Background(), "topic", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"old", "unknown", "new"}, ids(all), "no filter when min year is zero")
}

func TestFindSeedsFewerThanRequested(t *testing.T) {
	api := &fakeAPI{searchResults: []types.Paper{paper("a", 2022, 3)}}
	seeds, err := (&SeedFinder{API: api}).FindSeeds(context.Background(), "t", 2021, 10)
	require.NoError(t, err)
	assert.Len(t, seeds, 1)
}

func TestFindSeedsZeroMatches(t *testing.T) {
	api := &fakeAPI{}
	seeds, err := (&SeedFinder{API: api}).FindSeeds(context.Background(), "nothing here", 2021, 5)
	require.NoError(t, err)
	assert.NotNil(t, seeds)
	assert.Empty(t, seeds)
}

func TestFindSeedsPropagatesErrors(t *testing.T) {
	want := &scholar.StatusError{Code: 500}
	api := &fakeAPI{searchErr: want}
	_, err := (&SeedFinder{API: api}).FindSeeds(context.Background(), "t", 0, 5)
	assert.ErrorIs(t, err, want)
}

func TestFindSeedsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		minYear int
		topN    int
		wantErr string
	}{
		{"empty topic", "  ", 2021, 5, "topic"},
		{"negative year", "t", -1, 5, "year"},
		{"zero seeds", "t", 2021, 0, "seeds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			_, err := (&SeedFinder{API: api}).FindSeeds(context.Background(), tt.topic, tt.minYear, tt.topN)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, api.searchCalls, "no API call on invalid input")
		})
	}
}

// --- citation expander ---

func TestExpandSortsAndTruncates(t *testing.T) {
	api := &fakeAPI{citations: map[string][]types.Paper{
		"seed": {paper("c1", 2022, 4), paper("c2", 2023, 90), paper("c3", 2021, 17), paper("c4", 2024, 0),
			paper("c5", 2022, 33), paper("c6", 2023, 2)},
	}}
	e := &CitationExpander{API: api}

	got, err := e.Expand(context.Background(), "seed", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"c2", "c5", "c3", "c1", "c6"}, ids(got))
	assertNonIncreasing(t, got)
	assert.Equal(t, []string{"seed"}, api.citationCalls)
}

func TestExpandNoCitations(t *testing.T) {
	api := &fakeAPI{}
	got, err := (&CitationExpander{API: api}).Expand(context.Background(), "lonely", 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExpandEmptyID(t *testing.T) {
	api := &fakeAPI{}
	got, err := (&CitationExpander{API: api}).Expand(context.Background(), "", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, api.citationCalls)
}

func TestExpandFailureYieldsEmpty(t *testing.T) {
	api := &fakeAPI{citationErrs: map[string]error{"seed": &scholar.StatusError{Code: 404}}}
	got, err := (&CitationExpander{API: api}).Expand(context.Background(), "seed", 5)
	require.Error(t, err)
	assert.True(t, scholar.IsNotFound(err))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// --- report builder ---

func TestBuildAssemblesReport(t *testing.T) {
	api := &fakeAPI{
		searchResults: []types.Paper{paper("s1", 2019, 100), paper("s2", 2020, 400), paper("s3", 2021, 250)},
		citations: map[string][]types.Paper{
			"s2": {paper("a", 2021, 1), paper("b", 2022, 9)},
			"s3": {paper("c", 2022, 5)},
		},
	}
	b := testBuilder(api)

	report, err := b.Build(context.Background(), Request{Topic: " graph neural networks ", MinYear: 2018, TopN: 2, TopK: 5})
	require.NoError(t, err)

	assert.Equal(t, "report-1", report.ID)
	assert.Equal(t, "graph neural networks", report.Topic)
	assert.Equal(t, 2018, report.MinYear)
	assert.Equal(t, 2, report.TopN)
	assert.Equal(t, 5, report.TopK)
	assert.Equal(t, time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC), report.GeneratedAt)
	assert.Empty(t, report.Warnings)

	require.Len(t, report.Seeds, 2)
	assert.Equal(t, "s2", report.Seeds[0].Seed.ID)
	assert.Equal(t, []string{"b", "a"}, ids(report.Seeds[0].Citing))
	assert.Equal(t, "s3", report.Seeds[1].Seed.ID)
	assert.Equal(t, []string{"c"}, ids(report.Seeds[1].Citing))

	// One expansion per seed, in seed order.
	assert.Equal(t, []string{"s2", "s3"}, api.citationCalls)
}

func TestBuildSeedWithoutCitations(t *testing.T) {
	api := &fakeAPI{searchResults: []types.Paper{paper("s1", 2022, 10)}}

	report, err := testBuilder(api).Build(context.Background(), Request{Topic: "t", TopN: 1, TopK: 3})
	require.NoError(t, err)
	require.Len(t, report.Seeds, 1)
	assert.NotNil(t, report.Seeds[0].Citing)
	assert.Empty(t, report.Seeds[0].Citing)
	assert.Empty(t, report.Seeds[0].Note)
}

func TestBuildCitationFailureContinues(t *testing.T) {
	api := &fakeAPI{
		searchResults: []types.Paper{paper("s1", 2022, 10), paper("s2", 2022, 5)},
		citations:     map[string][]types.Paper{"s2": {paper("c", 2023, 1)}},
		citationErrs:  map[string]error{"s1": fmt.Errorf("boom: %w", scholar.ErrTransport)},
	}

	report, err := testBuilder(api).Build(context.Background(), Request{Topic: "t", TopN: 5, TopK: 3})
	require.NoError(t, err)
	require.Len(t, report.Seeds, 2)
	assert.Empty(t, report.Seeds[0].Citing)
	assert.Contains(t, report.Seeds[0].Note, "citation lookup failed")
	assert.Equal(t, []string{"c"}, ids(report.Seeds[1].Citing))
}

func TestBuildSeedTransportFailureAborts(t *testing.T) {
	api := &fakeAPI{searchErr: fmt.Errorf("dial tcp: %w", scholar.ErrTransport)}

	report, err := testBuilder(api).Build(context.Background(), Request{Topic: "t", TopN: 5, TopK: 3})
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, scholar.IsTransport(err))
	assert.Empty(t, api.citationCalls)
}

func TestBuildSeedAPIErrorIsWarning(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"http status", &scholar.StatusError{Code: 400, Body: "bad query"}},
		{"malformed body", fmt.Errorf("parsing: %w", scholar.ErrMalformed)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{searchErr: tt.err}

			report, err := testBuilder(api).Build(context.Background(), Request{Topic: "t", TopN: 5, TopK: 3})
			require.NoError(t, err)
			assert.True(t, report.IsEmpty())
			require.Len(t, report.Warnings, 1)
			assert.Contains(t, report.Warnings[0], "seed search failed")
		})
	}
}

func TestBuildZeroMatches(t *testing.T) {
	report, err := testBuilder(&fakeAPI{}).Build(context.Background(), Request{Topic: "t", TopN: 5, TopK: 3})
	require.NoError(t, err)
	assert.True(t, report.IsEmpty())
	assert.Empty(t, report.Warnings)
}

func TestBuildCancelledContext(t *testing.T) {
	api := &fakeAPI{searchResults: []types.Paper{paper("s1", 2022, 10)}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testBuilder(api).Build(ctx, Request{Topic: "t", TopN: 5, TopK: 3})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, api.citationCalls)
}

func TestBuildDefaultsIDAndClock(t *testing.T) {
	b := &Builder{Seeds: &SeedFinder{API: &fakeAPI{}}, Citations: &CitationExpander{API: &fakeAPI{}}}
	report, err := b.Build(context.Background(), Request{Topic: "t", TopN: 1, TopK: 1})
	require.NoError(t, err)
	assert.Len(t, report.ID, 36)
	assert.WithinDuration(t, time.Now(), report.GeneratedAt, time.Minute)
}

func TestBuildAPIKeyOverride(t *testing.T) {
	var mu sync.Mutex
	var keys []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys = append(keys, r.Header.Get("x-api-key"))
		mu.Unlock()
		if r.URL.Path == "/paper/search" {
			io.WriteString(w, `{"data":[{"paperId":"s1","title":"Seed","year":2022,"citationCount":4}]}`)
			return
		}
		io.WriteString(w, `{"data":[]}`)
	}))
	defer ts.Close()

	client := scholar.NewClient(types.ScholarConfig{BaseURL: ts.URL, APIKey: "configured"},
		types.HTTPConfig{Timeout: 5 * time.Second}, nil)
	b := NewBuilder(client, types.ScholarConfig{SearchLimit: 10, CitationLimit: 10}, nil)

	_, err := b.Build(context.Background(), Request{Topic: "t", TopN: 1, TopK: 1, APIKey: " per-request "})
	require.NoError(t, err)
	_, err = b.Build(context.Background(), Request{Topic: "t", TopN: 1, TopK: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"per-request", "per-request", "configured", "configured"}, keys)
	assert.Equal(t, "configured", client.APIKey)
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr string
	}{
		{"valid", Request{Topic: "t", MinYear: 2021, TopN: 10, TopK: 5}, ""},
		{"empty topic", Request{TopN: 1, TopK: 1}, "topic"},
		{"negative year", Request{Topic: "t", MinYear: -5, TopN: 1, TopK: 1}, "year"},
		{"zero seeds", Request{Topic: "t", TopK: 1}, "seeds"},
		{"zero children", Request{Topic: "t", TopN: 1}, "citing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func ids(papers []types.Paper) []string {
	out := make([]string, len(papers))
	for i, p := range papers {
		out[i] = p.ID
	}
	return out
}
