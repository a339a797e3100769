package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	contractx "github.com/attache-labs/attache/agent/contract"
	promptx "github.com/attache-labs/attache/agent/prompt"
	statex "github.com/attache-labs/attache/agent/state"
)

type scriptedGateway struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (f *scriptedGateway) Complete(ctx context.Context, prompt string, opts contractx.CompleteOptions) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	idx := f.calls - 1
	if idx >= len(f.responses) {
		return "", fmt.Errorf("no scripted response left at call=%d", f.calls)
	}
	return f.responses[idx], nil
}

type fakeSearcher struct {
	results   []contractx.SearchResult
	err       error
	lastQuery string
	lastCount int
}

func (f *fakeSearcher) Results(ctx context.Context, query string, count int) ([]contractx.SearchResult, error) {
	f.lastQuery = query
	f.lastCount = count
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func newTestService(gw *scriptedGateway, searcher *fakeSearcher, now time.Time) *Service {
	s := New(gw, searcher, promptx.Load())
	s.now = func() time.Time { return now }
	return s
}

func TestAnswerSearchFlow(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	gw := &scriptedGateway{responses: []string{
		"internet search",
		"  NVIDIA GTC 2025 keynote highlights  ",
		"The keynote covered the new GPU lineup.",
	}}
	searcher := &fakeSearcher{results: []contractx.SearchResult{
		{Title: "GTC 2025", Link: "https://example.com/gtc", Snippet: "Keynote recap"},
	}}

	s := newTestService(gw, searcher, now)
	answer, needChat, err := s.Answer(context.Background(), "what happened at GTC?", statex.NewSession("s1", now))
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if needChat {
		t.Fatal("needChat = true, want false")
	}
	if answer != "The keynote covered the new GPU lineup." {
		t.Fatalf("answer = %q", answer)
	}

	if searcher.lastQuery != "NVIDIA GTC 2025 keynote highlights" {
		t.Fatalf("query = %q, want trimmed reformatted query", searcher.lastQuery)
	}
	if searcher.lastCount != 5 {
		t.Fatalf("count = %d, want 5", searcher.lastCount)
	}

	// The query and compose prompts carry the pinned date.
	if !strings.Contains(gw.prompts[1], "2025-06-02") {
		t.Fatalf("query prompt missing today: %q", gw.prompts[1])
	}
	if !strings.Contains(gw.prompts[2], "Keynote recap") {
		t.Fatalf("compose prompt missing search results: %q", gw.prompts[2])
	}
}

func TestAnswerRoutesToChat(t *testing.T) {
	t.Parallel()

	now := time.Now()
	gw := &scriptedGateway{responses: []string{"Normal Chat"}}
	searcher := &fakeSearcher{}

	s := newTestService(gw, searcher, now)
	_, needChat, err := s.Answer(context.Background(), "thanks!", statex.NewSession("s1", now))
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if !needChat {
		t.Fatal("needChat = false, want true")
	}
	if gw.calls != 1 {
		t.Fatalf("gateway calls = %d, want 1 (route only)", gw.calls)
	}
	if searcher.lastQuery != "" {
		t.Fatalf("searcher was called with %q", searcher.lastQuery)
	}
}

func TestAnswerSearcherFailure(t *testing.T) {
	t.Parallel()

	now := time.Now()
	gw := &scriptedGateway{responses: []string{"internet search", "some query"}}
	searcher := &fakeSearcher{err: errors.New("bing unavailable")}

	s := newTestService(gw, searcher, now)
	_, _, err := s.Answer(context.Background(), "latest news", statex.NewSession("s1", now))
	if err == nil || !strings.Contains(err.Error(), "web search") {
		t.Fatalf("Answer() error = %v, want wrapped search failure", err)
	}
}

func TestAnswerGatewayFailure(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("model down")
	s := newTestService(&scriptedGateway{err: wantErr}, &fakeSearcher{}, time.Now())
	_, _, err := s.Answer(context.Background(), "latest news", statex.NewSession("s1", time.Now()))
	if !errors.Is(err, wantErr) {
		t.Fatalf("Answer() error = %v, want %v", err, wantErr)
	}
}
