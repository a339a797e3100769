// Package search answers information requests by routing between the
// existing history and a live web search.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	contractx "github.com/attache-labs/attache/agent/contract"
	promptx "github.com/attache-labs/attache/agent/prompt"
	statex "github.com/attache-labs/attache/agent/state"
)

const resultCount = 5

// Service runs the three-step search flow: route, reformat into a query,
// compose an answer from the raw hits.
type Service struct {
	gw       contractx.Gateway
	searcher contractx.WebSearcher
	prompts  promptx.Set
	now      func() time.Time
}

func New(gw contractx.Gateway, searcher contractx.WebSearcher, prompts promptx.Set) *Service {
	return &Service{
		gw:       gw,
		searcher: searcher,
		prompts:  prompts,
		now:      time.Now,
	}
}

// Answer resolves the request. When the routing pass decides the history
// already answers it, needChat is true and the caller falls back to the chat
// flow instead.
func (s *Service) Answer(ctx context.Context, input string, session *statex.Session) (answer string, needChat bool, err error) {
	route, err := s.gw.Complete(ctx, promptx.Render(s.prompts.SearchRoute, map[string]string{
		"history": session.HistoryText(),
		"input":   input,
	}), contractx.CompleteOptions{Temperature: contractx.TemperatureZero()})
	if err != nil {
		return "", false, err
	}
	if strings.Contains(strings.ToLower(route), "normal chat") {
		return "", true, nil
	}

	today := s.now().Format("2006-01-02")
	query, err := s.gw.Complete(ctx, promptx.Render(s.prompts.SearchQuery, map[string]string{
		"today": today,
		"input": input,
	}), contractx.CompleteOptions{Temperature: contractx.TemperatureZero()})
	if err != nil {
		return "", false, err
	}
	query = strings.TrimSpace(query)

	results, err := s.searcher.Results(ctx, query, resultCount)
	if err != nil {
		return "", false, fmt.Errorf("web search: %w", err)
	}

	composed, err := s.gw.Complete(ctx, promptx.Render(s.prompts.SearchCompose, map[string]string{
		"today":   today,
		"input":   input,
		"query":   query,
		"results": renderResults(results),
	}), contractx.CompleteOptions{Temperature: contractx.TemperatureZero()})
	if err != nil {
		return "", false, err
	}
	return composed, false, nil
}

func renderResults(results []contractx.SearchResult) string {
	lines := make([]string, 0, len(results))
	for _, res := range results {
		lines = append(lines, fmt.Sprintf("%s: %s\nSnippet: %s", res.Title, res.Link, res.Snippet))
	}
	return strings.Join(lines, "\n")
}
