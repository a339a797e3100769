// Package qa answers questions over pre-extracted document text. Text
// extraction itself is an external concern; documents arrive as plain
// strings.
package qa

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/attache-labs/attache/agent/contract"
	promptx "github.com/attache-labs/attache/agent/prompt"
)

type Service struct {
	gw       contractx.Gateway
	template string
}

func New(gw contractx.Gateway, prompts promptx.Set) *Service {
	return &Service{
		gw:       gw,
		template: prompts.DocQA,
	}
}

// Label concatenates document texts with per-document markers, the form the
// session's system turn and the QA prompt both use.
func Label(docs []string) string {
	var b strings.Builder
	for i, doc := range docs {
		fmt.Fprintf(&b, "// document %d:\n%s\n\n", i+1, doc)
	}
	return b.String()
}

// Answer responds to a question over the given documents.
func (s *Service) Answer(ctx context.Context, question string, docs []string) (string, error) {
	if len(docs) == 0 {
		return "", fmt.Errorf("%w: no documents to answer from", contractx.ErrValidation)
	}
	prompt := promptx.Render(s.template, map[string]string{
		"documents": Label(docs),
		"question":  question,
	})
	return s.gw.Complete(ctx, prompt, contractx.CompleteOptions{
		Temperature: contractx.TemperatureZero(),
	})
}
