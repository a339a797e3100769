// Package extractor turns free text into strict slot records via two staged
// model passes per action: a free-form draft extraction, then a strict
// reformat whose output is the only thing parsed. The second pass exists
// because the first pass's natural-language leanings produce inconsistent
// formatting.
package extractor

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/attache-labs/attache/agent/contract"
	promptx "github.com/attache-labs/attache/agent/prompt"
)

// Extractor runs the per-action extraction pipelines.
type Extractor struct {
	gw      contractx.Gateway
	prompts promptx.Set
}

func New(gw contractx.Gateway, prompts promptx.Set) *Extractor {
	return &Extractor{
		gw:      gw,
		prompts: prompts,
	}
}

func (e *Extractor) complete(ctx context.Context, prompt string) (string, error) {
	return e.gw.Complete(ctx, prompt, contractx.CompleteOptions{
		Temperature: contractx.TemperatureZero(),
	})
}

// ExtractEmail runs the email two-stage chain on the raw request. The stage-1
// draft emphasizes literal extraction of any quoted or explicit address;
// stage 2 forces the draft into the exact JSON schema.
func (e *Extractor) ExtractEmail(ctx context.Context, input string) (contractx.EmailSlots, error) {
	draft, err := e.complete(ctx, promptx.Render(e.prompts.EmailDraft, map[string]string{
		"input": input,
	}))
	if err != nil {
		return contractx.EmailSlots{}, err
	}

	formatted, err := e.complete(ctx, promptx.Render(e.prompts.EmailFormat, map[string]string{
		"draft": draft,
		"input": input,
	}))
	if err != nil {
		return contractx.EmailSlots{}, err
	}

	var slots contractx.EmailSlots
	if err := decodeStrict(formatted, &slots); err != nil {
		return contractx.EmailSlots{}, err
	}
	// A literal address wins over a name: "email John (john@x.com)" commonly
	// yields both fields, and the address needs no directory lookup.
	if slots.HasExplicitAddress() {
		slots.RecipientName = nil
	}
	if err := validateEmailSlots(slots); err != nil {
		return contractx.EmailSlots{}, err
	}
	return slots, nil
}

// validateEmailSlots enforces the extraction invariant: at least one of
// recipient_email / recipient_name present. Both empty means the extraction
// failed and must be reported, never silently defaulted.
func validateEmailSlots(s contractx.EmailSlots) error {
	if !s.HasExplicitAddress() && !s.HasRecipientName() {
		return fmt.Errorf("%w: no recipient extracted", contractx.ErrSchemaViolation)
	}
	if strings.TrimSpace(s.Subject) == "" {
		return fmt.Errorf("%w: subject is empty", contractx.ErrSchemaViolation)
	}
	return nil
}
