// Package classifier assigns an intent to each inbound turn.
package classifier

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/attache-labs/attache/agent/contract"
	promptx "github.com/attache-labs/attache/agent/prompt"
	statex "github.com/attache-labs/attache/agent/state"
)

const maxLabelTokens = 16

// Classifier decides which action a turn represents, given the turn text and
// the full ordered session history. Sampling is pinned to temperature zero so
// a fixed (text, history) pair classifies identically on repeat calls.
type Classifier struct {
	gw       contractx.Gateway
	template string
}

func New(gw contractx.Gateway, prompts promptx.Set) *Classifier {
	return &Classifier{
		gw:       gw,
		template: prompts.Intent,
	}
}

// Classify returns the intent for the turn. The decision order is fixed:
// email first, then meeting, then search, else chat — so ambiguous requests
// like "email John about the meeting" resolve to send_email. Any label
// outside the closed vocabulary maps to normal_chat.
func (c *Classifier) Classify(ctx context.Context, text string, session *statex.Session) (contractx.Intent, error) {
	prompt := promptx.Render(c.template, map[string]string{
		"history": session.HistoryText(),
		"input":   text,
	})

	label, err := c.gw.Complete(ctx, prompt, contractx.CompleteOptions{
		Temperature:     contractx.TemperatureZero(),
		MaxOutputTokens: maxLabelTokens,
	})
	if err != nil {
		return "", err
	}

	intent := mapLabel(label)
	log.Debug().Str("label", strings.TrimSpace(label)).Str("intent", string(intent)).Msg("intent classified")
	return intent, nil
}

// mapLabel checks labels in precedence order; substring matching tolerates
// models that wrap the label in prose.
func mapLabel(label string) contractx.Intent {
	switch {
	case strings.Contains(label, string(contractx.IntentSendEmail)):
		return contractx.IntentSendEmail
	case strings.Contains(label, string(contractx.IntentScheduleMeeting)):
		return contractx.IntentScheduleMeeting
	case strings.Contains(label, string(contractx.IntentInternetSearch)):
		return contractx.IntentInternetSearch
	default:
		return contractx.IntentNormalChat
	}
}
