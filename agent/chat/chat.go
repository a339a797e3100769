// Package chat produces plain conversational replies for turns that map to
// no structured action.
package chat

import (
	"context"

	contractx "github.com/attache-labs/attache/agent/contract"
	promptx "github.com/attache-labs/attache/agent/prompt"
	statex "github.com/attache-labs/attache/agent/state"
)

type Responder struct {
	gw       contractx.Gateway
	template string
}

func New(gw contractx.Gateway, prompts promptx.Set) *Responder {
	return &Responder{
		gw:       gw,
		template: prompts.Chat,
	}
}

// Reply answers the turn with full history context.
func (r *Responder) Reply(ctx context.Context, input string, session *statex.Session) (string, error) {
	prompt := promptx.Render(r.template, map[string]string{
		"history": session.HistoryText(),
		"input":   input,
	})
	return r.gw.Complete(ctx, prompt, contractx.CompleteOptions{
		Temperature: contractx.TemperatureZero(),
	})
}
