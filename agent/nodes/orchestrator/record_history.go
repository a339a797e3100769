package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/attache-labs/attache/agent/contract"
	statex "github.com/attache-labs/attache/agent/state"
)

// RecordHistory appends the user turn and the assistant outcome to the
// session and persists it. Error payloads are recorded like any other reply
// so a retried instruction sees what already went wrong.
func RecordHistory(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Payload.Type == "" {
		return nil, fmt.Errorf("%w: handler produced no payload", contractx.ErrValidation)
	}

	if err := in.Session.Append(statex.SenderUser, in.Text, in.Now); err != nil {
		return nil, fmt.Errorf("append user turn: %w", err)
	}
	if err := in.Session.Append(statex.SenderAssistant, in.Payload.HistoryText(), in.Now); err != nil {
		return nil, fmt.Errorf("append assistant turn: %w", err)
	}

	if err := store.Save(ctx, in.Session); err != nil {
		return nil, fmt.Errorf("save session %s: %w", in.SessionID, err)
	}
	return in, nil
}
