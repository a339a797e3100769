package orchestratornode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/attache-labs/attache/agent/contract"
	statex "github.com/attache-labs/attache/agent/state"
)

func LoadSession(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	s, err := store.Load(ctx, in.SessionID)
	switch {
	case err == nil:
		in.Session = s
	case errors.Is(err, statex.ErrStateNotFound):
		in.Session = statex.NewSession(in.SessionID, in.Now)
	default:
		return nil, fmt.Errorf("load session %s: %w", in.SessionID, err)
	}
	return in, nil
}
