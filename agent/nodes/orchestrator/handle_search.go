package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/attache-labs/attache/agent/contract"
)

// HandleSearch answers from live web results, falling through to plain chat
// when the router decides the question needs no search.
func HandleSearch(ctx context.Context, in *GraphState, search SearchAnswerer, chat ChatResponder) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	answer, needChat, err := search.Answer(ctx, in.Text, in.Session)
	if err != nil {
		in.Payload = contractx.ErrorPayload(contractx.UserMessage(err))
		return in, nil
	}
	if needChat {
		return HandleChat(ctx, in, chat)
	}

	in.Payload = contractx.SearchResultPayload(answer)
	return in, nil
}
