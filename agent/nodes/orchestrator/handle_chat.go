package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/attache-labs/attache/agent/contract"
)

func HandleChat(ctx context.Context, in *GraphState, chat ChatResponder) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	reply, err := chat.Reply(ctx, in.Text, in.Session)
	if err != nil {
		in.Payload = contractx.ErrorPayload(contractx.UserMessage(err))
		return in, nil
	}

	in.Payload = contractx.ChatReplyPayload(reply)
	return in, nil
}
