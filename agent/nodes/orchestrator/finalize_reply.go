package orchestratornode

import (
	"fmt"

	contractx "github.com/attache-labs/attache/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Payload.Type == "" {
		return GraphOutput{}, fmt.Errorf("%w: turn produced no payload", contractx.ErrValidation)
	}

	return GraphOutput{
		SessionID: in.SessionID,
		Payload:   in.Payload,
	}, nil
}
