package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/attache-labs/attache/agent/contract"
)

func HandleMeeting(ctx context.Context, in *GraphState, extractor SlotExtractor, assembler ActionAssembler) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	slots, err := extractor.ExtractMeeting(ctx, in.Text, in.Now)
	if err != nil {
		in.Payload = contractx.ErrorPayload(contractx.UserMessage(err))
		return in, nil
	}

	payload, err := assembler.AssembleMeeting(ctx, slots, in.Now)
	if err != nil {
		in.Payload = contractx.ErrorPayload(contractx.UserMessage(err))
		return in, nil
	}

	in.Payload = payload
	return in, nil
}
