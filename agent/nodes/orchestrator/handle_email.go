package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/attache-labs/attache/agent/contract"
)

// HandleEmail drafts an email preview from the current message. An email
// request starts a fresh task, so the conversation history is wiped before
// extraction; the reset sticks even when drafting fails.
func HandleEmail(ctx context.Context, in *GraphState, extractor SlotExtractor, assembler ActionAssembler) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.Session.ResetHistory(in.Now)

	slots, err := extractor.ExtractEmail(ctx, in.Text)
	if err != nil {
		in.Payload = contractx.ErrorPayload(contractx.UserMessage(err))
		return in, nil
	}

	payload, err := assembler.AssembleEmail(ctx, slots)
	if err != nil {
		in.Payload = contractx.ErrorPayload(contractx.UserMessage(err))
		return in, nil
	}

	in.Payload = payload
	return in, nil
}
