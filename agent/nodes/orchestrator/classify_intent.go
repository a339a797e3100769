package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/attache-labs/attache/agent/contract"
)

func ClassifyIntent(ctx context.Context, in *GraphState, classifier IntentClassifier) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	intent, err := classifier.Classify(ctx, in.Text, in.Session)
	if err != nil {
		in.Payload = contractx.ErrorPayload(contractx.UserMessage(err))
		return in, nil
	}
	in.Intent = intent
	return in, nil
}
