package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/attache-labs/attache/agent/contract"
	nodex "github.com/attache-labs/attache/agent/nodes/orchestrator"
)

func (o *Orchestrator) compileHandleTurnGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("load_session",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadSession(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_session: %w", err)
	}

	if err := graph.AddLambdaNode("classify_intent",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ClassifyIntent(ctx, in, o.classifier)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify_intent: %w", err)
	}

	if err := graph.AddLambdaNode("handle_email",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.HandleEmail(ctx, in, o.extractor, o.assembler)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node handle_email: %w", err)
	}

	if err := graph.AddLambdaNode("handle_meeting",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.HandleMeeting(ctx, in, o.extractor, o.assembler)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node handle_meeting: %w", err)
	}

	if err := graph.AddLambdaNode("handle_search",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.HandleSearch(ctx, in, o.search, o.chat)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node handle_search: %w", err)
	}

	if err := graph.AddLambdaNode("handle_chat",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.HandleChat(ctx, in, o.chat)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node handle_chat: %w", err)
	}

	if err := graph.AddLambdaNode("record_history",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.RecordHistory(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node record_history: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	branch := compose.NewGraphBranch(
		func(ctx context.Context, in *nodex.GraphState) (string, error) {
			if in == nil {
				return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
			}
			if in.Payload.Type != "" {
				// classification already failed; skip straight to recording.
				return "record_history", nil
			}
			switch in.Intent {
			case contractx.IntentSendEmail:
				return "handle_email", nil
			case contractx.IntentScheduleMeeting:
				return "handle_meeting", nil
			case contractx.IntentInternetSearch:
				return "handle_search", nil
			default:
				return "handle_chat", nil
			}
		},
		map[string]bool{
			"handle_email":   true,
			"handle_meeting": true,
			"handle_search":  true,
			"handle_chat":    true,
			"record_history": true,
		},
	)

	if err := graph.AddBranch("classify_intent", branch); err != nil {
		return nil, fmt.Errorf("add intent branch: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "load_session"},
		{"load_session", "classify_intent"},
		{"handle_email", "record_history"},
		{"handle_meeting", "record_history"},
		{"handle_search", "record_history"},
		{"handle_chat", "record_history"},
		{"record_history", "finalize_reply"},
		{"finalize_reply", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.handle_turn"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
