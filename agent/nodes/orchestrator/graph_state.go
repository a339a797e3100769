// Package orchestratornode holds the per-turn graph state and the node
// functions the orchestrator graph is built from. Domain failures inside a
// handler become an error payload so the turn still produces a reply and a
// history entry; only infrastructure failures abort the graph.
package orchestratornode

import (
	"context"
	"errors"
	"time"

	contractx "github.com/attache-labs/attache/agent/contract"
	statex "github.com/attache-labs/attache/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID string
	Text      string
}

type GraphOutput struct {
	SessionID string
	Payload   contractx.ActionPayload
}

type GraphState struct {
	SessionID string
	Text      string
	Now       time.Time

	Session *statex.Session
	Intent  contractx.Intent
	Payload contractx.ActionPayload
}

// IntentClassifier labels a user message given the conversation so far.
type IntentClassifier interface {
	Classify(ctx context.Context, text string, session *statex.Session) (contractx.Intent, error)
}

// SlotExtractor pulls structured fields out of a raw instruction.
type SlotExtractor interface {
	ExtractEmail(ctx context.Context, input string) (contractx.EmailSlots, error)
	ExtractMeeting(ctx context.Context, input string, ref time.Time) (contractx.MeetingSlots, error)
}

// ActionAssembler turns extracted slots into a user-facing action payload.
type ActionAssembler interface {
	AssembleEmail(ctx context.Context, slots contractx.EmailSlots) (contractx.ActionPayload, error)
	AssembleMeeting(ctx context.Context, slots contractx.MeetingSlots, ref time.Time) (contractx.ActionPayload, error)
}

// ChatResponder produces a free-form conversational reply.
type ChatResponder interface {
	Reply(ctx context.Context, input string, session *statex.Session) (string, error)
}

// SearchAnswerer answers a question from live web results. needChat reports
// that the question does not need a search and should fall through to chat.
type SearchAnswerer interface {
	Answer(ctx context.Context, input string, session *statex.Session) (answer string, needChat bool, err error)
}
