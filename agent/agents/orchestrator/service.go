// Package orchestrator wires the turn pipeline: classify the message, run
// the matching handler, record the exchange, and return the action payload.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/attache-labs/attache/agent/contract"
	nodex "github.com/attache-labs/attache/agent/nodes/orchestrator"
	statex "github.com/attache-labs/attache/agent/state"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

type Orchestrator struct {
	store      statex.Store
	classifier nodex.IntentClassifier
	extractor  nodex.SlotExtractor
	assembler  nodex.ActionAssembler
	chat       nodex.ChatResponder
	search     nodex.SearchAnswerer

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	locks *statex.KeyedMutex
	now   func() time.Time
}

func New(
	store statex.Store,
	classifier nodex.IntentClassifier,
	extractor nodex.SlotExtractor,
	assembler nodex.ActionAssembler,
	chat nodex.ChatResponder,
	search nodex.SearchAnswerer,
) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if classifier == nil {
		return nil, errors.New("intent classifier is required")
	}
	if extractor == nil {
		return nil, errors.New("slot extractor is required")
	}
	if assembler == nil {
		return nil, errors.New("action assembler is required")
	}
	if chat == nil {
		return nil, errors.New("chat responder is required")
	}
	if search == nil {
		return nil, errors.New("search answerer is required")
	}

	o := &Orchestrator{
		store:      store,
		classifier: classifier,
		extractor:  extractor,
		assembler:  assembler,
		chat:       chat,
		search:     search,
		locks:      statex.NewKeyedMutex(),
		now:        time.Now,
	}

	graphRunner, err := o.compileHandleTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// HandleTurn runs one user message through the pipeline. Turns for the same
// session are serialized so concurrent requests cannot interleave history.
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID string, text string) (contractx.ActionPayload, error) {
	// The lock key must match the stored session identifier, which the
	// pipeline trims during validation.
	sessionID = strings.TrimSpace(sessionID)
	unlock := o.locks.Lock(sessionID)
	defer unlock()

	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      text,
	})
	if err != nil {
		return contractx.ActionPayload{}, err
	}
	return out.Payload, nil
}

// History returns the user-visible turns of a session, oldest first. An
// unknown session surfaces as state.ErrStateNotFound.
func (o *Orchestrator) History(ctx context.Context, sessionID string) ([]statex.Turn, error) {
	s, err := o.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.VisibleTurns(), nil
}

// Documents returns the document text recorded for a session, one entry per
// upload, oldest first.
func (o *Orchestrator) Documents(ctx context.Context, sessionID string) ([]string, error) {
	s, err := o.store.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, statex.ErrStateNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var docs []string
	for _, t := range s.Turns {
		if t.Sender == statex.SenderSystem {
			docs = append(docs, t.Text)
		}
	}
	return docs, nil
}

// AttachDocuments records uploaded document text as a system turn so later
// questions in the session can reference it.
func (o *Orchestrator) AttachDocuments(ctx context.Context, sessionID string, text string) error {
	sessionID = strings.TrimSpace(sessionID)
	unlock := o.locks.Lock(sessionID)
	defer unlock()

	now := o.now().UTC()
	s, err := o.store.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, statex.ErrStateNotFound) {
			return err
		}
		s = statex.NewSession(sessionID, now)
	}

	if err := s.Append(statex.SenderSystem, text, now); err != nil {
		return err
	}
	return o.store.Save(ctx, s)
}
