package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	contractx "github.com/attache-labs/attache/agent/contract"
	statex "github.com/attache-labs/attache/agent/state"
)

type fakeClassifier struct {
	intent contractx.Intent
	err    error
	calls  int
}

func (f *fakeClassifier) Classify(ctx context.Context, text string, session *statex.Session) (contractx.Intent, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.intent, nil
}

type fakeExtractor struct {
	emailSlots   contractx.EmailSlots
	emailErr     error
	meetingSlots contractx.MeetingSlots
	meetingErr   error
}

func (f *fakeExtractor) ExtractEmail(ctx context.Context, input string) (contractx.EmailSlots, error) {
	if f.emailErr != nil {
		return contractx.EmailSlots{}, f.emailErr
	}
	return f.emailSlots, nil
}

func (f *fakeExtractor) ExtractMeeting(ctx context.Context, input string, ref time.Time) (contractx.MeetingSlots, error) {
	if f.meetingErr != nil {
		return contractx.MeetingSlots{}, f.meetingErr
	}
	return f.meetingSlots, nil
}

type fakeAssembler struct {
	emailPayload   contractx.ActionPayload
	emailErr       error
	meetingPayload contractx.ActionPayload
	meetingErr     error
}

func (f *fakeAssembler) AssembleEmail(ctx context.Context, slots contractx.EmailSlots) (contractx.ActionPayload, error) {
	if f.emailErr != nil {
		return contractx.ActionPayload{}, f.emailErr
	}
	return f.emailPayload, nil
}

func (f *fakeAssembler) AssembleMeeting(ctx context.Context, slots contractx.MeetingSlots, ref time.Time) (contractx.ActionPayload, error) {
	if f.meetingErr != nil {
		return contractx.ActionPayload{}, f.meetingErr
	}
	return f.meetingPayload, nil
}

type fakeChat struct {
	reply string
	err   error
	calls int
}

func (f *fakeChat) Reply(ctx context.Context, input string, session *statex.Session) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeSearch struct {
	answer   string
	needChat bool
	err      error
	calls    int
}

func (f *fakeSearch) Answer(ctx context.Context, input string, session *statex.Session) (string, bool, error) {
	f.calls++
	if f.err != nil {
		return "", false, f.err
	}
	return f.answer, f.needChat, nil
}

type deps struct {
	store      statex.Store
	classifier *fakeClassifier
	extractor  *fakeExtractor
	assembler  *fakeAssembler
	chat       *fakeChat
	search     *fakeSearch
}

func defaultDeps() deps {
	return deps{
		store:      statex.NewMemoryStore(),
		classifier: &fakeClassifier{intent: contractx.IntentNormalChat},
		extractor:  &fakeExtractor{},
		assembler:  &fakeAssembler{},
		chat:       &fakeChat{reply: "hello!"},
		search:     &fakeSearch{},
	}
}

func newTestOrchestrator(t *testing.T, d deps) *Orchestrator {
	t.Helper()
	o, err := New(d.store, d.classifier, d.extractor, d.assembler, d.chat, d.search)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return o
}

func TestHandleTurnInvalidInput(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(t, defaultDeps())

	_, err := o.HandleTurn(context.Background(), "   ", "hello")
	if !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}

	_, err = o.HandleTurn(context.Background(), "s1", "    ")
	if !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestHandleTurnChatRecordsHistory(t *testing.T) {
	t.Parallel()

	d := defaultDeps()
	o := newTestOrchestrator(t, d)

	payload, err := o.HandleTurn(context.Background(), "s1", "hi there")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if payload.Type != contractx.PayloadChatReply || payload.Message != "hello!" {
		t.Fatalf("unexpected payload: %#v", payload)
	}

	turns, err := o.History(context.Background(), "s1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("len(History) = %d, want 2", len(turns))
	}
	if turns[0].Sender != statex.SenderUser || turns[0].Text != "hi there" {
		t.Fatalf("user turn = %#v", turns[0])
	}
	if turns[1].Sender != statex.SenderAssistant || turns[1].Text != "hello!" {
		t.Fatalf("assistant turn = %#v", turns[1])
	}
}

func TestHandleTurnEmailWipesPriorHistory(t *testing.T) {
	t.Parallel()

	d := defaultDeps()
	d.assembler.emailPayload = contractx.EmailPreviewPayload(contractx.EmailPreview{
		Sender:    "Ze Sheng <ze@example.com>",
		Recipient: "Jeff <jeff@tamu.edu>",
		Subject:   "Lunch",
		Content:   "Free on Friday?",
	})
	o := newTestOrchestrator(t, d)

	// Three chat turns build up a history.
	for i := 0; i < 3; i++ {
		if _, err := o.HandleTurn(context.Background(), "s1", fmt.Sprintf("chat %d", i)); err != nil {
			t.Fatalf("chat turn %d error = %v", i, err)
		}
	}
	turns, _ := o.History(context.Background(), "s1")
	if len(turns) != 6 {
		t.Fatalf("len(History) = %d before email turn, want 6", len(turns))
	}

	d.classifier.intent = contractx.IntentSendEmail
	payload, err := o.HandleTurn(context.Background(), "s1", "email Jeff about lunch")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if payload.Type != contractx.PayloadEmailPreview {
		t.Fatalf("payload type = %q, want email_preview", payload.Type)
	}

	turns, _ = o.History(context.Background(), "s1")
	if len(turns) != 2 {
		t.Fatalf("len(History) = %d after email turn, want 2 (history wiped)", len(turns))
	}
	if turns[0].Text != "email Jeff about lunch" {
		t.Fatalf("first turn after wipe = %#v", turns[0])
	}
}

func TestHandleTurnClassifierFailureBecomesErrorPayload(t *testing.T) {
	t.Parallel()

	d := defaultDeps()
	d.classifier.err = fmt.Errorf("%w: upstream 502", contractx.ErrModelInvoke)
	o := newTestOrchestrator(t, d)

	payload, err := o.HandleTurn(context.Background(), "s1", "hello")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v, want error payload instead", err)
	}
	if payload.Type != contractx.PayloadError {
		t.Fatalf("payload type = %q, want error", payload.Type)
	}

	// The failure is part of the recorded history.
	turns, _ := o.History(context.Background(), "s1")
	if len(turns) != 2 {
		t.Fatalf("len(History) = %d, want 2", len(turns))
	}
	if turns[1].Sender != statex.SenderAssistant || !strings.Contains(turns[1].Text, "temporarily unavailable") {
		t.Fatalf("assistant turn = %#v", turns[1])
	}
}

func TestHandleTurnExtractionFailureBecomesErrorPayload(t *testing.T) {
	t.Parallel()

	d := defaultDeps()
	d.classifier.intent = contractx.IntentSendEmail
	d.extractor.emailErr = fmt.Errorf("%w: no recipient extracted", contractx.ErrSchemaViolation)
	o := newTestOrchestrator(t, d)

	payload, err := o.HandleTurn(context.Background(), "s1", "send an email")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if payload.Type != contractx.PayloadError {
		t.Fatalf("payload type = %q, want error", payload.Type)
	}
	if !strings.Contains(payload.Message, "clearer instruction") {
		t.Fatalf("payload message = %q", payload.Message)
	}
}

func TestHandleTurnUnresolvedContactNamesContact(t *testing.T) {
	t.Parallel()

	d := defaultDeps()
	d.classifier.intent = contractx.IntentSendEmail
	d.assembler.emailErr = &contractx.UnresolvedContactError{Name: "Marianne"}
	o := newTestOrchestrator(t, d)

	payload, err := o.HandleTurn(context.Background(), "s1", "email Marianne")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if payload.Type != contractx.PayloadError || !strings.Contains(payload.Message, "Marianne") {
		t.Fatalf("payload = %#v, want error naming Marianne", payload)
	}
}

func TestHandleTurnMeeting(t *testing.T) {
	t.Parallel()

	d := defaultDeps()
	d.classifier.intent = contractx.IntentScheduleMeeting
	d.assembler.meetingPayload = contractx.MeetingScheduledPayload(contractx.MeetingNotice{
		Title:     "Sync",
		Time:      "2025-06-03 14:00",
		Duration:  "45 minutes",
		Attendees: []string{"ze@example.com", "jeff@tamu.edu"},
	})
	o := newTestOrchestrator(t, d)

	payload, err := o.HandleTurn(context.Background(), "s1", "meet Jeff tomorrow at 2")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if payload.Type != contractx.PayloadMeetingScheduled || payload.Meeting == nil {
		t.Fatalf("unexpected payload: %#v", payload)
	}
	if payload.Meeting.Title != "Sync" {
		t.Fatalf("Meeting.Title = %q", payload.Meeting.Title)
	}
}

func TestHandleTurnSearchFallsBackToChat(t *testing.T) {
	t.Parallel()

	d := defaultDeps()
	d.classifier.intent = contractx.IntentInternetSearch
	d.search.needChat = true
	d.chat.reply = "you already told me that"
	o := newTestOrchestrator(t, d)

	payload, err := o.HandleTurn(context.Background(), "s1", "what did I say earlier?")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if payload.Type != contractx.PayloadChatReply {
		t.Fatalf("payload type = %q, want chat_reply", payload.Type)
	}
	if d.search.calls != 1 || d.chat.calls != 1 {
		t.Fatalf("search calls = %d, chat calls = %d; want 1 and 1", d.search.calls, d.chat.calls)
	}
}

func TestHandleTurnSearchResult(t *testing.T) {
	t.Parallel()

	d := defaultDeps()
	d.classifier.intent = contractx.IntentInternetSearch
	d.search.answer = "The keynote announced new GPUs."
	o := newTestOrchestrator(t, d)

	payload, err := o.HandleTurn(context.Background(), "s1", "what happened at GTC?")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if payload.Type != contractx.PayloadSearchResult || payload.Message != "The keynote announced new GPUs." {
		t.Fatalf("unexpected payload: %#v", payload)
	}
	if d.chat.calls != 0 {
		t.Fatalf("chat called %d times, want 0", d.chat.calls)
	}
}

func TestHistoryUnknownSessionIsNotFound(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(t, defaultDeps())
	_, err := o.History(context.Background(), "never-seen")
	if !errors.Is(err, statex.ErrStateNotFound) {
		t.Fatalf("History() error = %v, want ErrStateNotFound", err)
	}
}

func TestAttachDocumentsStaysHiddenFromHistory(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(t, defaultDeps())

	if err := o.AttachDocuments(context.Background(), "s1", "// document 1:\nquarterly report"); err != nil {
		t.Fatalf("AttachDocuments() error = %v", err)
	}

	turns, err := o.History(context.Background(), "s1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("document turn leaked into visible history: %#v", turns)
	}

	docs, err := o.Documents(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Documents() error = %v", err)
	}
	if len(docs) != 1 || !strings.Contains(docs[0], "quarterly report") {
		t.Fatalf("Documents() = %#v", docs)
	}
}

func TestHandleTurnSerializesSameSession(t *testing.T) {
	t.Parallel()

	d := defaultDeps()
	o := newTestOrchestrator(t, d)

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func(i int) {
			_, err := o.HandleTurn(context.Background(), "s1", fmt.Sprintf("msg %d", i))
			done <- err
		}(i)
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent HandleTurn() error = %v", err)
		}
	}

	turns, _ := o.History(context.Background(), "s1")
	if len(turns) != 16 {
		t.Fatalf("len(History) = %d, want 16 (no lost updates)", len(turns))
	}
}

func TestHandleTurnSerializesPaddedSessionID(t *testing.T) {
	t.Parallel()

	d := defaultDeps()
	o := newTestOrchestrator(t, d)

	// Padded variants of the same id must queue behind the same lock; the
	// pipeline stores them all under the trimmed id.
	ids := []string{"s1", " s1", "s1 ", "  s1  "}
	done := make(chan error, len(ids)*2)
	for i := 0; i < len(ids)*2; i++ {
		go func(i int) {
			_, err := o.HandleTurn(context.Background(), ids[i%len(ids)], fmt.Sprintf("msg %d", i))
			done <- err
		}(i)
	}
	for i := 0; i < len(ids)*2; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent HandleTurn() error = %v", err)
		}
	}

	turns, err := o.History(context.Background(), "s1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(turns) != 16 {
		t.Fatalf("len(History) = %d, want 16 (no lost updates)", len(turns))
	}
}
