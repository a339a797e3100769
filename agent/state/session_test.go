package state

import (
	"errors"
	"testing"
	"time"
)

func TestSessionAppendKeepsOrder(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	s := NewSession("s1", now)

	if err := s.Append(SenderUser, "hello", now); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := s.Append(SenderAssistant, "hi there", now.Add(time.Second)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if len(s.Turns) != 2 {
		t.Fatalf("len(Turns) = %d, want 2", len(s.Turns))
	}
	if s.Turns[0].Sender != SenderUser || s.Turns[1].Sender != SenderAssistant {
		t.Fatalf("unexpected turn order: %#v", s.Turns)
	}
	if !s.UpdatedAt.Equal(now.Add(time.Second)) {
		t.Fatalf("UpdatedAt = %v, want %v", s.UpdatedAt, now.Add(time.Second))
	}
}

func TestSessionAppendRejectsUnknownSender(t *testing.T) {
	t.Parallel()

	s := NewSession("s1", time.Now())
	err := s.Append(Sender("bot"), "hello", time.Now())
	if !errors.Is(err, ErrInvalidSender) {
		t.Fatalf("Append() error = %v, want ErrInvalidSender", err)
	}
	if len(s.Turns) != 0 {
		t.Fatalf("invalid turn was recorded: %#v", s.Turns)
	}
}

func TestSessionResetHistoryKeepsIdentifier(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	s := NewSession("s1", now)
	_ = s.Append(SenderUser, "first", now)
	_ = s.Append(SenderAssistant, "second", now)

	s.ResetHistory(now.Add(time.Minute))

	if s.SessionID != "s1" {
		t.Fatalf("SessionID = %q, want s1", s.SessionID)
	}
	if len(s.Turns) != 0 {
		t.Fatalf("Turns not wiped: %#v", s.Turns)
	}
	if s.HistoryText() != "" {
		t.Fatalf("HistoryText() = %q, want empty", s.HistoryText())
	}
}

func TestSessionVisibleTurnsHidesSystem(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	s := NewSession("s1", now)
	_ = s.Append(SenderSystem, "document text", now)
	_ = s.Append(SenderUser, "question", now)
	_ = s.Append(SenderAssistant, "answer", now)

	visible := s.VisibleTurns()
	if len(visible) != 2 {
		t.Fatalf("len(VisibleTurns) = %d, want 2", len(visible))
	}
	for _, turn := range visible {
		if turn.Sender == SenderSystem {
			t.Fatalf("system turn leaked: %#v", turn)
		}
	}
}

func TestSessionHistoryText(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	s := NewSession("s1", now)
	_ = s.Append(SenderUser, "hello", now)
	_ = s.Append(SenderAssistant, "hi", now)

	want := "user: hello\nassistant: hi"
	if got := s.HistoryText(); got != want {
		t.Fatalf("HistoryText() = %q, want %q", got, want)
	}
}

func TestSessionCloneIsIsolated(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	s := NewSession("s1", now)
	_ = s.Append(SenderUser, "hello", now)

	clone := s.Clone()
	_ = clone.Append(SenderAssistant, "hi", now)

	if len(s.Turns) != 1 {
		t.Fatalf("original mutated through clone: %#v", s.Turns)
	}
	if len(clone.Turns) != 2 {
		t.Fatalf("clone missing appended turn: %#v", clone.Turns)
	}
}

func TestSessionValidate(t *testing.T) {
	t.Parallel()

	s := NewSession("  ", time.Now())
	if !errors.Is(s.Validate(), ErrInvalidSession) {
		t.Fatalf("Validate() = %v, want ErrInvalidSession", s.Validate())
	}

	s = NewSession("s1", time.Now())
	s.Turns = []Turn{{Sender: Sender("bogus"), Text: "x"}}
	if !errors.Is(s.Validate(), ErrInvalidSender) {
		t.Fatalf("Validate() = %v, want ErrInvalidSender", s.Validate())
	}
}
