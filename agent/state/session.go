package state

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sender tags who produced a turn.
type Sender string

const (
	SenderSystem    Sender = "system"
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

func (s Sender) Valid() bool {
	switch s {
	case SenderSystem, SenderUser, SenderAssistant:
		return true
	}
	return false
}

// Turn is one message exchanged in a session. Immutable once appended.
type Turn struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

// Session holds the ordered per-conversation history. Insertion order is
// significant and never reordered. Creation happens on first reference to an
// unknown identifier; the identifier survives history resets.
type Session struct {
	SessionID string    `json:"session_id"`
	Turns     []Turn    `json:"turns,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrInvalidSession = errors.New("session id is empty")
	ErrInvalidSender  = errors.New("invalid turn sender")
)

func NewSession(sessionID string, now time.Time) *Session {
	return &Session{
		SessionID: sessionID,
		UpdatedAt: now.UTC(),
	}
}

func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// Append records a turn at the end of history.
func (s *Session) Append(sender Sender, text string, now time.Time) error {
	if !sender.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSender, sender)
	}
	s.Turns = append(s.Turns, Turn{Sender: sender, Text: text})
	s.Touch(now)
	return nil
}

// ResetHistory wipes the turn list while keeping the session identifier.
// Invoked when a send_email intent is classified so email requests never
// inherit unrelated prior context.
func (s *Session) ResetHistory(now time.Time) {
	s.Turns = nil
	s.Touch(now)
}

// VisibleTurns returns user and assistant turns only, in order. System turns
// (injected document text) stay internal.
func (s *Session) VisibleTurns() []Turn {
	visible := make([]Turn, 0, len(s.Turns))
	for _, t := range s.Turns {
		if t.Sender == SenderUser || t.Sender == SenderAssistant {
			visible = append(visible, t)
		}
	}
	return visible
}

// HistoryText renders the full history as "sender: text" lines for prompt
// embedding. Empty history renders as an empty string.
func (s *Session) HistoryText() string {
	if s == nil || len(s.Turns) == 0 {
		return ""
	}
	lines := make([]string, 0, len(s.Turns))
	for _, t := range s.Turns {
		lines = append(lines, fmt.Sprintf("%s: %s", t.Sender, t.Text))
	}
	return strings.Join(lines, "\n")
}

// Clone deep-copies the session so stores can hand out isolated snapshots.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := &Session{
		SessionID: s.SessionID,
		UpdatedAt: s.UpdatedAt,
	}
	if len(s.Turns) > 0 {
		out.Turns = append(make([]Turn, 0, len(s.Turns)), s.Turns...)
	}
	return out
}

func (s *Session) Validate() error {
	if strings.TrimSpace(s.SessionID) == "" {
		return ErrInvalidSession
	}
	for i, t := range s.Turns {
		if !t.Sender.Valid() {
			return fmt.Errorf("%w: turn %d sender %q", ErrInvalidSender, i, t.Sender)
		}
	}
	return nil
}
