package contract

import (
	"fmt"
	"strings"
	"time"
)

// Intent is the discrete action category assigned to an inbound turn.
type Intent string

const (
	IntentSendEmail       Intent = "send_email"
	IntentScheduleMeeting Intent = "schedule_meeting"
	IntentInternetSearch  Intent = "internet_search"
	IntentNormalChat      Intent = "normal_chat"
)

// EmailSlots is the strict-schema record produced by the email extraction
// pipeline. Exactly one of RecipientEmail / RecipientName is non-nil after a
// successful extraction.
type EmailSlots struct {
	RecipientEmail *string `json:"recipient_email"`
	RecipientName  *string `json:"recipient_name"`
	Subject        string  `json:"subject"`
	Content        string  `json:"content"`
}

// HasExplicitAddress reports whether the request carried a literal address.
func (s EmailSlots) HasExplicitAddress() bool {
	return s.RecipientEmail != nil && strings.TrimSpace(*s.RecipientEmail) != ""
}

// HasRecipientName reports whether extraction yielded a bare name that still
// needs directory resolution.
func (s EmailSlots) HasRecipientName() bool {
	return s.RecipientName != nil && strings.TrimSpace(*s.RecipientName) != ""
}

// MeetingSlots is the strict-schema record produced by the meeting extraction
// pipeline. AttendeesName may hold several comma-separated names.
type MeetingSlots struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	AttendeesName   string `json:"attendees_name"`
	DurationMinutes int    `json:"duration_minutes"`
	SuggestedTime   string `json:"suggested_time"`
}

// SuggestedTimeLayout is the wire layout for MeetingSlots.SuggestedTime.
const SuggestedTimeLayout = "2006-01-02T15:04:05"

// Start parses SuggestedTime in the given location.
func (s MeetingSlots) Start(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(SuggestedTimeLayout, strings.TrimSpace(s.SuggestedTime), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: suggested_time %q: %v", ErrSchemaViolation, s.SuggestedTime, err)
	}
	return t, nil
}

// Attendees splits AttendeesName into trimmed individual names.
func (s MeetingSlots) Attendees() []string {
	parts := strings.Split(s.AttendeesName, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// PayloadType discriminates the ActionPayload union.
type PayloadType string

const (
	PayloadEmailPreview     PayloadType = "email_preview"
	PayloadMeetingScheduled PayloadType = "meeting_scheduled"
	PayloadSearchResult     PayloadType = "search_result"
	PayloadChatReply        PayloadType = "chat_reply"
	PayloadError            PayloadType = "error"
)

// EmailPreview is the ready-to-send email draft shown to the user.
type EmailPreview struct {
	Sender    string `json:"sender"`    // "Name <email>"
	Recipient string `json:"recipient"` // "Name <email>"
	Subject   string `json:"subject"`
	Content   string `json:"content"`
}

// MeetingNotice is the human-readable meeting preview. StartAt/EndAt carry the
// machine timestamps for the calendar request and stay off the wire.
type MeetingNotice struct {
	Title       string   `json:"title"`
	Time        string   `json:"time"`     // "2006-01-02 15:04"
	Duration    string   `json:"duration"` // "45 minutes"
	Attendees   []string `json:"attendees"`
	Description string   `json:"description"`

	StartAt time.Time `json:"-"`
	EndAt   time.Time `json:"-"`
}

// ActionPayload is the tagged union returned for every processed turn.
// Downstream consumers switch on Type; exactly the variant named by Type is
// populated.
type ActionPayload struct {
	Type    PayloadType    `json:"type"`
	Email   *EmailPreview  `json:"email,omitempty"`
	Meeting *MeetingNotice `json:"meeting,omitempty"`
	Message string         `json:"message,omitempty"`
}

func EmailPreviewPayload(p EmailPreview) ActionPayload {
	return ActionPayload{Type: PayloadEmailPreview, Email: &p}
}

func MeetingScheduledPayload(n MeetingNotice) ActionPayload {
	return ActionPayload{Type: PayloadMeetingScheduled, Meeting: &n}
}

func SearchResultPayload(answer string) ActionPayload {
	return ActionPayload{Type: PayloadSearchResult, Message: answer}
}

func ChatReplyPayload(reply string) ActionPayload {
	return ActionPayload{Type: PayloadChatReply, Message: reply}
}

func ErrorPayload(message string) ActionPayload {
	return ActionPayload{Type: PayloadError, Message: message}
}

// HistoryText is the assistant-visible text recorded in session history for
// this payload. Error payloads record their user-facing message so the audit
// trail stays accurate.
func (p ActionPayload) HistoryText() string {
	switch p.Type {
	case PayloadEmailPreview:
		if p.Email != nil {
			return fmt.Sprintf("Prepared an email to %s with subject %q.", p.Email.Recipient, p.Email.Subject)
		}
	case PayloadMeetingScheduled:
		if p.Meeting != nil {
			return fmt.Sprintf("Scheduled %q at %s for %s.", p.Meeting.Title, p.Meeting.Time, p.Meeting.Duration)
		}
	}
	return p.Message
}

// Profile is the operator's own identity, read-only to the pipeline.
type Profile struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Signature string `json:"signature"`
}

// Display renders the profile as an RFC-style address string.
func (p Profile) Display() string {
	return fmt.Sprintf("%s <%s>", p.Name, p.Email)
}

// EmailRequest is the payload handed to the email transport.
type EmailRequest struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Content   string `json:"content"`
}

// DeliveryResult reports one transport attempt.
type DeliveryResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MeetingRequest is the payload handed to the calendar service.
type MeetingRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Attendees   []string  `json:"attendees"`
}

// MeetingResult reports a created calendar event.
type MeetingResult struct {
	Success     bool   `json:"success"`
	MeetingLink string `json:"meeting_link,omitempty"`
	EventID     string `json:"event_id,omitempty"`
}

// SearchResult is one web search hit.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}
