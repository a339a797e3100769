package extractor

import (
	"context"
	"fmt"
	"time"

	contractx "github.com/attache-labs/attache/agent/contract"
	promptx "github.com/attache-labs/attache/agent/prompt"
)

// ExtractMeeting runs the meeting two-stage chain. The reference date context
// is injected into both stages so relative expressions resolve against a
// stable "today" rather than the model's training cutoff.
func (e *Extractor) ExtractMeeting(ctx context.Context, input string, ref time.Time) (contractx.MeetingSlots, error) {
	dateContext := Context(ref)

	draft, err := e.complete(ctx, promptx.Render(e.prompts.MeetingDraft, map[string]string{
		"input":        input,
		"date_context": dateContext,
	}))
	if err != nil {
		return contractx.MeetingSlots{}, err
	}

	formatted, err := e.complete(ctx, promptx.Render(e.prompts.MeetingFormat, map[string]string{
		"draft":        draft,
		"input":        input,
		"date_context": dateContext,
	}))
	if err != nil {
		return contractx.MeetingSlots{}, err
	}

	var slots contractx.MeetingSlots
	if err := decodeStrict(formatted, &slots); err != nil {
		return contractx.MeetingSlots{}, err
	}
	if err := validateMeetingSlots(slots, ref); err != nil {
		return contractx.MeetingSlots{}, err
	}
	return slots, nil
}

func validateMeetingSlots(s contractx.MeetingSlots, ref time.Time) error {
	if s.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration_minutes must be positive, got %d", contractx.ErrSchemaViolation, s.DurationMinutes)
	}
	if len(s.Attendees()) == 0 {
		return fmt.Errorf("%w: attendees_name is empty", contractx.ErrSchemaViolation)
	}
	start, err := s.Start(ref.Location())
	if err != nil {
		return err
	}
	if !start.After(ref) {
		return fmt.Errorf("%w: suggested_time %s is not in the future", contractx.ErrSchemaViolation, s.SuggestedTime)
	}
	return nil
}
