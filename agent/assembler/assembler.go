// Package assembler merges extracted slots, resolved contacts, and the
// sender profile into final typed payloads.
package assembler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	contractx "github.com/attache-labs/attache/agent/contract"
)

// placeholderAttendee keeps meeting previews schedulable when an attendee
// cannot be resolved; the user sees the placeholder and corrects it.
const placeholderAttendee = "unknown@email.com"

// genericRecipientLabel labels recipients whose address was given explicitly
// in the request, so no directory name is known.
const genericRecipientLabel = "Recipient"

type Assembler struct {
	resolver contractx.Resolver
	profile  contractx.ProfileSource
}

func New(resolver contractx.Resolver, profile contractx.ProfileSource) *Assembler {
	return &Assembler{
		resolver: resolver,
		profile:  profile,
	}
}

// AssembleEmail builds the email_preview payload. An explicit extracted
// address is used directly; a bare name must resolve or the assembly fails
// with the unresolved-contact error naming it.
func (a *Assembler) AssembleEmail(ctx context.Context, slots contractx.EmailSlots) (contractx.ActionPayload, error) {
	profile, err := a.profile.Get(ctx)
	if err != nil {
		return contractx.ActionPayload{}, fmt.Errorf("load sender profile: %w", err)
	}

	var recipientName, recipientEmail string
	if slots.HasExplicitAddress() {
		recipientEmail = strings.TrimSpace(*slots.RecipientEmail)
		recipientName = genericRecipientLabel
	} else {
		if !slots.HasRecipientName() {
			return contractx.ActionPayload{}, fmt.Errorf("%w: no recipient in extracted slots", contractx.ErrValidation)
		}
		recipientName = strings.TrimSpace(*slots.RecipientName)
		recipientEmail, err = a.resolver.Resolve(ctx, recipientName)
		if err != nil {
			return contractx.ActionPayload{}, err
		}
	}

	content := strings.TrimRight(slots.Content, " \t\r\n")
	if sig := strings.TrimSpace(profile.Signature); sig != "" {
		content = content + "\n\n" + sig
	}

	return contractx.EmailPreviewPayload(contractx.EmailPreview{
		Sender:    profile.Display(),
		Recipient: fmt.Sprintf("%s <%s>", recipientName, recipientEmail),
		Subject:   slots.Subject,
		Content:   content,
	}), nil
}

// AssembleMeeting builds the meeting_scheduled payload. Attendees that fail
// to resolve are substituted with a visible placeholder rather than aborting,
// so the user still sees a schedulable preview they can correct.
func (a *Assembler) AssembleMeeting(ctx context.Context, slots contractx.MeetingSlots, ref time.Time) (contractx.ActionPayload, error) {
	profile, err := a.profile.Get(ctx)
	if err != nil {
		return contractx.ActionPayload{}, fmt.Errorf("load sender profile: %w", err)
	}

	start, err := slots.Start(ref.Location())
	if err != nil {
		return contractx.ActionPayload{}, err
	}
	end := start.Add(time.Duration(slots.DurationMinutes) * time.Minute)

	attendees := []string{profile.Email}
	for _, name := range slots.Attendees() {
		email, err := a.resolver.Resolve(ctx, name)
		if err != nil {
			if errors.Is(err, contractx.ErrContactUnresolved) {
				attendees = append(attendees, placeholderAttendee)
				continue
			}
			return contractx.ActionPayload{}, err
		}
		attendees = append(attendees, strings.ReplaceAll(email, `"`, ""))
	}

	return contractx.MeetingScheduledPayload(contractx.MeetingNotice{
		Title:       slots.Title,
		Time:        start.Format("2006-01-02 15:04"),
		Duration:    fmt.Sprintf("%d minutes", slots.DurationMinutes),
		Attendees:   attendees,
		Description: slots.Description,
		StartAt:     start,
		EndAt:       end,
	}), nil
}
