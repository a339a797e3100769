package gcalendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	contractx "github.com/attache-labs/attache/agent/contract"
)

type Config struct {
	CredentialsPath string `split_words:"true" required:"true"`
	TokenPath       string `split_words:"true" default:"token.json"`
	CalendarID      string `split_words:"true" default:"primary"`
	Timezone        string `split_words:"true" default:"America/Chicago"`
}

// Client wraps the Google Calendar API for meeting creation.
type Client struct {
	service    *calendar.Service
	calendarID string
	timezone   string
}

// NewClient builds a calendar client from a credentials JSON file. Service
// account credentials are used directly; OAuth desktop credentials require a
// previously issued token file.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	data, err := os.ReadFile(cfg.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("read calendar credentials: %w", err)
	}

	svc, err := newService(ctx, data, cfg.TokenPath)
	if err != nil {
		return nil, err
	}

	calendarID := strings.TrimSpace(cfg.CalendarID)
	if calendarID == "" {
		calendarID = "primary"
	}
	timezone := strings.TrimSpace(cfg.Timezone)
	if timezone == "" {
		timezone = "UTC"
	}

	return &Client{service: svc, calendarID: calendarID, timezone: timezone}, nil
}

func newService(ctx context.Context, credentialsJSON []byte, tokenPath string) (*calendar.Service, error) {
	if jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, calendar.CalendarScope); err == nil {
		svc, svcErr := calendar.NewService(ctx, option.WithTokenSource(jwtConfig.TokenSource(ctx)))
		if svcErr != nil {
			return nil, fmt.Errorf("create calendar service: %w", svcErr)
		}
		return svc, nil
	}

	var oauthCreds struct {
		Installed struct {
			ClientID     string `json:"client_id"`
			ClientSecret string `json:"client_secret"`
		} `json:"installed"`
	}
	if err := json.Unmarshal(credentialsJSON, &oauthCreds); err != nil {
		return nil, fmt.Errorf("unsupported credentials format: %w", err)
	}
	if oauthCreds.Installed.ClientID == "" {
		return nil, errors.New("credentials are neither service account nor oauth installed-app")
	}

	oauthConfig := &oauth2.Config{
		ClientID:     oauthCreds.Installed.ClientID,
		ClientSecret: oauthCreds.Installed.ClientSecret,
		Scopes:       []string{calendar.CalendarScope},
		Endpoint:     google.Endpoint,
	}

	tokenData, err := os.ReadFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("oauth credentials require a token file at %s: %w", tokenPath, err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(tokenData, &tok); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}

	svc, err := calendar.NewService(ctx, option.WithTokenSource(oauthConfig.TokenSource(ctx, &tok)))
	if err != nil {
		return nil, fmt.Errorf("create calendar service from oauth token: %w", err)
	}
	return svc, nil
}

// CreateEvent inserts the meeting with a conference link and invites for each
// attendee.
func (c *Client) CreateEvent(ctx context.Context, req contractx.MeetingRequest) (contractx.MeetingResult, error) {
	attendees := make([]*calendar.EventAttendee, 0, len(req.Attendees))
	for _, email := range req.Attendees {
		if email = strings.TrimSpace(email); email != "" {
			attendees = append(attendees, &calendar.EventAttendee{Email: email})
		}
	}

	event := &calendar.Event{
		Summary:     req.Title,
		Description: req.Description,
		Start: &calendar.EventDateTime{
			DateTime: req.StartTime.Format(time.RFC3339),
			TimeZone: c.timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: req.EndTime.Format(time.RFC3339),
			TimeZone: c.timezone,
		},
		Attendees: attendees,
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: fmt.Sprintf("meeting_%s", req.StartTime.Format("20060102_150405")),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
	}

	created, err := c.service.Events.Insert(c.calendarID, event).
		ConferenceDataVersion(1).
		Context(ctx).
		Do()
	if err != nil {
		return contractx.MeetingResult{Success: false}, fmt.Errorf("create calendar event: %w", err)
	}

	return contractx.MeetingResult{
		Success:     true,
		MeetingLink: created.HangoutLink,
		EventID:     created.Id,
	}, nil
}
