package contract

import "context"

// CompleteOptions tune one Gateway call. A nil Temperature keeps the
// backend's configured default; MaxRetries counts retries after the first
// attempt.
type CompleteOptions struct {
	Temperature     *float32
	MaxOutputTokens int
	MaxRetries      int
}

// TemperatureZero pins sampling for calls that must be idempotent.
func TemperatureZero() *float32 {
	t := float32(0)
	return &t
}

// Gateway is the opaque text-completion capability every model-backed
// component depends on. Transport failures surface as ErrModelInvoke, never
// as an empty string.
type Gateway interface {
	Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error)
}

// Resolver verifies a person name against the contact directory. A missing
// contact surfaces as UnresolvedContactError.
type Resolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// Directory is the durable name -> email contact mapping.
type Directory interface {
	LookupAll(ctx context.Context) (map[string]string, error)
	Upsert(ctx context.Context, name, email string) error
}

// ProfileSource yields the operator's sender profile. Read-only to the core;
// mutation happens through an external administrative path.
type ProfileSource interface {
	Get(ctx context.Context) (Profile, error)
}

// EmailTransport delivers an assembled email. The pipeline only constructs
// the request; delivery happens outside the core.
type EmailTransport interface {
	Send(ctx context.Context, req EmailRequest) (DeliveryResult, error)
}

// Calendar creates calendar events from assembled meeting requests.
type Calendar interface {
	CreateEvent(ctx context.Context, req MeetingRequest) (MeetingResult, error)
}

// WebSearcher retrieves raw search hits for a reformatted query.
type WebSearcher interface {
	Results(ctx context.Context, query string, count int) ([]SearchResult, error)
}
