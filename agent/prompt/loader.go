package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/intent.txt
	intentRaw string

	//go:embed template/email_draft.txt
	emailDraftRaw string

	//go:embed template/email_format.txt
	emailFormatRaw string

	//go:embed template/meeting_draft.txt
	meetingDraftRaw string

	//go:embed template/meeting_format.txt
	meetingFormatRaw string

	//go:embed template/contact_lookup.txt
	contactLookupRaw string

	//go:embed template/chat.txt
	chatRaw string

	//go:embed template/search_route.txt
	searchRouteRaw string

	//go:embed template/search_query.txt
	searchQueryRaw string

	//go:embed template/search_compose.txt
	searchComposeRaw string

	//go:embed template/docqa.txt
	docQARaw string
)

// Set holds the loaded prompt templates. The embed is compile-time; trimming
// is cheap, so Load is safe to call anywhere.
type Set struct {
	Intent        string
	EmailDraft    string
	EmailFormat   string
	MeetingDraft  string
	MeetingFormat string
	ContactLookup string
	Chat          string
	SearchRoute   string
	SearchQuery   string
	SearchCompose string
	DocQA         string
}

func Load() Set {
	return Set{
		Intent:        strings.TrimSpace(intentRaw),
		EmailDraft:    strings.TrimSpace(emailDraftRaw),
		EmailFormat:   strings.TrimSpace(emailFormatRaw),
		MeetingDraft:  strings.TrimSpace(meetingDraftRaw),
		MeetingFormat: strings.TrimSpace(meetingFormatRaw),
		ContactLookup: strings.TrimSpace(contactLookupRaw),
		Chat:          strings.TrimSpace(chatRaw),
		SearchRoute:   strings.TrimSpace(searchRouteRaw),
		SearchQuery:   strings.TrimSpace(searchQueryRaw),
		SearchCompose: strings.TrimSpace(searchComposeRaw),
		DocQA:         strings.TrimSpace(docQARaw),
	}
}
