package prompt

import (
	"strings"
	"testing"
)

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	t.Parallel()

	got := Render("Hello {name}, today is {day}.", map[string]string{
		"name": "Jeff",
		"day":  "Monday",
	})
	if got != "Hello Jeff, today is Monday." {
		t.Fatalf("Render() = %q", got)
	}
}

func TestRenderLeavesUnknownPlaceholders(t *testing.T) {
	t.Parallel()

	template := `Return JSON like {"subject": "..."} for {input}`
	got := Render(template, map[string]string{"input": "the request"})
	if !strings.Contains(got, `{"subject": "..."}`) {
		t.Fatalf("Render() mangled JSON braces: %q", got)
	}
	if !strings.Contains(got, "the request") {
		t.Fatalf("Render() missed substitution: %q", got)
	}
}

func TestLoadTemplatesNonEmpty(t *testing.T) {
	t.Parallel()

	set := Load()
	for name, tmpl := range map[string]string{
		"intent":         set.Intent,
		"email_draft":    set.EmailDraft,
		"email_format":   set.EmailFormat,
		"meeting_draft":  set.MeetingDraft,
		"meeting_format": set.MeetingFormat,
		"contact_lookup": set.ContactLookup,
		"chat":           set.Chat,
		"search_route":   set.SearchRoute,
		"search_query":   set.SearchQuery,
		"search_compose": set.SearchCompose,
		"docqa":          set.DocQA,
	} {
		if strings.TrimSpace(tmpl) == "" {
			t.Fatalf("template %s is empty", name)
		}
	}
}
