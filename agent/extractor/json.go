package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	contractx "github.com/attache-labs/attache/agent/contract"
)

// decodeStrict parses the stage-2 output into the slot record. Markdown code
// fences are stripped before decoding; everything else must be valid JSON or
// the extraction fails as a schema violation.
func decodeStrict(raw string, out any) error {
	cleaned := stripCodeFence(raw)
	if cleaned == "" {
		return fmt.Errorf("%w: empty extraction output", contractx.ErrSchemaViolation)
	}
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("%w: %v", contractx.ErrSchemaViolation, err)
	}
	return nil
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
