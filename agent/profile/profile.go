// Package profile loads the sender identity used when composing emails and
// meeting invites. The profile lives in a JSON file created with defaults on
// first run and is treated as read-only afterwards.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	contractx "github.com/attache-labs/attache/agent/contract"
)

// DefaultProfile is written when no profile file exists yet.
var DefaultProfile = contractx.Profile{
	Name:      "Assistant User",
	Email:     "user@example.com",
	Signature: "Best regards,\nAssistant User",
}

// FileSource reads the sender profile from a JSON file.
type FileSource struct {
	profile contractx.Profile
}

var _ contractx.ProfileSource = (*FileSource)(nil)

// NewFileSource loads the profile file, creating it with defaults when absent.
func NewFileSource(path string) (*FileSource, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("profile file path is required")
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var p contractx.Profile
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("parse profile file %s: %w", path, err)
		}
		return &FileSource{profile: p}, nil
	case errors.Is(err, os.ErrNotExist):
		if err := writeProfile(path, DefaultProfile); err != nil {
			return nil, err
		}
		return &FileSource{profile: DefaultProfile}, nil
	default:
		return nil, fmt.Errorf("read profile file %s: %w", path, err)
	}
}

func (f *FileSource) Get(ctx context.Context) (contractx.Profile, error) {
	return f.profile, nil
}

func writeProfile(path string, p contractx.Profile) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create profile dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write profile file %s: %w", path, err)
	}
	return nil
}
