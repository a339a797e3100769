// Package directory implements the durable name -> email contact mapping.
// Two stores are provided: a JSON file for single-user setups and a Postgres
// table for shared deployments. Both survive process restarts.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	contractx "github.com/attache-labs/attache/agent/contract"
)

// FileStore keeps contacts in a JSON object file, created on first miss with
// the caller-supplied seed.
type FileStore struct {
	mu       sync.Mutex
	path     string
	contacts map[string]string
}

var _ contractx.Directory = (*FileStore)(nil)

// NewFileStore loads the contact file, writing the seed when it is absent.
func NewFileStore(path string, seed map[string]string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("contacts file path is required")
	}

	store := &FileStore{path: path}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &store.contacts); err != nil {
			return nil, fmt.Errorf("parse contacts file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		store.contacts = make(map[string]string, len(seed))
		for name, email := range seed {
			store.contacts[name] = email
		}
		if err := store.persist(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("read contacts file %s: %w", path, err)
	}

	if store.contacts == nil {
		store.contacts = make(map[string]string)
	}
	return store, nil
}

func (f *FileStore) LookupAll(ctx context.Context) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]string, len(f.contacts))
	for name, email := range f.contacts {
		out[name] = email
	}
	return out, nil
}

func (f *FileStore) Upsert(ctx context.Context, name, email string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return fmt.Errorf("%w: contact name and email are required", contractx.ErrValidation)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.contacts[name] = email
	return f.persist()
}

func (f *FileStore) persist() error {
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create contacts dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(f.contacts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal contacts: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write contacts file: %w", err)
	}
	return nil
}
