// Package resolver turns an extracted person name into a verified email
// address using the contact directory and the model gateway.
package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	contractx "github.com/attache-labs/attache/agent/contract"
	promptx "github.com/attache-labs/attache/agent/prompt"
)

const (
	// unknownSentinel is the literal the lookup prompt instructs the model
	// to return when no directory entry matches.
	unknownSentinel = "UNKNOWN"
	// maxAnswerLen bounds an acceptable answer. The directory answer is one
	// address; anything longer is explanatory prose and gets retried.
	maxAnswerLen = 64
	// maxAttempts caps the retry-until-short loop.
	maxAttempts = 3

	defaultCacheSize = 256
)

// Resolver resolves names against the directory, with partial and nickname
// matching delegated to the model. Successful resolutions are cached.
type Resolver struct {
	gw       contractx.Gateway
	dir      contractx.Directory
	template string
	cache    *lru.Cache[string, string]
}

func New(gw contractx.Gateway, dir contractx.Directory, prompts promptx.Set) (*Resolver, error) {
	cache, err := lru.New[string, string](defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create resolver cache: %w", err)
	}
	return &Resolver{
		gw:       gw,
		dir:      dir,
		template: prompts.ContactLookup,
		cache:    cache,
	}, nil
}

// Resolve returns the verified address for name. A missing contact surfaces
// as UnresolvedContactError — distinct from a transport failure and from a
// looked-up empty string.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: contact name is empty", contractx.ErrValidation)
	}

	if email, ok := r.cache.Get(name); ok {
		return email, nil
	}

	contacts, err := r.dir.LookupAll(ctx)
	if err != nil {
		return "", fmt.Errorf("load contact directory: %w", err)
	}
	serialized, err := json.Marshal(contacts)
	if err != nil {
		return "", fmt.Errorf("serialize contact directory: %w", err)
	}

	prompt := promptx.Render(r.template, map[string]string{
		"name":     name,
		"contacts": string(serialized),
	})

	for attempt := 0; attempt < maxAttempts; attempt++ {
		answer, err := r.gw.Complete(ctx, prompt, contractx.CompleteOptions{
			Temperature:     contractx.TemperatureZero(),
			MaxOutputTokens: 128,
		})
		if err != nil {
			return "", err
		}

		answer = strings.Trim(strings.TrimSpace(answer), `"`)
		if answer == unknownSentinel {
			return "", &contractx.UnresolvedContactError{Name: name}
		}
		// A verbose answer means the model emitted prose instead of a bare
		// address; retry rather than accept.
		if answer == "" || len(answer) > maxAnswerLen {
			log.Debug().Int("attempt", attempt).Int("len", len(answer)).Str("name", name).
				Msg("verbose directory answer, retrying")
			continue
		}

		r.cache.Add(name, answer)
		return answer, nil
	}

	return "", &contractx.UnresolvedContactError{Name: name}
}

// Forget drops the cached address for name so the next Resolve consults the
// directory again.
func (r *Resolver) Forget(name string) {
	r.cache.Remove(strings.TrimSpace(name))
}

// Directory returns a view of the underlying directory whose Upsert also
// invalidates the resolver cache for the updated name. Administrative
// corrections must go through this view or the resolver keeps serving the
// old address.
func (r *Resolver) Directory() contractx.Directory {
	return &invalidatingDirectory{r: r}
}

type invalidatingDirectory struct {
	r *Resolver
}

func (d *invalidatingDirectory) LookupAll(ctx context.Context) (map[string]string, error) {
	return d.r.dir.LookupAll(ctx)
}

func (d *invalidatingDirectory) Upsert(ctx context.Context, name, email string) error {
	if err := d.r.dir.Upsert(ctx, name, email); err != nil {
		return err
	}
	d.r.Forget(name)
	return nil
}
