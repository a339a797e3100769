package llm

import (
	"errors"
	"testing"
	"time"

	contractx "github.com/attache-labs/attache/agent/contract"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := Config{APIKey: "k", Model: "gpt-4o-mini", MaxRetries: 2}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	cases := []struct {
		name string
		cfg  Config
	}{
		{"missing api key", Config{Model: "m"}},
		{"missing model", Config{APIKey: "k"}},
		{"negative retries", Config{APIKey: "k", Model: "m", MaxRetries: -1}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if err := tc.cfg.Validate(); !errors.Is(err, contractx.ErrValidation) {
				t.Fatalf("Validate() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestConfigOpenRouterMapping(t *testing.T) {
	t.Parallel()

	cfg := Config{
		BaseURL:            "  https://openrouter.ai/api/v1  ",
		APIKey:             " key ",
		Model:              " gpt-4o-mini ",
		MaxCompletionToken: 500,
		Temperature:        0.3,
		Timeout:            20 * time.Second,
		SiteName:           "attache",
	}

	mapped := cfg.OpenRouter()
	if mapped.BaseURL != "https://openrouter.ai/api/v1" || mapped.APIKey != "key" || mapped.Model != "gpt-4o-mini" {
		t.Fatalf("mapped config not trimmed: %#v", mapped)
	}
	if mapped.MaxCompletionToken != 500 || mapped.Temperature != 0.3 || mapped.Timeout != 20*time.Second {
		t.Fatalf("mapped config lost values: %#v", mapped)
	}
}

func TestNewGatewayRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	if _, err := NewGateway(Config{}); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("NewGateway() error = %v, want ErrValidation", err)
	}
}
