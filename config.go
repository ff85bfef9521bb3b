package sdkgate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fogfish/opts"
)

// Mode selects the execution style of a client handle. It is fixed at
// handle construction; there is no fallback between modes.
type Mode int

const (
	// ModeSync handles execute requests on the calling goroutine and block
	// for the full round trip.
	ModeSync Mode = iota
	// ModeAsync handles return a Future immediately; completion is observed
	// through it.
	ModeAsync
)

func (m Mode) String() string {
	switch m {
	case ModeSync:
		return "sync"
	case ModeAsync:
		return "async"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Config describes a client handle: where to connect, as whom, how long a
// call may take, and in which execution mode. It is immutable once a
// handle has been built from it.
type Config struct {
	// BaseURL overrides the SDK's default endpoint. Empty means default.
	BaseURL string

	// APIKey is the credential presented to the provider.
	APIKey string

	// Organization scopes the credential when the provider supports it.
	Organization string

	// Timeout bounds each individual call. Zero means the SDK default.
	Timeout time.Duration

	// Mode fixes the execution style for the handle's lifetime.
	Mode Mode
}

var (
	// WithBaseURL points the handle at a non-default endpoint.
	WithBaseURL = opts.ForName[Config, string]("BaseURL")
	// WithAPIKey sets the credential.
	WithAPIKey = opts.ForName[Config, string]("APIKey")
	// WithOrganization scopes the credential to an organization.
	WithOrganization = opts.ForName[Config, string]("Organization")
	// WithTimeout bounds each call issued through the handle.
	WithTimeout = opts.ForName[Config, time.Duration]("Timeout")
	// WithMode selects sync or async execution.
	WithMode = opts.ForName[Config, Mode]("Mode")
)

// NewConfig builds a Config from functional options.
func NewConfig(options ...opts.Option[Config]) (Config, error) {
	var cfg Config
	if err := opts.Apply(&cfg, options); err != nil {
		return Config{}, NewErrorf(KindInvalidRequest, "invalid configuration: %v", err)
	}
	return cfg, nil
}

// configKeys are the only keys ConfigFromMap recognizes.
var configKeys = map[string]struct{}{
	"base_url":     {},
	"api_key":      {},
	"organization": {},
	"timeout":      {},
	"mode":         {},
}

// ConfigFromMap builds a Config from a flat key/value map, e.g. one read
// from a settings file. Unrecognized keys are rejected, never ignored.
func ConfigFromMap(values map[string]string) (Config, error) {
	var cfg Config
	for key, value := range values {
		if _, ok := configKeys[key]; !ok {
			return Config{}, NewErrorf(KindInvalidRequest, "unrecognized configuration key %q", key)
		}
		switch key {
		case "base_url":
			cfg.BaseURL = value
		case "api_key":
			cfg.APIKey = value
		case "organization":
			cfg.Organization = value
		case "timeout":
			d, err := time.ParseDuration(value)
			if err != nil {
				return Config{}, NewErrorf(KindInvalidRequest, "invalid timeout %q: %v", value, err)
			}
			cfg.Timeout = d
		case "mode":
			switch strings.ToLower(value) {
			case "sync":
				cfg.Mode = ModeSync
			case "async":
				cfg.Mode = ModeAsync
			default:
				return Config{}, NewErrorf(KindInvalidRequest, "invalid mode %q", value)
			}
		}
	}
	return cfg, nil
}

// ConfigFromEnv reads the credential and endpoint from the conventional
// environment variables. The API key is required.
func ConfigFromEnv(options ...opts.Option[Config]) (Config, error) {
	cfg := Config{
		APIKey:       os.Getenv("OPENAI_API_KEY"),
		BaseURL:      os.Getenv("OPENAI_BASE_URL"),
		Organization: os.Getenv("OPENAI_ORG_ID"),
	}
	if err := opts.Apply(&cfg, options); err != nil {
		return Config{}, NewErrorf(KindInvalidRequest, "invalid configuration: %v", err)
	}
	if cfg.APIKey == "" {
		return Config{}, NewError(KindAuthenticationFailed, "OPENAI_API_KEY is required")
	}
	return cfg, nil
}

// Fingerprint identifies a handle's semantically relevant configuration:
// endpoint, credential identity, and mode. The credential is hashed so the
// fingerprint can be logged and used as a map key without exposing it.
// Per-call timeout is deliberately excluded: it does not change which
// connection the handle represents.
func (c Config) Fingerprint() string {
	sum := sha256.Sum256([]byte(c.APIKey))
	return fmt.Sprintf("%s|%s|%s|%s", c.Mode, c.BaseURL, c.Organization, hex.EncodeToString(sum[:8]))
}
