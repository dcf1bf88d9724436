package config

import (
	_ "embed"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

// ValidateSettings validates raw file settings against the JSON schema.
func ValidateSettings(settings map[string]any) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	documentLoader := gojsonschema.NewGoLoader(settings)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validate config schema: %w", err)
	}
	if result.Valid() {
		return nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, schemaErr := range result.Errors() {
		errs = append(errs, schemaErr.String())
	}
	sort.Strings(errs)

	return fmt.Errorf("config schema validation failed: %s", strings.Join(errs, "; "))
}

// Validate checks that the required values are present and in range.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return invalid("api_key", "%s is required, set it as an environment variable or pass it explicitly", EnvAPIKey)
	}
	if c.SubscriptionKey == "" {
		return invalid("subscription_key", "%s is required, set it as an environment variable or pass it explicitly", EnvSubscriptionKey)
	}
	if c.BaseURL == "" {
		return invalid("base_url", "%s is required", EnvBaseURL)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return &ValidationError{Field: "base_url", Msg: "not a valid URL", Err: err}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("base_url", "must be an absolute http(s) URL, got %q", c.BaseURL)
	}
	if c.APIVersion == "" {
		return invalid("api_version", "must not be empty")
	}
	if c.Timeout <= 0 {
		return invalid("timeout", "must be positive")
	}
	if c.MaxRetries < 0 {
		return invalid("max_retries", "must be non-negative")
	}
	return nil
}
