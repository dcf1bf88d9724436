// Package config resolves the Farm gateway configuration from explicit values,
// the environment and an optional YAML or JSON file.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Built-in defaults.
const (
	DefaultAPIVersion = "2024-08-01-preview"
	DefaultModel      = "gpt-4o-mini"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3

	// SectionKey is the top-level key the file settings are nested under.
	SectionKey = "bosch_farm"
)

// Environment variable names.
const (
	EnvAPIKey          = "BOSCH_FARM_API_KEY"
	EnvSubscriptionKey = "BOSCH_FARM_SUBSCRIPTION_KEY"
	EnvBaseURL         = "BOSCH_FARM_BASE_URL"
	EnvAPIVersion      = "BOSCH_FARM_API_VERSION"
	EnvDeploymentName  = "BOSCH_FARM_DEPLOYMENT_NAME"
	EnvDefaultModel    = "BOSCH_FARM_DEFAULT_MODEL"
	EnvTimeout         = "BOSCH_FARM_TIMEOUT"
	EnvMaxRetries      = "BOSCH_FARM_MAX_RETRIES"
)

const redactedPlaceholder = "****"

// Config is the effective Farm configuration. It is built once by Resolve and
// treated as read-only afterwards.
type Config struct {
	APIKey          string        `json:"api_key"          yaml:"api_key"`
	SubscriptionKey string        `json:"subscription_key" yaml:"subscription_key"`
	BaseURL         string        `json:"base_url"         yaml:"base_url"`
	APIVersion      string        `json:"api_version"      yaml:"api_version"`
	DeploymentName  string        `json:"deployment_name"  yaml:"deployment_name,omitempty"`
	DefaultModel    string        `json:"default_model"    yaml:"default_model"`
	Timeout         time.Duration `json:"timeout"          yaml:"timeout"`
	MaxRetries      int           `json:"max_retries"      yaml:"max_retries"`
}

// Redacted returns a copy with both secrets masked, suitable for printing.
func (c Config) Redacted() Config {
	c.APIKey = redact(c.APIKey)
	c.SubscriptionKey = redact(c.SubscriptionKey)
	return c
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return redactedPlaceholder
	}
	return secret[:4] + redactedPlaceholder
}

// Values is a partial configuration. A nil field means the source did not
// provide that value.
type Values struct {
	APIKey          *string
	SubscriptionKey *string
	BaseURL         *string
	APIVersion      *string
	DeploymentName  *string
	DefaultModel    *string
	Timeout         *time.Duration
	MaxRetries      *int
}

// Defaults returns the built-in default values.
func Defaults() Values {
	return Values{
		APIVersion:   ptr(DefaultAPIVersion),
		DefaultModel: ptr(DefaultModel),
		Timeout:      ptr(DefaultTimeout),
		MaxRetries:   ptr(DefaultMaxRetries),
	}
}

// Or returns v with every unset field taken from fallback.
func (v Values) Or(fallback Values) Values {
	return Values{
		APIKey:          firstOf(v.APIKey, fallback.APIKey),
		SubscriptionKey: firstOf(v.SubscriptionKey, fallback.SubscriptionKey),
		BaseURL:         firstOf(v.BaseURL, fallback.BaseURL),
		APIVersion:      firstOf(v.APIVersion, fallback.APIVersion),
		DeploymentName:  firstOf(v.DeploymentName, fallback.DeploymentName),
		DefaultModel:    firstOf(v.DefaultModel, fallback.DefaultModel),
		Timeout:         firstOf(v.Timeout, fallback.Timeout),
		MaxRetries:      firstOf(v.MaxRetries, fallback.MaxRetries),
	}
}

// Config flattens the values, leaving zero values for unset fields.
func (v Values) Config() Config {
	return Config{
		APIKey:          valueOf(v.APIKey),
		SubscriptionKey: valueOf(v.SubscriptionKey),
		BaseURL:         valueOf(v.BaseURL),
		APIVersion:      valueOf(v.APIVersion),
		DeploymentName:  valueOf(v.DeploymentName),
		DefaultModel:    valueOf(v.DefaultModel),
		Timeout:         valueOf(v.Timeout),
		MaxRetries:      valueOf(v.MaxRetries),
	}
}

// String returns a pointer to s, for building explicit Values.
func String(s string) *string { return &s }

// Duration returns a pointer to d, for building explicit Values.
func Duration(d time.Duration) *time.Duration { return &d }

// Int returns a pointer to n, for building explicit Values.
func Int(n int) *int { return &n }

func ptr[T any](v T) *T { return &v }

func firstOf[T any](vals ...*T) *T {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func valueOf[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

// ParseTimeout accepts either a number of seconds ("30", "2.5") or a Go
// duration string ("45s", "1m").
func ParseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q", raw)
	}
	return d, nil
}
