package config

import (
	"github.com/rs/zerolog/log"
)

// Resolve merges explicit values, the environment snapshot and the optional
// config file at path into an effective Config. Each field takes the first
// value present in that order, then the built-in default.
//
// The subscription key falls back to the resolved API key when neither an
// explicit value nor BOSCH_FARM_SUBSCRIPTION_KEY is set.
func Resolve(explicit Values, env Env, path string) (Config, error) {
	envVals, err := env.Values()
	if err != nil {
		return Config{}, err
	}

	var fileVals Values
	if path != "" {
		fileVals, err = LoadFile(path)
		if err != nil {
			return Config{}, err
		}
	}

	merged := explicit.Or(envVals).Or(fileVals).Or(Defaults())
	if merged.SubscriptionKey == nil {
		merged.SubscriptionKey = merged.APIKey
	}

	cfg := merged.Config()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	log.Debug().
		Str("base_url", cfg.BaseURL).
		Str("api_version", cfg.APIVersion).
		Str("default_model", cfg.DefaultModel).
		Dur("timeout", cfg.Timeout).
		Int("max_retries", cfg.MaxRetries).
		Msg("resolved farm config")

	return cfg, nil
}
