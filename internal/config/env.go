package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Env is a snapshot of environment variables. Resolve reads from an Env
// rather than the process environment so callers control what it sees.
type Env map[string]string

// OSEnv snapshots the process environment.
func OSEnv() Env {
	env := Env{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			env[k] = v
		}
	}
	return env
}

// LoadEnv snapshots the process environment and fills variables it lacks from
// the given dotenv files. Files that do not exist are skipped; process
// variables always win over dotenv values.
func LoadEnv(dotenvPaths ...string) (Env, error) {
	env := OSEnv()
	for _, path := range dotenvPaths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, &FormatError{Path: path, Err: err}
		}
		for k, v := range values {
			if _, ok := env[k]; !ok {
				env[k] = v
			}
		}
	}
	return env, nil
}

func (e Env) lookup(key string) *string {
	v, ok := e[key]
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// Values extracts the Farm settings present in the environment.
func (e Env) Values() (Values, error) {
	vals := Values{
		APIKey:          e.lookup(EnvAPIKey),
		SubscriptionKey: e.lookup(EnvSubscriptionKey),
		BaseURL:         e.lookup(EnvBaseURL),
		APIVersion:      e.lookup(EnvAPIVersion),
		DeploymentName:  e.lookup(EnvDeploymentName),
		DefaultModel:    e.lookup(EnvDefaultModel),
	}
	if raw := e.lookup(EnvTimeout); raw != nil {
		d, err := ParseTimeout(*raw)
		if err != nil {
			return Values{}, &ValidationError{Field: EnvTimeout, Msg: "must be seconds or a duration", Err: err}
		}
		vals.Timeout = &d
	}
	if raw := e.lookup(EnvMaxRetries); raw != nil {
		n, err := strconv.Atoi(*raw)
		if err != nil {
			return Values{}, &ValidationError{Field: EnvMaxRetries, Msg: "must be an integer", Err: fmt.Errorf("parse %q: %w", *raw, err)}
		}
		vals.MaxRetries = &n
	}
	return vals, nil
}
