package main

import (
	"github.com/metalagman/llmfarm/internal/config"
	"github.com/metalagman/llmfarm/internal/farm"
	"github.com/spf13/cobra"
)

// farmFlags are explicit configuration values. A flag only takes part in
// resolution when it was set on the command line.
type farmFlags struct {
	apiKey          string
	subscriptionKey string
	baseURL         string
	apiVersion      string
	deployment      string
	model           string
	timeout         string
	maxRetries      int
}

func (f *farmFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.apiKey, "api-key", "", "Farm API key (prefer "+config.EnvAPIKey+")")
	pf.StringVar(&f.subscriptionKey, "subscription-key", "", "Farm subscription key, defaults to the API key")
	pf.StringVar(&f.baseURL, "base-url", "", "deployment or API root URL")
	pf.StringVar(&f.apiVersion, "api-version", "", "api-version query parameter")
	pf.StringVar(&f.deployment, "deployment", "", "deployment name appended to an API root URL")
	pf.StringVar(&f.model, "model", "", "model name sent in requests")
	pf.StringVar(&f.timeout, "timeout", "", "request timeout, seconds or a duration such as 45s")
	pf.IntVar(&f.maxRetries, "max-retries", 0, "retries for failed requests")
}

func (f *farmFlags) values(cmd *cobra.Command) (config.Values, error) {
	flags := cmd.Flags()
	var v config.Values
	str := func(name, val string) *string {
		if flags.Changed(name) {
			return config.String(val)
		}
		return nil
	}
	v.APIKey = str("api-key", f.apiKey)
	v.SubscriptionKey = str("subscription-key", f.subscriptionKey)
	v.BaseURL = str("base-url", f.baseURL)
	v.APIVersion = str("api-version", f.apiVersion)
	v.DeploymentName = str("deployment", f.deployment)
	v.DefaultModel = str("model", f.model)
	if flags.Changed("timeout") {
		d, err := config.ParseTimeout(f.timeout)
		if err != nil {
			return config.Values{}, &config.ValidationError{Field: "timeout", Msg: "invalid --timeout", Err: err}
		}
		v.Timeout = config.Duration(d)
	}
	if flags.Changed("max-retries") {
		v.MaxRetries = config.Int(f.maxRetries)
	}
	return v, nil
}

func resolveConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	explicit, err := opts.farm.values(cmd)
	if err != nil {
		return config.Config{}, err
	}
	env, err := config.LoadEnv(opts.envFiles...)
	if err != nil {
		return config.Config{}, err
	}
	return config.Resolve(explicit, env, opts.configPath)
}

func newClient(cmd *cobra.Command, opts *rootOptions) (*farm.Client, error) {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return nil, err
	}
	return farm.NewClient(cfg)
}
