package main

import (
	"fmt"

	"github.com/metalagman/llmfarm/internal/config"
	"github.com/metalagman/llmfarm/internal/farm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configView is the printable form of config.Config.
type configView struct {
	APIKey          string `yaml:"api_key"`
	SubscriptionKey string `yaml:"subscription_key"`
	BaseURL         string `yaml:"base_url"`
	APIVersion      string `yaml:"api_version"`
	DeploymentName  string `yaml:"deployment_name,omitempty"`
	DefaultModel    string `yaml:"default_model"`
	Timeout         string `yaml:"timeout"`
	MaxRetries      int    `yaml:"max_retries"`
	Endpoint        string `yaml:"endpoint"`
}

func newConfigView(cfg config.Config) configView {
	red := cfg.Redacted()
	return configView{
		APIKey:          red.APIKey,
		SubscriptionKey: red.SubscriptionKey,
		BaseURL:         red.BaseURL,
		APIVersion:      red.APIVersion,
		DeploymentName:  red.DeploymentName,
		DefaultModel:    red.DefaultModel,
		Timeout:         red.Timeout.String(),
		MaxRetries:      red.MaxRetries,
		Endpoint:        farm.EndpointURL(red.BaseURL, red.DeploymentName),
	}
}

func configCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, root)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(map[string]configView{config.SectionKey: newConfigView(cfg)})
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
