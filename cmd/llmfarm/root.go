package main

import (
	"fmt"
	"os"

	"github.com/metalagman/llmfarm/internal/logging"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	envFiles   []string
	debug      bool
	logJSON    bool
	farm       farmFlags
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "llmfarm",
		Short: "llmfarm talks to an OpenAI-compatible Farm gateway deployment",
		Long: `llmfarm sends chat completions through a Farm gateway deployment.

Configuration is resolved per field from command-line flags, then BOSCH_FARM_*
environment variables (including any --env-file), then the --config file,
then built-in defaults. Secrets are only read from flags or the environment.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(logging.Options{Debug: opts.debug, JSON: opts.logJSON, Out: cmd.ErrOrStderr()})
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "YAML or JSON config file with non-secret settings")
	pf.StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, "dotenv files to read when variables are not already set")
	pf.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	pf.BoolVar(&opts.logJSON, "log-json", false, "write logs as JSON lines")
	opts.farm.register(cmd)

	cmd.AddCommand(completeCmd(opts))
	cmd.AddCommand(configCmd(opts))
	cmd.AddCommand(endpointCmd(opts))
	cmd.AddCommand(agentCmd(opts))
	return cmd
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
}
