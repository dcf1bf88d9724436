package main

import (
	"fmt"

	"github.com/metalagman/llmfarm/internal/farm"
	"github.com/spf13/cobra"
)

func endpointCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "endpoint",
		Short: "Print the chat completions URL requests are sent to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd, root)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "url:         %s\n", client.Endpoint())
			fmt.Fprintf(w, "%s: %s\n", farm.APIVersionParam, client.Config().APIVersion)
			fmt.Fprintf(w, "deployment:  %s\n", client.Deployment())
			fmt.Fprintf(w, "header:      %s\n", farm.SubscriptionKeyHeader)
			return nil
		},
	}
}
