package main

import (
	"fmt"
	"strings"

	"github.com/metalagman/llmfarm/internal/adkexec"
	"github.com/metalagman/llmfarm/internal/adkmodel"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"google.golang.org/adk/session"
)

func agentCmd(root *rootOptions) *cobra.Command {
	var (
		name        string
		instruction string
		sessionID   string
	)
	cmd := &cobra.Command{
		Use:   "agent <message...>",
		Short: "Run one turn of an ADK agent backed by the Farm deployment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd, root)
			if err != nil {
				return err
			}
			llm, err := adkmodel.New(client)
			if err != nil {
				return err
			}
			a, err := adkexec.NewAgent(llm, adkexec.AgentConfig{
				Name:        name,
				Description: "Assistant answering through the Farm gateway",
				Instruction: instruction,
			})
			if err != nil {
				return err
			}

			res, err := adkexec.Run(cmd.Context(), adkexec.RunInput{
				SessionID: sessionID,
				Agent:     a,
				Message:   strings.Join(args, " "),
				OnEvent: func(ev *session.Event) {
					log.Debug().Str("author", ev.Author).Str("event_id", ev.ID).Msg("agent event")
				},
			})
			if err != nil {
				return err
			}
			log.Debug().Str("session_id", res.SessionID).Int("events", res.Events).Msg("agent turn complete")
			fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "farm_assistant", "agent name")
	cmd.Flags().StringVar(&instruction, "instruction", "You are a helpful assistant.", "agent instruction")
	cmd.Flags().StringVar(&sessionID, "session-id", "", "session id, random when empty")
	return cmd
}
