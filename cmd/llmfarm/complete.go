package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/metalagman/llmfarm/internal/config"
	"github.com/metalagman/llmfarm/internal/farm"
	"github.com/metalagman/llmfarm/internal/lcmodel"
	"github.com/metalagman/llmfarm/internal/logging"
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms"
	"golang.org/x/sync/errgroup"
)

const (
	backendFarm      = "farm"
	backendLangChain = "langchain"
)

type completeOptions struct {
	system      string
	details     bool
	maxTokens   int
	markdown    bool
	concurrency int
	backend     string
}

var usageStyle = lipgloss.NewStyle().Faint(true)

func completeCmd(root *rootOptions) *cobra.Command {
	opts := completeOptions{}
	cmd := &cobra.Command{
		Use:   "complete [prompt...]",
		Short: "Send each prompt as a single-turn completion",
		Long: `Send each argument as its own single-turn completion. Prompts run
concurrently and replies are printed in argument order. With no arguments the
prompt is read from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompts := args
			if len(prompts) == 0 {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read prompt from stdin: %w", err)
				}
				prompts = []string{strings.TrimSpace(string(raw))}
			}

			client, err := newClient(cmd, root)
			if err != nil {
				return err
			}
			complete, err := opts.completer(client)
			if err != nil {
				return err
			}

			results := make([]farm.Completion, len(prompts))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(opts.concurrency, 1))
			for i, prompt := range prompts {
				g.Go(func() error {
					out, err := complete(ctx, farm.Request{
						UserText:     prompt,
						SystemPrompt: opts.system,
						MaxTokens:    opts.maxTokens,
					})
					if err != nil {
						if len(prompts) > 1 {
							return fmt.Errorf("prompt %d: %w", i+1, err)
						}
						return err
					}
					results[i] = out
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if logging.DebugEnabled() {
				opts.details = true
			}
			return opts.print(cmd.OutOrStdout(), results)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.system, "system", "", "system prompt (default \""+farm.DefaultSystemPrompt+"\")")
	f.BoolVar(&opts.details, "details", false, "print model, request id and token usage after each reply, always on with --debug")
	f.IntVar(&opts.maxTokens, "max-tokens", 0, "maximum completion tokens, 0 leaves it to the gateway")
	f.BoolVar(&opts.markdown, "markdown", false, "render replies as markdown")
	f.IntVar(&opts.concurrency, "concurrency", 4, "maximum prompts in flight")
	f.StringVar(&opts.backend, "backend", backendFarm, "client used for requests: farm or langchain")
	return cmd
}

type completeFunc func(context.Context, farm.Request) (farm.Completion, error)

func (o completeOptions) completer(client *farm.Client) (completeFunc, error) {
	switch o.backend {
	case backendFarm, "":
		return client.CompleteWithDetails, nil
	case backendLangChain:
		lc, err := lcmodel.New(client)
		if err != nil {
			return nil, err
		}
		return langChainComplete(lc), nil
	default:
		return nil, fmt.Errorf("unsupported backend %q (allowed: %s, %s)", o.backend, backendFarm, backendLangChain)
	}
}

func langChainComplete(m llms.Model) completeFunc {
	return func(ctx context.Context, req farm.Request) (farm.Completion, error) {
		if strings.TrimSpace(req.UserText) == "" {
			return farm.Completion{}, &config.ValidationError{Field: "user_text", Msg: "must not be empty", Err: farm.ErrEmptyUserText}
		}
		system := req.SystemPrompt
		if system == "" {
			system = farm.DefaultSystemPrompt
		}
		var callOpts []llms.CallOption
		if req.MaxTokens > 0 {
			callOpts = append(callOpts, llms.WithMaxTokens(req.MaxTokens))
		}
		resp, err := m.GenerateContent(ctx, []llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, system),
			llms.TextParts(llms.ChatMessageTypeHuman, req.UserText),
		}, callOpts...)
		if err != nil {
			return farm.Completion{}, err
		}
		if len(resp.Choices) == 0 {
			return farm.Completion{}, farm.ErrNoChoices
		}
		choice := resp.Choices[0]
		info := choice.GenerationInfo
		return farm.Completion{
			Content:      choice.Content,
			FinishReason: choice.StopReason,
			Model:        infoString(info, "Model"),
			RequestID:    infoString(info, "RequestID"),
			Usage: farm.Usage{
				PromptTokens:     infoInt(info, "PromptTokens"),
				CompletionTokens: infoInt(info, "CompletionTokens"),
				TotalTokens:      infoInt(info, "TotalTokens"),
			},
		}, nil
	}
}

func infoString(info map[string]any, key string) string {
	s, _ := info[key].(string)
	return s
}

func infoInt(info map[string]any, key string) int64 {
	n, _ := info[key].(int)
	return int64(n)
}

func (o completeOptions) print(w io.Writer, results []farm.Completion) error {
	var renderer *glamour.TermRenderer
	if o.markdown {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err != nil {
			return fmt.Errorf("create markdown renderer: %w", err)
		}
		renderer = r
	}

	for i, res := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "[%d]\n", i+1)
		}
		text := res.Content
		if renderer != nil {
			rendered, err := renderer.Render(text)
			if err != nil {
				return fmt.Errorf("render reply %d: %w", i+1, err)
			}
			text = strings.TrimRight(rendered, "\n")
		}
		fmt.Fprintln(w, text)
		if o.details {
			fmt.Fprintln(w, usageStyle.Render(usageLine(res)))
		}
	}
	return nil
}

func usageLine(c farm.Completion) string {
	return fmt.Sprintf("model=%s request_id=%s finish=%s tokens=%d/%d/%d",
		c.Model, c.RequestID, c.FinishReason,
		c.Usage.PromptTokens, c.Usage.CompletionTokens, c.Usage.TotalTokens)
}
