// Package lcmodel adapts a Farm client to the langchaingo llms.Model
// interface.
package lcmodel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/metalagman/llmfarm/internal/farm"
	"github.com/tmc/langchaingo/llms"
)

var (
	// ErrClientRequired is returned when no Farm client is provided.
	ErrClientRequired = errors.New("lcmodel: farm client is required")
	// ErrToolsNotSupported is returned when tools or functions are requested.
	ErrToolsNotSupported = errors.New("lcmodel: tools are not supported by the farm adapter")
	// ErrUnsupportedPart is returned for non-text message parts.
	ErrUnsupportedPart = errors.New("lcmodel: unsupported content part")
)

// Model is a langchaingo model backed by a Farm deployment.
type Model struct {
	client *farm.Client
}

var _ llms.Model = (*Model)(nil)

// New wraps client.
func New(client *farm.Client) (*Model, error) {
	if client == nil {
		return nil, ErrClientRequired
	}
	return &Model{client: client}, nil
}

// Call sends prompt as a single human message.
func (m *Model) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

// GenerateContent sends messages and returns a single choice. Streaming
// callbacks, when set, receive the whole answer at once.
func (m *Model) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}
	if len(opts.Tools) > 0 || len(opts.Functions) > 0 {
		return nil, ErrToolsNotSupported
	}

	req := farm.ChatRequest{Model: opts.Model, MaxTokens: opts.MaxTokens}
	for _, mc := range messages {
		msg, err := convertMessage(mc)
		if err != nil {
			return nil, err
		}
		req.Messages = append(req.Messages, msg)
	}

	out, err := m.client.Chat(ctx, req)
	if err != nil {
		return nil, err
	}

	if opts.StreamingFunc != nil {
		if err := opts.StreamingFunc(ctx, []byte(out.Content)); err != nil {
			return nil, fmt.Errorf("lcmodel: streaming callback: %w", err)
		}
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content:    out.Content,
			StopReason: out.FinishReason,
			GenerationInfo: map[string]any{
				"Model":            out.Model,
				"RequestID":        out.RequestID,
				"PromptTokens":     int(out.Usage.PromptTokens),
				"CompletionTokens": int(out.Usage.CompletionTokens),
				"TotalTokens":      int(out.Usage.TotalTokens),
			},
		}},
	}, nil
}

func convertMessage(mc llms.MessageContent) (farm.Message, error) {
	role, err := convertRole(mc.Role)
	if err != nil {
		return farm.Message{}, err
	}
	texts := make([]string, 0, len(mc.Parts))
	for _, part := range mc.Parts {
		switch p := part.(type) {
		case llms.TextContent:
			texts = append(texts, p.Text)
		case llms.ToolCall, llms.ToolCallResponse:
			return farm.Message{}, ErrToolsNotSupported
		default:
			return farm.Message{}, fmt.Errorf("%w: %T", ErrUnsupportedPart, part)
		}
	}
	return farm.Message{Role: role, Content: strings.Join(texts, "\n")}, nil
}

func convertRole(role llms.ChatMessageType) (farm.Role, error) {
	switch role {
	case llms.ChatMessageTypeSystem:
		return farm.RoleSystem, nil
	case llms.ChatMessageTypeHuman, llms.ChatMessageTypeGeneric:
		return farm.RoleUser, nil
	case llms.ChatMessageTypeAI:
		return farm.RoleAssistant, nil
	default:
		return "", fmt.Errorf("lcmodel: unsupported role %q", role)
	}
}
