package adkmodel

import (
	"context"
	"fmt"
	"iter"

	"github.com/metalagman/llmfarm/internal/farm"
	"google.golang.org/adk/model"
)

type farmModel struct {
	client *farm.Client
	name   string
}

var _ model.LLM = (*farmModel)(nil)

// New wraps client as an ADK model. The model name is the client's default
// model.
func New(client *farm.Client) (model.LLM, error) {
	if client == nil {
		return nil, ErrClientRequired
	}
	return &farmModel{
		client: client,
		name:   client.Config().DefaultModel,
	}, nil
}

func (m *farmModel) Name() string { return m.name }

// GenerateContent converts the ADK request into a Farm chat request and
// yields exactly one response or one error.
func (m *farmModel) GenerateContent(ctx context.Context, req *model.LLMRequest, _ bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		if req == nil {
			yield(nil, ErrRequestNil)
			return
		}
		chatReq, err := buildChatRequest(req)
		if err != nil {
			yield(nil, err)
			return
		}
		out, err := m.client.Chat(ctx, chatReq)
		if err != nil {
			yield(nil, fmt.Errorf("adkmodel: call failed: %w", err))
			return
		}
		yield(convertCompletion(out), nil)
	}
}
