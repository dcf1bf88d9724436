package adkexec

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/metalagman/llmfarm/internal/adkmodel"
	"github.com/metalagman/llmfarm/internal/config"
	"github.com/metalagman/llmfarm/internal/farm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/adk/model"
	"google.golang.org/adk/session"
)

func newFarmModel(t *testing.T, reply string, calls *atomic.Int32) model.LLM {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-agent",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
			"usage": map[string]any{"prompt_tokens": 3, "completion_tokens": 2, "total_tokens": 5},
		})
	}))
	t.Cleanup(srv.Close)

	client, err := farm.NewClient(config.Config{
		APIKey:          "k",
		SubscriptionKey: "k",
		BaseURL:         srv.URL + "/deployments/dep",
		APIVersion:      config.DefaultAPIVersion,
		DefaultModel:    "gpt-4o-mini",
		Timeout:         5 * time.Second,
	})
	require.NoError(t, err)

	llm, err := adkmodel.New(client)
	require.NoError(t, err)
	return llm
}

func TestRun(t *testing.T) {
	var calls atomic.Int32
	a, err := NewAgent(newFarmModel(t, "hello from farm", &calls), AgentConfig{Instruction: "Answer briefly."})
	require.NoError(t, err)

	var seen int
	res, err := Run(context.Background(), RunInput{
		Agent:     a,
		Message:   "hi",
		SessionID: "fixed-session",
		OnEvent:   func(*session.Event) { seen++ },
	})
	require.NoError(t, err)

	assert.Equal(t, "hello from farm", res.Text)
	assert.Equal(t, "fixed-session", res.SessionID)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, res.Events, seen)
	assert.GreaterOrEqual(t, res.Events, 1)
}

func TestRun_GeneratesSessionID(t *testing.T) {
	var calls atomic.Int32
	a, err := NewAgent(newFarmModel(t, "ok", &calls), AgentConfig{})
	require.NoError(t, err)

	first, err := Run(context.Background(), RunInput{Agent: a, Message: "one"})
	require.NoError(t, err)
	second, err := Run(context.Background(), RunInput{Agent: a, Message: "two"})
	require.NoError(t, err)

	assert.NotEmpty(t, first.SessionID)
	assert.NotEqual(t, first.SessionID, second.SessionID)
}

func TestRun_InvalidInput(t *testing.T) {
	var calls atomic.Int32
	a, err := NewAgent(newFarmModel(t, "ok", &calls), AgentConfig{})
	require.NoError(t, err)

	_, err = Run(context.Background(), RunInput{Message: "hi"})
	assert.ErrorIs(t, err, ErrAgentRequired)

	_, err = Run(context.Background(), RunInput{Agent: a, Message: "  "})
	assert.ErrorIs(t, err, ErrEmptyMessage)

	assert.Zero(t, calls.Load())
}

func TestNewAgent_RequiresModel(t *testing.T) {
	_, err := NewAgent(nil, AgentConfig{})
	assert.Error(t, err)
}
