package adkmodel

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/metalagman/llmfarm/internal/config"
	"github.com/metalagman/llmfarm/internal/farm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Model     string        `json:"model"`
	Messages  []wireMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type recorder struct {
	mu   sync.Mutex
	reqs []wireRequest
}

func (r *recorder) last(t *testing.T) wireRequest {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.reqs)
	return r.reqs[len(r.reqs)-1]
}

func newTestModel(t *testing.T, status int, body string) (model.LLM, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var req wireRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rec.mu.Lock()
		rec.reqs = append(rec.reqs, req)
		rec.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	client, err := farm.NewClient(config.Config{
		APIKey:          "test-key",
		SubscriptionKey: "test-key",
		BaseURL:         srv.URL + "/api/openai/deployments/dep",
		APIVersion:      config.DefaultAPIVersion,
		DefaultModel:    "gpt-4o-mini",
		Timeout:         5 * time.Second,
		MaxRetries:      0,
	})
	require.NoError(t, err)

	m, err := New(client)
	require.NoError(t, err)
	return m, rec
}

const okBody = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1,
	"model": "gpt-4o-mini-2024-07-18",
	"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "pong"}}],
	"usage": {"prompt_tokens": 7, "completion_tokens": 1, "total_tokens": 8}
}`

func collect(t *testing.T, m model.LLM, req *model.LLMRequest) ([]*model.LLMResponse, error) {
	t.Helper()
	var out []*model.LLMResponse
	for resp, err := range m.GenerateContent(context.Background(), req, false) {
		if err != nil {
			return out, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func TestNew_RequiresClient(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrClientRequired)
}

func TestModel_Name(t *testing.T) {
	m, _ := newTestModel(t, http.StatusOK, okBody)
	assert.Equal(t, "gpt-4o-mini", m.Name())
}

func TestGenerateContent_ConvertsConversation(t *testing.T) {
	m, rec := newTestModel(t, http.StatusOK, okBody)

	req := &model.LLMRequest{
		Model: "gpt-4o",
		Contents: []*genai.Content{
			genai.NewContentFromText("ping", genai.RoleUser),
			genai.NewContentFromText("pong", genai.RoleModel),
			{Role: string(genai.RoleUser), Parts: []*genai.Part{{Text: "again"}, {Text: "please"}}},
		},
		Config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText("be brief", genai.RoleUser),
			MaxOutputTokens:   32,
		},
	}

	resps, err := collect(t, m, req)
	require.NoError(t, err)
	require.Len(t, resps, 1)

	want := wireRequest{
		Model:     "gpt-4o",
		MaxTokens: 32,
		Messages: []wireMessage{
			{Role: "system", Content: "be brief"},
			{Role: "user", Content: "ping"},
			{Role: "assistant", Content: "pong"},
			{Role: "user", Content: "again\nplease"},
		},
	}
	if diff := cmp.Diff(want, rec.last(t)); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateContent_Response(t *testing.T) {
	m, _ := newTestModel(t, http.StatusOK, okBody)

	resps, err := collect(t, m, &model.LLMRequest{
		Contents: []*genai.Content{genai.NewContentFromText("ping", genai.RoleUser)},
	})
	require.NoError(t, err)
	require.Len(t, resps, 1)

	got := resps[0]
	require.NotNil(t, got.Content)
	assert.Equal(t, string(genai.RoleModel), got.Content.Role)
	require.Len(t, got.Content.Parts, 1)
	assert.Equal(t, "pong", got.Content.Parts[0].Text)
	assert.True(t, got.TurnComplete)
	assert.Equal(t, genai.FinishReasonStop, got.FinishReason)

	wantUsage := &genai.GenerateContentResponseUsageMetadata{
		PromptTokenCount:     7,
		CandidatesTokenCount: 1,
		TotalTokenCount:      8,
	}
	if diff := cmp.Diff(wantUsage, got.UsageMetadata); diff != "" {
		t.Fatalf("usage mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "gpt-4o-mini-2024-07-18", got.CustomMetadata["farm_model"])
	assert.Equal(t, "chatcmpl-1", got.CustomMetadata["farm_request_id"])
}

func TestGenerateContent_DefaultModel(t *testing.T) {
	m, rec := newTestModel(t, http.StatusOK, okBody)

	_, err := collect(t, m, &model.LLMRequest{
		Contents: []*genai.Content{genai.NewContentFromText("ping", genai.RoleUser)},
	})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", rec.last(t).Model)
}

func TestGenerateContent_StreamYieldsSingleResponse(t *testing.T) {
	m, _ := newTestModel(t, http.StatusOK, okBody)

	var n int
	for resp, err := range m.GenerateContent(context.Background(), &model.LLMRequest{
		Contents: []*genai.Content{genai.NewContentFromText("ping", genai.RoleUser)},
	}, true) {
		require.NoError(t, err)
		assert.False(t, resp.Partial)
		n++
	}
	assert.Equal(t, 1, n)
}

func TestGenerateContent_Errors(t *testing.T) {
	m, rec := newTestModel(t, http.StatusOK, okBody)

	tests := []struct {
		name string
		req  *model.LLMRequest
		want error
	}{
		{name: "nil request", req: nil, want: ErrRequestNil},
		{name: "no contents", req: &model.LLMRequest{}, want: ErrNoContents},
		{
			name: "only system instruction",
			req: &model.LLMRequest{Config: &genai.GenerateContentConfig{
				SystemInstruction: genai.NewContentFromText("sys", genai.RoleUser),
			}},
			want: ErrNoContents,
		},
		{
			name: "tool declarations",
			req: &model.LLMRequest{
				Contents: []*genai.Content{genai.NewContentFromText("ping", genai.RoleUser)},
				Config:   &genai.GenerateContentConfig{Tools: []*genai.Tool{{}}},
			},
			want: ErrToolsNotSupported,
		},
		{
			name: "function call part",
			req: &model.LLMRequest{Contents: []*genai.Content{{
				Role:  string(genai.RoleModel),
				Parts: []*genai.Part{{FunctionCall: &genai.FunctionCall{Name: "lookup"}}},
			}}},
			want: ErrToolsNotSupported,
		},
		{
			name: "inline data",
			req: &model.LLMRequest{Contents: []*genai.Content{{
				Role:  string(genai.RoleUser),
				Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte{1}}}},
			}}},
			want: ErrUnsupportedPart,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := collect(t, m, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Empty(t, rec.reqs, "invalid requests must not reach the gateway")
}

func TestGenerateContent_UpstreamError(t *testing.T) {
	m, _ := newTestModel(t, http.StatusUnauthorized, `{"error": {"message": "bad key", "type": "auth"}}`)

	_, err := collect(t, m, &model.LLMRequest{
		Contents: []*genai.Content{genai.NewContentFromText("ping", genai.RoleUser)},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, farm.ErrUpstream)

	var upstream *farm.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
}

func TestFinishReason(t *testing.T) {
	tests := map[string]genai.FinishReason{
		"stop":           genai.FinishReasonStop,
		"length":         genai.FinishReasonMaxTokens,
		"content_filter": genai.FinishReasonSafety,
		"tool_calls":     genai.FinishReasonOther,
		"":               genai.FinishReasonUnspecified,
	}
	for in, want := range tests {
		assert.Equal(t, want, finishReason(in), "reason %q", in)
	}
}
