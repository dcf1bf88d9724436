package farm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/metalagman/llmfarm/internal/config"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// SubscriptionKeyHeader carries the Farm subscription key.
	SubscriptionKeyHeader = "genaiplatform-farm-subscription-key"
	// APIVersionParam is the query parameter carrying the API version.
	APIVersionParam = "api-version"
	// DefaultSystemPrompt is used when a completion is requested without one.
	DefaultSystemPrompt = "You are a helpful assistant"
	// CodeAssistantPrompt is the system prompt used by CodeAssistant.
	CodeAssistantPrompt = "You are an expert software developer and coding assistant. Provide clear, concise, and accurate programming advice."
)

type chatCompletionService interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Client sends chat completions to one Farm deployment. It is safe for
// concurrent use.
type Client struct {
	cfg      config.Config
	endpoint string
	chat     chatCompletionService
	logger   zerolog.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient     *http.Client
	logger         *zerolog.Logger
	requestOptions []option.RequestOption
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithLogger sets the logger. The global zerolog logger is used by default.
func WithLogger(l zerolog.Logger) Option {
	return func(o *clientOptions) { o.logger = &l }
}

// WithRequestOptions appends raw SDK options, applied after the Farm ones.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(o *clientOptions) { o.requestOptions = append(o.requestOptions, opts...) }
}

// NewClient validates cfg, derives the endpoint URL and configures the
// underlying OpenAI client with the Farm header, query parameter, timeout and
// retry count.
func NewClient(cfg config.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	endpoint := EndpointURL(cfg.BaseURL, cfg.DeploymentName)
	sdkBase, query, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, &config.ValidationError{Field: "base_url", Msg: "cannot derive endpoint", Err: err}
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(sdkBase),
		option.WithHeader(SubscriptionKeyHeader, cfg.SubscriptionKey),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	for key, values := range query {
		if key == APIVersionParam {
			continue
		}
		for _, v := range values {
			reqOpts = append(reqOpts, option.WithQueryAdd(key, v))
		}
	}
	reqOpts = append(reqOpts, option.WithQuery(APIVersionParam, cfg.APIVersion))
	if o.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(o.httpClient))
	}
	reqOpts = append(reqOpts, o.requestOptions...)

	logger := log.Logger
	if o.logger != nil {
		logger = *o.logger
	}
	logger = logger.With().Str("component", "farm").Logger()

	sdk := openai.NewClient(reqOpts...)
	logger.Debug().Str("endpoint", endpoint).Str("api_version", cfg.APIVersion).Msg("farm client initialized")

	return &Client{
		cfg:      cfg,
		endpoint: endpoint,
		chat:     &sdk.Chat.Completions,
		logger:   logger,
	}, nil
}

// splitEndpoint turns the normalized endpoint into the base URL the SDK joins
// "chat/completions" onto, plus the endpoint's own query parameters.
func splitEndpoint(endpoint string) (string, url.Values, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", nil, err
	}
	query := u.Query()
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	u.Path = strings.TrimSuffix(u.Path, strings.TrimPrefix(ChatCompletionsPath, "/"))
	u.RawPath = ""
	return u.String(), query, nil
}

// Endpoint returns the request URL derived at construction, without the
// api-version parameter.
func (c *Client) Endpoint() string { return c.endpoint }

// Config returns the configuration the client was built from.
func (c *Client) Config() config.Config { return c.cfg }

// Deployment returns the deployment name from the endpoint, or the default
// model when the endpoint has none.
func (c *Client) Deployment() string {
	if name, ok := DeploymentFromURL(c.endpoint); ok {
		return name
	}
	return c.cfg.DefaultModel
}

// Chat sends a chat completion and returns the first choice.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (Completion, error) {
	if len(req.Messages) == 0 {
		return Completion{}, &config.ValidationError{Field: "messages", Msg: "at least one message is required", Err: ErrNoMessages}
	}
	model := req.Model
	if model == "" {
		model = c.cfg.DefaultModel
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)),
	}
	for _, m := range req.Messages {
		p, err := messageParam(m)
		if err != nil {
			return Completion{}, err
		}
		params.Messages = append(params.Messages, p)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	c.logger.Debug().Str("model", model).Int("messages", len(req.Messages)).Msg("sending chat completion")
	start := time.Now()

	resp, err := c.chat.New(ctx, params, option.WithJSONSet("stream", false))
	if err != nil {
		uErr := upstreamError(err)
		c.logger.Error().Err(err).Int("status", uErr.StatusCode).Msg("chat completion failed")
		return Completion{}, uErr
	}
	if resp == nil || len(resp.Choices) == 0 {
		return Completion{}, &UpstreamError{Message: "response contained no choices", Err: ErrNoChoices}
	}

	out := Completion{
		Content:      resp.Choices[0].Message.Content,
		Model:        resp.Model,
		RequestID:    resp.ID,
		FinishReason: resp.Choices[0].FinishReason,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	if out.Model == "" {
		out.Model = model
	}

	c.logger.Debug().
		Str("model", out.Model).
		Str("request_id", out.RequestID).
		Int64("total_tokens", out.Usage.TotalTokens).
		Dur("elapsed", time.Since(start)).
		Msg("chat completion done")

	return out, nil
}

// CompleteWithDetails sends a system and a user message and returns the first
// choice with usage counters and the model reported by the gateway.
func (c *Client) CompleteWithDetails(ctx context.Context, req Request) (Completion, error) {
	if strings.TrimSpace(req.UserText) == "" {
		return Completion{}, &config.ValidationError{Field: "user_text", Msg: "must not be empty", Err: ErrEmptyUserText}
	}
	system := req.SystemPrompt
	if system == "" {
		system = DefaultSystemPrompt
	}
	return c.Chat(ctx, ChatRequest{
		Model:     req.Model,
		MaxTokens: req.MaxTokens,
		Messages: []Message{
			{Role: RoleSystem, Content: system},
			{Role: RoleUser, Content: req.UserText},
		},
	})
}

// Complete returns the text of the first choice for a single-turn prompt.
func (c *Client) Complete(ctx context.Context, userText, systemPrompt string) (string, error) {
	out, err := c.CompleteWithDetails(ctx, Request{UserText: userText, SystemPrompt: systemPrompt})
	if err != nil {
		return "", err
	}
	return out.Content, nil
}

// Ask is Complete with the default system prompt.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	return c.Complete(ctx, question, DefaultSystemPrompt)
}

// CodeAssistant is Complete with CodeAssistantPrompt.
func (c *Client) CodeAssistant(ctx context.Context, question string) (string, error) {
	return c.Complete(ctx, question, CodeAssistantPrompt)
}

func messageParam(m Message) (openai.ChatCompletionMessageParamUnion, error) {
	switch m.Role {
	case RoleSystem:
		return openai.SystemMessage(m.Content), nil
	case RoleDeveloper:
		return openai.DeveloperMessage(m.Content), nil
	case RoleUser:
		return openai.UserMessage(m.Content), nil
	case RoleAssistant:
		return openai.AssistantMessage(m.Content), nil
	default:
		return openai.ChatCompletionMessageParamUnion{}, &config.ValidationError{
			Field: "messages",
			Msg:   fmt.Sprintf("unsupported role %q", m.Role),
		}
	}
}
