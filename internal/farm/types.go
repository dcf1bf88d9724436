package farm

// Role is the author of a chat message.
type Role string

// Chat roles understood by the gateway.
const (
	RoleSystem    Role = "system"
	RoleDeveloper Role = "developer"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat message.
type Message struct {
	Role    Role
	Content string
}

// ChatRequest is a chat completion request. Model falls back to the
// configured default model and MaxTokens is omitted when zero.
type ChatRequest struct {
	Model     string
	Messages  []Message
	MaxTokens int
}

// Request is a single-turn completion: one system and one user message.
type Request struct {
	UserText     string
	SystemPrompt string
	Model        string
	MaxTokens    int
}

// Usage holds the token counters reported by the gateway.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// Completion is the first choice of a chat completion plus response metadata.
type Completion struct {
	Content      string `json:"content"`
	Model        string `json:"model"`
	RequestID    string `json:"request_id,omitempty"`
	FinishReason string `json:"finish_reason,omitempty"`
	Usage        Usage  `json:"usage"`
}

// Result carries the outcome of an asynchronous call.
type Result[T any] struct {
	Value T
	Err   error
}
