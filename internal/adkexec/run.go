package adkexec

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	adkrunner "google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const (
	// DefaultAppName is the ADK application name used when none is given.
	DefaultAppName = "llmfarm"
	// DefaultUserID is the ADK user id used when none is given.
	DefaultUserID = "llmfarm-user"
)

var (
	// ErrAgentRequired is returned when RunInput has no agent.
	ErrAgentRequired = errors.New("adkexec: agent is required")
	// ErrEmptyMessage is returned when RunInput has no user message.
	ErrEmptyMessage = errors.New("adkexec: user message is required")
	// ErrEmptyOutput is returned when the agent produced no text.
	ErrEmptyOutput = errors.New("adkexec: agent produced empty output")
)

// AgentConfig describes a single-model agent.
type AgentConfig struct {
	Name        string
	Description string
	Instruction string
}

// NewAgent builds an LLM agent on top of llm.
func NewAgent(llm model.LLM, cfg AgentConfig) (agent.Agent, error) {
	if llm == nil {
		return nil, errors.New("adkexec: model is required")
	}
	name := cfg.Name
	if name == "" {
		name = "farm_assistant"
	}
	a, err := llmagent.New(llmagent.Config{
		Name:        name,
		Description: cfg.Description,
		Model:       llm,
		Instruction: cfg.Instruction,
	})
	if err != nil {
		return nil, fmt.Errorf("create llm agent: %w", err)
	}
	return a, nil
}

// RunInput defines shared execution parameters for running an ADK agent.
type RunInput struct {
	AppName      string
	UserID       string
	SessionID    string
	Agent        agent.Agent
	Message      string
	InitialState map[string]any
	OnEvent      func(*session.Event)
}

// RunResult is the outcome of a single agent turn.
type RunResult struct {
	SessionID string
	Text      string
	Events    int
}

// Run sends Message to the agent in a fresh in-memory session and returns the
// text of the last event that carried any.
func Run(ctx context.Context, input RunInput) (RunResult, error) {
	if input.Agent == nil {
		return RunResult{}, ErrAgentRequired
	}
	if strings.TrimSpace(input.Message) == "" {
		return RunResult{}, ErrEmptyMessage
	}

	appName := input.AppName
	if appName == "" {
		appName = DefaultAppName
	}
	userID := input.UserID
	if userID == "" {
		userID = DefaultUserID
	}
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	sessionService := session.InMemoryService()
	r, err := adkrunner.New(adkrunner.Config{
		AppName:        appName,
		Agent:          input.Agent,
		SessionService: sessionService,
	})
	if err != nil {
		return RunResult{}, fmt.Errorf("create ADK runner: %w", err)
	}

	created, err := sessionService.Create(ctx, &session.CreateRequest{
		AppName:   appName,
		UserID:    userID,
		SessionID: sessionID,
		State:     input.InitialState,
	})
	if err != nil {
		return RunResult{}, fmt.Errorf("create ADK session: %w", err)
	}

	logger := log.With().Str("component", "adkexec").Str("session_id", sessionID).Logger()
	logger.Debug().Str("agent", input.Agent.Name()).Msg("running agent")

	res := RunResult{SessionID: created.Session.ID()}
	msg := genai.NewContentFromText(input.Message, genai.RoleUser)
	for ev, runErr := range r.Run(ctx, userID, created.Session.ID(), msg, agent.RunConfig{}) {
		if runErr != nil {
			return RunResult{}, fmt.Errorf("agent run failed: %w", runErr)
		}
		if ev == nil {
			continue
		}
		res.Events++
		if input.OnEvent != nil {
			input.OnEvent(ev)
		}
		if text := eventText(ev); text != "" {
			res.Text = text
		}
	}
	if res.Text == "" {
		return RunResult{}, ErrEmptyOutput
	}

	logger.Debug().Int("events", res.Events).Msg("agent finished")
	return res, nil
}

func eventText(ev *session.Event) string {
	if ev.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range ev.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}
