package adkmodel

import (
	"fmt"
	"strings"

	"github.com/metalagman/llmfarm/internal/farm"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

func buildChatRequest(req *model.LLMRequest) (farm.ChatRequest, error) {
	out := farm.ChatRequest{Model: req.Model}

	if cfg := req.Config; cfg != nil {
		if len(cfg.Tools) > 0 {
			return farm.ChatRequest{}, ErrToolsNotSupported
		}
		if cfg.MaxOutputTokens > 0 {
			out.MaxTokens = int(cfg.MaxOutputTokens)
		}
		if cfg.SystemInstruction != nil {
			text, err := joinText(cfg.SystemInstruction)
			if err != nil {
				return farm.ChatRequest{}, err
			}
			if text != "" {
				out.Messages = append(out.Messages, farm.Message{Role: farm.RoleSystem, Content: text})
			}
		}
	}

	turns := 0
	for _, content := range req.Contents {
		if content == nil {
			continue
		}
		text, err := joinText(content)
		if err != nil {
			return farm.ChatRequest{}, err
		}
		if text == "" {
			continue
		}
		role, err := convertRole(content.Role)
		if err != nil {
			return farm.ChatRequest{}, err
		}
		out.Messages = append(out.Messages, farm.Message{Role: role, Content: text})
		turns++
	}
	if turns == 0 {
		return farm.ChatRequest{}, ErrNoContents
	}
	return out, nil
}

// joinText concatenates the text parts of content. Thought parts are dropped.
func joinText(content *genai.Content) (string, error) {
	var texts []string
	for _, part := range content.Parts {
		switch {
		case part == nil, part.Thought:
			continue
		case part.FunctionCall != nil, part.FunctionResponse != nil:
			return "", ErrToolsNotSupported
		case part.Text != "":
			texts = append(texts, part.Text)
		case part.InlineData != nil, part.FileData != nil:
			return "", fmt.Errorf("%w: inline or file data", ErrUnsupportedPart)
		}
	}
	return strings.Join(texts, "\n"), nil
}

func convertRole(role string) (farm.Role, error) {
	switch genai.Role(role) {
	case "", genai.RoleUser:
		return farm.RoleUser, nil
	case genai.RoleModel:
		return farm.RoleAssistant, nil
	case "system":
		return farm.RoleSystem, nil
	default:
		return "", fmt.Errorf("adkmodel: unsupported role %q", role)
	}
}
