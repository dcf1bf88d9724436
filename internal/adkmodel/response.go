package adkmodel

import (
	"github.com/metalagman/llmfarm/internal/farm"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

func convertCompletion(out farm.Completion) *model.LLMResponse {
	return &model.LLMResponse{
		Content:       genai.NewContentFromText(out.Content, genai.RoleModel),
		UsageMetadata: convertUsage(out.Usage),
		CustomMetadata: map[string]any{
			"farm_model":      out.Model,
			"farm_request_id": out.RequestID,
		},
		FinishReason: finishReason(out.FinishReason),
		TurnComplete: true,
	}
}

func convertUsage(u farm.Usage) *genai.GenerateContentResponseUsageMetadata {
	return &genai.GenerateContentResponseUsageMetadata{
		PromptTokenCount:     int32(u.PromptTokens),
		CandidatesTokenCount: int32(u.CompletionTokens),
		TotalTokenCount:      int32(u.TotalTokens),
	}
}

func finishReason(reason string) genai.FinishReason {
	switch reason {
	case "stop":
		return genai.FinishReasonStop
	case "length":
		return genai.FinishReasonMaxTokens
	case "content_filter":
		return genai.FinishReasonSafety
	case "":
		return genai.FinishReasonUnspecified
	default:
		return genai.FinishReasonOther
	}
}
