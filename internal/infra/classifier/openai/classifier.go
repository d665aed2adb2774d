package openai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/factsense/internal/infra/classifier/prompt"

	domain "github.com/bryanwahyu/factsense/internal/domain/analysis"
)

const maxTokens = 1024
const maxInputBytes = 64 * 1024

// Classifier variant model-backed: kirim konten ke LLM, parse verdict JSON.
type Classifier struct {
	*openai.Client
	Model string
}

func NewClassifier(apiKey, model string) *Classifier {
	return &Classifier{Client: openai.NewClient(apiKey), Model: model}
}

// verdict schema dari prompt
type verdictPayload struct {
	IsMisinfo      bool                 `json:"is_misinfo"`
	Confidence     float64              `json:"confidence"`
	ClassifiedType string               `json:"classified_type"`
	Sources        []string             `json:"sources"`
	RelatedNews    []domain.RelatedNews `json:"related_news"`
}

func (c *Classifier) Classify(ctx context.Context, input domain.InputType, data string) (*domain.Result, error) {
	// variant remote ini hanya menerima konten tekstual
	if input != domain.InputText {
		return nil, &domain.ClassificationError{Reason: "unsupported input type: " + string(input)}
	}
	if strings.TrimSpace(data) == "" {
		return nil, &domain.ClassificationError{Reason: "empty input"}
	}
	if len(data) > maxInputBytes {
		return nil, &domain.ClassificationError{Reason: "input exceeds maximum size"}
	}

	model := c.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(string(input), data)},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, &domain.ClassificationError{Reason: "chat completion failed", Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &domain.ClassificationError{Reason: "empty model response"}
	}

	var v verdictPayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &v); err != nil {
		return nil, &domain.ClassificationError{Reason: "invalid verdict JSON", Err: err}
	}
	if v.Confidence < 0 {
		v.Confidence = 0
	}
	if v.Confidence > 100 {
		v.Confidence = 100
	}
	category := v.ClassifiedType
	if category == "" {
		category = "General"
	}

	return &domain.Result{
		Verdict: domain.Verdict{
			IsMisinfo:  v.IsMisinfo,
			Confidence: v.Confidence,
		},
		SourceClassifier: model,
		ClassifiedType:   category,
		Sources:          v.Sources,
		RelatedNews:      v.RelatedNews,
		Statistics:       domain.ClassifierStats{Categories: map[string]float64{}},
	}, nil
}
