package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"

	"tradebook/internal/errors"
	"tradebook/internal/models"
	"tradebook/pkg/utils"
)

const serviceName = "openai"

// advisorBackoff retries rate limits and server errors a couple of
// times; auth and request errors fail immediately.
func advisorBackoff() utils.Backoff {
	b := utils.DefaultBackoff()
	b.Retryable = transientAPIError
	return b
}

func transientAPIError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests ||
			apiErr.HTTPStatusCode >= http.StatusInternalServerError
	}
	// Anything that never reached the API, DNS and timeouts included.
	return true
}

// OpenAIAdvisor implements Advisor on the OpenAI chat API.
type OpenAIAdvisor struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAIAdvisor creates an advisor talking to the given model.
func NewOpenAIAdvisor(apiKey, model string, temperature float32, maxTokens int) *OpenAIAdvisor {
	return &OpenAIAdvisor{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// AnalyzeTrade asks for a post-mortem of a single trade.
func (a *OpenAIAdvisor) AnalyzeTrade(ctx context.Context, t models.Trade) (string, error) {
	text, err := a.complete(ctx, analyzeSystemPrompt, analyzePrompt(t))
	if err != nil {
		return "", errors.NewServiceError(serviceName, "analyze", err)
	}
	return text, nil
}

// AuditTrades asks for a markdown review of a trade selection, judged
// against the strategy when one is given.
func (a *OpenAIAdvisor) AuditTrades(ctx context.Context, trades []models.Trade, strategy *models.Strategy) (string, error) {
	text, err := a.complete(ctx, auditSystemPrompt, auditPrompt(trades, strategy))
	if err != nil {
		return "", errors.NewServiceError(serviceName, "audit", err)
	}
	return text, nil
}

// SuggestSetup asks for a structured setup. Chart screenshots are inlined
// as data URLs and the reply is requested, and decoded, as a JSON object.
func (a *OpenAIAdvisor) SuggestSetup(ctx context.Context, req SuggestRequest) (*Suggestion, error) {
	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: suggestPrompt(req)},
	}
	charts := []struct{ label, path string }{
		{"5m", req.Chart5m},
		{"15m", req.Chart15m},
		{"1h", req.Chart1h},
	}
	for _, c := range charts {
		if c.path == "" {
			continue
		}
		url, err := imageDataURL(c.path)
		if err != nil {
			return nil, errors.NewServiceError(serviceName, "suggest", err)
		}
		parts = append(parts,
			openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: fmt.Sprintf("%s chart:", c.label)},
			openai.ChatMessagePart{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: url}},
		)
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: suggestSystemPrompt},
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
	}
	resp, err := utils.RetryWithResult(ctx, advisorBackoff(), func() (openai.ChatCompletionResponse, error) {
		return a.client.CreateChatCompletion(ctx, chatReq)
	})
	if err != nil {
		return nil, errors.NewServiceError(serviceName, "suggest", fmt.Errorf("openai completion failed: %w", err))
	}
	if len(resp.Choices) == 0 {
		return nil, errors.NewServiceError(serviceName, "suggest", fmt.Errorf("no response from openai"))
	}

	var s Suggestion
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &s); err != nil {
		return nil, errors.NewServiceError(serviceName, "suggest", fmt.Errorf("undecodable suggestion: %w", err))
	}
	return &s, nil
}

func (a *OpenAIAdvisor) complete(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}
	resp, err := utils.RetryWithResult(ctx, advisorBackoff(), func() (openai.ChatCompletionResponse, error) {
		return a.client.CreateChatCompletion(ctx, req)
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}

// imageDataURL inlines a chart screenshot for the vision request.
func imageDataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read chart %s: %w", path, err)
	}
	mime := "image/png"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".webp":
		mime = "image/webp"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)), nil
}
