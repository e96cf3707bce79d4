package ai

import (
	"context"
	"errors"
	"fmt"

	"cvchef-backend/internal/domain"
	"cvchef-backend/pkg/logger"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

type geminiProvider struct {
	client *genai.Client
	model  string
	cfg    Config
}

// NewGemini creates a Gemini backed completion service.
func NewGemini(ctx context.Context, cfg Config) (domain.CompletionService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("ai: failed to create gemini client: %w", err)
	}
	model := cfg.GeminiModel
	if model == "" {
		model = defaultGeminiModel
	}
	return &geminiProvider{client: client, model: model, cfg: cfg}, nil
}

func (p *geminiProvider) ChatCompletion(ctx context.Context, history []domain.ChatMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	var contents []*genai.Content
	for _, m := range prepareHistory(history) {
		role := genai.RoleUser
		if m.Role == domain.RoleAssistant {
			// Gemini conversations must open with a user turn.
			if len(contents) == 0 {
				continue
			}
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, genai.Role(role)))
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(chatSystemPrompt, genai.RoleUser),
	})
	if err != nil {
		logger.Log.Error("Gemini chat completion failed", "model", p.model, "error", err)
		return "", geminiError("Gemini API Error", "Failed to get response from AI assistant.", err)
	}
	text := resp.Text()
	if text == "" {
		return "", &Error{Message: "Gemini returned an empty response."}
	}
	return text, nil
}

func (p *geminiProvider) ATSCompare(ctx context.Context, resumeText, jobDescription string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	resp, err := p.client.Models.GenerateContent(ctx, p.model,
		genai.Text(atsUserMessage(resumeText, jobDescription)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(atsSystemPrompt, genai.RoleUser),
			ResponseMIMEType:  "application/json",
		})
	if err != nil {
		logger.Log.Error("Gemini ATS comparison failed", "model", p.model, "error", err)
		return "", geminiError("Gemini API Error for ATS", "Failed to get ATS comparison from AI assistant.", err)
	}
	text := resp.Text()
	if text == "" {
		return "", &Error{Message: "Gemini returned an empty response for ATS comparison."}
	}
	return text, nil
}

func geminiError(prefix, fallback string, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &Error{
			Message: fmt.Sprintf("%s: %d %s %s", prefix, apiErr.Code, apiErr.Status, apiErr.Message),
			Err:     err,
		}
	}
	return &Error{Message: fallback, Err: err}
}
