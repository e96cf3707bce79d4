package ai

import (
	"context"
	"errors"
	"fmt"

	"cvchef-backend/internal/domain"
	"cvchef-backend/pkg/logger"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
)

const (
	defaultChatModel = "gpt-4.1-nano"
	defaultATSModel  = "gpt-4o-mini"
)

type openAIProvider struct {
	client    *openai.Client
	chatModel string
	atsModel  string
	cfg       Config
}

// NewOpenAI creates an OpenAI backed completion service. Requests are never
// retried.
func NewOpenAI(cfg Config) domain.CompletionService {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.OpenAIKey),
		option.WithMaxRetries(0),
	}
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.OpenAIBaseURL))
	}
	client := openai.NewClient(opts...)

	p := &openAIProvider{
		client:    &client,
		chatModel: cfg.ChatModel,
		atsModel:  cfg.ATSModel,
		cfg:       cfg,
	}
	if p.chatModel == "" {
		p.chatModel = defaultChatModel
	}
	if p.atsModel == "" {
		p.atsModel = defaultATSModel
	}
	return p
}

func (p *openAIProvider) ChatCompletion(ctx context.Context, history []domain.ChatMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessageParamUnion{openai.SystemMessage(chatSystemPrompt)}
	for _, m := range prepareHistory(history) {
		switch m.Role {
		case domain.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.chatModel),
		Messages: messages,
	})
	if err != nil {
		logger.Log.Error("OpenAI chat completion failed", "model", p.chatModel, "error", err)
		return "", openAIError("OpenAI API Error", "Failed to get response from AI assistant.", err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", &Error{Message: "OpenAI returned an empty response."}
	}
	return completion.Choices[0].Message.Content, nil
}

func (p *openAIProvider) ATSCompare(ctx context.Context, resumeText, jobDescription string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.atsModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(atsSystemPrompt),
			openai.UserMessage(atsUserMessage(resumeText, jobDescription)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: constant.JSONObject("json_object"),
			},
		},
	})
	if err != nil {
		logger.Log.Error("OpenAI ATS comparison failed", "model", p.atsModel, "error", err)
		return "", openAIError("OpenAI API Error for ATS", "Failed to get ATS comparison from AI assistant.", err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", &Error{Message: "OpenAI returned an empty response for ATS comparison."}
	}
	return completion.Choices[0].Message.Content, nil
}

// openAIError keeps the provider's status and body visible to the user and
// falls back to a generic message for transport failures.
func openAIError(prefix, fallback string, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &Error{
			Message: fmt.Sprintf("%s: %d %s %s", prefix, apiErr.StatusCode, apiErr.Message, apiErr.RawJSON()),
			Err:     err,
		}
	}
	return &Error{Message: fallback, Err: err}
}
