package nous

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/sashabaranov/go-openai"

	"hermes-cli/internal/application/port/output"
	"hermes-cli/internal/domain/entity"
)

const BaseURL = "https://api.nousresearch.com/v1"

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("NOUS_API_KEY environment variable not set")

var _ output.LLMPort = (*NousAdapter)(nil)

// NousAdapter talks to the Nous Research chat-completions API through the
// OpenAI-compatible client.
type NousAdapter struct {
	client *openai.Client
	logger output.LoggerPort
}

type Config struct {
	APIKey  string
	BaseURL string
	Logger  output.LoggerPort
}

func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:  apiKey,
		BaseURL: BaseURL,
	}
}

func NewNousAdapter(cfg Config) (*NousAdapter, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL

	return &NousAdapter{
		client: openai.NewClientWithConfig(clientCfg),
		logger: cfg.Logger,
	}, nil
}

func (a *NousAdapter) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	if a.logger != nil {
		a.logger.Debug("chat request", "model", req.Model, "messages", len(req.Messages), "tools", len(req.Tools))
	}

	resp, err := a.client.CreateChatCompletion(ctx, a.buildRequest(req, false))
	if err != nil {
		return nil, normalizeError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	choice := resp.Choices[0]
	return &output.ChatResponse{
		Message:      convertResponseMessage(choice.Message),
		FinishReason: entity.FinishReason(choice.FinishReason),
	}, nil
}

func (a *NousAdapter) ChatStream(ctx context.Context, req output.ChatRequest, onChunk func(output.StreamChunk)) (*output.ChatResponse, error) {
	if a.logger != nil {
		a.logger.Debug("chat stream request", "model", req.Model, "messages", len(req.Messages))
	}

	stream, err := a.client.CreateChatCompletionStream(ctx, a.buildRequest(req, true))
	if err != nil {
		return nil, normalizeError(err)
	}
	defer stream.Close()

	var content string
	var finish entity.FinishReason
	toolCallsMap := make(map[int]*entity.ToolCall)

	for {
		chunk, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("stream recv error: %w", normalizeError(err))
		}

		if len(chunk.Choices) == 0 {
			continue
		}

		choice := chunk.Choices[0]
		if choice.FinishReason != "" {
			finish = entity.FinishReason(choice.FinishReason)
		}

		if choice.Delta.Content != "" {
			content += choice.Delta.Content
			if onChunk != nil {
				onChunk(output.StreamChunk{Content: choice.Delta.Content})
			}
		}

		// Tool-call deltas arrive in fragments keyed by index.
		for _, tc := range choice.Delta.ToolCalls {
			if tc.Index == nil {
				continue
			}
			idx := *tc.Index
			if existing, ok := toolCallsMap[idx]; ok {
				existing.Arguments += tc.Function.Arguments
				if tc.Function.Name != "" {
					existing.Name = tc.Function.Name
				}
				if tc.ID != "" {
					existing.ID = tc.ID
				}
			} else {
				toolCallsMap[idx] = &entity.ToolCall{
					ID:        tc.ID,
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				}
			}
		}
	}

	message := entity.Message{
		Role:    entity.RoleAssistant,
		Content: content,
	}

	indices := make([]int, 0, len(toolCallsMap))
	for idx := range toolCallsMap {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	for _, idx := range indices {
		message.ToolCalls = append(message.ToolCalls, *toolCallsMap[idx])
	}

	if onChunk != nil {
		onChunk(output.StreamChunk{Done: true})
	}

	if finish == "" {
		finish = entity.FinishStop
	}

	return &output.ChatResponse{Message: message, FinishReason: finish}, nil
}

func (a *NousAdapter) buildRequest(req output.ChatRequest, stream bool) openai.ChatCompletionRequest {
	out := openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    convertMessages(req.Messages),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      stream,
	}
	if len(req.Tools) > 0 {
		out.Tools = convertTools(req.Tools)
		out.ToolChoice = "auto"
	}
	return out
}

// normalizeError keeps the API's human-readable message and status code,
// dropping transport internals.
func normalizeError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("API error (status %d): %s", apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("API request failed (status %d): %w", reqErr.HTTPStatusCode, reqErr.Err)
	}
	return err
}

func convertMessages(messages []entity.Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		oaiMsg := openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}

		if msg.ToolCallID != "" {
			oaiMsg.ToolCallID = msg.ToolCallID
		}
		if msg.Name != "" {
			oaiMsg.Name = msg.Name
		}

		for _, tc := range msg.ToolCalls {
			oaiMsg.ToolCalls = append(oaiMsg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}

		result = append(result, oaiMsg)
	}
	return result
}

func convertTools(tools []entity.ToolDefinition) []openai.Tool {
	result := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		result = append(result, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return result
}

func convertResponseMessage(msg openai.ChatCompletionMessage) entity.Message {
	result := entity.Message{
		Role:    entity.MessageRole(msg.Role),
		Content: msg.Content,
	}

	for _, tc := range msg.ToolCalls {
		result.ToolCalls = append(result.ToolCalls, entity.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	return result
}
