package usecase

import (
	"context"
	"fmt"

	"hermes-cli/internal/application/port/output"
	"hermes-cli/internal/domain/entity"
)

// AskParams carries the knobs of a plain (tool-free) exchange.
type AskParams struct {
	Model       string
	Temperature float32
	MaxTokens   int
	Schema      map[string]interface{}
	Stream      bool
}

// Ask performs a single chat exchange without tool calling. Streaming is
// honored only when no schema is requested: schema output is rendered as a
// whole, which requires the complete response.
type Ask struct {
	llm    output.LLMPort
	logger output.LoggerPort
}

func NewAsk(llm output.LLMPort, logger output.LoggerPort) *Ask {
	return &Ask{llm: llm, logger: logger}
}

// Run sends the messages and returns the assistant's reply verbatim; any
// schema-driven pretty-printing is the caller's concern at display time.
// When streaming is active, onChunk receives content deltas as they arrive.
func (uc *Ask) Run(ctx context.Context, messages []entity.Message, params AskParams, onChunk func(string)) (string, error) {
	req := output.ChatRequest{
		Messages:    messages,
		Model:       params.Model,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}

	if params.Stream && params.Schema == nil {
		resp, err := uc.llm.ChatStream(ctx, req, func(chunk output.StreamChunk) {
			if chunk.Content != "" && onChunk != nil {
				onChunk(chunk.Content)
			}
		})
		if err != nil {
			return "", fmt.Errorf("chat stream failed: %w", err)
		}
		return resp.Message.Content, nil
	}

	resp, err := uc.llm.Chat(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	return resp.Message.Content, nil
}
