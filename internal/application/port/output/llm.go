package output

import (
	"context"

	"hermes-cli/internal/domain/entity"
)

// LLMPort is the narrow contract with the remote chat API. Chat blocks until
// a complete response is available; ChatStream delivers content deltas through
// onChunk and returns the assembled message at the end.
type LLMPort interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	ChatStream(ctx context.Context, req ChatRequest, onChunk func(StreamChunk)) (*ChatResponse, error)
}

type ChatRequest struct {
	Messages    []entity.Message
	Tools       []entity.ToolDefinition
	Model       string
	Temperature float32
	MaxTokens   int
}

type ChatResponse struct {
	Message      entity.Message
	FinishReason entity.FinishReason
}

type StreamChunk struct {
	Content string
	Done    bool
}
