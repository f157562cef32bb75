package usecase

import (
	"context"
	"errors"
	"fmt"

	"hermes-cli/internal/application/port/output"
	"hermes-cli/internal/application/service"
	"hermes-cli/internal/domain/entity"
)

// DefaultMaxIterations bounds the tool-calling loop when the caller does not
// override it. Tool-calling models can re-invoke tools indefinitely; a hard
// ceiling keeps cost bounded against a metered API.
const DefaultMaxIterations = 5

// ErrExhausted reports that the iteration ceiling was reached without a
// final answer. It is a warning outcome, not a process failure.
var ErrExhausted = errors.New("tool loop exhausted")

// ErrProtocolAnomaly reports a response whose finish reason claims tool
// calls while carrying none. Looping on such a response would spin, so the
// loop stops instead.
var ErrProtocolAnomaly = errors.New("protocol anomaly: finish reason is tool_calls but no tool calls present")

// Formatter applies schema-driven cosmetic re-formatting to a final answer.
// It must be best-effort: on any parse trouble it returns the input verbatim.
type Formatter func(schema map[string]interface{}, content string) string

// ToolLoopParams carries the per-invocation knobs of the loop.
type ToolLoopParams struct {
	Model         string
	Temperature   float32
	MaxTokens     int
	MaxIterations int
	Schema        map[string]interface{}
}

func (p ToolLoopParams) maxIterations() int {
	if p.MaxIterations > 0 {
		return p.MaxIterations
	}
	return DefaultMaxIterations
}

// ToolLoop drives repeated transport calls, interleaving tool execution,
// until the model produces a direct answer or the iteration ceiling is hit.
// Streaming stays off for every request: detecting a pending tool call
// requires a complete structured response.
type ToolLoop struct {
	llm      output.LLMPort
	executor *service.ToolExecutor
	logger   output.LoggerPort
	format   Formatter
}

func NewToolLoop(llm output.LLMPort, executor *service.ToolExecutor, logger output.LoggerPort, format Formatter) *ToolLoop {
	return &ToolLoop{
		llm:      llm,
		executor: executor,
		logger:   logger,
		format:   format,
	}
}

// Run is the stateless variant: the final answer goes only to the caller.
func (uc *ToolLoop) Run(
	ctx context.Context,
	messages []entity.Message,
	selected map[entity.ToolName]output.ToolPort,
	schemas []entity.ToolDefinition,
	params ToolLoopParams,
) (string, error) {
	return uc.run(ctx, messages, selected, schemas, params, nil)
}

// RunPersisted is the conversation-backed variant: every message produced
// during the exchange is additionally appended to the named conversation.
// Model parameters and tool configuration come from the stored record.
func (uc *ToolLoop) RunPersisted(
	ctx context.Context,
	name string,
	store output.ConversationStore,
	registry output.ToolRegistry,
) (string, error) {
	conv, err := store.Load(name)
	if err != nil {
		return "", err
	}

	toolSpec := entity.ToolSpecAll
	params := ToolLoopParams{
		Model:       conv.Model,
		Temperature: conv.Temperature,
		MaxTokens:   conv.MaxTokens,
		Schema:      conv.Schema,
	}
	if conv.Tools != nil {
		if conv.Tools.Spec != "" {
			toolSpec = conv.Tools.Spec
		}
		params.MaxIterations = conv.Tools.MaxIterations
	}

	selected, err := registry.Select(toolSpec)
	if err != nil {
		return "", err
	}
	schemas := registry.Schemas(selected)

	persist := func(msg entity.Message) error {
		return store.AppendMessage(name, msg)
	}

	return uc.run(ctx, conv.Messages, selected, schemas, params, persist)
}

func (uc *ToolLoop) run(
	ctx context.Context,
	messages []entity.Message,
	selected map[entity.ToolName]output.ToolPort,
	schemas []entity.ToolDefinition,
	params ToolLoopParams,
	persist func(entity.Message) error,
) (string, error) {
	maxIterations := params.maxIterations()

	for iteration := 0; iteration < maxIterations; iteration++ {
		uc.logger.Debug("tool loop iteration", "iteration", iteration, "messages", len(messages))

		resp, err := uc.llm.Chat(ctx, output.ChatRequest{
			Messages:    messages,
			Tools:       schemas,
			Model:       params.Model,
			Temperature: params.Temperature,
			MaxTokens:   params.MaxTokens,
		})
		if err != nil {
			// Transport failures are fatal here: retry policy belongs to
			// the transport, not to protocol sequencing.
			return "", fmt.Errorf("chat request failed: %w", err)
		}

		if resp.FinishReason != entity.FinishToolCalls {
			// The store keeps the reply exactly as the model produced it;
			// formatting is cosmetic and applies only to the emitted value.
			// Stored replies are replayed as model context on later turns.
			if persist != nil {
				if err := persist(entity.AssistantMessage(resp.Message.Content)); err != nil {
					return "", fmt.Errorf("persist final message: %w", err)
				}
			}
			content := resp.Message.Content
			if uc.format != nil && params.Schema != nil {
				content = uc.format(params.Schema, content)
			}
			uc.logger.Debug("tool loop finished", "iterations", iteration+1)
			return content, nil
		}

		if len(resp.Message.ToolCalls) == 0 {
			return "", ErrProtocolAnomaly
		}

		messages = append(messages, resp.Message)
		if persist != nil {
			if err := persist(resp.Message); err != nil {
				return "", fmt.Errorf("persist assistant message: %w", err)
			}
		}

		results := uc.executor.ExecuteToolCalls(ctx, resp.Message.ToolCalls, selected)
		for _, result := range results {
			messages = append(messages, result)
			if persist != nil {
				if err := persist(result); err != nil {
					return "", fmt.Errorf("persist tool result: %w", err)
				}
			}
		}
	}

	uc.logger.Warn("tool loop exhausted", "maxIterations", maxIterations)
	return "", fmt.Errorf("%w after %d iterations", ErrExhausted, maxIterations)
}
