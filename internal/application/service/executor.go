package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hermes-cli/internal/application/port/output"
	"hermes-cli/internal/domain/entity"
)

// ToolExecutor turns a batch of model-issued tool calls into tool-role result
// messages. Every failure mode is captured as an error payload inside the
// result content, never surfaced as a Go error: the loop must always be able
// to feed the outcome back to the model, and the wire protocol requires
// exactly one result per issued call.
type ToolExecutor struct {
	logger output.LoggerPort
}

func NewToolExecutor(logger output.LoggerPort) *ToolExecutor {
	return &ToolExecutor{logger: logger}
}

// ExecuteToolCalls executes each call sequentially against the selected
// subset. The returned slice is order-preserving: result i corresponds to
// calls[i].
func (e *ToolExecutor) ExecuteToolCalls(
	ctx context.Context,
	calls []entity.ToolCall,
	selected map[entity.ToolName]output.ToolPort,
) []entity.Message {
	results := make([]entity.Message, 0, len(calls))
	for _, call := range calls {
		results = append(results, e.executeToolCall(ctx, call, selected))
	}
	return results
}

func (e *ToolExecutor) executeToolCall(
	ctx context.Context,
	call entity.ToolCall,
	selected map[entity.ToolName]output.ToolPort,
) entity.Message {
	content := e.run(ctx, call, selected)
	return entity.ToolResultMessage(call.ID, call.Name, content)
}

func (e *ToolExecutor) run(
	ctx context.Context,
	call entity.ToolCall,
	selected map[entity.ToolName]output.ToolPort,
) string {
	// Arguments must be a JSON object before anything else happens; a
	// malformed payload never reaches the handler.
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
		return errorPayload(fmt.Sprintf("Invalid arguments JSON: %s", err))
	}

	// Selection is mandatory: registered but not enabled is still a refusal.
	tool, ok := selected[entity.ToolName(call.Name)]
	if !ok {
		return errorPayload(fmt.Sprintf("Tool '%s' not in enabled tools", call.Name))
	}

	result, err := tool.Execute(ctx, call.Arguments)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidArguments) {
			e.logger.Warn("tool rejected arguments", "tool", call.Name, "error", err)
			return errorPayload(fmt.Sprintf("Invalid arguments for tool: %s", err))
		}
		e.logger.Warn("tool execution failed", "tool", call.Name, "error", err)
		return errorPayload(fmt.Sprintf("Tool execution failed: %s", err))
	}

	e.logger.Debug("tool completed", "tool", call.Name, "resultLen", len(result))
	return result
}

func errorPayload(msg string) string {
	data, err := json.Marshal(map[string]string{"error": msg})
	if err != nil {
		return `{"error":"internal serialization failure"}`
	}
	return string(data)
}
