package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"hermes-cli/internal/application/port/output"
	"hermes-cli/internal/domain/entity"
	"hermes-cli/internal/infrastructure/tools/mathexpr"
)

var _ output.ToolPort = (*Calculate)(nil)

type Calculate struct{}

func NewCalculate() *Calculate {
	return &Calculate{}
}

func (t *Calculate) Name() entity.ToolName {
	return entity.ToolCalculate
}

func (t *Calculate) Builtin() bool {
	return true
}

func (t *Calculate) Description() string {
	return "Perform mathematical calculations. Supports basic arithmetic, sqrt, abs, min, max, pow, and common math functions."
}

func (t *Calculate) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"expression": map[string]interface{}{
				"type":        "string",
				"description": "Mathematical expression to evaluate (e.g., '2 + 2', 'sqrt(16)', '15 * 23', 'pow(2, 8)')",
			},
		},
		"required": []string{"expression"},
	}
}

type calculateArgs struct {
	Expression string `json:"expression"`
}

func (t *Calculate) Execute(ctx context.Context, arguments string) (string, error) {
	var args calculateArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrInvalidArguments, err)
	}
	if args.Expression == "" {
		return "", fmt.Errorf("%w: expression parameter is required", entity.ErrInvalidArguments)
	}

	result, err := mathexpr.Eval(args.Expression)
	if err != nil {
		return "", fmt.Errorf("calculation failed: %w", err)
	}

	return marshalResult(map[string]any{"result": result})
}
