// Package tools contains the built-in tool implementations offered to the
// model: calculator, shell execution, file read/write, and web search.
package tools

import (
	"encoding/json"
	"fmt"

	"hermes-cli/internal/application/port/output"
)

// Builtins returns the constructor list for every built-in tool. The
// registry runs these and keeps whatever loads successfully.
func Builtins(logger output.LoggerPort) []func() (output.ToolPort, error) {
	return []func() (output.ToolPort, error){
		func() (output.ToolPort, error) { return NewCalculate(), nil },
		func() (output.ToolPort, error) { return NewExecuteShell(logger), nil },
		func() (output.ToolPort, error) { return NewReadFile(), nil },
		func() (output.ToolPort, error) { return NewWriteFile(), nil },
		func() (output.ToolPort, error) { return NewWebSearch(logger) },
	}
}

func marshalResult(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("serialize result: %w", err)
	}
	return string(data), nil
}
