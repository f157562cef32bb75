package entity

import "errors"

type ToolName string

const (
	ToolCalculate    ToolName = "calculate"
	ToolExecuteShell ToolName = "execute_shell_command"
	ToolReadFile     ToolName = "read_file"
	ToolWriteFile    ToolName = "write_file"
	ToolWebSearch    ToolName = "web_search"
)

func (t ToolName) String() string {
	return string(t)
}

// ToolSpecAll selects every registered tool.
const ToolSpecAll = "all"

// ErrInvalidArguments marks argument errors raised inside a tool handler
// (missing or type-mismatched parameters). The executor reports these
// separately from ordinary execution failures.
var ErrInvalidArguments = errors.New("invalid arguments")
