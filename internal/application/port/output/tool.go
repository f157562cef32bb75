package output

import (
	"context"

	"hermes-cli/internal/domain/entity"
)

type ToolPort interface {
	Name() entity.ToolName
	Description() string
	Parameters() map[string]interface{}
	Builtin() bool
	Execute(ctx context.Context, arguments string) (string, error)
}

// ToolCatalog partitions tool descriptions by provenance.
type ToolCatalog struct {
	Builtin map[string]string `json:"builtin"`
	User    map[string]string `json:"user"`
}

// ToolInfo is the introspection projection of one registered tool.
type ToolInfo struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
	Source      string                 `json:"source"`
}

type ToolRegistry interface {
	Register(tool ToolPort)
	Get(name entity.ToolName) (ToolPort, bool)
	All() []ToolPort

	// Select resolves a user tool spec ("all" or a comma-separated list of
	// names) into the enabled subset. Any unknown name fails the whole call.
	Select(spec string) (map[entity.ToolName]ToolPort, error)

	// Schemas projects a selection into wire-format definitions, in an order
	// that is stable across repeated calls for the same selection.
	Schemas(selected map[entity.ToolName]ToolPort) []entity.ToolDefinition

	List() ToolCatalog
	Info(name entity.ToolName) (*ToolInfo, error)
}
