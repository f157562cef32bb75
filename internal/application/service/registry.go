package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"hermes-cli/internal/application/port/output"
	"hermes-cli/internal/domain/entity"
)

// ErrUnknownTool is wrapped into every selection failure caused by a tool
// name that is not registered.
var ErrUnknownTool = errors.New("unknown tool")

// ErrToolNotFound is returned by Info for a name that is not registered.
var ErrToolNotFound = errors.New("tool not found")

var _ output.ToolRegistry = (*ToolRegistry)(nil)

// ToolRegistry holds the authoritative name -> tool mapping. It is populated
// once at construction and read-only afterwards; no locking.
type ToolRegistry struct {
	tools  map[entity.ToolName]output.ToolPort
	logger output.LoggerPort
}

func NewToolRegistry(logger output.LoggerPort) *ToolRegistry {
	return &ToolRegistry{
		tools:  make(map[entity.ToolName]output.ToolPort),
		logger: logger,
	}
}

// RegisterBuiltins runs each constructor and registers whatever loads
// successfully. A broken builtin is logged and skipped, never fatal: one
// unavailable capability must not take the whole registry down.
func (r *ToolRegistry) RegisterBuiltins(constructors []func() (output.ToolPort, error)) {
	for _, construct := range constructors {
		tool, err := construct()
		if err != nil {
			r.logger.Warn("failed to load built-in tool", "error", err)
			continue
		}
		r.Register(tool)
	}
}

func (r *ToolRegistry) Register(tool output.ToolPort) {
	r.tools[tool.Name()] = tool
}

func (r *ToolRegistry) Get(name entity.ToolName) (output.ToolPort, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

func (r *ToolRegistry) All() []output.ToolPort {
	result := make([]output.ToolPort, 0, len(r.tools))
	for _, name := range r.sortedNames() {
		result = append(result, r.tools[name])
	}
	return result
}

// Select resolves a tool spec into the enabled subset. The spec is either
// "all" or a comma-separated list of names; the first unknown name fails the
// whole call, listing every valid name. Partial selection is never returned.
func (r *ToolRegistry) Select(spec string) (map[entity.ToolName]output.ToolPort, error) {
	selected := make(map[entity.ToolName]output.ToolPort)

	if spec == entity.ToolSpecAll {
		for name, tool := range r.tools {
			selected[name] = tool
		}
		return selected, nil
	}

	for _, raw := range strings.Split(spec, ",") {
		name := entity.ToolName(strings.TrimSpace(raw))
		tool, ok := r.tools[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q (available tools: %s)",
				ErrUnknownTool, name, strings.Join(r.sortedNameStrings(), ", "))
		}
		selected[name] = tool
	}

	return selected, nil
}

// Schemas projects a selection into the wire format the transport expects.
// Names are sorted so repeated calls on the same selection yield identical
// output.
func (r *ToolRegistry) Schemas(selected map[entity.ToolName]output.ToolPort) []entity.ToolDefinition {
	names := make([]string, 0, len(selected))
	for name := range selected {
		names = append(names, string(name))
	}
	sort.Strings(names)

	result := make([]entity.ToolDefinition, 0, len(names))
	for _, name := range names {
		tool := selected[entity.ToolName(name)]
		result = append(result, entity.ToolDefinition{
			Name:        name,
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return result
}

func (r *ToolRegistry) List() output.ToolCatalog {
	catalog := output.ToolCatalog{
		Builtin: make(map[string]string),
		User:    make(map[string]string),
	}
	for name, tool := range r.tools {
		if tool.Builtin() {
			catalog.Builtin[string(name)] = tool.Description()
		} else {
			catalog.User[string(name)] = tool.Description()
		}
	}
	return catalog
}

func (r *ToolRegistry) Info(name entity.ToolName) (*output.ToolInfo, error) {
	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrToolNotFound, name)
	}

	source := "user"
	if tool.Builtin() {
		source = "builtin"
	}

	return &output.ToolInfo{
		Name:        string(name),
		Description: tool.Description(),
		Parameters:  tool.Parameters(),
		Source:      source,
	}, nil
}

func (r *ToolRegistry) sortedNames() []entity.ToolName {
	names := make([]entity.ToolName, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func (r *ToolRegistry) sortedNameStrings() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}
