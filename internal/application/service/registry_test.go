package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes-cli/internal/application/port/output"
	"hermes-cli/internal/domain/entity"
	"hermes-cli/internal/infrastructure/logger"
)

type fakeTool struct {
	name    entity.ToolName
	builtin bool
	execute func(ctx context.Context, arguments string) (string, error)
}

func (t *fakeTool) Name() entity.ToolName { return t.name }
func (t *fakeTool) Builtin() bool         { return t.builtin }
func (t *fakeTool) Description() string   { return "fake " + string(t.name) }

func (t *fakeTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func (t *fakeTool) Execute(ctx context.Context, arguments string) (string, error) {
	if t.execute != nil {
		return t.execute(ctx, arguments)
	}
	return `{"result":"ok"}`, nil
}

func newTestRegistry(names ...entity.ToolName) *ToolRegistry {
	registry := NewToolRegistry(logger.NewNop())
	for _, name := range names {
		registry.Register(&fakeTool{name: name, builtin: true})
	}
	return registry
}

func TestSelect_All(t *testing.T) {
	registry := newTestRegistry("alpha", "beta", "gamma")

	selected, err := registry.Select("all")

	require.NoError(t, err)
	assert.Len(t, selected, 3)
}

func TestSelect_CommaList(t *testing.T) {
	registry := newTestRegistry("alpha", "beta", "gamma")

	selected, err := registry.Select("alpha, gamma")

	require.NoError(t, err)
	assert.Len(t, selected, 2)
	assert.Contains(t, selected, entity.ToolName("alpha"))
	assert.Contains(t, selected, entity.ToolName("gamma"))
}

func TestSelect_UnknownNameFailsWhole(t *testing.T) {
	registry := newTestRegistry("alpha", "beta")

	selected, err := registry.Select("alpha,frobnicate")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTool))
	assert.Nil(t, selected)
	// The error enumerates every valid name.
	assert.Contains(t, err.Error(), "alpha")
	assert.Contains(t, err.Error(), "beta")
	assert.Contains(t, err.Error(), "frobnicate")
}

func TestSchemas_Deterministic(t *testing.T) {
	registry := newTestRegistry("zeta", "alpha", "mu")

	selected, err := registry.Select("all")
	require.NoError(t, err)

	first := registry.Schemas(selected)
	second := registry.Schemas(selected)

	require.Len(t, first, 3)
	assert.Equal(t, first, second)
	assert.Equal(t, "alpha", first[0].Name)
	assert.Equal(t, "mu", first[1].Name)
	assert.Equal(t, "zeta", first[2].Name)
}

func TestRegisterBuiltins_SkipsFailures(t *testing.T) {
	registry := NewToolRegistry(logger.NewNop())

	registry.RegisterBuiltins([]func() (output.ToolPort, error){
		func() (output.ToolPort, error) { return &fakeTool{name: "good"}, nil },
		func() (output.ToolPort, error) { return nil, fmt.Errorf("missing credentials") },
		func() (output.ToolPort, error) { return &fakeTool{name: "other"}, nil },
	})

	assert.Len(t, registry.All(), 2)
	_, ok := registry.Get("good")
	assert.True(t, ok)
	_, ok = registry.Get("other")
	assert.True(t, ok)
}

func TestList_PartitionsByProvenance(t *testing.T) {
	registry := NewToolRegistry(logger.NewNop())
	registry.Register(&fakeTool{name: "builtin_one", builtin: true})
	registry.Register(&fakeTool{name: "custom_one", builtin: false})

	catalog := registry.List()

	assert.Len(t, catalog.Builtin, 1)
	assert.Len(t, catalog.User, 1)
	assert.Contains(t, catalog.Builtin, "builtin_one")
	assert.Contains(t, catalog.User, "custom_one")
}

func TestInfo_NotFound(t *testing.T) {
	registry := newTestRegistry("alpha")

	info, err := registry.Info("missing")

	assert.Nil(t, info)
	assert.True(t, errors.Is(err, ErrToolNotFound))
}

func TestInfo_ReturnsDetail(t *testing.T) {
	registry := newTestRegistry("alpha")

	info, err := registry.Info("alpha")

	require.NoError(t, err)
	assert.Equal(t, "alpha", info.Name)
	assert.Equal(t, "builtin", info.Source)
	assert.NotNil(t, info.Parameters)
}
