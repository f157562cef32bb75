package di

import (
	"fmt"

	"hermes-cli/internal/application/port/output"
	"hermes-cli/internal/application/service"
	"hermes-cli/internal/application/usecase"
	"hermes-cli/internal/infrastructure/config"
	"hermes-cli/internal/infrastructure/llm/nous"
	"hermes-cli/internal/infrastructure/logger"
	"hermes-cli/internal/infrastructure/schema"
	"hermes-cli/internal/infrastructure/store"
	"hermes-cli/internal/infrastructure/tools"
)

type Container struct {
	Logger   output.LoggerPort
	Settings *config.Settings
	LLM      output.LLMPort
	Registry output.ToolRegistry
	Store    *store.FileStore
	ToolLoop *usecase.ToolLoop
	Ask      *usecase.Ask
}

type Config struct {
	APIKey   string
	BaseDir  string // defaults to ~/.hermes
	LogLevel string // overrides the config-file level when set
}

func NewContainer(cfg Config) (*Container, error) {
	baseDir := cfg.BaseDir
	if baseDir == "" {
		dir, err := config.HermesDir()
		if err != nil {
			return nil, fmt.Errorf("resolve base dir: %w", err)
		}
		baseDir = dir
	}

	settings, err := config.Load(baseDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := settings.LogLevel
	if cfg.LogLevel != "" {
		level = cfg.LogLevel
	}
	log, err := logger.New(level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	nousCfg := nous.DefaultConfig(cfg.APIKey)
	nousCfg.Logger = log
	llm, err := nous.NewNousAdapter(nousCfg)
	if err != nil {
		log.Close()
		return nil, err
	}

	fileStore, err := store.NewFileStore(settings.ConversationsDir)
	if err != nil {
		log.Close()
		return nil, err
	}

	registry := service.NewToolRegistry(log)
	registry.RegisterBuiltins(tools.Builtins(log))

	executor := service.NewToolExecutor(log)
	toolLoop := usecase.NewToolLoop(llm, executor, log, schema.Format)
	ask := usecase.NewAsk(llm, log)

	return &Container{
		Logger:   log,
		Settings: settings,
		LLM:      llm,
		Registry: registry,
		Store:    fileStore,
		ToolLoop: toolLoop,
		Ask:      ask,
	}, nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		_ = c.Logger.Close()
	}
}
