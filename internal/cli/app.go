package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"hermes-cli/internal/application/usecase"
	"hermes-cli/internal/di"
	"hermes-cli/internal/domain/entity"
	"hermes-cli/internal/infrastructure/schema"
	"hermes-cli/internal/infrastructure/store"
)

const usageText = `Usage:
  hermes [flags] "prompt"          one-shot chat (reads stdin when piped)
  hermes tools list                list available tools
  hermes tools info <name>         show one tool's schema
  hermes conversations list        list stored conversations
  hermes conversations delete <name>

Run 'hermes --help' for chat flags.`

// App wires the parsed command line to the use cases. Stdout carries model
// output only; everything else goes to stderr.
type App struct {
	container *di.Container
	stdin     string
	stdout    io.Writer
	stderr    io.Writer
}

func New(container *di.Container, stdin string, stdout, stderr io.Writer) *App {
	return &App{
		container: container,
		stdin:     stdin,
		stdout:    stdout,
		stderr:    stderr,
	}
}

// Run dispatches in two phases: the first token is checked against the known
// command set, anything else is treated as a chat prompt.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 && a.stdin == "" {
		printBanner(a.stderr)
		fmt.Fprintln(a.stderr, usageText)
		return 2
	}

	if len(args) > 0 {
		switch args[0] {
		case "tools":
			return a.runTools(args[1:])
		case "conversations":
			return a.runConversations(args[1:])
		case "help", "--help", "-h":
			printBanner(a.stderr)
			fmt.Fprintln(a.stderr, usageText)
			return 0
		}
	}

	return a.runChat(ctx, args)
}

func (a *App) runChat(ctx context.Context, args []string) int {
	opts, err := parseChatFlags(args, a.container.Settings)
	if err != nil {
		printError(a.stderr, "%v", err)
		return 2
	}

	prompt, err := resolvePrompt(a.stdin, opts.Prompt)
	if err != nil {
		printError(a.stderr, "%v", err)
		return 2
	}

	var schemaMap map[string]interface{}
	if opts.Schema != "" {
		schemaMap, err = schema.Load(opts.Schema)
		if err != nil {
			printError(a.stderr, "%v", err)
			return 1
		}
	}

	systemPrompt := opts.System
	if schemaMap != nil {
		systemPrompt = schema.BuildSystemPrompt(opts.System, schemaMap)
	}

	messages := make([]entity.Message, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, entity.SystemMessage(systemPrompt))
	}
	messages = append(messages, entity.UserMessage(prompt))

	if opts.Name != "" || opts.Continue {
		return a.runPersistedChat(ctx, opts, prompt, messages, schemaMap)
	}
	if opts.Tools != "" {
		return a.runToolChat(ctx, opts, messages, schemaMap)
	}
	return a.runPlainChat(ctx, opts, messages, schemaMap)
}

// runToolChat is the stateless tool-calling path. Tool use forces
// non-streaming: the loop needs complete responses to see tool calls.
func (a *App) runToolChat(ctx context.Context, opts *ChatOptions, messages []entity.Message, schemaMap map[string]interface{}) int {
	registry := a.container.Registry

	selected, err := registry.Select(opts.Tools)
	if err != nil {
		printError(a.stderr, "%v", err)
		return 1
	}

	content, err := a.container.ToolLoop.Run(ctx, messages, selected, registry.Schemas(selected), usecase.ToolLoopParams{
		Model:         opts.Model,
		Temperature:   opts.Temperature,
		MaxTokens:     opts.MaxTokens,
		MaxIterations: opts.MaxToolIters,
		Schema:        schemaMap,
	})
	if errors.Is(err, usecase.ErrExhausted) {
		printWarning(a.stderr, "%v; no final answer produced", err)
		return 0
	}
	if err != nil {
		printError(a.stderr, "%v", err)
		return 1
	}

	fmt.Fprintln(a.stdout, content)
	return 0
}

func (a *App) runPlainChat(ctx context.Context, opts *ChatOptions, messages []entity.Message, schemaMap map[string]interface{}) int {
	params := usecase.AskParams{
		Model:       opts.Model,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Schema:      schemaMap,
		Stream:      opts.Stream,
	}

	streaming := params.Stream && schemaMap == nil
	content, err := a.container.Ask.Run(ctx, messages, params, func(chunk string) {
		fmt.Fprint(a.stdout, chunk)
	})
	if err != nil {
		printError(a.stderr, "%v", err)
		return 1
	}

	if streaming {
		fmt.Fprintln(a.stdout)
	} else {
		fmt.Fprintln(a.stdout, displayContent(content, schemaMap))
	}
	return 0
}

// displayContent applies schema pretty-printing for the terminal only; the
// raw reply is what gets persisted and replayed to the model.
func displayContent(content string, schemaMap map[string]interface{}) string {
	if schemaMap == nil {
		return content
	}
	return schema.Format(schemaMap, content)
}

func (a *App) runPersistedChat(ctx context.Context, opts *ChatOptions, prompt string, initial []entity.Message, schemaMap map[string]interface{}) int {
	fileStore := a.container.Store
	session := fileStore.Session()

	name := opts.Name
	if opts.Continue {
		active, err := session.Load()
		if err != nil {
			printError(a.stderr, "read active session: %v", err)
			return 1
		}
		if active == "" {
			printError(a.stderr, "no active conversation; start one with --name <name>")
			return 1
		}
		name = active
	}

	conv, err := fileStore.Load(name)
	switch {
	case errors.Is(err, store.ErrConversationNotFound):
		if opts.Continue {
			printError(a.stderr, "%v", err)
			return 1
		}
		var toolCfg *entity.ToolConfig
		if opts.Tools != "" {
			toolCfg = &entity.ToolConfig{Spec: opts.Tools, MaxIterations: opts.MaxToolIters}
		}
		name, err = fileStore.Create(entity.Conversation{
			Name:        name,
			Model:       opts.Model,
			Temperature: opts.Temperature,
			MaxTokens:   opts.MaxTokens,
			Schema:      schemaMap,
			Tools:       toolCfg,
			Messages:    initial,
		})
		if err != nil {
			printError(a.stderr, "create conversation: %v", err)
			return 1
		}
		conv, err = fileStore.Load(name)
		if err != nil {
			printError(a.stderr, "%v", err)
			return 1
		}
	case err != nil:
		printError(a.stderr, "%v", err)
		return 1
	default:
		if opts.ToolsSet {
			printWarning(a.stderr, "--tools ignored; conversation %q keeps its stored tool configuration", name)
		}
		if err := fileStore.AppendMessage(name, entity.UserMessage(prompt)); err != nil {
			printError(a.stderr, "append message: %v", err)
			return 1
		}
		conv, err = fileStore.Load(name)
		if err != nil {
			printError(a.stderr, "%v", err)
			return 1
		}
	}

	if err := session.Set(name); err != nil {
		printWarning(a.stderr, "could not record active session: %v", err)
	}
	dimColor.Fprintf(a.stderr, "[conversation: %s]\n", name)

	if conv.Tools != nil {
		content, err := a.container.ToolLoop.RunPersisted(ctx, name, fileStore, a.container.Registry)
		if errors.Is(err, usecase.ErrExhausted) {
			printWarning(a.stderr, "%v; no final answer produced", err)
			return 0
		}
		if err != nil {
			printError(a.stderr, "%v", err)
			return 1
		}
		fmt.Fprintln(a.stdout, content)
		return 0
	}

	params := usecase.AskParams{
		Model:       conv.Model,
		Temperature: conv.Temperature,
		MaxTokens:   conv.MaxTokens,
		Schema:      conv.Schema,
		Stream:      opts.Stream,
	}
	streaming := params.Stream && conv.Schema == nil
	content, err := a.container.Ask.Run(ctx, conv.Messages, params, func(chunk string) {
		fmt.Fprint(a.stdout, chunk)
	})
	if err != nil {
		printError(a.stderr, "%v", err)
		return 1
	}

	if err := fileStore.AppendMessage(name, entity.AssistantMessage(content)); err != nil {
		printError(a.stderr, "append reply: %v", err)
		return 1
	}

	if streaming {
		fmt.Fprintln(a.stdout)
	} else {
		fmt.Fprintln(a.stdout, displayContent(content, conv.Schema))
	}
	return 0
}

func (a *App) runTools(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.stderr, usageText)
		return 2
	}

	switch args[0] {
	case "list":
		printToolCatalog(a.stdout, a.container.Registry.List())
		return 0
	case "info":
		if len(args) < 2 {
			printError(a.stderr, "usage: hermes tools info <name>")
			return 2
		}
		info, err := a.container.Registry.Info(entity.ToolName(args[1]))
		if err != nil {
			printError(a.stderr, "%v", err)
			return 1
		}
		if err := printToolInfo(a.stdout, info); err != nil {
			printError(a.stderr, "%v", err)
			return 1
		}
		return 0
	default:
		printError(a.stderr, "unknown tools subcommand %q", args[0])
		return 2
	}
}

func (a *App) runConversations(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.stderr, usageText)
		return 2
	}

	switch args[0] {
	case "list":
		summaries, err := a.container.Store.List()
		if err != nil {
			printError(a.stderr, "%v", err)
			return 1
		}
		printConversations(a.stdout, summaries)
		return 0
	case "delete":
		if len(args) < 2 {
			printError(a.stderr, "usage: hermes conversations delete <name>")
			return 2
		}
		if err := a.container.Store.Delete(args[1]); err != nil {
			printError(a.stderr, "%v", err)
			return 1
		}
		fmt.Fprintf(a.stderr, "Deleted conversation %q\n", args[1])
		return 0
	default:
		printError(a.stderr, "unknown conversations subcommand %q", args[0])
		return 2
	}
}
