package cli

import (
	"fmt"

	"github.com/spf13/pflag"

	"hermes-cli/internal/infrastructure/config"
)

// ChatOptions are the flags of the default (chat) command.
type ChatOptions struct {
	Prompt        string
	System        string
	Schema        string
	Model         string
	Temperature   float32
	MaxTokens     int
	Stream        bool
	Tools         string
	ToolsSet      bool // the --tools flag was given explicitly
	MaxToolIters  int
	Name          string
	Continue      bool
}

// parseChatFlags parses everything after the program name for the chat
// command. The first positional argument, if any, is the prompt.
func parseChatFlags(args []string, settings *config.Settings) (*ChatOptions, error) {
	opts := &ChatOptions{}

	fs := pflag.NewFlagSet("hermes", pflag.ContinueOnError)
	fs.SortFlags = false

	fs.StringVarP(&opts.System, "system", "s", "", "System prompt")
	fs.StringVar(&opts.Schema, "schema", "", "JSON schema for structured output (JSON string or file path)")
	fs.StringVarP(&opts.Model, "model", "m", settings.Model, "Model to use (hermes-4-405b or hermes-4-70b)")
	fs.Float32VarP(&opts.Temperature, "temperature", "t", settings.Temperature, "Sampling temperature")
	fs.IntVar(&opts.MaxTokens, "max-tokens", settings.MaxTokens, "Maximum tokens in the response")
	stream := fs.Bool("stream", true, "Stream the response as it is generated")
	noStream := fs.Bool("no-stream", false, "Disable streaming output")
	fs.StringVar(&opts.Tools, "tools", settings.Tools.Default, "Enable tools: 'all' or a comma-separated list of names")
	fs.IntVar(&opts.MaxToolIters, "max-tool-iterations", settings.Tools.MaxIterations, "Maximum tool-calling iterations")
	fs.StringVar(&opts.Name, "name", "", "Persist the exchange under this conversation name")
	fs.BoolVarP(&opts.Continue, "continue", "c", false, "Continue the active conversation")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts.Stream = *stream && !*noStream
	opts.ToolsSet = fs.Changed("tools")

	rest := fs.Args()
	if len(rest) > 1 {
		return nil, fmt.Errorf("expected at most one prompt argument, got %d", len(rest))
	}
	if len(rest) == 1 {
		opts.Prompt = rest[0]
	}

	return opts, nil
}

// resolvePrompt picks the user prompt: piped stdin wins over the positional
// argument; having neither is a usage error.
func resolvePrompt(stdin, positional string) (string, error) {
	if stdin != "" {
		return stdin, nil
	}
	if positional != "" {
		return positional, nil
	}
	return "", fmt.Errorf("no prompt provided. Pass a prompt as an argument or pipe input:\n" +
		"  hermes \"Your prompt here\"\n" +
		"  echo \"Your prompt\" | hermes")
}
