package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"hermes-cli/internal/cli"
	"hermes-cli/internal/di"
	"hermes-cli/internal/infrastructure/env"
)

func main() {
	os.Exit(run())
}

func run() int {
	envService := env.NewEnvService()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	container, err := di.NewContainer(di.Config{
		APIKey:   envService.Get("NOUS_API_KEY"),
		LogLevel: envService.Get("HERMES_LOG_LEVEL"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer container.Close()

	app := cli.New(container, readPipedStdin(), os.Stdout, os.Stderr)
	return app.Run(ctx, os.Args[1:])
}

// readPipedStdin returns piped input, or "" when stdin is a terminal.
func readPipedStdin() string {
	info, err := os.Stdin.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice != 0 {
		return ""
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
