package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"hermes-cli/internal/application/port/output"
	"hermes-cli/internal/domain/entity"
)

const maxReadFileSize = 1_000_000 // 1 MB

var _ output.ToolPort = (*ReadFile)(nil)

type ReadFile struct{}

func NewReadFile() *ReadFile {
	return &ReadFile{}
}

func (t *ReadFile) Name() entity.ToolName {
	return entity.ToolReadFile
}

func (t *ReadFile) Builtin() bool {
	return true
}

func (t *ReadFile) Description() string {
	return "Read the contents of a file. Maximum file size is 1MB."
}

func (t *ReadFile) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"file_path": map[string]interface{}{
				"type":        "string",
				"description": "Path to the file to read (supports ~ for home directory)",
			},
		},
		"required": []string{"file_path"},
	}
}

type readFileArgs struct {
	FilePath string `json:"file_path"`
}

func (t *ReadFile) Execute(ctx context.Context, arguments string) (string, error) {
	var args readFileArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrInvalidArguments, err)
	}
	if args.FilePath == "" {
		return "", fmt.Errorf("%w: file_path parameter is required", entity.ErrInvalidArguments)
	}

	path, err := expandHome(args.FilePath)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", args.FilePath)
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("not a file: %s", args.FilePath)
	}
	if info.Size() > maxReadFileSize {
		return "", fmt.Errorf("file too large (max 1MB)")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not UTF-8 text")
	}

	return marshalResult(map[string]any{"content": string(data)})
}

var _ output.ToolPort = (*WriteFile)(nil)

type WriteFile struct{}

func NewWriteFile() *WriteFile {
	return &WriteFile{}
}

func (t *WriteFile) Name() entity.ToolName {
	return entity.ToolWriteFile
}

func (t *WriteFile) Builtin() bool {
	return true
}

func (t *WriteFile) Description() string {
	return "Write content to a file. Creates parent directories if needed."
}

func (t *WriteFile) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"file_path": map[string]interface{}{
				"type":        "string",
				"description": "Path to the file to write (supports ~ for home directory)",
			},
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Content to write to the file",
			},
		},
		"required": []string{"file_path", "content"},
	}
}

type writeFileArgs struct {
	FilePath string  `json:"file_path"`
	Content  *string `json:"content"`
}

func (t *WriteFile) Execute(ctx context.Context, arguments string) (string, error) {
	var args writeFileArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrInvalidArguments, err)
	}
	if args.FilePath == "" {
		return "", fmt.Errorf("%w: file_path parameter is required", entity.ErrInvalidArguments)
	}
	if args.Content == nil {
		return "", fmt.Errorf("%w: content parameter is required", entity.ErrInvalidArguments)
	}

	path, err := expandHome(args.FilePath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.WriteFile(path, []byte(*args.Content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return marshalResult(map[string]any{
		"success": true,
		"message": fmt.Sprintf("Wrote %d characters to %s", len(*args.Content), args.FilePath),
	})
}

func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
