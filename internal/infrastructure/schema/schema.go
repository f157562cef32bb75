package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hokaccha/go-prettyjson"
)

// Load accepts either an inline JSON document or a path to a JSON file.
// A readable file wins; otherwise the input must itself parse as JSON.
func Load(input string) (map[string]interface{}, error) {
	raw := []byte(input)

	if info, err := os.Stat(input); err == nil && info.Mode().IsRegular() {
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("read schema file: %w", err)
		}
		raw = data
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid schema JSON: %w", err)
	}
	return parsed, nil
}

// BuildSystemPrompt appends structured-output instructions to an optional
// user-provided system prompt.
func BuildSystemPrompt(userSystemPrompt string, s map[string]interface{}) string {
	encoded, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		encoded = []byte("{}")
	}

	var b strings.Builder
	if userSystemPrompt != "" {
		b.WriteString(userSystemPrompt)
		b.WriteString("\n\n")
	}
	b.WriteString("You must respond with valid JSON that conforms to this JSON schema:\n")
	b.Write(encoded)
	b.WriteString("\nRespond only with the JSON object, no extra prose.")
	return b.String()
}

// Format pretty-prints content that parses as JSON; anything else comes back
// verbatim. This is cosmetic only and never fails.
func Format(_ map[string]interface{}, content string) string {
	var parsed interface{}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return content
	}
	pretty, err := prettyjson.Marshal(parsed)
	if err != nil {
		return content
	}
	return string(pretty)
}
