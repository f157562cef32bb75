package entity

import "time"

// ToolConfig is the per-conversation tool setup: which tools are enabled and
// an optional override of the loop iteration ceiling.
type ToolConfig struct {
	Spec          string `json:"spec"`
	MaxIterations int    `json:"max_iterations,omitempty"`
}

// Conversation is one durable chat session as stored on disk.
type Conversation struct {
	Name        string                 `json:"name"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	Model       string                 `json:"model"`
	Temperature float32                `json:"temperature"`
	MaxTokens   int                    `json:"max_tokens"`
	Schema      map[string]interface{} `json:"schema,omitempty"`
	Tools       *ToolConfig            `json:"tools,omitempty"`
	Messages    []Message              `json:"messages"`
}

// ConversationSummary is the listing projection of a stored conversation.
type ConversationSummary struct {
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Model        string    `json:"model"`
	MessageCount int       `json:"message_count"`
}
