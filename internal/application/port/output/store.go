package output

import "hermes-cli/internal/domain/entity"

// ConversationStore is durable JSON-file persistence of message history.
// Create returns the name actually used, which may differ from the requested
// one when a conversation with that name already exists.
type ConversationStore interface {
	Create(conv entity.Conversation) (string, error)
	Load(name string) (*entity.Conversation, error)
	Save(conv *entity.Conversation) error
	AppendMessage(name string, msg entity.Message) error
	Messages(name string) ([]entity.Message, error)
	List() ([]entity.ConversationSummary, error)
	Delete(name string) error
}
