package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"hermes-cli/internal/application/port/output"
	"hermes-cli/internal/domain/entity"
)

// ErrConversationNotFound is returned when the named conversation has no
// file on disk.
var ErrConversationNotFound = errors.New("conversation not found")

var _ output.ConversationStore = (*FileStore)(nil)

// FileStore persists each conversation as one JSON file in a flat directory.
// A single process owns a conversation at a time; no file locking.
type FileStore struct {
	dir     string
	session *SessionContext
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create conversations dir: %w", err)
	}
	return &FileStore{
		dir:     dir,
		session: NewSessionContext(filepath.Join(filepath.Dir(dir), ".active_session")),
	}, nil
}

// Session exposes the active-session context tied to this store's directory.
func (s *FileStore) Session() *SessionContext {
	return s.session
}

// GenerateName produces a fresh conversation name for unnamed chats.
func GenerateName() string {
	return "chat-" + uuid.NewString()[:8]
}

func (s *FileStore) Create(conv entity.Conversation) (string, error) {
	name := conv.Name
	if name == "" {
		name = GenerateName()
	}
	name = s.ensureUniqueName(name)

	now := time.Now()
	conv.Name = name
	conv.CreatedAt = now
	conv.UpdatedAt = now

	if err := s.write(name, &conv); err != nil {
		return "", err
	}
	return name, nil
}

func (s *FileStore) Load(name string) (*entity.Conversation, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrConversationNotFound, name)
		}
		return nil, fmt.Errorf("read conversation: %w", err)
	}

	var conv entity.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("parse conversation %q: %w", name, err)
	}
	return &conv, nil
}

func (s *FileStore) Save(conv *entity.Conversation) error {
	conv.UpdatedAt = time.Now()
	return s.write(conv.Name, conv)
}

func (s *FileStore) AppendMessage(name string, msg entity.Message) error {
	conv, err := s.Load(name)
	if err != nil {
		return err
	}
	conv.Messages = append(conv.Messages, msg)
	return s.Save(conv)
}

func (s *FileStore) Messages(name string) ([]entity.Message, error) {
	conv, err := s.Load(name)
	if err != nil {
		return nil, err
	}
	return conv.Messages, nil
}

// List returns summaries of every readable conversation, most recently
// updated first. Malformed files are skipped.
func (s *FileStore) List() ([]entity.ConversationSummary, error) {
	entries, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	summaries := make([]entity.ConversationSummary, 0, len(entries))
	for _, path := range entries {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var conv entity.Conversation
		if err := json.Unmarshal(data, &conv); err != nil {
			continue
		}
		name := conv.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), ".json")
		}
		summaries = append(summaries, entity.ConversationSummary{
			Name:         name,
			CreatedAt:    conv.CreatedAt,
			UpdatedAt:    conv.UpdatedAt,
			Model:        conv.Model,
			MessageCount: len(conv.Messages),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

func (s *FileStore) Delete(name string) error {
	path := s.path(name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %q", ErrConversationNotFound, name)
		}
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}

	if active, _ := s.session.Load(); active == name {
		_ = s.session.Clear()
	}
	return nil
}

func (s *FileStore) write(name string, conv *entity.Conversation) error {
	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return fmt.Errorf("encode conversation: %w", err)
	}
	if err := os.WriteFile(s.path(name), data, 0o644); err != nil {
		return fmt.Errorf("write conversation: %w", err)
	}
	return nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, sanitizeName(name)+".json")
}

func (s *FileStore) ensureUniqueName(name string) string {
	unique := name
	counter := 2
	for {
		if _, err := os.Stat(s.path(unique)); errors.Is(err, os.ErrNotExist) {
			return unique
		}
		unique = fmt.Sprintf("%s-%d", name, counter)
		counter++
	}
}

// sanitizeName keeps names filesystem-safe: anything outside [A-Za-z0-9-_]
// becomes an underscore.
func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, name)
}
