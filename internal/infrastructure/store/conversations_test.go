package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes-cli/internal/domain/entity"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "conversations"))
	require.NoError(t, err)
	return store
}

func sampleConversation(name string) entity.Conversation {
	return entity.Conversation{
		Name:        name,
		Model:       "hermes-4-405b",
		Temperature: 0.7,
		MaxTokens:   2048,
		Messages: []entity.Message{
			entity.UserMessage("hello"),
		},
	}
}

func TestCreateAndLoad(t *testing.T) {
	store := newTestStore(t)

	name, err := store.Create(sampleConversation("my-chat"))
	require.NoError(t, err)
	assert.Equal(t, "my-chat", name)

	conv, err := store.Load("my-chat")
	require.NoError(t, err)
	assert.Equal(t, "my-chat", conv.Name)
	assert.Equal(t, "hermes-4-405b", conv.Model)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, entity.RoleUser, conv.Messages[0].Role)
	assert.False(t, conv.CreatedAt.IsZero())
	assert.False(t, conv.UpdatedAt.IsZero())
}

func TestCreate_GeneratesNameWhenEmpty(t *testing.T) {
	store := newTestStore(t)

	name, err := store.Create(sampleConversation(""))

	require.NoError(t, err)
	assert.Regexp(t, `^chat-[0-9a-f]{8}$`, name)
}

func TestCreate_AutoIncrementsOnConflict(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Create(sampleConversation("demo"))
	require.NoError(t, err)
	second, err := store.Create(sampleConversation("demo"))
	require.NoError(t, err)
	third, err := store.Create(sampleConversation("demo"))
	require.NoError(t, err)

	assert.Equal(t, "demo", first)
	assert.Equal(t, "demo-2", second)
	assert.Equal(t, "demo-3", third)
}

func TestLoad_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load("ghost")

	assert.True(t, errors.Is(err, ErrConversationNotFound))
}

func TestSanitizedNames(t *testing.T) {
	store := newTestStore(t)

	name, err := store.Create(sampleConversation("my chat/with:stuff"))
	require.NoError(t, err)

	// Loading by the original name resolves to the same sanitized file.
	conv, err := store.Load(name)
	require.NoError(t, err)
	assert.Equal(t, name, conv.Name)

	entries, err := os.ReadDir(store.dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "my_chat_with_stuff.json", entries[0].Name())
}

func TestAppendMessage(t *testing.T) {
	store := newTestStore(t)
	name, err := store.Create(sampleConversation("append"))
	require.NoError(t, err)

	require.NoError(t, store.AppendMessage(name, entity.AssistantMessage("hi there")))
	require.NoError(t, store.AppendMessage(name, entity.UserMessage("more")))

	messages, err := store.Messages(name)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, entity.RoleAssistant, messages[1].Role)
	assert.Equal(t, "more", messages[2].Content)
}

func TestAppendMessage_PreservesToolFields(t *testing.T) {
	store := newTestStore(t)
	name, err := store.Create(sampleConversation("tools"))
	require.NoError(t, err)

	assistant := entity.Message{
		Role: entity.RoleAssistant,
		ToolCalls: []entity.ToolCall{
			{ID: "call_1", Name: "calculate", Arguments: `{"expression":"2+2"}`},
		},
	}
	require.NoError(t, store.AppendMessage(name, assistant))
	require.NoError(t, store.AppendMessage(name, entity.ToolResultMessage("call_1", "calculate", `{"result":4}`)))

	messages, err := store.Messages(name)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	require.Len(t, messages[1].ToolCalls, 1)
	assert.Equal(t, "call_1", messages[1].ToolCalls[0].ID)
	assert.Equal(t, "call_1", messages[2].ToolCallID)
	assert.Equal(t, "calculate", messages[2].Name)
}

func TestSave_TouchesUpdatedAt(t *testing.T) {
	store := newTestStore(t)
	name, err := store.Create(sampleConversation("touched"))
	require.NoError(t, err)

	conv, err := store.Load(name)
	require.NoError(t, err)
	created := conv.UpdatedAt

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, store.Save(conv))

	reloaded, err := store.Load(name)
	require.NoError(t, err)
	assert.True(t, reloaded.UpdatedAt.After(created))
}

func TestList_SortedAndSkipsMalformed(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Create(sampleConversation("older"))
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	_, err = store.Create(sampleConversation("newer"))
	require.NoError(t, err)

	// A malformed file must be skipped, not break listing.
	malformed := filepath.Join(store.dir, "broken.json")
	require.NoError(t, os.WriteFile(malformed, []byte("{not json"), 0o644))

	summaries, err := store.List()
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "newer", summaries[0].Name)
	assert.Equal(t, "older", summaries[1].Name)
	assert.Equal(t, 1, summaries[0].MessageCount)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	name, err := store.Create(sampleConversation("doomed"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(name))

	_, err = store.Load(name)
	assert.True(t, errors.Is(err, ErrConversationNotFound))

	err = store.Delete(name)
	assert.True(t, errors.Is(err, ErrConversationNotFound))
}

func TestSession_SetLoadClear(t *testing.T) {
	store := newTestStore(t)
	session := store.Session()

	active, err := session.Load()
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, session.Set("my-chat"))
	active, err = session.Load()
	require.NoError(t, err)
	assert.Equal(t, "my-chat", active)

	require.NoError(t, session.Clear())
	active, err = session.Load()
	require.NoError(t, err)
	assert.Empty(t, active)

	// Clearing twice is fine.
	assert.NoError(t, session.Clear())
}

func TestDelete_ClearsActiveSession(t *testing.T) {
	store := newTestStore(t)
	name, err := store.Create(sampleConversation("active"))
	require.NoError(t, err)
	require.NoError(t, store.Session().Set(name))

	require.NoError(t, store.Delete(name))

	active, err := store.Session().Load()
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestDelete_PreservesOtherActiveSession(t *testing.T) {
	store := newTestStore(t)
	doomed, err := store.Create(sampleConversation("doomed"))
	require.NoError(t, err)
	_, err = store.Create(sampleConversation("kept"))
	require.NoError(t, err)
	require.NoError(t, store.Session().Set("kept"))

	require.NoError(t, store.Delete(doomed))

	active, err := store.Session().Load()
	require.NoError(t, err)
	assert.Equal(t, "kept", active)
}
