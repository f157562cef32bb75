package tools

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes-cli/internal/domain/entity"
	"hermes-cli/internal/infrastructure/logger"
)

func newSearchServer(t *testing.T, handler http.HandlerFunc) (*WebSearch, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	tool := NewWebSearchWithClient("test-key", server.URL, server.Client(), logger.NewNop())
	return tool, server
}

func TestWebSearch_FormatsResults(t *testing.T) {
	tool, _ := newSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "golang", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "google", r.URL.Query().Get("engine"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"organic_results": []map[string]string{
				{"title": "The Go Programming Language", "link": "https://go.dev", "snippet": "Go is open source."},
				{"title": "Go docs", "link": "https://go.dev/doc", "snippet": "Documentation."},
			},
		})
	})

	result, err := tool.Execute(context.Background(), `{"query": "golang", "num_results": 2}`)

	require.NoError(t, err)
	var payload struct {
		Results []searchResult `json:"results"`
		Query   string         `json:"query"`
	}
	require.NoError(t, json.Unmarshal([]byte(result), &payload))
	assert.Equal(t, "golang", payload.Query)
	require.Len(t, payload.Results, 2)
	assert.Equal(t, "The Go Programming Language", payload.Results[0].Title)
	assert.Equal(t, "https://go.dev", payload.Results[0].Link)
}

func TestWebSearch_NoResults(t *testing.T) {
	tool, _ := newSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"organic_results": []}`))
	})

	result, err := tool.Execute(context.Background(), `{"query": "nothing"}`)

	require.NoError(t, err)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(result), &payload))
	assert.Equal(t, "No results found", payload["message"])
}

func TestWebSearch_CapsNumResults(t *testing.T) {
	tool, _ := newSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("num"))
		_, _ = w.Write([]byte(`{"organic_results": []}`))
	})

	_, err := tool.Execute(context.Background(), `{"query": "q", "num_results": 50}`)
	require.NoError(t, err)
}

func TestWebSearch_ServerError(t *testing.T) {
	tool, _ := newSearchServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := tool.Execute(context.Background(), `{"query": "q"}`)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestWebSearch_MissingQuery(t *testing.T) {
	tool, _ := newSearchServer(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := tool.Execute(context.Background(), `{}`)

	assert.True(t, errors.Is(err, entity.ErrInvalidArguments))
}

func TestNewWebSearch_RequiresAPIKey(t *testing.T) {
	t.Setenv("SERPAPI_API_KEY", "")

	_, err := NewWebSearch(logger.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERPAPI_API_KEY")
}
