package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"hermes-cli/internal/application/port/output"
	"hermes-cli/internal/domain/entity"
)

const (
	serpAPIURL        = "https://serpapi.com/search"
	searchTimeout     = 30 * time.Second
	defaultNumResults = 5
	maxNumResults     = 10
)

var _ output.ToolPort = (*WebSearch)(nil)

// WebSearch queries Google through SerpAPI. Construction fails when no API
// key is configured; the registry logs that and carries on without the tool.
type WebSearch struct {
	apiKey  string
	client  *http.Client
	baseURL string
	logger  output.LoggerPort
}

func NewWebSearch(logger output.LoggerPort) (*WebSearch, error) {
	apiKey := os.Getenv("SERPAPI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("SERPAPI_API_KEY environment variable not set; get a free key at https://serpapi.com/")
	}
	return &WebSearch{
		apiKey:  apiKey,
		client:  &http.Client{Timeout: searchTimeout},
		baseURL: serpAPIURL,
		logger:  logger,
	}, nil
}

// NewWebSearchWithClient is used by tests to point the tool at a fake server.
func NewWebSearchWithClient(apiKey, baseURL string, client *http.Client, logger output.LoggerPort) *WebSearch {
	return &WebSearch{apiKey: apiKey, baseURL: baseURL, client: client, logger: logger}
}

func (t *WebSearch) Name() entity.ToolName {
	return entity.ToolWebSearch
}

func (t *WebSearch) Builtin() bool {
	return true
}

func (t *WebSearch) Description() string {
	return "Search the web using Google search and return results including titles, links, and snippets."
}

func (t *WebSearch) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "The search query to execute",
			},
			"num_results": map[string]interface{}{
				"type":        "integer",
				"description": "Number of results to return (default: 5, max: 10)",
				"default":     defaultNumResults,
			},
		},
		"required": []string{"query"},
	}
}

type webSearchArgs struct {
	Query      string `json:"query"`
	NumResults int    `json:"num_results"`
}

type searchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type serpResponse struct {
	OrganicResults []searchResult `json:"organic_results"`
}

func (t *WebSearch) Execute(ctx context.Context, arguments string) (string, error) {
	var args webSearchArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrInvalidArguments, err)
	}
	if args.Query == "" {
		return "", fmt.Errorf("%w: query parameter is required", entity.ErrInvalidArguments)
	}

	numResults := args.NumResults
	if numResults <= 0 {
		numResults = defaultNumResults
	}
	if numResults > maxNumResults {
		numResults = maxNumResults
	}

	t.logger.Info("web search", "query", args.Query, "numResults", numResults)

	params := url.Values{}
	params.Set("q", args.Query)
	params.Set("api_key", t.apiKey)
	params.Set("num", strconv.Itoa(numResults))
	params.Set("engine", "google")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return "", fmt.Errorf("search request timed out (%s limit)", searchTimeout)
		}
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search request failed: status %s", resp.Status)
	}

	var parsed serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("search response malformed: %w", err)
	}

	if len(parsed.OrganicResults) == 0 {
		return marshalResult(map[string]any{
			"results": []searchResult{},
			"message": "No results found",
		})
	}

	results := parsed.OrganicResults
	if len(results) > numResults {
		results = results[:numResults]
	}

	return marshalResult(map[string]any{
		"results": results,
		"query":   args.Query,
	})
}
