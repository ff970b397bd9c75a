package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"story-engine/internal/interfaces"
	"story-engine/internal/models"

	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.GraphStoreClient = (*HTTPGraphStoreClient)(nil)

// HTTPGraphStoreClient talks to the Story Graph Store over HTTP. Calls are
// synchronous with a bounded timeout; no retries are performed here, the
// caller may resubmit on models.ErrGraphUnreachable.
type HTTPGraphStoreClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPGraphStoreClient creates a new HTTP client for the graph store.
func NewHTTPGraphStoreClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *HTTPGraphStoreClient {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPGraphStoreClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("HTTPGraphStoreClient"),
	}
}

func (c *HTTPGraphStoreClient) ListStories(ctx context.Context, status models.StoryStatus) ([]models.Story, error) {
	path := "/stories"
	if status != "" {
		path += "?status=" + string(status)
	}
	var stories []models.Story
	if err := c.do(ctx, http.MethodGet, path, nil, &stories, http.StatusOK); err != nil {
		return nil, err
	}
	return stories, nil
}

func (c *HTTPGraphStoreClient) GetStory(ctx context.Context, storyID int64) (*models.Story, error) {
	var story models.Story
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/stories/%d", storyID), nil, &story, http.StatusOK); err != nil {
		return nil, err
	}
	return &story, nil
}

func (c *HTTPGraphStoreClient) GetPage(ctx context.Context, pageID int64) (*models.PageWithChoices, error) {
	var pw models.PageWithChoices
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/pages/%d", pageID), nil, &pw, http.StatusOK); err != nil {
		return nil, err
	}
	return &pw, nil
}

// GetStartPage maps the store's "story has no start page" rejection to
// models.ErrNoStartPage so the controller can surface it as NoStartPage
// instead of a generic failure.
func (c *HTTPGraphStoreClient) GetStartPage(ctx context.Context, storyID int64) (*models.PageWithChoices, error) {
	var pw models.PageWithChoices
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/stories/%d/start", storyID), nil, &pw, http.StatusOK)
	if err != nil {
		if isStatusErr(err, http.StatusBadRequest) {
			return nil, models.ErrNoStartPage
		}
		return nil, err
	}
	return &pw, nil
}

func (c *HTTPGraphStoreClient) CreateStory(ctx context.Context, in models.StoryInput) (*models.Story, error) {
	var story models.Story
	if err := c.do(ctx, http.MethodPost, "/stories", in, &story, http.StatusCreated); err != nil {
		return nil, err
	}
	return &story, nil
}

func (c *HTTPGraphStoreClient) UpdateStory(ctx context.Context, storyID int64, in models.StoryInput) (*models.Story, error) {
	var story models.Story
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/stories/%d", storyID), in, &story, http.StatusOK); err != nil {
		return nil, err
	}
	return &story, nil
}

func (c *HTTPGraphStoreClient) DeleteStory(ctx context.Context, storyID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/stories/%d", storyID), nil, nil, http.StatusNoContent)
}

func (c *HTTPGraphStoreClient) CreatePage(ctx context.Context, storyID int64, in models.PageInput) (*models.Page, error) {
	var page models.Page
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/stories/%d/pages", storyID), in, &page, http.StatusCreated); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPGraphStoreClient) CreateChoice(ctx context.Context, pageID int64, in models.ChoiceInput) (*models.Choice, error) {
	var choice models.Choice
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/pages/%d/choices", pageID), in, &choice, http.StatusCreated); err != nil {
		return nil, err
	}
	return &choice, nil
}

// statusError carries an unexpected HTTP status for upstream mapping.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	if e.body != "" {
		return fmt.Sprintf("graph store returned status %d: %s", e.status, e.body)
	}
	return fmt.Sprintf("graph store returned status %d", e.status)
}

func isStatusErr(err error, status int) bool {
	se, ok := err.(*statusError)
	return ok && se.status == status
}

// do executes one request against the graph store and decodes the response
// into out (when out is non-nil). Transport failures become
// models.ErrGraphUnreachable, 404 becomes models.ErrNotFound; any other
// unexpected status is returned as a *statusError.
func (c *HTTPGraphStoreClient) do(ctx context.Context, method, path string, body, out interface{}, wantStatus int) error {
	log := c.logger.With(zap.String("method", method), zap.String("path", path))

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal graph store request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create graph store request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("Graph store request failed", zap.Error(err))
		return fmt.Errorf("%w: %v", models.ErrGraphUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.ErrNotFound
	}
	if resp.StatusCode != wantStatus {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Warn("Graph store returned unexpected status", zap.Int("status", resp.StatusCode))
		return &statusError{status: resp.StatusCode, body: strings.TrimSpace(string(respBody))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Error("Failed to decode graph store response", zap.Error(err))
			return fmt.Errorf("failed to decode graph store response: %w", err)
		}
	}
	return nil
}
