// Package client talks to the taskflow HTTP API and keeps a local mirror of
// the task list in sync with it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"taskflow/internal/model"
	"taskflow/internal/service"
)

// Client is a typed JSON client for the /api routes.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates an API client. baseURL includes the /api prefix.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status    int
	Message   string
	Detail    string
	TaskCount int64
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Detail != "" && e.Detail != msg {
		return fmt.Sprintf("API error (status %d): %s: %s", e.Status, msg, e.Detail)
	}
	return fmt.Sprintf("API error (status %d): %s", e.Status, msg)
}

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Count     int             `json:"count"`
	Message   string          `json:"message"`
	Error     string          `json:"error"`
	TaskCount int64           `json:"taskCount"`
}

// TimeBlockPayload is the wire shape of a requested time block.
type TimeBlockPayload struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Date  string `json:"date"`
}

// TaskPayload is the body of create and update requests. Nil fields are omitted.
type TaskPayload struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Category    *string           `json:"category,omitempty"`
	IsHabit     *bool             `json:"isHabit,omitempty"`
	TimeBlock   *TimeBlockPayload `json:"timeBlock,omitempty"`
}

// CategoryPayload is the body of category create and update requests.
type CategoryPayload struct {
	Name      string `json:"name,omitempty"`
	Color     string `json:"color,omitempty"`
	TextColor string `json:"text_color,omitempty"`
}

// TaskQuery narrows ListTasks. Empty fields are not sent.
type TaskQuery struct {
	Filter   model.TaskFilter
	Category string
	Search   string
}

// Health is the /health payload.
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	DBTime    string `json:"dbTime"`
	Error     string `json:"error"`
}

func (c *Client) makeRequest(ctx context.Context, method, endpoint string, body, out interface{}) (*envelope, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(respBody, &env)

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Message = env.Error
			apiErr.Detail = env.Message
			apiErr.TaskCount = env.TaskCount
		} else {
			apiErr.Detail = strings.TrimSpace(string(respBody))
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("failed to unmarshal data: %w", err)
		}
	}
	return &env, nil
}

func taskPath(id uint) string {
	return "/tasks/" + strconv.FormatUint(uint64(id), 10)
}

func (c *Client) ListTasks(ctx context.Context, q TaskQuery) ([]model.TaskView, error) {
	params := url.Values{}
	if q.Filter != "" {
		params.Set("filter", string(q.Filter))
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	endpoint := "/tasks"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var views []model.TaskView
	if _, err := c.makeRequest(ctx, http.MethodGet, endpoint, nil, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *Client) GetTask(ctx context.Context, id uint) (*model.TaskView, error) {
	var view model.TaskView
	if _, err := c.makeRequest(ctx, http.MethodGet, taskPath(id), nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) CreateTask(ctx context.Context, payload TaskPayload) (*model.TaskView, error) {
	var view model.TaskView
	if _, err := c.makeRequest(ctx, http.MethodPost, "/tasks", payload, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) UpdateTask(ctx context.Context, id uint, payload TaskPayload) (*model.TaskView, error) {
	var view model.TaskView
	if _, err := c.makeRequest(ctx, http.MethodPut, taskPath(id), payload, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) ToggleTask(ctx context.Context, id uint) (*model.TaskView, error) {
	var view model.TaskView
	if _, err := c.makeRequest(ctx, http.MethodPatch, taskPath(id)+"/toggle", nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// DeleteTask returns the deleted row.
func (c *Client) DeleteTask(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if _, err := c.makeRequest(ctx, http.MethodDelete, taskPath(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if _, err := c.makeRequest(ctx, http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, payload CategoryPayload) (*model.Category, error) {
	var category model.Category
	if _, err := c.makeRequest(ctx, http.MethodPost, "/categories", payload, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id uint, payload CategoryPayload) (*model.Category, error) {
	var category model.Category
	endpoint := "/categories/" + strconv.FormatUint(uint64(id), 10)
	if _, err := c.makeRequest(ctx, http.MethodPut, endpoint, payload, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	endpoint := "/categories/" + strconv.FormatUint(uint64(id), 10)
	if _, err := c.makeRequest(ctx, http.MethodDelete, endpoint, nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) CategoryTasks(ctx context.Context, id uint) ([]model.TaskView, error) {
	var views []model.TaskView
	endpoint := "/categories/" + strconv.FormatUint(uint64(id), 10) + "/tasks"
	if _, err := c.makeRequest(ctx, http.MethodGet, endpoint, nil, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *Client) ListHabits(ctx context.Context) ([]model.TaskView, error) {
	var views []model.TaskView
	if _, err := c.makeRequest(ctx, http.MethodGet, "/habits", nil, &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *Client) GetHabit(ctx context.Context, id uint) (*model.TaskView, error) {
	var view model.TaskView
	endpoint := "/habits/" + strconv.FormatUint(uint64(id), 10)
	if _, err := c.makeRequest(ctx, http.MethodGet, endpoint, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// CompleteHabit sets the entry for date and returns the stored entry.
func (c *Client) CompleteHabit(ctx context.Context, id uint, date string, completed bool) (*model.HabitEntry, error) {
	var entry model.HabitEntry
	endpoint := "/habits/" + strconv.FormatUint(uint64(id), 10) + "/complete"
	body := map[string]interface{}{"date": date, "completed": completed}
	if _, err := c.makeRequest(ctx, http.MethodPost, endpoint, body, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) DeleteHabitEntry(ctx context.Context, id uint, date string) (*model.HabitEntry, error) {
	var entry model.HabitEntry
	endpoint := "/habits/" + strconv.FormatUint(uint64(id), 10) + "/history/" + url.PathEscape(date)
	if _, err := c.makeRequest(ctx, http.MethodDelete, endpoint, nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) HabitStats(ctx context.Context, id uint, days int) (*service.HabitStats, error) {
	var stats service.HabitStats
	endpoint := fmt.Sprintf("/habits/%d/stats?days=%d", id, days)
	if _, err := c.makeRequest(ctx, http.MethodGet, endpoint, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) HabitOverview(ctx context.Context, days int) (*service.HabitOverview, error) {
	var overview service.HabitOverview
	endpoint := fmt.Sprintf("/habits/stats/overview?days=%d", days)
	if _, err := c.makeRequest(ctx, http.MethodGet, endpoint, nil, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

// Health queries /health, which lives beside the /api prefix.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	root := strings.TrimSuffix(c.BaseURL, "/api")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, root+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	var health Health
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("failed to decode health: %w", err)
	}
	if resp.StatusCode >= 400 {
		return &health, &APIError{Status: resp.StatusCode, Message: health.Error}
	}
	return &health, nil
}
