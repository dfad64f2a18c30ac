// Package client holds the session-side half of the app: an HTTP
// client for the todos API and a controller owning the in-process task
// list with optimistic mutation semantics.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"todo-list-backend/internal/todos"
)

// API is the remote surface the controller talks to. Client is the
// HTTP implementation; tests substitute their own.
type API interface {
	List(ctx context.Context) ([]todos.Todo, error)
	Create(ctx context.Context, text string, due *todos.Date) (todos.Todo, error)
	SetCompleted(ctx context.Context, id int, completed bool) (todos.Todo, error)
	Delete(ctx context.Context, id int) error
	Reorder(ctx context.Context, entries []todos.PositionEntry) error
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
}

func (c *Client) List(ctx context.Context) ([]todos.Todo, error) {
	var list []todos.Todo
	if err := c.do(ctx, http.MethodGet, "/todos", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) Create(ctx context.Context, text string, due *todos.Date) (todos.Todo, error) {
	body := map[string]any{"text": text, "due_date": due}
	var created todos.Todo
	if err := c.do(ctx, http.MethodPost, "/todos", body, &created); err != nil {
		return todos.Todo{}, err
	}
	return created, nil
}

func (c *Client) SetCompleted(ctx context.Context, id int, completed bool) (todos.Todo, error) {
	body := map[string]any{"id": id, "is_completed": completed}
	var updated todos.Todo
	if err := c.do(ctx, http.MethodPut, "/todos", body, &updated); err != nil {
		return todos.Todo{}, err
	}
	return updated, nil
}

func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/todos", map[string]any{"id": id}, nil)
}

func (c *Client) Reorder(ctx context.Context, entries []todos.PositionEntry) error {
	body := map[string]any{"todos": entries}
	return c.do(ctx, http.MethodPost, "/todos/reorder", body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return fmt.Errorf("%s %s: %s", method, path, e.Error)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
