// Package todoist talks to the Todoist REST v2 API and maps remote tasks
// onto the local store.
package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the Todoist REST v2 endpoint.
const DefaultBaseURL = "https://api.todoist.com/rest/v2"

// Client is a minimal Todoist REST v2 client.
type Client struct {
	BaseURL    string
	httpClient *http.Client
}

// NewClient builds a client authenticating with the given API token.
func NewClient(ctx context.Context, token string) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &Client{
		BaseURL:    DefaultBaseURL,
		httpClient: oauth2.NewClient(ctx, src),
	}
}

// GetProjects lists all projects.
func (c *Client) GetProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.get(ctx, "/projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// InboxProject returns the inbox project, falling back to the first project.
func (c *Client) InboxProject(ctx context.Context) (Project, error) {
	projects, err := c.GetProjects(ctx)
	if err != nil {
		return Project{}, err
	}
	for _, p := range projects {
		if p.IsInboxProject {
			return p, nil
		}
	}
	if len(projects) > 0 {
		return projects[0], nil
	}
	return Project{}, fmt.Errorf("todoist: no projects found")
}

// GetTasks lists all active tasks.
func (c *Client) GetTasks(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := c.get(ctx, "/tasks", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a remote task. The request carries an X-Request-Id so
// a retried call never creates a duplicate.
func (c *Client) CreateTask(ctx context.Context, task NewTask) (Task, error) {
	body, err := json.Marshal(task)
	if err != nil {
		return Task{}, fmt.Errorf("todoist: marshal task: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/tasks", bytes.NewReader(body))
	if err != nil {
		return Task{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	var created Task
	if err := c.do(req, &created); err != nil {
		return Task{}, err
	}
	return created, nil
}

// CloseTask marks a remote task complete.
func (c *Client) CloseTask(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/tasks/"+id+"/close", nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
	return c.do(req, nil)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("todoist: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("todoist: %s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, body)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("todoist: decode response: %w", err)
	}
	return nil
}
