package todoist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetTasks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tasks" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("authorization = %q", got)
		}
		json.NewEncoder(w).Encode([]Task{
			{ID: "100", Content: "buy milk", Priority: 1},
			{ID: "101", Content: "file taxes", Priority: 4, Due: &Due{Date: "2026-04-15"}},
		})
	}))
	defer srv.Close()

	c := NewClient(context.Background(), "test-token")
	c.BaseURL = srv.URL

	tasks, err := c.GetTasks(context.Background())
	if err != nil {
		t.Fatalf("get tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	if tasks[1].Content != "file taxes" {
		t.Errorf("content = %q", tasks[1].Content)
	}

	due := tasks[1].DueTime()
	want := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	if !due.Equal(want) {
		t.Errorf("due = %v, want %v", due, want)
	}
}

func TestCreateTaskSendsRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tasks" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("missing X-Request-Id header")
		}

		var payload NewTask
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.Content != "new task" {
			t.Errorf("content = %q", payload.Content)
		}

		json.NewEncoder(w).Encode(Task{ID: "555", Content: payload.Content})
	}))
	defer srv.Close()

	c := NewClient(context.Background(), "test-token")
	c.BaseURL = srv.URL

	created, err := c.CreateTask(context.Background(), NewTask{Content: "new task"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if created.ID != "555" {
		t.Errorf("id = %q", created.ID)
	}
}

func TestCloseTask(t *testing.T) {
	var closedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		closedPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(context.Background(), "test-token")
	c.BaseURL = srv.URL

	if err := c.CloseTask(context.Background(), "123"); err != nil {
		t.Fatalf("close task: %v", err)
	}
	if closedPath != "/tasks/123/close" {
		t.Errorf("path = %q", closedPath)
	}
}

func TestInboxProject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Project{
			{ID: "1", Name: "Work"},
			{ID: "2", Name: "Inbox", IsInboxProject: true},
		})
	}))
	defer srv.Close()

	c := NewClient(context.Background(), "test-token")
	c.BaseURL = srv.URL

	inbox, err := c.InboxProject(context.Background())
	if err != nil {
		t.Fatalf("inbox project: %v", err)
	}
	if inbox.ID != "2" {
		t.Errorf("inbox = %+v", inbox)
	}
}

func TestErrorStatusSurfacesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(context.Background(), "test-token")
	c.BaseURL = srv.URL

	if _, err := c.GetTasks(context.Background()); err == nil {
		t.Fatal("expected error for 429 response")
	}
}

func TestPriorityMapping(t *testing.T) {
	// Round trip: local 1..5 against remote 1..4 with inverted scales.
	tests := []struct {
		local  int
		remote int
	}{
		{1, 4},
		{2, 3},
		{3, 2},
		{4, 1},
		{5, 1},
	}
	for _, tt := range tests {
		if got := toRemotePriority(tt.local); got != tt.remote {
			t.Errorf("toRemotePriority(%d) = %d, want %d", tt.local, got, tt.remote)
		}
	}
	if got := toLocalPriority(4); got != 1 {
		t.Errorf("toLocalPriority(4) = %d, want 1", got)
	}
	if got := toLocalPriority(1); got != 4 {
		t.Errorf("toLocalPriority(1) = %d, want 4", got)
	}
}
