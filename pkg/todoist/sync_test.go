package todoist

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"toodone/pkg/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := store.New(db, store.DriverSQLite)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestPullCreatesAndUpdates(t *testing.T) {
	st := newTestStore(t)

	// Local task already mapped to remote 200, with a stale title.
	if _, err := st.Create(store.Task{Title: "old title", RemoteID: "200", Priority: 3}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Task{
			{ID: "100", Content: "brand new", Priority: 1},
			{ID: "200", Content: "fresh title", Priority: 2},
		})
	}))
	defer srv.Close()

	c := NewClient(context.Background(), "tok")
	c.BaseURL = srv.URL

	result, err := NewSyncer(c, st).Pull(context.Background())
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if result.Pulled != 1 || result.Updated != 1 {
		t.Fatalf("result = %+v, want 1 pulled and 1 updated", result)
	}

	created, err := st.GetByRemoteID("100")
	if err != nil {
		t.Fatalf("pulled task missing: %v", err)
	}
	if created.Title != "brand new" {
		t.Errorf("title = %q", created.Title)
	}

	updated, err := st.GetByRemoteID("200")
	if err != nil {
		t.Fatalf("mapped task missing: %v", err)
	}
	if updated.Title != "fresh title" {
		t.Errorf("remote title did not win: %q", updated.Title)
	}
}

func TestPullIsIdempotent(t *testing.T) {
	st := newTestStore(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Task{{ID: "100", Content: "same", Priority: 1}})
	}))
	defer srv.Close()

	c := NewClient(context.Background(), "tok")
	c.BaseURL = srv.URL
	syncer := NewSyncer(c, st)

	if _, err := syncer.Pull(context.Background()); err != nil {
		t.Fatalf("first pull: %v", err)
	}
	result, err := syncer.Pull(context.Background())
	if err != nil {
		t.Fatalf("second pull: %v", err)
	}
	if result.Pulled != 0 || result.Updated != 0 {
		t.Fatalf("second pull result = %+v, want no changes", result)
	}

	tasks, err := st.Query("")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(tasks))
	}
}

func TestPushCreatesAndCloses(t *testing.T) {
	st := newTestStore(t)

	if _, err := st.Create(store.Task{Title: "local only"}); err != nil {
		t.Fatalf("seed unmapped: %v", err)
	}
	if _, err := st.Create(store.Task{Title: "finished", RemoteID: "300", Done: true}); err != nil {
		t.Fatalf("seed mapped done: %v", err)
	}

	var createdRemote, closedRemote bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/tasks":
			// Remote 300 is still open, so the push must close it.
			json.NewEncoder(w).Encode([]Task{{ID: "300", Content: "finished"}})
		case r.Method == http.MethodPost && r.URL.Path == "/tasks":
			createdRemote = true
			json.NewEncoder(w).Encode(Task{ID: "400", Content: "local only"})
		case r.Method == http.MethodPost && r.URL.Path == "/tasks/300/close":
			closedRemote = true
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(context.Background(), "tok")
	c.BaseURL = srv.URL

	result, err := NewSyncer(c, st).Push(context.Background())
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if !createdRemote || !closedRemote {
		t.Fatalf("created=%v closed=%v, want both", createdRemote, closedRemote)
	}
	if result.Pushed != 1 || result.Closed != 1 {
		t.Fatalf("result = %+v", result)
	}

	// The pushed task is now mapped, so a second push creates nothing.
	mapped, err := st.GetByRemoteID("400")
	if err != nil {
		t.Fatalf("pushed task not mapped: %v", err)
	}
	if mapped.Title != "local only" {
		t.Errorf("mapped title = %q", mapped.Title)
	}
}

func TestPushSkipsTasksAlreadyClosedRemotely(t *testing.T) {
	st := newTestStore(t)

	// Mapped and done locally, but no longer in the remote active list.
	if _, err := st.Create(store.Task{Title: "finished", RemoteID: "300", Done: true}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	closeCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/tasks":
			json.NewEncoder(w).Encode([]Task{})
		case r.Method == http.MethodPost && r.URL.Path == "/tasks/300/close":
			closeCalls++
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(context.Background(), "tok")
	c.BaseURL = srv.URL
	syncer := NewSyncer(c, st)

	result, err := syncer.Push(context.Background())
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if closeCalls != 0 {
		t.Fatalf("close calls = %d, want 0", closeCalls)
	}
	if result.Closed != 0 {
		t.Fatalf("result.Closed = %d, want 0", result.Closed)
	}

	// Repeat pushes stay quiet as well.
	if _, err := syncer.Push(context.Background()); err != nil {
		t.Fatalf("second push: %v", err)
	}
	if closeCalls != 0 {
		t.Fatalf("close calls after second push = %d, want 0", closeCalls)
	}
}
