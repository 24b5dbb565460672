package todoist

import (
	"context"
	"errors"
	"time"

	"toodone/pkg/store"
	"toodone/pkg/utils"
)

// Syncer maps remote Todoist tasks onto the local store and pushes local
// tasks outward. All local effects go through the store's public
// operations, so they serialize with the scheduler like any other mutation.
type Syncer struct {
	client *Client
	store  *store.Store
}

// NewSyncer creates a Syncer.
func NewSyncer(client *Client, st *store.Store) *Syncer {
	return &Syncer{client: client, store: st}
}

// SyncResult summarizes one sync pass.
type SyncResult struct {
	Pulled  int // remote tasks created locally
	Updated int // remote tasks refreshed locally
	Pushed  int // local tasks created remotely
	Closed  int // remote tasks closed for locally-done tasks
}

// Pull fetches remote tasks and translates them into local create/update
// calls, keyed by the store's remote id column.
func (s *Syncer) Pull(ctx context.Context) (SyncResult, error) {
	var result SyncResult

	remote, err := s.client.GetTasks(ctx)
	if err != nil {
		return result, err
	}

	for _, rt := range remote {
		local, err := s.store.GetByRemoteID(rt.ID)
		if errors.Is(err, store.ErrNotFound) {
			task := store.Task{
				Title:       rt.Content,
				Description: rt.Description,
				Done:        rt.IsCompleted,
				Priority:    toLocalPriority(rt.Priority),
				DueDate:     rt.DueTime(),
				Projects:    []string{},
				Contexts:    []string{},
				RemoteID:    rt.ID,
			}
			if _, err := s.store.Create(task); err != nil {
				return result, err
			}
			result.Pulled++
			continue
		}
		if err != nil {
			return result, err
		}

		// Remote wins on pull: refresh the mapped local task.
		changed := local.Title != rt.Content ||
			local.Description != rt.Description ||
			local.Done != rt.IsCompleted ||
			local.Priority != toLocalPriority(rt.Priority) ||
			!local.DueDate.Equal(rt.DueTime())
		if !changed {
			continue
		}

		local.Title = rt.Content
		local.Description = rt.Description
		local.Done = rt.IsCompleted
		local.Priority = toLocalPriority(rt.Priority)
		local.DueDate = rt.DueTime()
		if err := s.store.Update(local.ID, local); err != nil {
			return result, err
		}
		result.Updated++
	}

	utils.Log("Pulled %d new and %d updated tasks from Todoist", result.Pulled, result.Updated)
	return result, nil
}

// Push creates remote tasks for unmapped local ones and closes remote
// tasks whose local counterpart is done.
func (s *Syncer) Push(ctx context.Context) (SyncResult, error) {
	var result SyncResult

	// The task list endpoint only returns active tasks, so a mapped task
	// absent from it is already closed remotely and needs no close call.
	remote, err := s.client.GetTasks(ctx)
	if err != nil {
		return result, err
	}
	openRemote := make(map[string]bool, len(remote))
	for _, rt := range remote {
		openRemote[rt.ID] = true
	}

	locals, err := s.store.Query("")
	if err != nil {
		return result, err
	}

	for _, local := range locals {
		if local.RemoteID == "" {
			if local.Done {
				continue
			}
			created, err := s.client.CreateTask(ctx, newTaskPayload(local))
			if err != nil {
				return result, err
			}
			local.RemoteID = created.ID
			if err := s.store.Update(local.ID, local); err != nil {
				return result, err
			}
			result.Pushed++
			continue
		}

		if local.Done && openRemote[local.RemoteID] {
			if err := s.client.CloseTask(ctx, local.RemoteID); err != nil {
				return result, err
			}
			result.Closed++
		}
	}

	utils.Log("Pushed %d new and closed %d tasks on Todoist", result.Pushed, result.Closed)
	return result, nil
}

func newTaskPayload(t store.Task) NewTask {
	payload := NewTask{
		Content:     t.Title,
		Description: t.Description,
		Priority:    toRemotePriority(t.Priority),
	}
	if t.HasDue() {
		if t.DueDate.Hour() == 0 && t.DueDate.Minute() == 0 && t.DueDate.Second() == 0 {
			payload.DueDate = t.DueDate.Format("2006-01-02")
		} else {
			payload.DueDatetime = t.DueDate.UTC().Format(time.RFC3339)
		}
	}
	return payload
}
