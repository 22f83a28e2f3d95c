package storage

import (
	"errors"
	"fmt"

	"github.com/valter-silva-au/task-cli/pkg/models"
)

// TaskStore persists the pending and completed task lists.
type TaskStore interface {
	LoadPending() ([]models.TaskRecord, error)
	LoadCompleted() ([]models.TaskRecord, error)
	SavePending(records []models.TaskRecord) error
	AppendCompleted(record models.TaskRecord) error
	MoveToCompleted(remaining []models.TaskRecord, done models.TaskRecord) error
}

type fileTaskStore struct {
	pending   *TaskFile
	completed *TaskFile
}

// NewTaskStore creates a TaskStore backed by the two given files.
func NewTaskStore(pendingPath, completedPath string) TaskStore {
	return &fileTaskStore{
		pending:   NewTaskFile(pendingPath),
		completed: NewTaskFile(completedPath),
	}
}

func (s *fileTaskStore) LoadPending() ([]models.TaskRecord, error) {
	return s.pending.Load()
}

func (s *fileTaskStore) LoadCompleted() ([]models.TaskRecord, error) {
	return s.completed.Load()
}

func (s *fileTaskStore) SavePending(records []models.TaskRecord) error {
	return s.pending.Save(records)
}

func (s *fileTaskStore) AppendCompleted(record models.TaskRecord) error {
	_, err := s.completed.Append(record)
	return err
}

// MoveToCompleted replaces the pending list with remaining and appends done
// to the completed list as one unit. Pending's new contents are staged and
// synced first, the completed append follows, and only then is the staged
// file renamed into place. A failed append discards the stage; a failed
// rename rolls the append back.
func (s *fileTaskStore) MoveToCompleted(remaining []models.TaskRecord, done models.TaskRecord) error {
	staged, err := s.pending.Stage(remaining)
	if err != nil {
		return fmt.Errorf("completing task: %w", err)
	}

	rollback, err := s.completed.Append(done)
	if err != nil {
		return errors.Join(fmt.Errorf("completing task: %w", err), staged.Discard())
	}

	if err := staged.Commit(); err != nil {
		if rbErr := rollback(); rbErr != nil {
			return errors.Join(fmt.Errorf("completing task: %w", err), rbErr)
		}
		return fmt.Errorf("completing task: %w", err)
	}
	return nil
}
