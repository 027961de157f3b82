package model

import (
	"time"
)

// Status represents the current state of a task
type Status string

const (
	StatusTodo  Status = "todo"
	StatusDoing Status = "doing"
	StatusDone  Status = "done"
)

// Statuses lists every status in menu order
var Statuses = []Status{StatusTodo, StatusDoing, StatusDone}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone:
		return true
	default:
		return false
	}
}

func statusNames() []string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return names
}

// Task is a unit of work belonging to exactly one project
type Task struct {
	ID          int64      `json:"id" db:"id"`
	ProjectID   int64      `json:"project_id" db:"project_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Status      Status     `json:"status" db:"status"`
	Deadline    *Date      `json:"deadline" db:"deadline"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	ClosedAt    *time.Time `json:"closed_at" db:"closed_at"`
}

// TaskPatch holds the fields of a partial update; nil means unchanged
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	Deadline    *string
}

// IsEmpty reports whether the patch changes nothing
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Deadline == nil
}

// NewTask validates the fields and returns a task with no closed_at
func NewTask(id, projectID int64, title, description, status string, deadline *string, createdAt time.Time) (*Task, error) {
	t := &Task{
		ID:        id,
		ProjectID: projectID,
		CreatedAt: createdAt,
	}

	var err error
	if t.Title, err = ValidateText(title, "task title", MaxTitleLength, false); err != nil {
		return nil, err
	}
	if t.Description, err = ValidateText(description, "task description", MaxDescriptionLength, true); err != nil {
		return nil, err
	}
	if t.Status, err = ValidateStatus(status); err != nil {
		return nil, err
	}
	if t.Deadline, err = ValidateDeadline(deadline); err != nil {
		return nil, err
	}

	return t, nil
}

// Apply validates every supplied field before changing any of them.
// Setting the status to done here does not touch ClosedAt.
func (t *Task) Apply(patch TaskPatch) error {
	next := *t

	var err error
	if patch.Title != nil {
		if next.Title, err = ValidateText(*patch.Title, "task title", MaxTitleLength, false); err != nil {
			return err
		}
	}
	if patch.Description != nil {
		if next.Description, err = ValidateText(*patch.Description, "task description", MaxDescriptionLength, true); err != nil {
			return err
		}
	}
	if patch.Status != nil {
		if next.Status, err = ValidateStatus(*patch.Status); err != nil {
			return err
		}
	}
	if patch.Deadline != nil {
		if next.Deadline, err = ValidateDeadline(patch.Deadline); err != nil {
			return err
		}
	}

	*t = next
	return nil
}

// IsOverdue returns true if the deadline is before now's calendar date
// and the task is not done yet
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Deadline == nil || t.Status == StatusDone {
		return false
	}
	return t.Deadline.Before(DateOf(now))
}

// Close marks the task done and records when it was closed
func (t *Task) Close(now time.Time) {
	t.Status = StatusDone
	closedAt := now
	t.ClosedAt = &closedAt
}
