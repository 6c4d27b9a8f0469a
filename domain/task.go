package domain

import (
	"strings"
	"time"
)

// Task is a single to-do record. The collection in usecase/tasklist is
// the only owner of live Task values; everything handed to callers is a
// clone.
type Task struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Completed  bool       `json:"completed"`
	Archived   bool       `json:"archived"`
	CreatedAt  time.Time  `json:"createdAt"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	copied := *t
	if t.ArchivedAt != nil {
		at := *t.ArchivedAt
		copied.ArchivedAt = &at
	}
	return &copied
}

// IsActive reports whether the task is part of the active (non-archived) view.
func (t *Task) IsActive() bool {
	return t != nil && !t.Archived
}

// NormalizeText trims surrounding whitespace and reports whether the
// remainder is usable as task text.
func NormalizeText(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	return trimmed, trimmed != ""
}
