// Package codec converts the in-memory task collection to and from the
// single JSON document kept in the key/value store. Decoding is
// deliberately forgiving: a corrupt document yields an empty collection
// and a partially valid one yields every entry that still carries an id
// and text.
package codec

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/listline/engine/domain"
)

// record mirrors domain.Task with loose types so partially populated
// entries survive decoding.
type record struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Completed  *bool      `json:"completed"`
	Archived   *bool      `json:"archived"`
	CreatedAt  *time.Time `json:"createdAt"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty"`
}

// Encode serializes tasks in display order.
func Encode(tasks []*domain.Task) (string, error) {
	records := make([]record, 0, len(tasks))
	for _, t := range tasks {
		if t == nil {
			continue
		}
		createdAt := t.CreatedAt
		completed := t.Completed
		archived := t.Archived
		rec := record{
			ID:        t.ID,
			Text:      t.Text,
			Completed: &completed,
			Archived:  &archived,
			CreatedAt: &createdAt,
		}
		if t.ArchivedAt != nil {
			at := *t.ArchivedAt
			rec.ArchivedAt = &at
		}
		records = append(records, rec)
	}
	out, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Decode parses a stored document. It never fails: unparseable input
// yields nil, and individual entries are kept or dropped one by one.
// The returned error, when non-nil, only reports that the document was
// corrupt; the collection result stands regardless.
func Decode(document string, now func() time.Time) ([]*domain.Task, error) {
	if now == nil {
		now = time.Now
	}
	if strings.TrimSpace(document) == "" {
		return nil, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal([]byte(document), &raws); err != nil {
		return nil, domain.WrapError(domain.ErrCodeCorruptState, "stored document is not a task list", err)
	}

	tasks := make([]*domain.Task, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		task, ok := coerce(rec, now)
		if !ok {
			continue
		}
		if _, dup := seen[task.ID]; dup {
			continue
		}
		seen[task.ID] = struct{}{}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// coerce validates one decoded record and fills in defaults for absent
// optional fields.
func coerce(rec record, now func() time.Time) (*domain.Task, bool) {
	text, ok := domain.NormalizeText(rec.Text)
	if rec.ID == "" || !ok {
		return nil, false
	}

	task := &domain.Task{
		ID:   rec.ID,
		Text: text,
	}
	if rec.Completed != nil {
		task.Completed = *rec.Completed
	}
	if rec.Archived != nil {
		task.Archived = *rec.Archived
	}
	if rec.CreatedAt != nil && !rec.CreatedAt.IsZero() {
		task.CreatedAt = rec.CreatedAt.UTC()
	} else {
		task.CreatedAt = now().UTC()
	}
	if task.Archived {
		// Archived implies a timestamp; fall back to creation time when
		// the stored entry predates archivedAt.
		at := task.CreatedAt
		if rec.ArchivedAt != nil && !rec.ArchivedAt.IsZero() {
			at = rec.ArchivedAt.UTC()
		}
		task.ArchivedAt = &at
	}
	return task, true
}
