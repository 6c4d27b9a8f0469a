// Package tasklist owns the canonical task collection. Every mutation
// goes through the Model, which enforces the entity invariants, keeps
// the search engine in sync, and persists the whole collection to the
// configured store after each write. Persistence failures are logged
// and swallowed: memory is the source of record.
package tasklist

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/listline/engine/domain"
	"github.com/listline/engine/internal/codec"
	"github.com/listline/engine/internal/search"
	"github.com/listline/engine/repository"
)

// DefaultStorageKey is the single well-known key the collection
// document lives under.
const DefaultStorageKey = "todos"

// Config carries the optional knobs of a Model. Zero values fall back
// to production defaults.
type Config struct {
	StorageKey string
	// Clock and IDGenerator exist so tests can pin time and identity.
	Clock       func() time.Time
	IDGenerator func() string
}

// Model is the task collection plus its public API. Operations are
// serialized behind one mutex; each call is atomic with respect to the
// others.
type Model struct {
	mu    sync.RWMutex
	tasks []*domain.Task
	byID  map[string]*domain.Task

	store  repository.Store
	engine *search.Engine
	logger *zap.Logger

	key   string
	now   func() time.Time
	newID func() string
}

// New assembles a Model around the given store and search engine.
func New(store repository.Store, engine *search.Engine, logger *zap.Logger, cfg Config) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = search.New(search.Options{})
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = DefaultStorageKey
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = uuid.NewString
	}
	return &Model{
		byID:   make(map[string]*domain.Task),
		store:  store,
		engine: engine,
		logger: logger,
		key:    cfg.StorageKey,
		now:    cfg.Clock,
		newID:  cfg.IDGenerator,
	}
}

// Load hydrates the collection from the store. An absent key or a
// corrupt document both leave the collection empty; neither is surfaced
// to the caller, and the next successful persist overwrites whatever
// was stored.
func (m *Model) Load(ctx context.Context) error {
	document, found, err := m.store.Read(ctx, m.key)
	if err != nil {
		m.logger.Warn("store read failed, starting empty",
			zap.String("key", m.key), zap.Error(err))
		return nil
	}
	if !found {
		return nil
	}

	tasks, decodeErr := codec.Decode(document, m.now)
	if decodeErr != nil {
		m.logger.Warn("stored document is corrupt, starting empty",
			zap.String("key", m.key), zap.Error(decodeErr))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = m.tasks[:0]
	m.byID = make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		if _, dup := m.byID[t.ID]; dup {
			continue
		}
		m.tasks = append(m.tasks, t)
		m.byID[t.ID] = t
	}
	m.engine.Invalidate()
	return nil
}

// Add creates a task from the given text, prepends it to the
// collection, and persists. It fails only on empty or whitespace text.
func (m *Model) Add(ctx context.Context, text string) (*domain.Task, error) {
	trimmed, ok := domain.NormalizeText(text)
	if !ok {
		return nil, domain.ErrEmptyText
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task := &domain.Task{
		ID:        m.freshID(),
		Text:      trimmed,
		CreatedAt: m.now().UTC(),
	}
	m.tasks = append([]*domain.Task{task}, m.tasks...)
	m.byID[task.ID] = task

	m.afterMutation(ctx)
	return task.Clone(), nil
}

// Edit replaces a task's text, preserving every other field. It returns
// (nil, nil) when the id is unknown and an INVALID error on empty text.
func (m *Model) Edit(ctx context.Context, id, text string) (*domain.Task, error) {
	trimmed, ok := domain.NormalizeText(text)
	if !ok {
		return nil, domain.ErrEmptyText
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, found := m.byID[id]
	if !found {
		return nil, nil
	}
	task.Text = trimmed

	m.afterMutation(ctx)
	return task.Clone(), nil
}

// ToggleComplete flips the completed flag. Archived tasks may be
// toggled; their archived state is untouched. Returns nil for an
// unknown id.
func (m *Model) ToggleComplete(ctx context.Context, id string) *domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, found := m.byID[id]
	if !found {
		return nil
	}
	task.Completed = !task.Completed

	m.afterMutation(ctx)
	return task.Clone()
}

// Archive marks a task archived and stamps ArchivedAt. Archiving is
// unconditional and idempotent: an already-archived task is returned
// unchanged without another persist.
func (m *Model) Archive(ctx context.Context, id string) *domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, found := m.byID[id]
	if !found {
		return nil
	}
	if task.Archived {
		return task.Clone()
	}
	at := m.now().UTC()
	task.Archived = true
	task.ArchivedAt = &at

	m.afterMutation(ctx)
	return task.Clone()
}

// Unarchive clears the archived flag and timestamp. Idempotent; returns
// nil for an unknown id.
func (m *Model) Unarchive(ctx context.Context, id string) *domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, found := m.byID[id]
	if !found {
		return nil
	}
	if !task.Archived {
		return task.Clone()
	}
	task.Archived = false
	task.ArchivedAt = nil

	m.afterMutation(ctx)
	return task.Clone()
}

// ArchiveCompleted archives every completed, not-yet-archived task and
// returns how many changed. Already-archived tasks are not counted.
func (m *Model) ArchiveCompleted(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	at := m.now().UTC()
	archived := 0
	for _, task := range m.tasks {
		if !task.Completed || task.Archived {
			continue
		}
		stamp := at
		task.Archived = true
		task.ArchivedAt = &stamp
		archived++
	}
	if archived == 0 {
		return 0
	}

	m.afterMutation(ctx)
	return archived
}

// Delete removes a task. It reports whether anything was removed.
func (m *Model) Delete(ctx context.Context, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	index := m.indexOf(id)
	if index < 0 {
		return false
	}
	m.tasks = append(m.tasks[:index], m.tasks[index+1:]...)
	delete(m.byID, id)

	m.afterMutation(ctx)
	return true
}

// Reorder moves a task to target within the display order. The move is
// a remove followed by an insert at target of the reduced sequence.
// It reports false for an unknown id or a target outside [0, size).
func (m *Model) Reorder(ctx context.Context, id string, target int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if target < 0 || target >= len(m.tasks) {
		return false
	}
	index := m.indexOf(id)
	if index < 0 {
		return false
	}
	if index == target {
		return true
	}

	task := m.tasks[index]
	reduced := append(m.tasks[:index], m.tasks[index+1:]...)
	if target >= len(reduced) {
		m.tasks = append(reduced, task)
	} else {
		m.tasks = append(reduced[:target], append([]*domain.Task{task}, reduced[target:]...)...)
	}

	m.afterMutation(ctx)
	return true
}

// Get returns a copy of the task, or nil when the id is unknown.
func (m *Model) Get(id string) *domain.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byID[id].Clone()
}

// All returns a copy of the full collection in display order.
func (m *Model) All() []*domain.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneAll(m.tasks)
}

// Active returns the non-archived tasks in display order.
func (m *Model) Active() []*domain.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filtered(false)
}

// Archived returns the archived tasks in display order.
func (m *Model) Archived() []*domain.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filtered(true)
}

// Search runs the query engine over the collection. Results are copies
// in display order of the candidate set.
func (m *Model) Search(term string, includeArchived bool) []*domain.Task {
	// Full lock: the engine may rebuild its index or touch its cache.
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAll(m.engine.Search(m.tasks, term, includeArchived))
}

// Len returns the collection size including archived tasks.
func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tasks)
}

// StoreIdentity exposes the backing store's diagnostic tag.
func (m *Model) StoreIdentity() string {
	return m.store.IdentityTag()
}

// freshID draws ids until one is unused. Collisions should never
// happen with a real generator; the loop keeps a bad one from
// corrupting the id index.
func (m *Model) freshID() string {
	for {
		id := m.newID()
		if _, taken := m.byID[id]; !taken {
			return id
		}
	}
}

func (m *Model) indexOf(id string) int {
	for i, task := range m.tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) filtered(archived bool) []*domain.Task {
	results := make([]*domain.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		if task.Archived == archived {
			results = append(results, task.Clone())
		}
	}
	return results
}

// afterMutation runs with the write lock held: it invalidates the
// search engine and persists the collection. A failed persist keeps the
// in-memory state; the mutation stays observable.
func (m *Model) afterMutation(ctx context.Context) {
	m.engine.Invalidate()

	document, err := codec.Encode(m.tasks)
	if err != nil {
		m.logger.Error("task collection encode failed",
			zap.Error(domain.WrapError(domain.ErrCodeInternal, "encode collection", err)))
		return
	}
	if err := m.store.Write(ctx, m.key, document); err != nil {
		m.logger.Error("task collection persist failed, keeping in-memory state",
			zap.String("key", m.key),
			zap.String("store", m.store.IdentityTag()),
			zap.Error(domain.WrapError(domain.ErrCodePersistence, "persist collection", err)))
	}
}

func cloneAll(tasks []*domain.Task) []*domain.Task {
	copies := make([]*domain.Task, len(tasks))
	for i, task := range tasks {
		copies[i] = task.Clone()
	}
	return copies
}
