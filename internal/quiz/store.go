package quiz

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Store is the shared authoring surface over cases and questions. Writes
// follow last-writer-wins per case; the only multi-row atomicity guarantee
// is Reorder, which replaces a case's whole ordering or changes nothing.
type Store interface {
	ListCases(ctx context.Context) ([]Case, error)
	GetCase(ctx context.Context, id string) (Case, error)
	PutCase(ctx context.Context, c Case) (Case, error)
	UpdateCase(ctx context.Context, c Case) (Case, error)
	// DeleteCase cascades: the case's questions are deleted with it.
	DeleteCase(ctx context.Context, id string) error

	// ListQuestions returns a case's questions sorted by (order_index, id)
	// ascending. Payloads are fully structured, never serialized blobs.
	ListQuestions(ctx context.Context, caseID string) ([]Question, error)
	GetQuestion(ctx context.Context, id string) (Question, error)
	// InsertQuestion validates and appends at max(order_index)+1.
	InsertQuestion(ctx context.Context, q Question) (Question, error)
	// UpdateQuestion is field-level: case, type and order are immutable
	// here. A failed validation leaves the persisted value intact.
	UpdateQuestion(ctx context.Context, q Question) (Question, error)
	// DeleteQuestion leaves survivors' indices untouched; gaps are fine.
	DeleteQuestion(ctx context.Context, id string) error

	// Reorder assigns contiguous indices 0..n-1 matching ids, which must be
	// an exact permutation of the case's current question ids.
	Reorder(ctx context.Context, caseID string, ids []string) error
}

// MemoryStore is the in-memory Store used by tests and dev mode.
type MemoryStore struct {
	mu        sync.RWMutex
	cases     map[string]Case
	questions map[string]Question
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cases:     map[string]Case{},
		questions: map[string]Question{},
	}
}

func (m *MemoryStore) ListCases(ctx context.Context) ([]Case, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Case, 0, len(m.cases))
	for _, c := range m.cases {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) GetCase(ctx context.Context, id string) (Case, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cases[id]
	if !ok {
		return Case{}, ErrNotFound
	}
	return c, nil
}

func (m *MemoryStore) PutCase(ctx context.Context, c Case) (Case, error) {
	if err := validateCase(&c); err != nil {
		return Case{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	m.cases[c.ID] = c
	return c, nil
}

func (m *MemoryStore) UpdateCase(ctx context.Context, c Case) (Case, error) {
	if err := validateCase(&c); err != nil {
		return Case{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cases[c.ID]; !ok {
		return Case{}, ErrNotFound
	}
	m.cases[c.ID] = c
	return c, nil
}

func (m *MemoryStore) DeleteCase(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cases[id]; !ok {
		return ErrNotFound
	}
	delete(m.cases, id)
	for qid, q := range m.questions {
		if q.CaseID == id {
			delete(m.questions, qid)
		}
	}
	return nil
}

func (m *MemoryStore) ListQuestions(ctx context.Context, caseID string) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.caseQuestionsLocked(caseID), nil
}

// caseQuestionsLocked returns the case's questions sorted by
// (order_index, id). Callers hold at least a read lock.
func (m *MemoryStore) caseQuestionsLocked(caseID string) []Question {
	out := make([]Question, 0)
	for _, q := range m.questions {
		if q.CaseID == caseID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderIndex != out[j].OrderIndex {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *MemoryStore) GetQuestion(ctx context.Context, id string) (Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.questions[id]
	if !ok {
		return Question{}, ErrNotFound
	}
	return q, nil
}

func (m *MemoryStore) InsertQuestion(ctx context.Context, q Question) (Question, error) {
	q.Normalize()
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cases[q.CaseID]; !ok {
		return Question{}, ErrNotFound
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.OrderIndex = 0
	for _, existing := range m.questions {
		if existing.CaseID == q.CaseID && existing.OrderIndex >= q.OrderIndex {
			q.OrderIndex = existing.OrderIndex + 1
		}
	}
	m.questions[q.ID] = q
	return q, nil
}

func (m *MemoryStore) UpdateQuestion(ctx context.Context, q Question) (Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.questions[q.ID]
	if !ok {
		return Question{}, ErrNotFound
	}
	if q.Type != prev.Type {
		return Question{}, invalidf("question type is immutable; delete and recreate")
	}
	q.CaseID = prev.CaseID
	q.OrderIndex = prev.OrderIndex
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	m.questions[q.ID] = q
	return q, nil
}

func (m *MemoryStore) DeleteQuestion(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.questions[id]; !ok {
		return ErrNotFound
	}
	delete(m.questions, id)
	return nil
}

func (m *MemoryStore) Reorder(ctx context.Context, caseID string, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current := m.caseQuestionsLocked(caseID)
	if err := checkPermutation(current, ids); err != nil {
		return err
	}
	for i, id := range ids {
		q := m.questions[id]
		q.OrderIndex = i
		m.questions[id] = q
	}
	return nil
}

func validateCase(c *Case) error {
	if c.Title == "" {
		return invalidf("case title must not be empty")
	}
	return nil
}

// checkPermutation rejects a reorder whose id list is not exactly the
// current member set: wrong length, foreign id, duplicate, or missing id.
func checkPermutation(current []Question, ids []string) error {
	if len(ids) != len(current) {
		return invalidf("reorder needs %d ids, got %d", len(current), len(ids))
	}
	members := make(map[string]bool, len(current))
	for _, q := range current {
		members[q.ID] = false
	}
	for _, id := range ids {
		seen, ok := members[id]
		if !ok {
			return invalidf("reorder id %q is not in the case", id)
		}
		if seen {
			return invalidf("duplicate id %q in reorder", id)
		}
		members[id] = true
	}
	return nil
}
