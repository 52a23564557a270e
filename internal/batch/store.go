package batch

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown batch or section IDs.
var ErrNotFound = errors.New("batch: not found")

// Store persists batch and section state. Every mutation goes through an
// update function applied under the store's serialization, never through
// read-then-write in caller code; concurrent section completions must not
// lose counter updates.
type Store interface {
	CreateBatch(rec Record) error
	GetBatch(id uuid.UUID) (Record, error)
	UpdateBatch(id uuid.UUID, fn func(*Record)) (Record, error)

	CreateSections(recs []SectionRecord) error
	GetSection(id uuid.UUID) (SectionRecord, error)
	UpdateSection(id uuid.UUID, fn func(*SectionRecord)) (SectionRecord, error)
	ListSections(batchID uuid.UUID) ([]SectionRecord, error)

	AppendLog(batchID uuid.UUID, entry LogEntry) error
	Logs(batchID uuid.UUID) ([]LogEntry, error)
}

// MemoryStore is the in-process Store. A single mutex serializes every
// mutation, which is what makes UpdateBatch/UpdateSection atomic.
type MemoryStore struct {
	mu       sync.Mutex
	batches  map[uuid.UUID]Record
	sections map[uuid.UUID]SectionRecord
	logs     map[uuid.UUID][]LogEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		batches:  make(map[uuid.UUID]Record),
		sections: make(map[uuid.UUID]SectionRecord),
		logs:     make(map[uuid.UUID][]LogEntry),
	}
}

func (s *MemoryStore) CreateBatch(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	s.batches[rec.ID] = rec
	return nil
}

func (s *MemoryStore) GetBatch(id uuid.UUID) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.batches[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) UpdateBatch(id uuid.UUID, fn func(*Record)) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.batches[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	fn(&rec)
	rec.UpdatedAt = time.Now()
	s.batches[id] = rec
	return rec, nil
}

func (s *MemoryStore) CreateSections(recs []SectionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for _, rec := range recs {
		rec.UpdatedAt = now
		s.sections[rec.ID] = rec
	}
	return nil
}

func (s *MemoryStore) GetSection(id uuid.UUID) (SectionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sections[id]
	if !ok {
		return SectionRecord{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) UpdateSection(id uuid.UUID, fn func(*SectionRecord)) (SectionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sections[id]
	if !ok {
		return SectionRecord{}, ErrNotFound
	}
	fn(&rec)
	rec.UpdatedAt = time.Now()
	s.sections[id] = rec
	return rec, nil
}

func (s *MemoryStore) ListSections(batchID uuid.UUID) ([]SectionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []SectionRecord
	for _, rec := range s.sections {
		if rec.BatchID == batchID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (s *MemoryStore) AppendLog(batchID uuid.UUID, entry LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}
	s.logs[batchID] = append(s.logs[batchID], entry)
	return nil
}

func (s *MemoryStore) Logs(batchID uuid.UUID) ([]LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LogEntry(nil), s.logs[batchID]...), nil
}
