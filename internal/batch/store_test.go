package batch

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestMemoryStore_notFound(t *testing.T) {
	s := NewMemoryStore()

	if _, err := s.GetBatch(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetBatch() error = %v, want ErrNotFound", err)
	}
	if _, err := s.GetSection(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSection() error = %v, want ErrNotFound", err)
	}
	if _, err := s.UpdateBatch(uuid.New(), func(*Record) {}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateBatch() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_listSectionsOrdered(t *testing.T) {
	s := NewMemoryStore()
	batchID := uuid.New()
	if err := s.CreateBatch(Record{ID: batchID, State: StateSplitting}); err != nil {
		t.Fatalf("CreateBatch() error = %v", err)
	}

	recs := []SectionRecord{
		{ID: uuid.New(), BatchID: batchID, Index: 3, Status: SectionPending},
		{ID: uuid.New(), BatchID: batchID, Index: 1, Status: SectionPending},
		{ID: uuid.New(), BatchID: batchID, Index: 2, Status: SectionPending},
	}
	if err := s.CreateSections(recs); err != nil {
		t.Fatalf("CreateSections() error = %v", err)
	}

	got, err := s.ListSections(batchID)
	if err != nil {
		t.Fatalf("ListSections() error = %v", err)
	}
	for i, rec := range got {
		if rec.Index != i+1 {
			t.Errorf("sections[%d].Index = %d, want %d", i, rec.Index, i+1)
		}
	}
}

func TestMemoryStore_updateIsApplied(t *testing.T) {
	s := NewMemoryStore()
	batchID := uuid.New()
	s.CreateBatch(Record{ID: batchID, State: StateSplitting})

	if _, err := s.UpdateBatch(batchID, func(r *Record) {
		r.State = StateProcessing
		r.Total = 7
	}); err != nil {
		t.Fatalf("UpdateBatch() error = %v", err)
	}

	rec, err := s.GetBatch(batchID)
	if err != nil {
		t.Fatalf("GetBatch() error = %v", err)
	}
	if rec.State != StateProcessing || rec.Total != 7 {
		t.Errorf("record = %+v, want processing/7", rec)
	}
}
