package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"github.com/glosalabs/glosaflow/internal/document"
	"github.com/glosalabs/glosaflow/internal/extract"
	"github.com/glosalabs/glosaflow/internal/llm"
)

// RunFunc extracts one section. It is effectively a pure function of the
// section's text; the orchestrator owns everything around it.
type RunFunc func(ctx context.Context, sec document.Section) (*extract.Result, error)

// Config tunes the orchestrator.
type Config struct {
	Store           Store
	Workers         int           // concurrent section jobs, default 4
	RetryAttempts   uint          // attempts per section for transient failures, default 3
	RetryDelay      time.Duration // base backoff delay, default 2s
	MonitorInterval time.Duration // reconciliation period, default 2s
	Logger          *slog.Logger
}

// Orchestrator fans extraction jobs out over a batch's sections and keeps
// the batch aggregate honest through periodic reconciliation.
type Orchestrator struct {
	store    Store
	workers  int
	attempts uint
	delay    time.Duration
	interval time.Duration
	logger   *slog.Logger

	sem chan struct{}
}

func NewOrchestrator(cfg Config) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.RetryAttempts == 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.MonitorInterval <= 0 {
		cfg.MonitorInterval = 2 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Orchestrator{
		store:    cfg.Store,
		workers:  cfg.Workers,
		attempts: cfg.RetryAttempts,
		delay:    cfg.RetryDelay,
		interval: cfg.MonitorInterval,
		logger:   cfg.Logger,
		sem:      make(chan struct{}, cfg.Workers),
	}
}

// Process registers a batch for the document's sections and dispatches one
// extraction job per section. Dispatch is non-blocking: the method returns
// as soon as the jobs are handed off; callers observe completion through
// Progress, Wait, or the reconciliation monitor.
//
// A document with no detected sections is processed as a single section
// covering every page.
func (o *Orchestrator) Process(ctx context.Context, doc *document.SourceDocument, sections []document.Section, run RunFunc) (uuid.UUID, error) {
	batchID := uuid.New()

	if err := o.store.CreateBatch(Record{ID: batchID, State: StateSplitting}); err != nil {
		return uuid.Nil, fmt.Errorf("create batch: %w", err)
	}

	if doc.PageCount() == 0 {
		if _, err := o.store.UpdateBatch(batchID, func(r *Record) { r.State = StateError }); err != nil {
			o.logger.Error("batch status update failed", "batch", batchID, "error", err)
		}
		o.log(batchID, LogError, "document has no pages", 0)
		return batchID, fmt.Errorf("batch %s: no sections producible", batchID)
	}

	if len(sections) == 0 {
		sections = []document.Section{document.NewSection(1, 0, doc.PageCount()-1, "")}
	}

	recs := make([]SectionRecord, len(sections))
	for i, sec := range sections {
		recs[i] = SectionRecord{
			ID:          sec.ID,
			BatchID:     batchID,
			Index:       sec.Index,
			StartPage:   sec.StartPage,
			EndPage:     sec.EndPage,
			PatientHint: sec.PatientHint,
			Status:      SectionPending,
		}
	}
	if err := o.store.CreateSections(recs); err != nil {
		return uuid.Nil, fmt.Errorf("create sections: %w", err)
	}
	if _, err := o.store.UpdateBatch(batchID, func(r *Record) { r.Total = len(recs) }); err != nil {
		return uuid.Nil, fmt.Errorf("update batch total: %w", err)
	}
	o.log(batchID, LogInfo, fmt.Sprintf("batch created with %d sections", len(recs)), 0)

	o.dispatch(ctx, batchID, doc, sections, run)
	return batchID, nil
}

// dispatch hands every section to the worker pool without waiting for any
// of them.
func (o *Orchestrator) dispatch(ctx context.Context, batchID uuid.UUID, doc *document.SourceDocument, sections []document.Section, run RunFunc) {
	for _, sec := range sections {
		go func() {
			o.sem <- struct{}{}
			defer func() { <-o.sem }()
			o.runSection(ctx, batchID, doc, sec, run)
		}()
	}
}

func (o *Orchestrator) runSection(ctx context.Context, batchID uuid.UUID, doc *document.SourceDocument, sec document.Section, run RunFunc) {
	if _, err := o.store.UpdateSection(sec.ID, func(r *SectionRecord) {
		r.Status = SectionProcessing
		r.Error = ""
	}); err != nil {
		o.logger.Error("section status update failed", "section", sec.Index, "error", err)
		return
	}
	if _, err := o.store.UpdateBatch(batchID, func(r *Record) {
		if r.State == StateSplitting {
			r.State = StateProcessing
		}
	}); err != nil {
		o.logger.Error("batch status update failed", "batch", batchID, "error", err)
	}

	result, err := retry.DoWithData(
		func() (*extract.Result, error) { return run(ctx, sec) },
		retry.Context(ctx),
		retry.Attempts(o.attempts),
		retry.Delay(o.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(llm.IsTransient),
		retry.OnRetry(func(n uint, err error) {
			o.logger.Warn("retrying section after transient failure",
				"batch", batchID,
				"section", sec.Index,
				"attempt", n+1,
				"error", err,
			)
			o.log(batchID, LogWarning, fmt.Sprintf("section %d retry %d: %v", sec.Index, n+1, err), sec.Index)
		}),
	)

	if err != nil {
		o.store.UpdateSection(sec.ID, func(r *SectionRecord) {
			r.Status = SectionError
			r.Error = err.Error()
		})
		o.log(batchID, LogError, fmt.Sprintf("section %d failed: %v", sec.Index, err), sec.Index)
	} else {
		o.store.UpdateSection(sec.ID, func(r *SectionRecord) {
			r.Status = SectionCompleted
			r.Result = result
		})
		o.log(batchID, LogInfo, fmt.Sprintf("section %d extracted (quality %d)", sec.Index, result.Details.QualityScore), sec.Index)
	}

	if _, err := o.Reconcile(batchID); err != nil {
		o.logger.Error("reconcile failed", "batch", batchID, "error", err)
	}
}

// Reconcile recomputes the batch aggregate from every section's persisted
// status. It is the single source of truth for counters and terminal state;
// in-memory increments are never trusted on their own.
func (o *Orchestrator) Reconcile(batchID uuid.UUID) (Record, error) {
	sections, err := o.store.ListSections(batchID)
	if err != nil {
		return Record{}, fmt.Errorf("list sections: %w", err)
	}

	var completed, failed, started int
	for _, sec := range sections {
		switch sec.Status {
		case SectionCompleted:
			completed++
		case SectionError:
			failed++
		case SectionProcessing:
			started++
		}
	}

	rec, err := o.store.UpdateBatch(batchID, func(r *Record) {
		r.Completed = completed
		r.Failed = failed
		if r.State.Terminal() {
			return
		}
		if completed+failed == r.Total && r.Total > 0 {
			switch {
			case failed == 0:
				r.State = StateCompleted
			case completed > 0:
				r.State = StatePartialError
			default:
				r.State = StateError
			}
		} else if started+completed+failed > 0 {
			r.State = StateProcessing
		}
	})
	if err != nil {
		return Record{}, fmt.Errorf("update batch: %w", err)
	}
	if rec.State.Terminal() {
		o.logger.Info("batch reached terminal state",
			"batch", batchID,
			"state", rec.State,
			"completed", rec.Completed,
			"failed", rec.Failed,
		)
	}
	return rec, nil
}

// Progress builds the pollable snapshot.
func (o *Orchestrator) Progress(batchID uuid.UUID) (Progress, error) {
	rec, err := o.store.GetBatch(batchID)
	if err != nil {
		return Progress{}, err
	}
	sections, err := o.store.ListSections(batchID)
	if err != nil {
		return Progress{}, err
	}

	p := Progress{
		BatchID:   batchID,
		State:     rec.State,
		Total:     rec.Total,
		Completed: rec.Completed,
		Failed:    rec.Failed,
		Terminal:  rec.State.Terminal(),
	}
	if rec.Total > 0 {
		p.Percent = float64(rec.Completed+rec.Failed) / float64(rec.Total) * 100
	}
	for _, sec := range sections {
		p.PerSection = append(p.PerSection, SectionProgress{
			ID:     sec.ID,
			Index:  sec.Index,
			Status: sec.Status,
			Error:  sec.Error,
		})
	}
	return p, nil
}

// Sections returns the persisted section records, results included,
// ordered by index.
func (o *Orchestrator) Sections(batchID uuid.UUID) ([]SectionRecord, error) {
	return o.store.ListSections(batchID)
}

// Logs returns the batch's processing log in append order.
func (o *Orchestrator) Logs(batchID uuid.UUID) ([]LogEntry, error) {
	return o.store.Logs(batchID)
}

// StartMonitor runs the periodic reconciliation loop until the batch is
// terminal or the context ends. It heals any aggregate update a section
// job failed to apply.
func (o *Orchestrator) StartMonitor(ctx context.Context, batchID uuid.UUID) {
	go func() {
		ticker := time.NewTicker(o.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rec, err := o.Reconcile(batchID)
				if err != nil {
					o.logger.Error("monitor reconcile failed", "batch", batchID, "error", err)
					continue
				}
				if rec.State.Terminal() {
					return
				}
			}
		}
	}()
}

// Wait polls until the batch reaches a terminal state and returns the final
// snapshot.
func (o *Orchestrator) Wait(ctx context.Context, batchID uuid.UUID) (Progress, error) {
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()
	for {
		if _, err := o.Reconcile(batchID); err != nil {
			return Progress{}, err
		}
		p, err := o.Progress(batchID)
		if err != nil {
			return Progress{}, err
		}
		if p.Terminal {
			return p, nil
		}
		select {
		case <-ctx.Done():
			return p, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Reprocess resets every section to pending and re-dispatches the batch as
// a fresh run. Mid-run cancellation is not supported; this is the recovery
// path for failed or partially failed batches.
func (o *Orchestrator) Reprocess(ctx context.Context, batchID uuid.UUID, doc *document.SourceDocument, run RunFunc) error {
	recs, err := o.store.ListSections(batchID)
	if err != nil {
		return fmt.Errorf("list sections: %w", err)
	}
	if len(recs) == 0 {
		return fmt.Errorf("batch %s: %w", batchID, ErrNotFound)
	}

	sections := make([]document.Section, len(recs))
	for i, rec := range recs {
		if _, err := o.store.UpdateSection(rec.ID, func(r *SectionRecord) {
			r.Status = SectionPending
			r.Error = ""
			r.Result = nil
		}); err != nil {
			return fmt.Errorf("reset section %d: %w", rec.Index, err)
		}
		sections[i] = document.Section{
			ID:          rec.ID,
			Index:       rec.Index,
			StartPage:   rec.StartPage,
			EndPage:     rec.EndPage,
			PatientHint: rec.PatientHint,
		}
	}
	if _, err := o.store.UpdateBatch(batchID, func(r *Record) {
		r.State = StateProcessing
		r.Completed = 0
		r.Failed = 0
	}); err != nil {
		return fmt.Errorf("reset batch: %w", err)
	}
	o.log(batchID, LogInfo, "batch reprocessing started", 0)

	o.dispatch(ctx, batchID, doc, sections, run)
	return nil
}

func (o *Orchestrator) log(batchID uuid.UUID, level LogLevel, msg string, sectionIndex int) {
	if err := o.store.AppendLog(batchID, LogEntry{Level: level, Message: msg, SectionIndex: sectionIndex}); err != nil {
		o.logger.Error("append log failed", "batch", batchID, "error", err)
	}
}
