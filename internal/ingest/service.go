package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/swastik-pharma/vetstore/internal/shared"
)

// ErrAllRowsInvalid is returned with a populated summary when no upload row
// passed validation.
var ErrAllRowsInvalid = errors.New("ingest: all rows have errors")

// Input is one uploaded file.
type Input struct {
	Filename string
	Data     []byte
	AdminID  int64
}

// MetricsRecorder receives the outcome counts of each run.
type MetricsRecorder interface {
	RecordIngestion(kind string, outcomes map[string]int, createdBrands int, elapsed time.Duration)
}

// Invalidator drops cached catalog reads after a run changed products.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// Warmer schedules a refill of the catalog cache.
type Warmer interface {
	EnqueueCatalogWarmup(ctx context.Context) error
}

// Service runs the ingestion pipelines.
type Service struct {
	store       Store
	runs        RunStore
	metrics     MetricsRecorder
	invalidator Invalidator
	warmer      Warmer
	logger      *slog.Logger
	clock       func() time.Time
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithRunStore records every run.
func WithRunStore(runs RunStore) Option { return func(s *Service) { s.runs = runs } }

// WithMetrics reports run outcomes.
func WithMetrics(m MetricsRecorder) Option { return func(s *Service) { s.metrics = m } }

// WithInvalidator bumps the catalog cache after runs that changed rows.
func WithInvalidator(inv Invalidator) Option { return func(s *Service) { s.invalidator = inv } }

// WithWarmer enqueues a cache warmup after runs that changed rows.
func WithWarmer(w Warmer) Option { return func(s *Service) { s.warmer = w } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.logger = l } }

// NewService wires the pipelines to a store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		clock: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Upload runs the bulk upload pipeline. Request-level failures (format,
// empty file) are returned before any row is touched. Row failures are
// reported in the summary and never abort the run.
func (s *Service) Upload(ctx context.Context, in Input) (UploadSummary, error) {
	started := s.clock()
	records, err := Parse(in.Filename, in.Data)
	if err != nil {
		return UploadSummary{Errors: []string{}}, err
	}

	summary := UploadSummary{Total: len(records)}
	valid := make([]UploadRow, 0, len(records))
	for i, rec := range records {
		row, err := ValidateUpload(Normalize(rec, UploadFields), i)
		if err != nil {
			summary.fail(err.Error())
			continue
		}
		valid = append(valid, row)
	}

	if len(valid) == 0 {
		summary.finish()
		s.complete(ctx, KindUpload, in, started, s.uploadRun(summary))
		s.observe(KindUpload, summary.outcomes(), 0, started)
		return summary, ErrAllRowsInvalid
	}

	brands := make(map[string]int64)
	for _, row := range valid {
		created, newBrand, err := s.upsertProduct(ctx, row, brands)
		if newBrand {
			summary.CreatedBrands++
		}
		if err != nil {
			summary.fail(fmt.Sprintf("%s: %s", row.ItemCode, err.Error()))
			continue
		}
		if created {
			summary.Created++
		} else {
			summary.Updated++
		}
	}
	summary.finish()

	s.complete(ctx, KindUpload, in, started, s.uploadRun(summary))
	s.observe(KindUpload, summary.outcomes(), summary.CreatedBrands, started)
	if summary.Success > 0 || summary.CreatedBrands > 0 {
		s.catalogChanged(ctx)
	}
	return summary, nil
}

// Sync runs the stock-sync pipeline. Unknown item codes are counted, not
// reported as errors; only price and stock are ever written.
func (s *Service) Sync(ctx context.Context, in Input) (SyncSummary, error) {
	started := s.clock()
	records, err := Parse(in.Filename, in.Data)
	if err != nil {
		return SyncSummary{Errors: []string{}}, err
	}

	summary := SyncSummary{Total: len(records)}
	for i, rec := range records {
		row := ValidateSync(Normalize(rec, SyncFields), i)
		if row.Missing {
			summary.NotFound++
			continue
		}
		id, found, err := s.store.FindProductIDByItemCode(ctx, row.ItemCode)
		if err != nil {
			summary.fail(fmt.Sprintf("%s: %s", itemLabel(row.ItemCode), err.Error()))
			continue
		}
		if !found {
			summary.NotFound++
			continue
		}
		if !row.HasChanges() {
			summary.Skipped++
			continue
		}
		if err := s.store.UpdatePriceStock(ctx, id, row.Price, row.Stock); err != nil {
			summary.fail(fmt.Sprintf("%s: %s", itemLabel(row.ItemCode), err.Error()))
			continue
		}
		summary.Updated++
	}
	summary.finish()

	s.complete(ctx, KindSync, in, started, Run{
		Total:     summary.Total,
		Succeeded: summary.Updated,
		Failed:    summary.Failed,
		NotFound:  summary.NotFound,
		Errors:    summary.Errors,
	})
	s.observe(KindSync, summary.outcomes(), 0, started)
	if summary.Updated > 0 {
		s.catalogChanged(ctx)
	}
	return summary, nil
}

// RecentRuns lists the latest recorded runs.
func (s *Service) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if s.runs == nil {
		return []Run{}, nil
	}
	return s.runs.Recent(ctx, limit)
}

// upsertProduct resolves the brand then inserts or updates the product by item
// code. newBrand is reported even when the product write fails afterwards.
func (s *Service) upsertProduct(ctx context.Context, row UploadRow, brands map[string]int64) (created, newBrand bool, err error) {
	var brandID *int64
	if row.Brand != nil {
		id, fresh, err := s.resolveBrand(ctx, *row.Brand, brands)
		if err != nil {
			return false, false, err
		}
		brandID = &id
		newBrand = fresh
	}

	fields := ProductFields{
		ItemCode:    row.ItemCode,
		Name:        row.Name,
		Slug:        shared.Slugify(row.Name),
		BrandID:     brandID,
		Category:    row.Category,
		MRP:         row.MRP,
		Price:       row.Price,
		Stock:       row.Stock,
		Description: row.Description,
	}

	id, found, err := s.store.FindProductIDByItemCode(ctx, row.ItemCode)
	if err != nil {
		return false, newBrand, err
	}
	if found {
		return false, newBrand, s.store.UpdateProduct(ctx, id, fields)
	}
	if _, err := s.store.InsertProduct(ctx, fields); err != nil {
		return false, newBrand, err
	}
	return true, newBrand, nil
}

func (s *Service) resolveBrand(ctx context.Context, name string, cache map[string]int64) (int64, bool, error) {
	slug := shared.Slugify(name)
	if slug == "" {
		return 0, false, fmt.Errorf("brand %q has no usable characters", name)
	}
	if id, ok := cache[slug]; ok {
		return id, false, nil
	}
	id, found, err := s.store.FindBrandIDBySlug(ctx, slug)
	if err != nil {
		return 0, false, err
	}
	created := false
	if !found {
		id, created, err = s.store.CreateBrand(ctx, name, slug)
		if err != nil {
			return 0, false, err
		}
	}
	cache[slug] = id
	return id, created, nil
}

func (s *Service) uploadRun(summary UploadSummary) Run {
	return Run{
		Total:         summary.Total,
		Succeeded:     summary.Success,
		Failed:        summary.Failed,
		CreatedBrands: summary.CreatedBrands,
		Errors:        summary.Errors,
	}
}

// complete logs and records a finished run. Recording failures are logged
// only; the summary stands.
func (s *Service) complete(ctx context.Context, kind Kind, in Input, started time.Time, run Run) {
	run.ID = uuid.New()
	run.Kind = kind
	run.Filename = in.Filename
	run.AdminID = in.AdminID
	run.StartedAt = started
	run.FinishedAt = s.clock()

	logger := s.logger.With(
		slog.String("run_id", run.ID.String()),
		slog.String("kind", string(kind)),
		slog.String("filename", in.Filename),
	)
	logger.Info("ingestion run finished",
		slog.Int("total", run.Total),
		slog.Int("succeeded", run.Succeeded),
		slog.Int("failed", run.Failed),
		slog.Int("not_found", run.NotFound),
		slog.Int("created_brands", run.CreatedBrands),
		slog.Duration("duration", run.FinishedAt.Sub(started)),
	)

	if s.runs == nil {
		return
	}
	if err := s.runs.Record(ctx, run); err != nil {
		logger.Warn("record ingestion run", slog.Any("error", err))
	}
}

func (s *Service) observe(kind Kind, outcomes map[string]int, createdBrands int, started time.Time) {
	if s.metrics != nil {
		s.metrics.RecordIngestion(string(kind), outcomes, createdBrands, s.clock().Sub(started))
	}
}

func (s *Service) catalogChanged(ctx context.Context) {
	if s.invalidator != nil {
		if err := s.invalidator.Bump(ctx); err != nil {
			s.logger.Warn("bump catalog cache", slog.Any("error", err))
		}
	}
	if s.warmer != nil {
		if err := s.warmer.EnqueueCatalogWarmup(ctx); err != nil {
			s.logger.Warn("enqueue catalog warmup", slog.Any("error", err))
		}
	}
}

func itemLabel(code string) string {
	if code == "" {
		return "Unknown"
	}
	return code
}
