// pkg/workbench/session.go
package workbench

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/insightlab/dataprep/pkg/api"
	"github.com/insightlab/dataprep/pkg/model"
	"github.com/insightlab/dataprep/pkg/preview"
)

// Sentinel errors callers branch on
var (
	// ErrBusy means a request of the same kind is already in flight
	ErrBusy = errors.New("action already in progress")
	// ErrNoDataset means no dataset has been selected and analyzed yet
	ErrNoDataset = errors.New("no dataset selected")
	// ErrNoPendingOperations means save was requested with an empty queue
	ErrNoPendingOperations = errors.New("no pending operations")
	// ErrStaleResponse means an analysis response arrived for a dataset
	// that is no longer selected and was discarded
	ErrStaleResponse = errors.New("stale analysis response discarded")
)

// QualityStats summarizes the working preview for the dashboard header
type QualityStats struct {
	TotalRecords   int
	TotalColumns   int
	TotalNulls     int
	QualityPercent float64 // share of non-null cells, one decimal
}

// Session orchestrates one user's cleaning workflow: dataset selection,
// local operation previews, reset, save-then-reanalyze, uploads and
// training. Duplicate submissions of the same action are rejected with
// ErrBusy while that action's flag is set. Analysis responses are keyed by
// dataset id; responses that no longer match the current selection are
// discarded.
type Session struct {
	backend api.Backend
	engine  *preview.Engine
	store   *preview.Store
	queue   *preview.Queue
	pager   preview.Pager
	metrics *Metrics
	logger  *zap.Logger

	mu         sync.Mutex
	datasets   []model.Dataset
	selected   model.ID
	page       int
	analyzeSeq uint64
	cancelPrev context.CancelFunc

	analyzing bool
	saving    bool
	uploading bool
	training  bool
}

// NewSession creates a workbench session over a backend client
func NewSession(backend api.Backend, pageSize int, logger *zap.Logger) (*Session, error) {
	if backend == nil {
		return nil, errors.New("backend cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Session{
		backend: backend,
		engine:  preview.NewEngine(logger),
		store:   preview.NewStore(logger),
		queue:   preview.NewQueue(),
		pager:   preview.NewPager(pageSize),
		metrics: NewMetrics(),
		logger:  logger,
		page:    1,
	}, nil
}

// Metrics returns the session counters
func (s *Session) Metrics() *Metrics {
	return s.metrics
}

// LoadDatasets fetches and caches the caller's dataset list
func (s *Session) LoadDatasets(ctx context.Context) ([]model.Dataset, error) {
	datasets, err := s.backend.Datasets(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.datasets = datasets
	s.mu.Unlock()

	return datasets, nil
}

// Datasets returns the cached dataset list
func (s *Session) Datasets() []model.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Dataset, len(s.datasets))
	copy(out, s.datasets)
	return out
}

// Selected returns the currently selected dataset id, if any
func (s *Session) Selected() model.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Select makes a dataset current and fetches a fresh analysis for it.
// Re-selecting cancels any analysis still in flight; a response that
// arrives for a superseded selection is discarded and reported as
// ErrStaleResponse.
func (s *Session) Select(ctx context.Context, datasetID model.ID) error {
	if datasetID == "" {
		return errors.New("dataset id cannot be empty")
	}

	s.mu.Lock()
	if s.cancelPrev != nil {
		s.cancelPrev()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	s.cancelPrev = cancel
	s.analyzeSeq++
	seq := s.analyzeSeq
	s.selected = datasetID
	s.page = 1
	s.analyzing = true
	s.mu.Unlock()

	snap, err := s.backend.Analyze(reqCtx, datasetID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.analyzeSeq {
		// A newer selection superseded this request
		s.metrics.RecordStaleResponse()
		s.logger.Debug("Discarded superseded analysis",
			zap.String("dataset_id", string(datasetID)))
		return ErrStaleResponse
	}
	s.analyzing = false
	cancel()
	s.cancelPrev = nil

	if err != nil {
		return fmt.Errorf("analyze dataset %s: %w", datasetID, err)
	}
	if snap.DatasetID != "" && snap.DatasetID != s.selected {
		s.metrics.RecordStaleResponse()
		s.logger.Warn("Discarded analysis for mismatched dataset",
			zap.String("requested", string(datasetID)),
			zap.String("received", string(snap.DatasetID)))
		return ErrStaleResponse
	}

	if err := s.store.Ingest(snap); err != nil {
		return err
	}
	s.queue.Clear()
	s.page = 1
	s.metrics.RecordAnalysis()

	s.logger.Info("Dataset analyzed",
		zap.String("dataset_id", string(datasetID)),
		zap.Int("total_rows", snap.TotalRows),
		zap.Int("total_nulls", snap.TotalNulls))

	return nil
}

// Apply simulates one cleaning operation on the working preview and queues
// it for a later save. The original snapshot is untouched.
func (s *Session) Apply(req preview.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.HasData() {
		return ErrNoDataset
	}
	if s.analyzing {
		return ErrBusy
	}

	next, err := s.engine.Apply(s.store.Preview(), s.store.Numeric(), req)
	if err != nil {
		return err
	}
	if err := s.store.SetPreview(next); err != nil {
		return err
	}

	normalized, _ := req.Normalize()
	s.queue.Append(model.NewPendingOperation(normalized.Type, normalized.Options(), normalized.Label()))
	s.metrics.RecordOperation()

	s.logger.Info("Operation queued",
		zap.String("operation", string(normalized.Type)),
		zap.Int("pending", s.queue.Len()))

	return nil
}

// ResetPreview discards all simulated changes, restoring the preview to the
// original analysis and emptying the pending queue
func (s *Session) ResetPreview() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Reset()
	s.queue.Clear()
	s.page = 1
	s.metrics.RecordReset()
}

// Save persists the queued operations in append order, then re-fetches a
// fresh analysis rather than trusting the locally simulated preview. On
// failure the queue and preview are left intact so the user can retry.
func (s *Session) Save(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if s.selected == "" || !s.store.HasData() {
		s.mu.Unlock()
		return nil, ErrNoDataset
	}
	if s.queue.Len() == 0 {
		s.mu.Unlock()
		return nil, ErrNoPendingOperations
	}
	s.saving = true
	ops := s.queue.Operations()
	datasetID := s.selected
	s.mu.Unlock()

	applied, err := s.backend.Clean(ctx, datasetID, ops)

	s.mu.Lock()
	s.saving = false
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("save operations: %w", err)
	}
	s.queue.Clear()
	s.metrics.RecordSave(len(applied))
	s.mu.Unlock()

	if err := s.Select(ctx, datasetID); err != nil && !errors.Is(err, ErrStaleResponse) {
		return applied, fmt.Errorf("reanalyze after save: %w", err)
	}

	return applied, nil
}

// Upload validates and uploads a dataset file, then refreshes the dataset
// list
func (s *Session) Upload(ctx context.Context, path string) (*model.UploadResult, error) {
	s.mu.Lock()
	if s.uploading {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.uploading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.uploading = false
		s.mu.Unlock()
	}()

	result, err := s.backend.UploadDataset(ctx, path)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordUpload()

	if _, err := s.LoadDatasets(ctx); err != nil {
		s.logger.Warn("Dataset list refresh failed after upload", zap.Error(err))
	}

	return result, nil
}

// Train runs a model training job. Zero-valued split parameters get the
// dashboard defaults (test size 0.2, random state 42), and an empty dataset
// id targets the current selection.
func (s *Session) Train(ctx context.Context, req model.TrainRequest) (*model.TrainResult, error) {
	s.mu.Lock()
	if s.training {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if req.DatasetID == "" {
		req.DatasetID = s.selected
	}
	s.training = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.training = false
		s.mu.Unlock()
	}()

	if req.DatasetID == "" {
		return nil, ErrNoDataset
	}
	if req.TestSize <= 0 {
		req.TestSize = 0.2
	}
	if req.RandomState == 0 {
		req.RandomState = 42
	}

	if err := s.checkTarget(ctx, req); err != nil {
		return nil, err
	}

	result, err := s.backend.Train(ctx, req)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordTraining()

	return result, nil
}

// checkTarget validates the target variable against the dataset's cleaned
// column listing. A dataset without a cleaned version has no listing; the
// backend stays authoritative in that case.
func (s *Session) checkTarget(ctx context.Context, req model.TrainRequest) error {
	if req.TargetVariable == "" {
		return nil
	}

	columns, err := s.backend.AnalyzeCleaned(ctx, req.DatasetID)
	if err != nil || len(columns) == 0 {
		if err != nil {
			s.logger.Debug("Column listing unavailable for target check",
				zap.String("dataset_id", string(req.DatasetID)),
				zap.Error(err))
		}
		return nil
	}

	for _, name := range columns {
		if name == req.TargetVariable {
			return nil
		}
	}
	return fmt.Errorf("target variable %q is not a column of dataset %s", req.TargetVariable, req.DatasetID)
}

// CleanedColumns lists the column names of a dataset's cleaned version
func (s *Session) CleanedColumns(ctx context.Context, datasetID model.ID) ([]string, error) {
	return s.backend.AnalyzeCleaned(ctx, datasetID)
}

// Models lists the caller's trained models
func (s *Session) Models(ctx context.Context) ([]model.ModelInfo, error) {
	return s.backend.Models(ctx)
}

// CleanedDatasets lists the caller's persisted cleaned datasets
func (s *Session) CleanedDatasets(ctx context.Context) ([]model.CleanedDataset, error) {
	return s.backend.CleanedDatasets(ctx)
}

// Preview returns the current working snapshot, or nil before any analysis
func (s *Session) Preview() *model.AnalysisSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Preview()
}

// Original returns the immutable original snapshot, or nil before any
// analysis
func (s *Session) Original() *model.AnalysisSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Original()
}

// PendingLabels returns the queued operation labels in append order
func (s *Session) PendingLabels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Labels()
}

// PendingCount returns the number of queued operations
func (s *Session) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// PageSize returns the rows-per-page the session paginates with
func (s *Session) PageSize() int {
	return s.pager.PageSize()
}

// SetPage moves to the given 1-indexed page, clamped to the preview's page
// range, and returns the page actually selected
func (s *Session) SetPage(page int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	if snap := s.store.Preview(); snap != nil {
		total = len(snap.PreviewRows)
	}
	s.page = s.pager.Clamp(page, total)
	return s.page
}

// PageRows returns the current page of preview rows along with the page
// number and page count
func (s *Session) PageRows() ([]model.Row, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.store.Preview()
	if snap == nil {
		return nil, 1, 1
	}

	rows, page := s.pager.Slice(snap.PreviewRows, s.page)
	s.page = page
	return rows, page, s.pager.PageCount(len(snap.PreviewRows))
}

// Quality summarizes the working preview for display
func (s *Session) Quality() QualityStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.store.Preview()
	if snap == nil {
		return QualityStats{}
	}

	stats := QualityStats{
		TotalRecords: snap.TotalRows,
		TotalColumns: snap.TotalColumns,
		TotalNulls:   snap.TotalNulls,
	}

	cells := snap.TotalRows * snap.TotalColumns
	if cells > 0 {
		stats.QualityPercent = math.Round(float64(cells-snap.TotalNulls)/float64(cells)*1000) / 10
	}
	return stats
}
