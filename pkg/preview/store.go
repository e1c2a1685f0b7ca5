// pkg/preview/store.go
package preview

import (
	"errors"

	"go.uber.org/zap"

	"github.com/insightlab/dataprep/pkg/model"
)

// Store owns the two snapshots of the current dataset: the immutable
// original analysis and the mutable working preview. The original never
// changes after ingestion; the preview is only ever swapped wholesale for
// an engine-produced successor or reset back to a copy of the original.
type Store struct {
	logger   *zap.Logger
	original *model.AnalysisSnapshot
	preview  *model.AnalysisSnapshot
	numeric  NumericSet
}

// NewStore creates an empty snapshot store
func NewStore(logger *zap.Logger) *Store {
	return &Store{logger: logger, numeric: NumericSet{}}
}

// Ingest installs a fresh analysis: columns are reclassified, row statuses
// derived, and both snapshots rebuilt. Any previous preview is discarded.
func (s *Store) Ingest(snap *model.AnalysisSnapshot) error {
	if snap == nil {
		return errors.New("analysis snapshot cannot be nil")
	}

	s.numeric = ClassifyNumeric(snap.ColumnsInfo)

	ingested := snap.Clone()
	ApplyStatus(ingested.PreviewRows, s.numeric)

	s.original = ingested
	s.preview = ingested.Clone()

	s.logger.Debug("Analysis ingested",
		zap.String("dataset_id", string(ingested.DatasetID)),
		zap.Int("columns", len(ingested.ColumnsInfo)),
		zap.Int("numeric_columns", len(s.numeric)),
		zap.Int("preview_rows", len(ingested.PreviewRows)))

	return nil
}

// HasData reports whether an analysis has been ingested
func (s *Store) HasData() bool {
	return s.original != nil
}

// Original returns the immutable original snapshot. Callers must not
// mutate it.
func (s *Store) Original() *model.AnalysisSnapshot {
	return s.original
}

// Preview returns the current working preview. Callers must not mutate it;
// transformations go through SetPreview.
func (s *Store) Preview() *model.AnalysisSnapshot {
	return s.preview
}

// Numeric returns the column classification of the current analysis
func (s *Store) Numeric() NumericSet {
	return s.numeric
}

// SetPreview installs an engine-produced successor preview
func (s *Store) SetPreview(next *model.AnalysisSnapshot) error {
	if next == nil {
		return errors.New("preview snapshot cannot be nil")
	}
	s.preview = next
	return nil
}

// Reset discards the working preview and restores a fresh copy of the
// original
func (s *Store) Reset() {
	if s.original == nil {
		return
	}
	s.preview = s.original.Clone()
}

// Clear drops both snapshots, returning the store to its empty state
func (s *Store) Clear() {
	s.original = nil
	s.preview = nil
	s.numeric = NumericSet{}
}
