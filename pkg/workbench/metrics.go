// pkg/workbench/metrics.go
package workbench

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Metrics tracks what a session has done since it started
type Metrics struct {
	mu                sync.Mutex
	startTime         time.Time
	AnalysesRun       int
	OperationsQueued  int
	SavesCompleted    int
	StaleDiscarded    int
	UploadsCompleted  int
	TrainingRuns      int
	PreviewResets     int
	LastAnalysisAt    time.Time
	LastSaveAt        time.Time
	OperationsApplied int // total operations confirmed applied by the backend
}

// NewMetrics creates a session metrics tracker
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordAnalysis counts a completed analysis ingestion
func (m *Metrics) RecordAnalysis() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnalysesRun++
	m.LastAnalysisAt = time.Now()
}

// RecordStaleResponse counts a discarded out-of-date analysis response
func (m *Metrics) RecordStaleResponse() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StaleDiscarded++
}

// RecordOperation counts a locally previewed operation
func (m *Metrics) RecordOperation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OperationsQueued++
}

// RecordReset counts a preview reset
func (m *Metrics) RecordReset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PreviewResets++
}

// RecordSave counts a successful save and the operations the backend
// confirmed
func (m *Metrics) RecordSave(applied int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SavesCompleted++
	m.OperationsApplied += applied
	m.LastSaveAt = time.Now()
}

// RecordUpload counts a completed dataset upload
func (m *Metrics) RecordUpload() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UploadsCompleted++
}

// RecordTraining counts a completed training run
func (m *Metrics) RecordTraining() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TrainingRuns++
}

// Counters is a point-in-time copy of the session counters
type Counters struct {
	AnalysesRun       int
	OperationsQueued  int
	SavesCompleted    int
	StaleDiscarded    int
	UploadsCompleted  int
	TrainingRuns      int
	PreviewResets     int
	OperationsApplied int
}

// Snapshot returns a consistent copy of the counters
func (m *Metrics) Snapshot() Counters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Counters{
		AnalysesRun:       m.AnalysesRun,
		OperationsQueued:  m.OperationsQueued,
		SavesCompleted:    m.SavesCompleted,
		StaleDiscarded:    m.StaleDiscarded,
		UploadsCompleted:  m.UploadsCompleted,
		TrainingRuns:      m.TrainingRuns,
		PreviewResets:     m.PreviewResets,
		OperationsApplied: m.OperationsApplied,
	}
}

// Uptime returns how long the session has been running
func (m *Metrics) Uptime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.startTime)
}

// LogSummary emits the session counters through the logger
func (m *Metrics) LogSummary(logger *zap.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()

	logger.Info("Session summary",
		zap.Duration("uptime", time.Since(m.startTime)),
		zap.Int("analyses_run", m.AnalysesRun),
		zap.Int("operations_queued", m.OperationsQueued),
		zap.Int("preview_resets", m.PreviewResets),
		zap.Int("saves_completed", m.SavesCompleted),
		zap.Int("operations_applied", m.OperationsApplied),
		zap.Int("stale_responses_discarded", m.StaleDiscarded),
		zap.Int("uploads_completed", m.UploadsCompleted),
		zap.Int("training_runs", m.TrainingRuns))
}
