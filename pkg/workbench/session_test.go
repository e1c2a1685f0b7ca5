package workbench

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/insightlab/dataprep/pkg/model"
	"github.com/insightlab/dataprep/pkg/preview"
)

// fakeBackend is an in-memory Backend for orchestration tests. Analyze and
// Clean calls can be gated on channels to exercise in-flight behaviour.
type fakeBackend struct {
	mu        sync.Mutex
	snapshots map[model.ID]*model.AnalysisSnapshot
	datasets  []model.Dataset

	analyzeGates   map[model.ID]chan struct{}
	analyzed       []model.ID
	cleanGate      chan struct{}
	cleanedOps     []model.PendingOperation
	cleanedID      model.ID
	afterClean     *model.AnalysisSnapshot
	cleanedColumns map[model.ID][]string
	trainReq       model.TrainRequest
	uploads        int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		snapshots:    map[model.ID]*model.AnalysisSnapshot{},
		analyzeGates: map[model.ID]chan struct{}{},
	}
}

func (f *fakeBackend) analyzeStarted(id model.ID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, seen := range f.analyzed {
		if seen == id {
			return true
		}
	}
	return false
}

func (f *fakeBackend) UploadDataset(ctx context.Context, path string) (*model.UploadResult, error) {
	f.mu.Lock()
	f.uploads++
	f.mu.Unlock()
	return &model.UploadResult{FileName: path, Rows: 2, Columns: 2}, nil
}

func (f *fakeBackend) Datasets(ctx context.Context) ([]model.Dataset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.datasets, nil
}

func (f *fakeBackend) Analyze(ctx context.Context, datasetID model.ID) (*model.AnalysisSnapshot, error) {
	f.mu.Lock()
	f.analyzed = append(f.analyzed, datasetID)
	gate := f.analyzeGates[datasetID]
	snap := f.snapshots[datasetID]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if snap == nil {
		return nil, context.Canceled
	}
	return snap.Clone(), nil
}

func (f *fakeBackend) AnalyzeCleaned(ctx context.Context, datasetID model.ID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cleanedColumns[datasetID], nil
}

func (f *fakeBackend) Clean(ctx context.Context, datasetID model.ID, ops []model.PendingOperation) ([]string, error) {
	if f.cleanGate != nil {
		select {
		case <-f.cleanGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleanedID = datasetID
	f.cleanedOps = ops
	if f.afterClean != nil {
		f.snapshots[datasetID] = f.afterClean
	}

	applied := make([]string, len(ops))
	for i, op := range ops {
		applied[i] = string(op.Type)
	}
	return applied, nil
}

func (f *fakeBackend) CleanedDatasets(ctx context.Context) ([]model.CleanedDataset, error) {
	return nil, nil
}

func (f *fakeBackend) Train(ctx context.Context, req model.TrainRequest) (*model.TrainResult, error) {
	f.mu.Lock()
	f.trainReq = req
	f.mu.Unlock()
	return &model.TrainResult{ID: "m1", Name: req.Name}, nil
}

func (f *fakeBackend) Models(ctx context.Context) ([]model.ModelInfo, error) {
	return nil, nil
}

func (f *fakeBackend) Health(ctx context.Context) error {
	return nil
}

func sampleSnapshot(id model.ID) *model.AnalysisSnapshot {
	return &model.AnalysisSnapshot{
		DatasetID:    id,
		TotalRows:    3,
		TotalColumns: 2,
		TotalNulls:   1,
		ColumnsInfo: map[string]model.ColumnInfo{
			"age":   {Dtype: "float64", Nulls: 1, NullPercentage: 33.3, IsNumeric: true},
			"color": {Dtype: "object", Nulls: 0, NullPercentage: 0, IsNumeric: false},
		},
		PreviewRows: []model.Row{
			{Cells: map[string]model.Value{"age": model.Number(10), "color": model.String("red")}},
			{Cells: map[string]model.Value{"age": model.Missing(), "color": model.String("blue")}},
			{Cells: map[string]model.Value{"age": model.Number(30), "color": model.String("red")}},
		},
	}
}

func newTestSession(t *testing.T, backend *fakeBackend) *Session {
	t.Helper()
	wb, err := NewSession(backend, 5, zap.NewNop())
	require.NoError(t, err)
	return wb
}

func TestSelectIngestsAnalysis(t *testing.T) {
	fb := newFakeBackend()
	fb.snapshots["1"] = sampleSnapshot("1")
	wb := newTestSession(t, fb)

	require.NoError(t, wb.Select(context.Background(), "1"))

	assert.Equal(t, model.ID("1"), wb.Selected())
	require.NotNil(t, wb.Preview())
	assert.Equal(t, model.RowInactive, wb.Preview().PreviewRows[1].Status)
	assert.Equal(t, 0, wb.PendingCount())
	assert.Equal(t, 1, wb.Metrics().Snapshot().AnalysesRun)
}

func TestApplyBeforeSelect(t *testing.T) {
	wb := newTestSession(t, newFakeBackend())
	err := wb.Apply(preview.Request{Type: model.OpReplaceNulls})
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestApplyQueuesAndTransformsPreview(t *testing.T) {
	fb := newFakeBackend()
	fb.snapshots["1"] = sampleSnapshot("1")
	wb := newTestSession(t, fb)
	require.NoError(t, wb.Select(context.Background(), "1"))

	require.NoError(t, wb.Apply(preview.Request{Type: model.OpReplaceNulls}))
	require.NoError(t, wb.Apply(preview.Request{Type: model.OpImpute, Method: model.ImputeMedian}))

	assert.Equal(t, []string{"Reemplazar NULL con N/A", "Imputar con median"}, wb.PendingLabels())
	assert.Equal(t, model.Replaced(), wb.Preview().PreviewRows[1].Cell("age"))
	// The original stays untouched for reset
	assert.Equal(t, model.Missing(), wb.Original().PreviewRows[1].Cell("age"))
}

func TestResetRestoresOriginalAndClearsQueue(t *testing.T) {
	fb := newFakeBackend()
	fb.snapshots["1"] = sampleSnapshot("1")
	wb := newTestSession(t, fb)
	require.NoError(t, wb.Select(context.Background(), "1"))
	require.NoError(t, wb.Apply(preview.Request{Type: model.OpReplaceNulls}))

	wb.ResetPreview()

	assert.Equal(t, 0, wb.PendingCount())
	assert.True(t, wb.Preview().Equal(wb.Original()))
	assert.Equal(t, 1, wb.Metrics().Snapshot().PreviewResets)
}

func TestSaveSendsQueueThenReanalyzes(t *testing.T) {
	fb := newFakeBackend()
	fb.snapshots["1"] = sampleSnapshot("1")

	// The backend's post-save truth differs from the local simulation
	cleaned := sampleSnapshot("1")
	cleaned.TotalNulls = 0
	cleaned.ColumnsInfo["age"] = model.ColumnInfo{Dtype: "float64", Nulls: 0, NullPercentage: 0, IsNumeric: true}
	cleaned.PreviewRows[1].Cells["age"] = model.Number(99)
	fb.afterClean = cleaned

	wb := newTestSession(t, fb)
	require.NoError(t, wb.Select(context.Background(), "1"))
	require.NoError(t, wb.Apply(preview.Request{Type: model.OpImpute, Method: model.ImputeMean}))

	applied, err := wb.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"impute"}, applied)

	// The queue shipped in append order with its options
	require.Len(t, fb.cleanedOps, 1)
	assert.Equal(t, model.OpImpute, fb.cleanedOps[0].Type)
	assert.Equal(t, "mean", fb.cleanedOps[0].Options["method"])
	assert.Equal(t, model.ID("1"), fb.cleanedID)

	// The preview now reflects the backend's re-analysis, not the local
	// simulation
	assert.Equal(t, 0, wb.PendingCount())
	assert.Equal(t, 0, wb.Preview().TotalNulls)
	assert.Equal(t, model.Number(99), wb.Preview().PreviewRows[1].Cell("age"))
	for _, row := range wb.Preview().PreviewRows {
		assert.Equal(t, model.RowActive, row.Status)
	}
}

func TestSaveGuards(t *testing.T) {
	fb := newFakeBackend()
	fb.snapshots["1"] = sampleSnapshot("1")
	wb := newTestSession(t, fb)

	_, err := wb.Save(context.Background())
	assert.ErrorIs(t, err, ErrNoDataset)

	require.NoError(t, wb.Select(context.Background(), "1"))
	_, err = wb.Save(context.Background())
	assert.ErrorIs(t, err, ErrNoPendingOperations)
}

func TestSaveRejectsConcurrentSave(t *testing.T) {
	fb := newFakeBackend()
	fb.snapshots["1"] = sampleSnapshot("1")
	fb.cleanGate = make(chan struct{})
	wb := newTestSession(t, fb)
	require.NoError(t, wb.Select(context.Background(), "1"))
	require.NoError(t, wb.Apply(preview.Request{Type: model.OpReplaceNulls}))

	done := make(chan error, 1)
	go func() {
		_, err := wb.Save(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool {
		_, err := wb.Save(context.Background())
		return err == ErrBusy
	}, time.Second, 5*time.Millisecond)

	close(fb.cleanGate)
	require.NoError(t, <-done)
}

func TestSelectDiscardsSupersededAnalysis(t *testing.T) {
	fb := newFakeBackend()
	fb.snapshots["1"] = sampleSnapshot("1")
	fb.snapshots["2"] = sampleSnapshot("2")
	gate := make(chan struct{})
	fb.analyzeGates["1"] = gate

	wb := newTestSession(t, fb)

	done := make(chan error, 1)
	go func() {
		done <- wb.Select(context.Background(), "1")
	}()

	require.Eventually(t, func() bool { return fb.analyzeStarted("1") }, time.Second, 5*time.Millisecond)
	require.NoError(t, wb.Select(context.Background(), "2"))

	close(gate)
	assert.ErrorIs(t, <-done, ErrStaleResponse)

	// The later selection's data wins
	assert.Equal(t, model.ID("2"), wb.Selected())
	assert.Equal(t, model.ID("2"), wb.Preview().DatasetID)
	assert.Equal(t, 1, wb.Metrics().Snapshot().StaleDiscarded)
}

func TestTrainAppliesSplitDefaults(t *testing.T) {
	fb := newFakeBackend()
	fb.snapshots["1"] = sampleSnapshot("1")
	wb := newTestSession(t, fb)
	require.NoError(t, wb.Select(context.Background(), "1"))

	_, err := wb.Train(context.Background(), model.TrainRequest{
		Name:           "clf",
		Algorithm:      "random_forest",
		TargetVariable: "color",
	})
	require.NoError(t, err)

	assert.Equal(t, model.ID("1"), fb.trainReq.DatasetID)
	assert.Equal(t, 0.2, fb.trainReq.TestSize)
	assert.Equal(t, 42, fb.trainReq.RandomState)
}

func TestTrainValidatesTargetAgainstCleanedColumns(t *testing.T) {
	fb := newFakeBackend()
	fb.snapshots["1"] = sampleSnapshot("1")
	fb.cleanedColumns = map[model.ID][]string{"1": {"age", "color"}}
	wb := newTestSession(t, fb)
	require.NoError(t, wb.Select(context.Background(), "1"))

	_, err := wb.Train(context.Background(), model.TrainRequest{
		Name: "clf", Algorithm: "random_forest", TargetVariable: "price",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"price"`)

	_, err = wb.Train(context.Background(), model.TrainRequest{
		Name: "clf", Algorithm: "random_forest", TargetVariable: "color",
	})
	assert.NoError(t, err)
}

func TestCleanedColumns(t *testing.T) {
	fb := newFakeBackend()
	fb.cleanedColumns = map[model.ID][]string{"3": {"age", "salary"}}
	wb := newTestSession(t, fb)

	columns, err := wb.CleanedColumns(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "salary"}, columns)
}

func TestTrainWithoutDataset(t *testing.T) {
	wb := newTestSession(t, newFakeBackend())
	_, err := wb.Train(context.Background(), model.TrainRequest{Name: "clf", Algorithm: "rf", TargetVariable: "y"})
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestUploadRefreshesDatasets(t *testing.T) {
	fb := newFakeBackend()
	fb.datasets = []model.Dataset{{ID: "1", Name: "ventas.csv"}}
	wb := newTestSession(t, fb)

	result, err := wb.Upload(context.Background(), "ventas.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rows)

	assert.Len(t, wb.Datasets(), 1)
	assert.Equal(t, 1, wb.Metrics().Snapshot().UploadsCompleted)
}

func TestPagination(t *testing.T) {
	snap := sampleSnapshot("1")
	snap.PreviewRows = nil
	for i := 0; i < 12; i++ {
		snap.PreviewRows = append(snap.PreviewRows, model.Row{
			Cells: map[string]model.Value{"age": model.Number(float64(i)), "color": model.String("red")},
		})
	}
	fb := newFakeBackend()
	fb.snapshots["1"] = snap

	wb := newTestSession(t, fb)
	require.NoError(t, wb.Select(context.Background(), "1"))

	assert.Equal(t, 5, wb.PageSize())

	rows, page, pageCount := wb.PageRows()
	assert.Equal(t, 1, page)
	assert.Equal(t, 3, pageCount)
	assert.Len(t, rows, 5)

	// Requests past the end clamp to the last page
	assert.Equal(t, 3, wb.SetPage(99))
	rows, page, _ = wb.PageRows()
	assert.Equal(t, 3, page)
	assert.Len(t, rows, 2)
	assert.Equal(t, model.Number(10), rows[0].Cell("age"))
}

func TestQuality(t *testing.T) {
	fb := newFakeBackend()
	fb.snapshots["1"] = sampleSnapshot("1")
	wb := newTestSession(t, fb)

	assert.Equal(t, QualityStats{}, wb.Quality())

	require.NoError(t, wb.Select(context.Background(), "1"))
	stats := wb.Quality()
	assert.Equal(t, 3, stats.TotalRecords)
	assert.Equal(t, 2, stats.TotalColumns)
	assert.Equal(t, 1, stats.TotalNulls)
	// 5 of 6 cells populated
	assert.Equal(t, 83.3, stats.QualityPercent)
}
