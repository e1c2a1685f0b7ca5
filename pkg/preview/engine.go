// pkg/preview/engine.go
package preview

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/insightlab/dataprep/pkg/model"
)

// Request names one transformation to simulate on the preview
type Request struct {
	Type   model.OperationType
	Method model.ImputeMethod // impute only; empty defaults to mean
}

// Normalize fills defaults and validates the request
func (r Request) Normalize() (Request, error) {
	switch r.Type {
	case model.OpReplaceNulls, model.OpNormalize, model.OpEncode:
		r.Method = ""
		return r, nil
	case model.OpImpute:
		if r.Method == "" {
			r.Method = model.ImputeMean
		}
		if !r.Method.Valid() {
			return r, fmt.Errorf("unknown impute method %q", r.Method)
		}
		return r, nil
	default:
		return r, fmt.Errorf("unknown operation %q", r.Type)
	}
}

// Options returns the parameter bag that is queued and later persisted with
// the operation, or nil when the operation takes none
func (r Request) Options() map[string]interface{} {
	if r.Type == model.OpImpute {
		return map[string]interface{}{"method": string(r.Method)}
	}
	return nil
}

// Label returns the human-readable description of the request
func (r Request) Label() string {
	return model.OperationLabel(r.Type, r.Method)
}

// Engine applies cleaning operations to a preview snapshot. Every Apply is
// a functional update: the input snapshot is never mutated, so the caller's
// reset path stays correct. Malformed data never fails an operation; a
// column with no eligible values is a no-op for that column.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an operation engine
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger}
}

// Apply produces a new snapshot with the requested transformation applied
// and every row's status re-derived
func (e *Engine) Apply(snap *model.AnalysisSnapshot, numeric NumericSet, req Request) (*model.AnalysisSnapshot, error) {
	if snap == nil {
		return nil, fmt.Errorf("no snapshot to transform")
	}

	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	next := snap.Clone()

	switch req.Type {
	case model.OpReplaceNulls:
		e.replaceNulls(next)
	case model.OpImpute:
		e.impute(next, numeric, req.Method)
	case model.OpNormalize:
		e.normalize(next, numeric)
	case model.OpEncode:
		e.encode(next, numeric)
	}

	ApplyStatus(next.PreviewRows, numeric)

	e.logger.Debug("Operation simulated on preview",
		zap.String("operation", string(req.Type)),
		zap.String("dataset_id", string(next.DatasetID)),
		zap.Int("total_nulls", next.TotalNulls))

	return next, nil
}

// replaceNulls turns every null cell in every column into the N/A sentinel
// and zeroes all null statistics
func (e *Engine) replaceNulls(snap *model.AnalysisSnapshot) {
	for i := range snap.PreviewRows {
		for column, value := range snap.PreviewRows[i].Cells {
			if value.Kind == model.KindMissing {
				snap.PreviewRows[i].Cells[column] = model.Replaced()
			}
		}
	}

	for name, info := range snap.ColumnsInfo {
		info.Nulls = 0
		info.NullPercentage = 0
		snap.ColumnsInfo[name] = info
	}
	snap.TotalNulls = 0
}

// impute fills the nulls of every numeric column with the chosen statistic
// computed over that column's current non-null numeric values. Replaced
// sentinels are not nulls any more and are left alone.
func (e *Engine) impute(snap *model.AnalysisSnapshot, numeric NumericSet, method model.ImputeMethod) {
	fills := make(map[string]float64, len(numeric))
	for column := range numeric {
		fills[column] = imputeStatistic(columnNumbers(snap.PreviewRows, column), method)
	}

	for i := range snap.PreviewRows {
		for column := range numeric {
			if snap.PreviewRows[i].Cell(column).Kind == model.KindMissing {
				snap.PreviewRows[i].Cells[column] = model.Number(fills[column])
			}
		}
	}

	for name, info := range snap.ColumnsInfo {
		if numeric.Has(name) {
			info.Nulls = 0
			info.NullPercentage = 0
			snap.ColumnsInfo[name] = info
		}
	}

	// Nulls can only remain in non-numeric columns now
	remaining := 0
	for name, info := range snap.ColumnsInfo {
		if !numeric.Has(name) {
			remaining += info.Nulls
		}
	}
	snap.TotalNulls = remaining
}

// normalize standard-scales every numeric column: (v - mean) / std rounded
// to two decimals, with a zero std treated as 1
func (e *Engine) normalize(snap *model.AnalysisSnapshot, numeric NumericSet) {
	type scaler struct {
		mean float64
		std  float64
	}

	scalers := make(map[string]scaler, len(numeric))
	for column := range numeric {
		values := columnNumbers(snap.PreviewRows, column)
		if len(values) == 0 {
			continue
		}
		mean := meanOf(values)
		std := stdOf(values, mean)
		if std == 0 {
			std = 1
		}
		scalers[column] = scaler{mean: mean, std: std}
	}

	for i := range snap.PreviewRows {
		for column, sc := range scalers {
			if v, ok := snap.PreviewRows[i].Cell(column).Float(); ok {
				snap.PreviewRows[i].Cells[column] = model.Number(roundToTwo((v - sc.mean) / sc.std))
			}
		}
	}
}

// encode integer-codes every non-numeric column: each distinct non-null
// value gets a code in first-seen row order, and null-equivalent cells map
// to 0
func (e *Engine) encode(snap *model.AnalysisSnapshot, numeric NumericSet) {
	for name := range snap.ColumnsInfo {
		if numeric.Has(name) {
			continue
		}

		codes := make(map[string]int)
		for _, row := range snap.PreviewRows {
			value := row.Cell(name)
			if value.IsNullish() {
				continue
			}
			key := value.Key()
			if _, seen := codes[key]; !seen {
				codes[key] = len(codes)
			}
		}

		for i := range snap.PreviewRows {
			value := snap.PreviewRows[i].Cell(name)
			if value.IsNullish() {
				snap.PreviewRows[i].Cells[name] = model.Number(0)
				continue
			}
			snap.PreviewRows[i].Cells[name] = model.Number(float64(codes[value.Key()]))
		}
	}
}
