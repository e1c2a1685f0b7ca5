// pkg/model/snapshot.go
package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// RowStatus marks whether a row still has missing numeric data
type RowStatus string

const (
	// RowActive means every numeric column in the row is populated
	RowActive RowStatus = "active"
	// RowInactive means at least one numeric column is null or replaced
	RowInactive RowStatus = "inactive"
)

// StatusColumn is the synthetic column name the client appends to each row.
// It is never part of the backend payload.
const StatusColumn = "status"

// ColumnInfo describes the quality metadata of a single column
type ColumnInfo struct {
	Dtype          string  `json:"dtype"`
	Nulls          int     `json:"nulls"`
	NullPercentage float64 `json:"null_percentage"`
	IsNumeric      bool    `json:"is_numeric"`
}

// Row is a single preview record: cells keyed by column name plus the
// client-derived status field
type Row struct {
	Cells  map[string]Value
	Status RowStatus
}

// NewRow creates an empty row
func NewRow() Row {
	return Row{Cells: map[string]Value{}, Status: RowActive}
}

// Cell returns the value of a column. Absent columns read as missing.
func (r Row) Cell(column string) Value {
	v, ok := r.Cells[column]
	if !ok {
		return Missing()
	}
	return v
}

// Clone returns an independent copy of the row
func (r Row) Clone() Row {
	out := Row{Cells: make(map[string]Value, len(r.Cells)), Status: r.Status}
	for k, v := range r.Cells {
		out.Cells[k] = v
	}
	return out
}

// UnmarshalJSON decodes a backend preview record into cells. A "status" key,
// if a backend ever sent one, is dropped so the derived field stays
// client-owned.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode preview row: %w", err)
	}
	r.Cells = make(map[string]Value, len(raw))
	r.Status = RowActive
	for key, msg := range raw {
		if key == StatusColumn {
			continue
		}
		var v Value
		if err := json.Unmarshal(msg, &v); err != nil {
			return fmt.Errorf("decode column %q: %w", key, err)
		}
		r.Cells[key] = v
	}
	return nil
}

// MarshalJSON encodes the cells plus the derived status field
func (r Row) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Cells)+1)
	for k, v := range r.Cells {
		out[k] = v
	}
	out[StatusColumn] = string(r.Status)
	return json.Marshal(out)
}

// AnalysisSnapshot is the backend's summary of a dataset at a point in
// time: shape, per-column quality and a row sample
type AnalysisSnapshot struct {
	DatasetID    ID                    `json:"dataset_id"`
	TotalRows    int                   `json:"total_rows"`
	TotalColumns int                   `json:"total_columns"`
	ColumnsInfo  map[string]ColumnInfo `json:"columns_info"`
	TotalNulls   int                   `json:"total_nulls"`
	PreviewRows  []Row                 `json:"preview_data"`
}

// Clone returns a deep, independently mutable copy of the snapshot
func (s *AnalysisSnapshot) Clone() *AnalysisSnapshot {
	if s == nil {
		return nil
	}
	out := &AnalysisSnapshot{
		DatasetID:    s.DatasetID,
		TotalRows:    s.TotalRows,
		TotalColumns: s.TotalColumns,
		TotalNulls:   s.TotalNulls,
		ColumnsInfo:  make(map[string]ColumnInfo, len(s.ColumnsInfo)),
		PreviewRows:  make([]Row, len(s.PreviewRows)),
	}
	for name, info := range s.ColumnsInfo {
		out.ColumnsInfo[name] = info
	}
	for i, row := range s.PreviewRows {
		out.PreviewRows[i] = row.Clone()
	}
	return out
}

// Equal reports whether two snapshots hold the same data
func (s *AnalysisSnapshot) Equal(o *AnalysisSnapshot) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.DatasetID != o.DatasetID ||
		s.TotalRows != o.TotalRows ||
		s.TotalColumns != o.TotalColumns ||
		s.TotalNulls != o.TotalNulls ||
		len(s.ColumnsInfo) != len(o.ColumnsInfo) ||
		len(s.PreviewRows) != len(o.PreviewRows) {
		return false
	}
	for name, info := range s.ColumnsInfo {
		if o.ColumnsInfo[name] != info {
			return false
		}
	}
	for i, row := range s.PreviewRows {
		other := o.PreviewRows[i]
		if row.Status != other.Status || len(row.Cells) != len(other.Cells) {
			return false
		}
		for k, v := range row.Cells {
			if !v.Equal(other.Cells[k]) {
				return false
			}
		}
	}
	return true
}

// ColumnNames returns the column names of the snapshot in sorted order,
// with the synthetic status column appended last
func (s *AnalysisSnapshot) ColumnNames() []string {
	names := make([]string, 0, len(s.ColumnsInfo)+1)
	for name := range s.ColumnsInfo {
		names = append(names, name)
	}
	sort.Strings(names)
	return append(names, StatusColumn)
}

// SumColumnNulls returns the sum of per-column null counts. At ingestion
// time this must equal TotalNulls; after local operations the engine keeps
// the two consistent.
func (s *AnalysisSnapshot) SumColumnNulls() int {
	total := 0
	for _, info := range s.ColumnsInfo {
		total += info.Nulls
	}
	return total
}
