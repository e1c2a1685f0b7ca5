package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotDecodeBackendPayload(t *testing.T) {
	payload := []byte(`{
		"dataset_id": 12,
		"total_rows": 100,
		"total_columns": 3,
		"total_nulls": 7,
		"columns_info": {
			"age":   {"dtype": "float64", "nulls": 5, "null_percentage": 5.0, "is_numeric": true},
			"color": {"dtype": "object",  "nulls": 2, "null_percentage": 2.0, "is_numeric": false}
		},
		"preview_data": [
			{"age": 34, "color": "red"},
			{"age": null, "color": null, "status": "whatever"}
		]
	}`)

	var snap AnalysisSnapshot
	require.NoError(t, json.Unmarshal(payload, &snap))

	assert.Equal(t, ID("12"), snap.DatasetID)
	assert.Equal(t, 100, snap.TotalRows)
	assert.Equal(t, 7, snap.TotalNulls)
	assert.Equal(t, 7, snap.SumColumnNulls())
	assert.True(t, snap.ColumnsInfo["age"].IsNumeric)

	require.Len(t, snap.PreviewRows, 2)
	assert.Equal(t, Number(34), snap.PreviewRows[0].Cell("age"))
	assert.Equal(t, Missing(), snap.PreviewRows[1].Cell("age"))

	// A backend-sent status key is dropped, not stored as a cell
	_, hasStatus := snap.PreviewRows[1].Cells[StatusColumn]
	assert.False(t, hasStatus)
}

func TestRowCellAbsentColumnIsMissing(t *testing.T) {
	row := NewRow()
	row.Cells["age"] = Number(30)

	assert.Equal(t, Number(30), row.Cell("age"))
	assert.Equal(t, Missing(), row.Cell("salary"))
}

func TestRowMarshalIncludesStatus(t *testing.T) {
	row := NewRow()
	row.Cells["age"] = Number(30)
	row.Status = RowInactive

	data, err := json.Marshal(row)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "inactive", out["status"])
	assert.Equal(t, 30.0, out["age"])
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	snap := &AnalysisSnapshot{
		DatasetID:    "1",
		TotalRows:    1,
		TotalColumns: 1,
		TotalNulls:   1,
		ColumnsInfo:  map[string]ColumnInfo{"age": {Dtype: "float64", Nulls: 1, NullPercentage: 100, IsNumeric: true}},
		PreviewRows:  []Row{{Cells: map[string]Value{"age": Missing()}, Status: RowInactive}},
	}

	clone := snap.Clone()
	require.True(t, snap.Equal(clone))

	clone.PreviewRows[0].Cells["age"] = Number(5)
	clone.ColumnsInfo["age"] = ColumnInfo{Dtype: "float64", IsNumeric: true}
	clone.TotalNulls = 0

	assert.Equal(t, Missing(), snap.PreviewRows[0].Cell("age"))
	assert.Equal(t, 1, snap.ColumnsInfo["age"].Nulls)
	assert.Equal(t, 1, snap.TotalNulls)
	assert.False(t, snap.Equal(clone))
}

func TestColumnNamesSortedWithStatusLast(t *testing.T) {
	snap := &AnalysisSnapshot{
		ColumnsInfo: map[string]ColumnInfo{
			"salary": {}, "age": {}, "color": {},
		},
	}
	assert.Equal(t, []string{"age", "color", "salary", StatusColumn}, snap.ColumnNames())
}

func TestIDAcceptsStringAndNumber(t *testing.T) {
	var fromNumber ID
	require.NoError(t, json.Unmarshal([]byte(`42`), &fromNumber))
	assert.Equal(t, ID("42"), fromNumber)

	var fromString ID
	require.NoError(t, json.Unmarshal([]byte(`"abc-1"`), &fromString))
	assert.Equal(t, ID("abc-1"), fromString)

	numeric, err := json.Marshal(ID("42"))
	require.NoError(t, err)
	assert.Equal(t, "42", string(numeric))

	opaque, err := json.Marshal(ID("abc-1"))
	require.NoError(t, err)
	assert.Equal(t, `"abc-1"`, string(opaque))

	// All-digit ids that are not canonical decimal stay strings
	padded, err := json.Marshal(ID("007"))
	require.NoError(t, err)
	assert.Equal(t, `"007"`, string(padded))
}

func TestOperationLabels(t *testing.T) {
	assert.Equal(t, "Reemplazar NULL con N/A", OperationLabel(OpReplaceNulls, ""))
	assert.Equal(t, "Imputar con median", OperationLabel(OpImpute, ImputeMedian))
	assert.Equal(t, "Normalizar con StandardScaler", OperationLabel(OpNormalize, ""))
	assert.Equal(t, "Codificar variables categóricas", OperationLabel(OpEncode, ""))
}
