// pkg/preview/status.go
package preview

import (
	"github.com/insightlab/dataprep/pkg/model"
)

// DeriveStatus computes a row's status from its numeric columns: inactive
// when any numeric column holds a null-equivalent value (missing, absent,
// or a replaced-null sentinel), active otherwise.
func DeriveStatus(row model.Row, numeric NumericSet) model.RowStatus {
	for column := range numeric {
		if row.Cell(column).IsNullish() {
			return model.RowInactive
		}
	}
	return model.RowActive
}

// ApplyStatus rewrites the status field of every row in place. It must run
// after ingestion and after every operation that can change the nullness of
// numeric columns.
func ApplyStatus(rows []model.Row, numeric NumericSet) {
	for i := range rows {
		rows[i].Status = DeriveStatus(rows[i], numeric)
	}
}
