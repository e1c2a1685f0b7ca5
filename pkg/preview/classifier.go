// pkg/preview/classifier.go
package preview

import (
	"github.com/insightlab/dataprep/pkg/model"
)

// NumericSet holds the names of the columns classified as numeric for the
// lifetime of one analysis snapshot
type NumericSet map[string]struct{}

// ClassifyNumeric returns the set of columns flagged numeric in a fresh
// analysis response. It must be recomputed for every new snapshot and never
// reused across datasets. Columns absent from the mapping are non-numeric.
func ClassifyNumeric(columnsInfo map[string]model.ColumnInfo) NumericSet {
	numeric := make(NumericSet)
	for name, info := range columnsInfo {
		if info.IsNumeric {
			numeric[name] = struct{}{}
		}
	}
	return numeric
}

// Has reports whether the column is classified numeric
func (s NumericSet) Has(column string) bool {
	_, ok := s[column]
	return ok
}
