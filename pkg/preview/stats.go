// pkg/preview/stats.go
package preview

import (
	"math"
	"sort"
	"strconv"

	"github.com/insightlab/dataprep/pkg/model"
)

// columnNumbers extracts the current non-null numeric values of a column,
// in row order
func columnNumbers(rows []model.Row, column string) []float64 {
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		if v, ok := row.Cell(column).Float(); ok {
			values = append(values, v)
		}
	}
	return values
}

// imputeStatistic computes the fill value for a column per the chosen
// method. A column with no eligible values yields 0.
func imputeStatistic(values []float64, method model.ImputeMethod) float64 {
	if len(values) == 0 {
		return 0
	}

	switch method {
	case model.ImputeMean:
		return math.Round(meanOf(values))
	case model.ImputeMedian:
		return medianOf(values)
	case model.ImputeMode:
		return modeOf(values)
	default:
		return 0
	}
}

// meanOf returns the arithmetic mean
func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// medianOf returns the middle element of the sorted values; for an even
// count, the average of the two middle elements rounded to the nearest
// integer
func medianOf(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return math.Round((sorted[mid-1] + sorted[mid]) / 2)
	}
	return sorted[mid]
}

// modeOf returns the most frequent value. Frequency ties break toward the
// value whose decimal string form sorts lexicographically first, which is
// deterministic regardless of accumulation order.
func modeOf(values []float64) float64 {
	freq := make(map[float64]int, len(values))
	for _, v := range values {
		freq[v]++
	}

	best := values[0]
	bestCount := 0
	bestKey := ""
	for v, count := range freq {
		key := strconv.FormatFloat(v, 'f', -1, 64)
		if count > bestCount || (count == bestCount && key < bestKey) {
			best = v
			bestCount = count
			bestKey = key
		}
	}
	return best
}

// stdOf returns the population standard deviation around the given mean
func stdOf(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

// roundToTwo rounds to two decimal places
func roundToTwo(v float64) float64 {
	return math.Round(v*100) / 100
}
