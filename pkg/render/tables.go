// pkg/render/tables.go
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/insightlab/dataprep/pkg/model"
	"github.com/insightlab/dataprep/pkg/workbench"
)

// Column quality severities
const (
	SeverityOK       = "ok"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Null-percentage threshold above which a column is flagged critical
const criticalNullPercentage = 20.0

// Severity classifies a column's null percentage
func Severity(nullPercentage float64) string {
	switch {
	case nullPercentage > criticalNullPercentage:
		return SeverityCritical
	case nullPercentage > 0:
		return SeverityWarning
	default:
		return SeverityOK
	}
}

// PreviewTable renders one page of preview rows with the snapshot's columns
// in display order and a page footer. start is the 1-indexed absolute
// position of the page's first row.
func PreviewTable(snap *model.AnalysisSnapshot, rows []model.Row, start, page, pageCount int) string {
	if snap == nil {
		return "No dataset analyzed yet."
	}

	columns := snap.ColumnNames()

	t := table.NewWriter()
	header := table.Row{"#"}
	for _, name := range columns {
		header = append(header, name)
	}
	t.AppendHeader(header)

	for i, row := range rows {
		out := table.Row{start + i}
		for _, name := range columns {
			if name == model.StatusColumn {
				out = append(out, string(row.Status))
				continue
			}
			out = append(out, row.Cell(name).Display())
		}
		t.AppendRows([]table.Row{out})
	}

	t.AppendFooter(table.Row{fmt.Sprintf("Page %d/%d", page, pageCount)})
	t.SetStyle(table.StyleDefault)

	return t.Render()
}

// QualityTable renders per-column null statistics with a severity badge for
// each column
func QualityTable(snap *model.AnalysisSnapshot) string {
	if snap == nil {
		return "No dataset analyzed yet."
	}

	names := make([]string, 0, len(snap.ColumnsInfo))
	for name := range snap.ColumnsInfo {
		names = append(names, name)
	}
	sort.Strings(names)

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Column", "Dtype", "Nulls", "Null %", "Severity"})
	for _, name := range names {
		info := snap.ColumnsInfo[name]
		t.AppendRows([]table.Row{
			{name, info.Dtype, info.Nulls, fmt.Sprintf("%.1f", info.NullPercentage), Severity(info.NullPercentage)},
		})
	}
	t.AppendFooter(table.Row{"Total", "", snap.TotalNulls, "", ""})
	t.SetStyle(table.StyleDefault)

	return t.Render()
}

// SummaryTable renders the dataset quality headline figures
func SummaryTable(stats workbench.QualityStats) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Records", "Columns", "Nulls", "Quality"})
	t.AppendRows([]table.Row{
		{stats.TotalRecords, stats.TotalColumns, stats.TotalNulls, fmt.Sprintf("%.1f%%", stats.QualityPercent)},
	})
	t.SetStyle(table.StyleDefault)

	return t.Render()
}

// DatasetTable renders the uploaded dataset list
func DatasetTable(datasets []model.Dataset) string {
	if len(datasets) == 0 {
		return "No datasets uploaded yet."
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"ID", "Name", "Rows", "Columns", "Type", "Size (MB)", "Uploaded"})
	for _, d := range datasets {
		t.AppendRows([]table.Row{
			{string(d.ID), d.Name, d.NumRows, d.NumColumns, d.FileType, fmt.Sprintf("%.2f", d.FileSizeMB), d.UploadedAt},
		})
	}
	t.SetStyle(table.StyleDefault)

	return t.Render()
}

// CleanedDatasetTable renders the persisted cleaned dataset list
func CleanedDatasetTable(datasets []model.CleanedDataset) string {
	if len(datasets) == 0 {
		return "No cleaned datasets saved yet."
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"ID", "Name", "Rows", "Columns", "Created"})
	for _, d := range datasets {
		t.AppendRows([]table.Row{
			{string(d.ID), d.Name, d.NumRows, d.NumColumns, d.CreatedAt},
		})
	}
	t.SetStyle(table.StyleDefault)

	return t.Render()
}

// ModelTable renders the trained model list
func ModelTable(models []model.ModelInfo) string {
	if len(models) == 0 {
		return "No models trained yet."
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"ID", "Name", "Algorithm", "Accuracy", "Status", "Training (s)"})
	for _, m := range models {
		t.AppendRows([]table.Row{
			{string(m.ID), m.Name, m.Algorithm, fmt.Sprintf("%.4f", m.Accuracy), m.Status, fmt.Sprintf("%.2f", m.TrainingTime)},
		})
	}
	t.SetStyle(table.StyleDefault)

	return t.Render()
}

// PendingList renders the queued operation labels in append order
func PendingList(labels []string) string {
	if len(labels) == 0 {
		return "No pending operations."
	}

	var buf strings.Builder
	buf.WriteString("Pending operations:\n")
	for i, label := range labels {
		buf.WriteString(fmt.Sprintf("  %d. %s\n", i+1, label))
	}
	return buf.String()
}
