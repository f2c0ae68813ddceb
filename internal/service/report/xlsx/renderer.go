package xlsx

import (
	"bytes"
	"fmt"
	"time"

	"github.com/brandworks/asset-qc/internal/service/report"
	"github.com/brandworks/asset-qc/internal/service/report/types"
	"github.com/brandworks/asset-qc/internal/workflow"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet = "Summary"
	ReviewsSheet = "Reviews"
)

var reviewHeaders = []string{"Review ID", "Date", "Reviewer ID", "Decision", "Score", "Checklist Completion", "Remarks"}

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.ReportFormat {
	return types.ReportFormatXLSX
}

func (r *Renderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Render writes a workbook with a summary sheet and one row per review.
func (r *Renderer) Render(data *types.ReportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, err
	}
	if err := r.writeSummary(f, data); err != nil {
		return nil, fmt.Errorf("failed to write summary sheet: %w", err)
	}

	if _, err := f.NewSheet(ReviewsSheet); err != nil {
		return nil, err
	}
	if err := r.writeReviews(f, data); err != nil {
		return nil, fmt.Errorf("failed to write reviews sheet: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) writeSummary(f *excelize.File, data *types.ReportData) error {
	a := data.Asset
	rows := [][]interface{}{
		{"Asset QC Review History"},
		{fmt.Sprintf("Generated: %s at %s", data.Timestamps.Generated, data.Timestamps.GeneratedTime)},
		{},
		{"Asset ID", a.ID},
		{"Title", a.Title},
		{"Workflow Stage", string(a.WorkflowStage)},
		{"QC Status", string(a.QCStatus)},
		{"Linking Active", a.LinkingActive},
		{"Rework Count", a.ReworkCount},
		{},
		{"Decision", "Count"},
	}
	for _, d := range []workflow.Decision{workflow.DecisionApproved, workflow.DecisionRejected, workflow.DecisionRework} {
		rows = append(rows, []interface{}{string(d), data.Summary.ByDecision[string(d)]})
	}
	rows = append(rows,
		[]interface{}{"Total", data.Summary.TotalReviews},
		[]interface{}{"Average Score", report.AverageScore(data.Summary)},
	)

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(SummarySheet, "A", "A", 24)
}

func (r *Renderer) writeReviews(f *excelize.File, data *types.ReportData) error {
	header := make([]interface{}, len(reviewHeaders))
	for i, h := range reviewHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(ReviewsSheet, "A1", &header); err != nil {
		return err
	}

	for i, rv := range data.Reviews {
		row := []interface{}{
			rv.ID,
			rv.CreatedAt.Format(time.RFC3339),
			rv.ReviewerID,
			string(rv.Decision),
			report.OptionalInt(rv.Score),
			report.OptionalInt(rv.ChecklistCompletion),
			report.OptionalString(rv.Remarks),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ReviewsSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.AutoFilter(ReviewsSheet, fmt.Sprintf("A1:G%d", len(data.Reviews)+1), nil); err != nil {
		return err
	}
	return f.SetColWidth(ReviewsSheet, "B", "B", 22)
}
