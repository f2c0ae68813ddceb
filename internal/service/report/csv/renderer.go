package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/brandworks/asset-qc/internal/service/report"
	"github.com/brandworks/asset-qc/internal/service/report/types"
	"github.com/brandworks/asset-qc/internal/workflow"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) SupportedFormat() types.ReportFormat {
	return types.ReportFormatCSV
}

func (r *Renderer) ContentType() string {
	return "text/csv"
}

func (r *Renderer) Render(data *types.ReportData) ([]byte, error) {
	var csvRows [][]string

	csvRows = append(csvRows, []string{"ASSET QC REVIEW HISTORY"})
	csvRows = append(csvRows, []string{fmt.Sprintf("Generated: %s at %s",
		data.Timestamps.Generated, data.Timestamps.GeneratedTime)})
	csvRows = append(csvRows, []string{""})

	csvRows = r.addAssetSummary(csvRows, data)
	csvRows = r.addDecisionSummary(csvRows, data.Summary)
	csvRows = r.addReviews(csvRows, data)

	return r.convertRowsToCSV(csvRows)
}

func (r *Renderer) addAssetSummary(csvRows [][]string, data *types.ReportData) [][]string {
	a := data.Asset
	csvRows = append(csvRows, []string{"ASSET"})
	csvRows = append(csvRows, []string{"Field", "Value"})
	csvRows = append(csvRows,
		[]string{"Asset ID", fmt.Sprintf("%d", a.ID)},
		[]string{"Title", a.Title},
		[]string{"Workflow Stage", string(a.WorkflowStage)},
		[]string{"QC Status", string(a.QCStatus)},
		[]string{"Linking Active", fmt.Sprintf("%v", a.LinkingActive)},
		[]string{"Rework Count", fmt.Sprintf("%d", a.ReworkCount)},
		[]string{"Created By", report.OptionalUint(a.CreatedBy)},
	)
	return append(csvRows, []string{""})
}

func (r *Renderer) addDecisionSummary(csvRows [][]string, s types.ReviewSummary) [][]string {
	csvRows = append(csvRows, []string{"DECISIONS"})
	csvRows = append(csvRows, []string{"Decision", "Count"})
	for _, d := range []workflow.Decision{workflow.DecisionApproved, workflow.DecisionRejected, workflow.DecisionRework} {
		csvRows = append(csvRows, []string{string(d), fmt.Sprintf("%d", s.ByDecision[string(d)])})
	}
	csvRows = append(csvRows, []string{"Total", fmt.Sprintf("%d", s.TotalReviews)})
	csvRows = append(csvRows, []string{"Average Score", report.AverageScore(s)})
	return append(csvRows, []string{""})
}

func (r *Renderer) addReviews(csvRows [][]string, data *types.ReportData) [][]string {
	csvRows = append(csvRows, []string{"REVIEWS"})
	if len(data.Reviews) == 0 {
		return append(csvRows, []string{"No review recorded for this asset."})
	}

	csvRows = append(csvRows, []string{"Review ID", "Date", "Reviewer ID", "Decision", "Score", "Checklist Completion", "Remarks"})
	for _, rv := range data.Reviews {
		csvRows = append(csvRows, []string{
			fmt.Sprintf("%d", rv.ID),
			rv.CreatedAt.Format(time.RFC3339),
			fmt.Sprintf("%d", rv.ReviewerID),
			string(rv.Decision),
			report.OptionalInt(rv.Score),
			report.OptionalInt(rv.ChecklistCompletion),
			report.OptionalString(rv.Remarks),
		})
	}
	return csvRows
}

func (r *Renderer) convertRowsToCSV(csvRows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	for _, row := range csvRows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	return buf.Bytes(), nil
}
