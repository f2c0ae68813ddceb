package types

import (
	"time"

	"github.com/brandworks/asset-qc/internal/store/model"
)

type ReportRenderer interface {
	Render(data *ReportData) ([]byte, error)
	SupportedFormat() ReportFormat
	ContentType() string
}

type ReportFormat string

const (
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatXLSX ReportFormat = "xlsx"
)

type ReportData struct {
	Asset      *model.Asset
	Reviews    model.ReviewList
	Summary    ReviewSummary
	Timestamps ReportTimestamps
}

type ReviewSummary struct {
	TotalReviews int
	ByDecision   map[string]int
	// AverageScore is nil when no review carried a score.
	AverageScore *float64
	LastDecision string
	LastReviewAt *time.Time
}

type ReportTimestamps struct {
	Generated     string
	GeneratedTime string
}

type RenderedReport struct {
	Format      ReportFormat
	ContentType string
	Filename    string
	Content     []byte
}
