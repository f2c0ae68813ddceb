package report

import (
	"fmt"
	"time"

	"github.com/brandworks/asset-qc/internal/service/report/types"
	"github.com/brandworks/asset-qc/internal/store/model"
	"github.com/brandworks/asset-qc/internal/workflow"
)

type ReviewHistoryProcessor struct {
	now func() time.Time
}

func NewReviewHistoryProcessor() *ReviewHistoryProcessor {
	return &ReviewHistoryProcessor{now: time.Now}
}

// Process expects reviews newest first, as the review log returns them.
func (p *ReviewHistoryProcessor) Process(asset *model.Asset, reviews model.ReviewList) *types.ReportData {
	return &types.ReportData{
		Asset:      asset,
		Reviews:    reviews,
		Summary:    p.summarize(reviews),
		Timestamps: p.generateTimestamps(),
	}
}

func (p *ReviewHistoryProcessor) summarize(reviews model.ReviewList) types.ReviewSummary {
	summary := types.ReviewSummary{
		TotalReviews: len(reviews),
		ByDecision: map[string]int{
			string(workflow.DecisionApproved): 0,
			string(workflow.DecisionRejected): 0,
			string(workflow.DecisionRework):   0,
		},
	}

	scored, total := 0, 0
	for _, r := range reviews {
		summary.ByDecision[string(r.Decision)]++
		if r.Score != nil {
			scored++
			total += *r.Score
		}
	}
	if scored > 0 {
		avg := float64(total) / float64(scored)
		summary.AverageScore = &avg
	}
	if len(reviews) > 0 {
		summary.LastDecision = string(reviews[0].Decision)
		last := reviews[0].CreatedAt
		summary.LastReviewAt = &last
	}
	return summary
}

func (p *ReviewHistoryProcessor) generateTimestamps() types.ReportTimestamps {
	now := p.now()
	return types.ReportTimestamps{
		Generated:     now.Format("January 2, 2006"),
		GeneratedTime: now.Format("3:04 PM"),
	}
}

func Filename(asset *model.Asset, format types.ReportFormat) string {
	return fmt.Sprintf("asset-%d-qc-reviews.%s", asset.ID, format)
}

// Helpers shared by the renderers.

func OptionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func OptionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func OptionalUint(v *uint) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func AverageScore(s types.ReviewSummary) string {
	if s.AverageScore == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", *s.AverageScore)
}
