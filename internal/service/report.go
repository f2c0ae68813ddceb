package service

import (
	"github.com/brandworks/asset-qc/internal/service/report"
	"github.com/brandworks/asset-qc/internal/service/report/csv"
	"github.com/brandworks/asset-qc/internal/service/report/types"
	"github.com/brandworks/asset-qc/internal/service/report/xlsx"
	"github.com/brandworks/asset-qc/internal/store/model"
)

const (
	ReportFormatCSV  = types.ReportFormatCSV
	ReportFormatXLSX = types.ReportFormatXLSX
)

type ReportService struct {
	processor *report.ReviewHistoryProcessor
	renderers map[types.ReportFormat]types.ReportRenderer
}

func NewReportService() *ReportService {
	service := &ReportService{
		processor: report.NewReviewHistoryProcessor(),
		renderers: make(map[types.ReportFormat]types.ReportRenderer),
	}

	for _, r := range []types.ReportRenderer{csv.NewRenderer(), xlsx.NewRenderer()} {
		service.renderers[r.SupportedFormat()] = r
	}

	return service
}

func (r *ReportService) GenerateReport(asset *model.Asset, reviews model.ReviewList, format types.ReportFormat) (*types.RenderedReport, error) {
	renderer, exists := r.renderers[format]
	if !exists {
		return nil, NewErrUnsupportedFormat(string(format))
	}

	content, err := renderer.Render(r.processor.Process(asset, reviews))
	if err != nil {
		return nil, err
	}

	return &types.RenderedReport{
		Format:      format,
		ContentType: renderer.ContentType(),
		Filename:    report.Filename(asset, format),
		Content:     content,
	}, nil
}
