package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/brandworks/asset-qc/internal/service/mappers"
	"github.com/brandworks/asset-qc/internal/service/report/types"
	"github.com/brandworks/asset-qc/internal/store"
	"github.com/brandworks/asset-qc/internal/store/model"
	"github.com/brandworks/asset-qc/internal/workflow"
	"github.com/brandworks/asset-qc/pkg/log"
)

type AssetFilter struct {
	Stage         *workflow.Stage
	Status        *workflow.Status
	LinkingActive *bool
	CreatedBy     *uint
	Limit         int
	Offset        int
}

func NewAssetFilter() *AssetFilter {
	return &AssetFilter{}
}

func (f *AssetFilter) WithStage(s workflow.Stage) *AssetFilter {
	f.Stage = &s
	return f
}

func (f *AssetFilter) WithStatus(s workflow.Status) *AssetFilter {
	f.Status = &s
	return f
}

func (f *AssetFilter) WithLinkingActive(active bool) *AssetFilter {
	f.LinkingActive = &active
	return f
}

func (f *AssetFilter) WithCreatedBy(id uint) *AssetFilter {
	f.CreatedBy = &id
	return f
}

func (f *AssetFilter) WithLimit(limit int) *AssetFilter {
	f.Limit = limit
	return f
}

func (f *AssetFilter) WithOffset(offset int) *AssetFilter {
	f.Offset = offset
	return f
}

type AssetService struct {
	store   store.Store
	reports *ReportService
	logger  *log.StructuredLogger
}

func NewAssetService(s store.Store) *AssetService {
	return &AssetService{
		store:   s,
		reports: NewReportService(),
		logger:  log.NewDebugLogger("asset_service"),
	}
}

func (as *AssetService) CreateAsset(ctx context.Context, form mappers.AssetCreateForm) (*model.Asset, error) {
	tracer := as.logger.WithContext(ctx).Operation("create_asset").
		WithString("title", form.Title).
		WithUint("created_by", form.CreatedBy).
		Build()

	asset, err := as.store.Asset().Create(ctx, form.ToModel())
	if err != nil {
		tracer.Error(err).Log()
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	tracer.Success().WithUint("asset_id", asset.ID).Log()
	return asset, nil
}

func (as *AssetService) GetAsset(ctx context.Context, id uint) (*model.Asset, error) {
	tracer := as.logger.WithContext(ctx).Operation("get_asset").
		WithUint("asset_id", id).
		Build()

	asset, err := as.store.Asset().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrAssetNotFound(id)
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	tracer.Success().WithString("stage", string(asset.WorkflowStage)).Log()
	return asset, nil
}

func (as *AssetService) ListAssets(ctx context.Context, filter *AssetFilter) (model.AssetList, error) {
	if filter == nil {
		filter = NewAssetFilter()
	}
	tracer := as.logger.WithContext(ctx).Operation("list_assets").
		WithInt("limit", filter.Limit).
		WithInt("offset", filter.Offset).
		Build()

	storeFilter := store.NewAssetQueryFilter()
	if filter.Stage != nil {
		storeFilter = storeFilter.ByStage(*filter.Stage)
	}
	if filter.Status != nil {
		storeFilter = storeFilter.ByStatus(*filter.Status)
	}
	if filter.LinkingActive != nil {
		storeFilter = storeFilter.ByLinkingActive(*filter.LinkingActive)
	}
	if filter.CreatedBy != nil {
		storeFilter = storeFilter.ByCreatedBy(*filter.CreatedBy)
	}

	opts := store.NewAssetQueryOptions().WithSortOrder(store.SortByID)
	if filter.Limit > 0 {
		opts = opts.WithLimit(filter.Limit)
	}
	if filter.Offset > 0 {
		opts = opts.WithOffset(filter.Offset)
	}

	assets, err := as.store.Asset().List(ctx, storeFilter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	tracer.Success().WithInt("count", len(assets)).Log()
	return assets, nil
}

// ListReviews returns the review history of an asset, newest first.
func (as *AssetService) ListReviews(ctx context.Context, assetID uint) (model.ReviewList, error) {
	tracer := as.logger.WithContext(ctx).Operation("list_reviews").
		WithUint("asset_id", assetID).
		Build()

	if _, err := as.GetAsset(ctx, assetID); err != nil {
		return nil, err
	}

	reviews, err := as.store.Review().List(ctx, store.NewReviewQueryFilter().ByAssetID(assetID))
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	tracer.Success().WithInt("count", len(reviews)).Log()
	return reviews, nil
}

// ExportReviews renders the review history of an asset in the requested format.
func (as *AssetService) ExportReviews(ctx context.Context, assetID uint, format types.ReportFormat) (*types.RenderedReport, error) {
	tracer := as.logger.WithContext(ctx).Operation("export_reviews").
		WithUint("asset_id", assetID).
		WithString("format", string(format)).
		Build()

	asset, err := as.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	reviews, err := as.store.Review().List(ctx, store.NewReviewQueryFilter().ByAssetID(assetID))
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	rendered, err := as.reports.GenerateReport(asset, reviews, format)
	if err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	tracer.Success().WithInt("size", len(rendered.Content)).Log()
	return rendered, nil
}
