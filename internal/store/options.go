package store

import (
	"github.com/brandworks/asset-qc/internal/workflow"
	"gorm.io/gorm"
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type SortOrder int

const (
	SortByID SortOrder = iota
	SortByUpdatedTime
	SortByCreatedTime
)

type AssetQueryFilter BaseQuerier

func NewAssetQueryFilter() *AssetQueryFilter {
	return &AssetQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *AssetQueryFilter) ByStage(stage workflow.Stage) *AssetQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("workflow_stage = ?", stage)
	})
	return qf
}

func (qf *AssetQueryFilter) ByStatus(status workflow.Status) *AssetQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("qc_status = ?", status)
	})
	return qf
}

func (qf *AssetQueryFilter) ByLinkingActive(active bool) *AssetQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("linking_active = ?", active)
	})
	return qf
}

func (qf *AssetQueryFilter) ByCreatedBy(userID uint) *AssetQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("created_by = ?", userID)
	})
	return qf
}

func (qf *AssetQueryFilter) ByID(ids []uint) *AssetQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("id IN ?", ids)
	})
	return qf
}

type AssetQueryOptions BaseQuerier

func NewAssetQueryOptions() *AssetQueryOptions {
	return &AssetQueryOptions{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (o *AssetQueryOptions) WithSortOrder(sort SortOrder) *AssetQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		switch sort {
		case SortByID:
			return tx.Order("id")
		case SortByUpdatedTime:
			return tx.Order("updated_at DESC")
		case SortByCreatedTime:
			return tx.Order("created_at DESC")
		default:
			return tx
		}
	})
	return o
}

// Limit results
func (o *AssetQueryOptions) WithLimit(limit int) *AssetQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Limit(limit)
	})
	return o
}

// Offset results
func (o *AssetQueryOptions) WithOffset(offset int) *AssetQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Offset(offset)
	})
	return o
}

type ReviewQueryFilter BaseQuerier

func NewReviewQueryFilter() *ReviewQueryFilter {
	return &ReviewQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *ReviewQueryFilter) ByAssetID(assetID uint) *ReviewQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("asset_id = ?", assetID)
	})
	return qf
}

func (qf *ReviewQueryFilter) ByReviewerID(reviewerID uint) *ReviewQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("reviewer_id = ?", reviewerID)
	})
	return qf
}

func (qf *ReviewQueryFilter) ByDecision(decision workflow.Decision) *ReviewQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("decision = ?", decision)
	})
	return qf
}
