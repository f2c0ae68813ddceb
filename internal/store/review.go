package store

import (
	"context"

	"github.com/brandworks/asset-qc/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Review is the append-only log of QC decisions. There is no update or delete.
type Review interface {
	InitialMigration(ctx context.Context) error
	Append(ctx context.Context, review model.Review) (*model.Review, error)
	List(ctx context.Context, filter *ReviewQueryFilter) (model.ReviewList, error)
	Count(ctx context.Context, filter *ReviewQueryFilter) (int64, error)
}

type ReviewStore struct {
	db *gorm.DB
}

var _ Review = (*ReviewStore)(nil)

func NewReviewStore(db *gorm.DB) Review {
	return &ReviewStore{db: db}
}

func (r *ReviewStore) InitialMigration(ctx context.Context) error {
	return r.getDB(ctx).AutoMigrate(&model.Review{})
}

func (r *ReviewStore) Append(ctx context.Context, review model.Review) (*model.Review, error) {
	review.ID = 0
	if err := r.getDB(ctx).Clauses(clause.Returning{}).Create(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// List returns the newest records first.
func (r *ReviewStore) List(ctx context.Context, filter *ReviewQueryFilter) (model.ReviewList, error) {
	var reviews model.ReviewList
	tx := r.getDB(ctx).Model(&reviews).Order("created_at DESC").Order("id DESC")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if err := tx.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewStore) Count(ctx context.Context, filter *ReviewQueryFilter) (int64, error) {
	var count int64
	tx := r.getDB(ctx).Model(&model.Review{})

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ReviewStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}
