package store

import (
	"context"

	"github.com/brandworks/asset-qc/internal/store/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Asset() Asset
	Review() Review
	InitialMigration(ctx context.Context) error
	Statistics(ctx context.Context) (model.AssetStats, error)
	Close() error
}

type DataStore struct {
	db     *gorm.DB
	asset  Asset
	review Review
	log    *zap.SugaredLogger
}

type StoreOption func(s *DataStore)

// WithLogger sets the logger used for transaction events. Defaults to zap.S().Named("store").
func WithLogger(log *zap.SugaredLogger) StoreOption {
	return func(s *DataStore) {
		if log != nil {
			s.log = log
		}
	}
}

func NewStore(db *gorm.DB, opts ...StoreOption) Store {
	s := &DataStore{
		asset:  NewAssetStore(db),
		review: NewReviewStore(db),
		db:     db,
		log:    zap.S().Named("store"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db, s.log)
}

func (s *DataStore) Asset() Asset {
	return s.asset
}

func (s *DataStore) Review() Review {
	return s.review
}

func (s *DataStore) InitialMigration(ctx context.Context) error {
	return InTransaction(ctx, s, func(ctx context.Context) error {
		if err := s.Asset().InitialMigration(ctx); err != nil {
			return err
		}
		return s.Review().InitialMigration(ctx)
	})
}

type groupCount struct {
	Name  string
	Count int
}

func (s *DataStore) Statistics(ctx context.Context) (model.AssetStats, error) {
	stats := model.NewAssetStats()
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&model.Asset{}).Count(&total).Error; err != nil {
		return stats, err
	}
	stats.Total = int(total)

	var byStage []groupCount
	if err := db.Model(&model.Asset{}).Select("workflow_stage AS name, COUNT(*) AS count").Group("workflow_stage").Scan(&byStage).Error; err != nil {
		return stats, err
	}
	for _, g := range byStage {
		stats.TotalByStage[g.Name] = g.Count
	}

	var byStatus []groupCount
	if err := db.Model(&model.Asset{}).Select("qc_status AS name, COUNT(*) AS count").Group("qc_status").Scan(&byStatus).Error; err != nil {
		return stats, err
	}
	for _, g := range byStatus {
		stats.TotalByStatus[g.Name] = g.Count
	}

	var linking int64
	if err := db.Model(&model.Asset{}).Where("linking_active = ?", true).Count(&linking).Error; err != nil {
		return stats, err
	}
	stats.LinkingActive = int(linking)

	var reworks struct{ Total int }
	if err := db.Model(&model.Asset{}).Select("COALESCE(SUM(rework_count), 0) AS total").Scan(&reworks).Error; err != nil {
		return stats, err
	}
	stats.TotalReworks = reworks.Total

	var byDecision []groupCount
	if err := db.Model(&model.Review{}).Select("decision AS name, COUNT(*) AS count").Group("decision").Scan(&byDecision).Error; err != nil {
		return stats, err
	}
	for _, g := range byDecision {
		stats.TotalDecisions[g.Name] = g.Count
	}

	return stats, nil
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
