package store

import (
	"context"
	"errors"

	"github.com/brandworks/asset-qc/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Asset interface {
	InitialMigration(ctx context.Context) error
	List(ctx context.Context, filter *AssetQueryFilter, opts *AssetQueryOptions) (model.AssetList, error)
	Get(ctx context.Context, id uint) (*model.Asset, error)
	Create(ctx context.Context, asset model.Asset) (*model.Asset, error)
	Update(ctx context.Context, asset model.Asset) (*model.Asset, error)
}

type AssetStore struct {
	db *gorm.DB
}

// Make sure we conform to Asset interface
var _ Asset = (*AssetStore)(nil)

func NewAssetStore(db *gorm.DB) Asset {
	return &AssetStore{db: db}
}

func (a *AssetStore) InitialMigration(ctx context.Context) error {
	return a.getDB(ctx).AutoMigrate(&model.Asset{})
}

func (a *AssetStore) List(ctx context.Context, filter *AssetQueryFilter, opts *AssetQueryOptions) (model.AssetList, error) {
	var assets model.AssetList
	tx := a.getDB(ctx).Model(&assets)

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if opts != nil && len(opts.QueryFn) > 0 {
		for _, fn := range opts.QueryFn {
			tx = fn(tx)
		}
	} else {
		tx = tx.Order("id")
	}

	result := tx.Find(&assets)
	if result.Error != nil {
		return nil, result.Error
	}
	return assets, nil
}

func (a *AssetStore) Get(ctx context.Context, id uint) (*model.Asset, error) {
	var asset model.Asset
	result := a.getDB(ctx).First(&asset, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &asset, nil
}

func (a *AssetStore) Create(ctx context.Context, asset model.Asset) (*model.Asset, error) {
	result := a.getDB(ctx).Clauses(clause.Returning{}).Create(&asset)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &asset, nil
}

// Update writes every column of the asset, zero values included, and returns the stored row.
func (a *AssetStore) Update(ctx context.Context, asset model.Asset) (*model.Asset, error) {
	result := a.getDB(ctx).Model(&asset).Select("*").Omit("id", "created_at").Updates(&asset)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return a.Get(ctx, asset.ID)
}

func (a *AssetStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return a.db.WithContext(ctx)
}
