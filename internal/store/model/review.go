package model

import (
	"encoding/json"
	"time"

	"github.com/brandworks/asset-qc/internal/workflow"
	"gorm.io/datatypes"
)

// Review is one QC decision. Rows are append-only.
type Review struct {
	ID                  uint              `gorm:"primaryKey;autoIncrement"`
	CreatedAt           time.Time         `gorm:"not null;autoCreateTime;index:asset_qc_reviews_created_at_idx"`
	AssetID             uint              `gorm:"not null;index:asset_qc_reviews_asset_id_idx"`
	ReviewerID          uint              `gorm:"not null"`
	Decision            workflow.Decision `gorm:"not null;type:VARCHAR(16)"`
	Score               *int
	Remarks             *string `gorm:"type:TEXT"`
	ChecklistCompletion *int
	ChecklistItems      datatypes.JSON
}

func (Review) TableName() string {
	return "asset_qc_reviews"
}

type ReviewList []Review

func (r Review) String() string {
	val, _ := json.Marshal(r)
	return string(val)
}
