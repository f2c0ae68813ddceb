package model

import (
	"encoding/json"
	"time"

	"github.com/brandworks/asset-qc/internal/workflow"
)

type Asset struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime"`
	Title        string    `gorm:"not null;type:VARCHAR(255)"`
	AssetType    string    `gorm:"type:VARCHAR(100)"`
	ServiceID    *uint
	SubServiceID *uint
	CreatedBy    *uint `gorm:"index:assets_created_by_idx"`

	WorkflowStage workflow.Stage  `gorm:"column:workflow_stage;not null;type:VARCHAR(32);index:assets_workflow_stage_idx"`
	QCStatus      workflow.Status `gorm:"column:qc_status;not null;type:VARCHAR(32);index:assets_qc_status_idx"`
	QCScore       *int            `gorm:"column:qc_score"`
	QCRemarks     *string         `gorm:"column:qc_remarks;type:TEXT"`
	QCReviewerID  *uint           `gorm:"column:qc_reviewer_id"`
	QCReviewedAt  *time.Time      `gorm:"column:qc_reviewed_at"`
	LinkingActive bool            `gorm:"column:linking_active;not null;default:false"`
	ReworkCount   int             `gorm:"column:rework_count;not null;default:0"`
	SubmittedBy   *uint           `gorm:"column:submitted_by"`
	SubmittedAt   *time.Time      `gorm:"column:submitted_at"`
}

type AssetList []Asset

// WorkflowState returns the part of the asset the state machine works on.
func (a Asset) WorkflowState() workflow.State {
	return workflow.State{
		Stage:         a.WorkflowStage,
		Status:        a.QCStatus,
		LinkingActive: a.LinkingActive,
		ReworkCount:   a.ReworkCount,
	}
}

// ApplyWorkflowState copies a computed state back onto the asset.
func (a *Asset) ApplyWorkflowState(s workflow.State) {
	a.WorkflowStage = s.Stage
	a.QCStatus = s.Status
	a.LinkingActive = s.LinkingActive
	a.ReworkCount = s.ReworkCount
}

func (a Asset) String() string {
	val, _ := json.Marshal(a)
	return string(val)
}
