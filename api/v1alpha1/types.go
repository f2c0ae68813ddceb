// Package v1alpha1 holds the JSON types of the asset QC REST API.
package v1alpha1

import (
	"net/http"
	"time"
)

type Asset struct {
	Id            uint       `json:"id"`
	Title         string     `json:"title"`
	AssetType     string     `json:"asset_type,omitempty"`
	ServiceId     *uint      `json:"service_id,omitempty"`
	SubServiceId  *uint      `json:"sub_service_id,omitempty"`
	CreatedBy     *uint      `json:"created_by,omitempty"`
	WorkflowStage string     `json:"workflow_stage"`
	QcStatus      string     `json:"qc_status"`
	QcScore       *int       `json:"qc_score"`
	QcRemarks     *string    `json:"qc_remarks"`
	QcReviewerId  *uint      `json:"qc_reviewer_id"`
	QcReviewedAt  *time.Time `json:"qc_reviewed_at"`
	LinkingActive bool       `json:"linking_active"`
	ReworkCount   int        `json:"rework_count"`
	SubmittedBy   *uint      `json:"submitted_by"`
	SubmittedAt   *time.Time `json:"submitted_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type AssetList []Asset

type AssetCreate struct {
	Title        string `json:"title" validate:"required,max=255,asset_title"`
	AssetType    string `json:"asset_type" validate:"omitempty,max=100"`
	ServiceId    *uint  `json:"service_id" validate:"omitempty,gt=0"`
	SubServiceId *uint  `json:"sub_service_id" validate:"omitempty,gt=0"`
}

// ListAssetsParams are the query parameters of GET /assets.
type ListAssetsParams struct {
	WorkflowStage *string `form:"workflow_stage,omitempty" json:"workflow_stage,omitempty" validate:"omitempty,workflow_stage"`
	QcStatus      *string `form:"qc_status,omitempty" json:"qc_status,omitempty" validate:"omitempty,qc_status"`
	LinkingActive *bool   `form:"linking_active,omitempty" json:"linking_active,omitempty"`
	CreatedBy     *uint   `form:"created_by,omitempty" json:"created_by,omitempty"`
	Limit         *int    `form:"limit,omitempty" json:"limit,omitempty" validate:"omitempty,min=1,max=500"`
	Offset        *int    `form:"offset,omitempty" json:"offset,omitempty" validate:"omitempty,min=0"`
}

type ChecklistItem struct {
	Item    string  `json:"item" validate:"required,max=255"`
	Checked bool    `json:"checked"`
	Note    *string `json:"note,omitempty" validate:"omitempty,max=1000"`
}

// QCReviewRequest is the body of POST /assets/{id}/qc-review. Decision, score and role are
// checked by the workflow engine so that errors come out in a fixed order.
type QCReviewRequest struct {
	QcDecision          string           `json:"qc_decision"`
	QcScore             *int             `json:"qc_score"`
	QcRemarks           *string          `json:"qc_remarks" validate:"omitempty,max=2000"`
	QcReviewerId        *uint            `json:"qc_reviewer_id"`
	UserRole            *string          `json:"user_role"`
	ChecklistCompletion *int             `json:"checklist_completion"`
	ChecklistItems      *[]ChecklistItem `json:"checklist_items" validate:"omitempty,dive"`
}

type QCReview struct {
	Id                  uint            `json:"id"`
	AssetId             uint            `json:"asset_id"`
	ReviewerId          uint            `json:"reviewer_id"`
	Decision            string          `json:"decision"`
	Score               *int            `json:"score"`
	Remarks             *string         `json:"remarks"`
	ChecklistCompletion *int            `json:"checklist_completion"`
	ChecklistItems      []ChecklistItem `json:"checklist_items,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

type QCReviewList []QCReview

type Error struct {
	Message   string  `json:"message"`
	RequestId *string `json:"requestId,omitempty"`
}

type Health struct {
	Status string `json:"status"`
}

func (a Asset) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (e Error) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (h Health) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
