package events

import "time"

const (
	AssetReviewedKind    string = "asset.qc.reviewed"
	AssetSubmittedKind   string = "asset.qc.submitted"
	AssetWorkStartedKind string = "asset.qc.work_started"
)

// AssetQCEvent is the payload of every asset.qc.* event. OwnerID is the creator of the
// asset, the person to notify.
type AssetQCEvent struct {
	AssetID       uint      `json:"asset_id"`
	Title         string    `json:"title"`
	OwnerID       *uint     `json:"owner_id,omitempty"`
	ActorID       uint      `json:"actor_id"`
	Decision      string    `json:"decision,omitempty"`
	Score         *int      `json:"score,omitempty"`
	Remarks       *string   `json:"remarks,omitempty"`
	WorkflowStage string    `json:"workflow_stage"`
	QCStatus      string    `json:"qc_status"`
	LinkingActive bool      `json:"linking_active"`
	ReworkCount   int       `json:"rework_count"`
	OccurredAt    time.Time `json:"occurred_at"`
}
