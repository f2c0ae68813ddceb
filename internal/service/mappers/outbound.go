package mappers

import (
	"time"

	"github.com/brandworks/asset-qc/internal/events"
	"github.com/brandworks/asset-qc/internal/store/model"
)

// AssetQCEventFromModel snapshots the asset after a committed transition.
func AssetQCEventFromModel(a model.Asset, actorID uint, decision string, occurredAt time.Time) events.AssetQCEvent {
	e := events.AssetQCEvent{
		AssetID:       a.ID,
		Title:         a.Title,
		OwnerID:       a.CreatedBy,
		ActorID:       actorID,
		Decision:      decision,
		WorkflowStage: string(a.WorkflowStage),
		QCStatus:      string(a.QCStatus),
		LinkingActive: a.LinkingActive,
		ReworkCount:   a.ReworkCount,
		OccurredAt:    occurredAt,
	}
	if decision != "" {
		e.Score = a.QCScore
		e.Remarks = a.QCRemarks
	}
	return e
}
