package mappers

import (
	"github.com/brandworks/asset-qc/api/v1alpha1"
	"github.com/brandworks/asset-qc/internal/auth"
	"github.com/brandworks/asset-qc/internal/service"
	srvMappers "github.com/brandworks/asset-qc/internal/service/mappers"
	"github.com/brandworks/asset-qc/internal/workflow"
)

func AssetFormApi(resource v1alpha1.AssetCreate, createdBy uint) srvMappers.AssetCreateForm {
	return srvMappers.AssetCreateForm{
		Title:        resource.Title,
		AssetType:    resource.AssetType,
		ServiceID:    resource.ServiceId,
		SubServiceID: resource.SubServiceId,
		CreatedBy:    createdBy,
	}
}

// ReviewContextFromApi builds the engine input. The reviewer is always the caller and the
// body role can only lower the caller's verified role.
func ReviewContextFromApi(req v1alpha1.QCReviewRequest, user auth.User) service.ReviewContext {
	declared := ""
	if req.UserRole != nil {
		declared = *req.UserRole
	}

	rc := service.ReviewContext{
		ReviewerID:          user.ID,
		CallerRole:          workflow.EffectiveRole(user.Role, declared),
		Score:               req.QcScore,
		Remarks:             req.QcRemarks,
		ChecklistCompletion: req.ChecklistCompletion,
	}

	if req.ChecklistItems != nil && len(*req.ChecklistItems) > 0 {
		items := make([]srvMappers.ChecklistItem, 0, len(*req.ChecklistItems))
		for _, i := range *req.ChecklistItems {
			item := srvMappers.ChecklistItem{Item: i.Item, Checked: i.Checked}
			if i.Note != nil {
				item.Note = *i.Note
			}
			items = append(items, item)
		}
		rc.ChecklistItems = srvMappers.ChecklistToJSON(items)
		if rc.ChecklistCompletion == nil {
			rc.ChecklistCompletion = srvMappers.ChecklistCompletion(items)
		}
	}

	return rc
}

// AssetFilterFromApi expects params that already passed validation.
func AssetFilterFromApi(params v1alpha1.ListAssetsParams) *service.AssetFilter {
	filter := service.NewAssetFilter()
	if params.WorkflowStage != nil {
		if stage, err := workflow.ParseStage(*params.WorkflowStage); err == nil {
			filter = filter.WithStage(stage)
		}
	}
	if params.QcStatus != nil {
		if status, err := workflow.ParseStatus(*params.QcStatus); err == nil {
			filter = filter.WithStatus(status)
		}
	}
	if params.LinkingActive != nil {
		filter = filter.WithLinkingActive(*params.LinkingActive)
	}
	if params.CreatedBy != nil {
		filter = filter.WithCreatedBy(*params.CreatedBy)
	}
	if params.Limit != nil {
		filter = filter.WithLimit(*params.Limit)
	}
	if params.Offset != nil {
		filter = filter.WithOffset(*params.Offset)
	}
	return filter
}
