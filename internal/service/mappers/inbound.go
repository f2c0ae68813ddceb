package mappers

import (
	"encoding/json"

	"github.com/brandworks/asset-qc/internal/store/model"
	"github.com/brandworks/asset-qc/internal/workflow"
	"gorm.io/datatypes"
)

type AssetCreateForm struct {
	Title        string
	AssetType    string
	ServiceID    *uint
	SubServiceID *uint
	CreatedBy    uint
}

// ToModel returns a new asset in stage Add with a pending qc status.
func (f AssetCreateForm) ToModel() model.Asset {
	createdBy := f.CreatedBy
	return model.Asset{
		Title:         f.Title,
		AssetType:     f.AssetType,
		ServiceID:     f.ServiceID,
		SubServiceID:  f.SubServiceID,
		CreatedBy:     &createdBy,
		WorkflowStage: workflow.StageAdd,
		QCStatus:      workflow.StatusPending,
	}
}

// ChecklistItem is one answered line of the reviewer checklist.
type ChecklistItem struct {
	Item    string `json:"item"`
	Checked bool   `json:"checked"`
	Note    string `json:"note,omitempty"`
}

func ChecklistToJSON(items []ChecklistItem) datatypes.JSON {
	if len(items) == 0 {
		return nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

// ChecklistCompletion is the percentage of checked items, nil for an empty checklist.
func ChecklistCompletion(items []ChecklistItem) *int {
	if len(items) == 0 {
		return nil
	}
	checked := 0
	for _, i := range items {
		if i.Checked {
			checked++
		}
	}
	pct := checked * 100 / len(items)
	return &pct
}
