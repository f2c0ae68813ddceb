package mappers

import (
	"encoding/json"

	"github.com/brandworks/asset-qc/api/v1alpha1"
	"github.com/brandworks/asset-qc/internal/store/model"
)

func AssetToApi(a model.Asset) v1alpha1.Asset {
	return v1alpha1.Asset{
		Id:            a.ID,
		Title:         a.Title,
		AssetType:     a.AssetType,
		ServiceId:     a.ServiceID,
		SubServiceId:  a.SubServiceID,
		CreatedBy:     a.CreatedBy,
		WorkflowStage: string(a.WorkflowStage),
		QcStatus:      string(a.QCStatus),
		QcScore:       a.QCScore,
		QcRemarks:     a.QCRemarks,
		QcReviewerId:  a.QCReviewerID,
		QcReviewedAt:  a.QCReviewedAt,
		LinkingActive: a.LinkingActive,
		ReworkCount:   a.ReworkCount,
		SubmittedBy:   a.SubmittedBy,
		SubmittedAt:   a.SubmittedAt,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func AssetListToApi(assets model.AssetList) v1alpha1.AssetList {
	list := make(v1alpha1.AssetList, 0, len(assets))
	for _, a := range assets {
		list = append(list, AssetToApi(a))
	}
	return list
}

func ReviewToApi(r model.Review) v1alpha1.QCReview {
	review := v1alpha1.QCReview{
		Id:                  r.ID,
		AssetId:             r.AssetID,
		ReviewerId:          r.ReviewerID,
		Decision:            string(r.Decision),
		Score:               r.Score,
		Remarks:             r.Remarks,
		ChecklistCompletion: r.ChecklistCompletion,
		CreatedAt:           r.CreatedAt,
	}
	if len(r.ChecklistItems) > 0 {
		_ = json.Unmarshal(r.ChecklistItems, &review.ChecklistItems)
	}
	return review
}

func ReviewListToApi(reviews model.ReviewList) v1alpha1.QCReviewList {
	list := make(v1alpha1.QCReviewList, 0, len(reviews))
	for _, r := range reviews {
		list = append(list, ReviewToApi(r))
	}
	return list
}
