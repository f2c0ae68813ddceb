package v1alpha1

import (
	"fmt"
	"net/http"

	"github.com/brandworks/asset-qc/api/v1alpha1"
	"github.com/brandworks/asset-qc/internal/auth"
	"github.com/brandworks/asset-qc/internal/handlers/v1alpha1/mappers"
	"github.com/brandworks/asset-qc/internal/service/report/types"
	"github.com/go-chi/render"
)

// (POST /api/v1/assets/{id}/qc-review)
func (h *ServiceHandler) ReviewAsset(w http.ResponseWriter, r *http.Request) {
	id, err := assetIDParam(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req v1alpha1.QCReviewRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, newErrBadRequest("invalid request body: %s", err))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		renderError(w, r, err)
		return
	}

	user := auth.MustHaveUser(r.Context())
	if req.QcReviewerId != nil && *req.QcReviewerId != user.ID {
		h.logger.WithContext(r.Context()).Operation("review_asset").
			WithUint("asset_id", id).
			WithUint("user_id", user.ID).
			WithUint("body_reviewer_id", *req.QcReviewerId).
			Build().
			Step("reviewer_id_ignored").
			Log()
	}

	asset, err := h.qcSrv.ReviewAsset(r.Context(), id, req.QcDecision, mappers.ReviewContextFromApi(req, user))
	if err != nil {
		renderError(w, r, err)
		return
	}

	_ = render.Render(w, r, mappers.AssetToApi(*asset))
}

// (POST /api/v1/assets/{id}/submit-qc)
func (h *ServiceHandler) SubmitForReview(w http.ResponseWriter, r *http.Request) {
	id, err := assetIDParam(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	user := auth.MustHaveUser(r.Context())
	asset, err := h.qcSrv.SubmitForReview(r.Context(), id, user.ID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	_ = render.Render(w, r, mappers.AssetToApi(*asset))
}

// (GET /api/v1/assets/{id}/qc-reviews)
// With ?format=csv or ?format=xlsx the history is returned as a download.
func (h *ServiceHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, err := assetIDParam(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	if format := r.URL.Query().Get("format"); format != "" && format != "json" {
		h.exportReviews(w, r, id, types.ReportFormat(format))
		return
	}

	reviews, err := h.assetSrv.ListReviews(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, mappers.ReviewListToApi(reviews))
}

func (h *ServiceHandler) exportReviews(w http.ResponseWriter, r *http.Request, id uint, format types.ReportFormat) {
	report, err := h.assetSrv.ExportReviews(r.Context(), id, format)
	if err != nil {
		renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(report.Content)
}
