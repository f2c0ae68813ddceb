package v1alpha1

import (
	"net/http"

	"github.com/brandworks/asset-qc/api/v1alpha1"
	"github.com/brandworks/asset-qc/internal/auth"
	"github.com/brandworks/asset-qc/internal/handlers/v1alpha1/mappers"
	"github.com/go-chi/render"
	"github.com/oapi-codegen/runtime"
)

// (GET /api/v1/assets)
func (h *ServiceHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	params, err := listAssetsParams(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	if err := h.validator.Struct(params); err != nil {
		renderError(w, r, err)
		return
	}

	assets, err := h.assetSrv.ListAssets(r.Context(), mappers.AssetFilterFromApi(params))
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, mappers.AssetListToApi(assets))
}

// (POST /api/v1/assets)
func (h *ServiceHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var form v1alpha1.AssetCreate
	if err := render.DecodeJSON(r.Body, &form); err != nil {
		renderError(w, r, newErrBadRequest("invalid request body: %s", err))
		return
	}

	if err := h.validator.Struct(form); err != nil {
		renderError(w, r, err)
		return
	}

	user := auth.MustHaveUser(r.Context())
	asset, err := h.assetSrv.CreateAsset(r.Context(), mappers.AssetFormApi(form, user.ID))
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	_ = render.Render(w, r, mappers.AssetToApi(*asset))
}

// (GET /api/v1/assets/{id})
func (h *ServiceHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id, err := assetIDParam(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	asset, err := h.assetSrv.GetAsset(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	_ = render.Render(w, r, mappers.AssetToApi(*asset))
}

// (POST /api/v1/assets/{id}/start)
func (h *ServiceHandler) StartWork(w http.ResponseWriter, r *http.Request) {
	id, err := assetIDParam(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	user := auth.MustHaveUser(r.Context())
	asset, err := h.qcSrv.StartWork(r.Context(), id, user.ID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	_ = render.Render(w, r, mappers.AssetToApi(*asset))
}

func listAssetsParams(r *http.Request) (v1alpha1.ListAssetsParams, error) {
	var params v1alpha1.ListAssetsParams
	query := r.URL.Query()

	// ------------- Optional query parameter "workflow_stage" -------------
	if err := runtime.BindQueryParameter("form", true, false, "workflow_stage", query, &params.WorkflowStage); err != nil {
		return params, newErrBadRequest("invalid format for parameter workflow_stage: %s", err)
	}

	// ------------- Optional query parameter "qc_status" -------------
	if err := runtime.BindQueryParameter("form", true, false, "qc_status", query, &params.QcStatus); err != nil {
		return params, newErrBadRequest("invalid format for parameter qc_status: %s", err)
	}

	// ------------- Optional query parameter "linking_active" -------------
	if err := runtime.BindQueryParameter("form", true, false, "linking_active", query, &params.LinkingActive); err != nil {
		return params, newErrBadRequest("linking_active must be a boolean")
	}

	// ------------- Optional query parameter "created_by" -------------
	if err := runtime.BindQueryParameter("form", true, false, "created_by", query, &params.CreatedBy); err != nil {
		return params, newErrBadRequest("created_by must be a user id")
	}

	// ------------- Optional query parameter "limit" -------------
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &params.Limit); err != nil {
		return params, newErrBadRequest("limit must be a number")
	}

	// ------------- Optional query parameter "offset" -------------
	if err := runtime.BindQueryParameter("form", true, false, "offset", query, &params.Offset); err != nil {
		return params, newErrBadRequest("offset must be a number")
	}

	return params, nil
}
