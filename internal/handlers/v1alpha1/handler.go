package v1alpha1

import (
	"net/http"

	"github.com/brandworks/asset-qc/internal/handlers/validator"
	"github.com/brandworks/asset-qc/internal/service"
	"github.com/brandworks/asset-qc/pkg/log"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

type ServiceHandler struct {
	assetSrv  *service.AssetService
	qcSrv     *service.QCService
	validator *validator.Validator
	logger    *log.StructuredLogger
}

func NewServiceHandler(assetService *service.AssetService, qcService *service.QCService) *ServiceHandler {
	v := validator.NewValidator()
	v.Register(validator.NewAssetValidationRules()...)

	return &ServiceHandler{
		assetSrv:  assetService,
		qcSrv:     qcService,
		validator: v,
		logger:    log.NewDebugLogger("asset_handler"),
	}
}

// HandlerFromMux mounts the API on r. The legacy /api/assets routes share the v1 handlers.
func HandlerFromMux(h *ServiceHandler, r chi.Router) http.Handler {
	r.Get("/health", h.Health)

	r.Route("/api/v1/assets", func(r chi.Router) {
		r.Get("/", h.ListAssets)
		r.Post("/", h.CreateAsset)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetAsset)
			r.Post("/start", h.StartWork)
			r.Post("/submit-qc", h.SubmitForReview)
			r.Post("/qc-review", h.ReviewAsset)
			r.Get("/qc-reviews", h.ListReviews)
		})
	})

	r.Route("/api/assets/{id}", func(r chi.Router) {
		r.Post("/qc-review", h.ReviewAsset)
		r.Post("/submit-qc", h.SubmitForReview)
	})

	return r
}

func assetIDParam(r *http.Request) (uint, error) {
	var id uint
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil || id == 0 {
		return 0, newErrBadRequest("invalid asset id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}
