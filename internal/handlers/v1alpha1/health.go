package v1alpha1

import (
	"net/http"

	"github.com/brandworks/asset-qc/api/v1alpha1"
	"github.com/go-chi/render"
)

// (GET /health)
func (h *ServiceHandler) Health(w http.ResponseWriter, r *http.Request) {
	_ = render.Render(w, r, v1alpha1.Health{Status: "ok"})
}
