package v1alpha1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/brandworks/asset-qc/api/v1alpha1"
	"github.com/brandworks/asset-qc/internal/handlers/validator"
	"github.com/brandworks/asset-qc/internal/service"
	"github.com/brandworks/asset-qc/pkg/requestid"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

type errBadRequest struct {
	error
}

func newErrBadRequest(format string, args ...any) *errBadRequest {
	return &errBadRequest{fmt.Errorf(format, args...)}
}

func statusFor(err error) int {
	switch err.(type) {
	case *errBadRequest, *validator.ErrInvalidRequest:
		return http.StatusBadRequest
	case *service.ErrInvalidDecision, *service.ErrInvalidScore, *service.ErrInvalidChecklist, *service.ErrUnsupportedFormat:
		return http.StatusBadRequest
	case *service.ErrForbidden:
		return http.StatusForbidden
	case *service.ErrResourceNotFound:
		return http.StatusNotFound
	case *service.ErrInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// renderError writes the error body. Internal errors never leak their cause to the client.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		var pf *service.ErrPersistenceFailure
		if errors.As(err, &pf) {
			message = "failed to persist the qc transition"
		} else {
			message = "internal server error"
		}
		zap.S().Named("asset_handler").Errorw("request failed", "error", err, "path", r.URL.Path, "request_id", requestid.FromRequest(r))
	}

	body := v1alpha1.Error{Message: message}
	if id := requestid.FromRequest(r); id != "" {
		body.RequestId = &id
	}

	render.Status(r, status)
	_ = render.Render(w, r, body)
}
