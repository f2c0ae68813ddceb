package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ErrInvalidRequest struct {
	error
	Field string
	Tag   string
}

var tagMessages = map[string]string{
	"required":       "is required",
	"max":            "is too long",
	"min":            "is too small",
	"gt":             "must be positive",
	"asset_title":    "contains invalid characters",
	"workflow_stage": "is not a known workflow stage",
	"qc_status":      "is not a known qc status",
}

func NewErrInvalidRequest(fe validator.FieldError) *ErrInvalidRequest {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	msg, ok := tagMessages[fe.Tag()]
	if !ok {
		msg = fmt.Sprintf("failed on the %q rule", fe.Tag())
	}

	return &ErrInvalidRequest{
		error: fmt.Errorf("%s %s", field, msg),
		Field: field,
		Tag:   fe.Tag(),
	}
}

// jsonTagName reports fields by their json name so messages match the request body.
func jsonTagName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}
