package validator

import (
	"strings"
	"unicode"

	"github.com/brandworks/asset-qc/internal/workflow"
	"github.com/go-playground/validator/v10"
)

// titleValidator accepts any printable text that is not blank.
func titleValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	if strings.TrimSpace(val) == "" {
		return false
	}

	for _, r := range val {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

func stageValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := workflow.ParseStage(val)
	return err == nil
}

func statusValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := workflow.ParseStatus(val)
	return err == nil
}
