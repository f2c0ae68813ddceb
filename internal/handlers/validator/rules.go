package validator

import "github.com/go-playground/validator/v10"

func registerFn(tag string, fn func(fl validator.FieldLevel) bool) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		_ = v.RegisterValidation(tag, fn)
	}
}

func NewAssetValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("asset_title", titleValidator),
		},
		{
			Rule: registerFn("workflow_stage", stageValidator),
		},
		{
			Rule: registerFn("qc_status", statusValidator),
		},
	}
}
