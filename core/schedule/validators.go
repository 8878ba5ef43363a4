package schedule

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/accommodations/core"
)

var (
	periodTag  = "period"
	periodText = "period must be one of 1st, 2nd, 3rd, 4th"
)

// InitValidators registers the schedule validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(periodTag, core.OneOfValidation(Periods...))
	core.RegisterCustomTranslation(validate, translator, periodTag, periodText)
}
