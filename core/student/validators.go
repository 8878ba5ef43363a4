package student

import (
	"fmt"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/accommodations/core"
)

var (
	gradeTag  = "grade"
	gradeText = fmt.Sprintf("grade must be between %d and %d", MinGrade, MaxGrade)

	levelTag  = "level"
	levelText = "level must be one of HL, SL"

	sectionTag  = "section"
	sectionText = "section must be one of .1, .2, .3"
)

// InitValidators registers the student validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(gradeTag, gradeValidation)
	core.RegisterCustomTranslation(validate, translator, gradeTag, gradeText)

	_ = validate.RegisterValidation(levelTag, core.OneOfValidation(Levels...))
	core.RegisterCustomTranslation(validate, translator, levelTag, levelText)

	_ = validate.RegisterValidation(sectionTag, core.OneOfValidation(Sections...))
	core.RegisterCustomTranslation(validate, translator, sectionTag, sectionText)
}

func gradeValidation(fl validator.FieldLevel) bool {
	grade := fl.Field().Int()
	return grade >= MinGrade && grade <= MaxGrade
}
