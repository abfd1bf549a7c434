package resource

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/osisproject0-hub/smaktal/core"
)

var (
	typeTag  = "resourcetype"
	typeText = "type must be one of: Video, Artikel, Podcast"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(typeTag, typeValidation)
	core.RegisterCustomTranslation(validate, translator, typeTag, typeText)
}

func typeValidation(fl validator.FieldLevel) bool {
	t := fl.Field().String()
	for _, valid := range Types {
		if t == valid {
			return true
		}
	}
	return false
}
