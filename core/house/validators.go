package house

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/osisproject0-hub/smaktal/core"
)

var (
	nameMinLen = 3
	nameTag    = "housename"
	nameText   = "Nama rumah minimal 3 karakter."

	pointsTag  = "housepoints"
	pointsText = "Poin tidak boleh negatif."
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(nameTag, nameValidation)
	core.RegisterCustomTranslation(validate, translator, nameTag, nameText)

	_ = validate.RegisterValidation(pointsTag, pointsValidation)
	core.RegisterCustomTranslation(validate, translator, pointsTag, pointsText)
}

func nameValidation(fl validator.FieldLevel) bool {
	return core.MinRunes(fl.Field().String(), nameMinLen)
}

func pointsValidation(fl validator.FieldLevel) bool {
	return fl.Field().Int() >= 0
}
