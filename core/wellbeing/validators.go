package wellbeing

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/osisproject0-hub/smaktal/core"
)

var (
	moodTag  = "mood"
	moodText = "mood must be one of: Senang, Baik, Biasa, Sedih, Marah"

	reasonTag  = "appointmentreason"
	reasonText = "Mohon isi alasan pertemuan Anda."
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(moodTag, moodValidation)
	core.RegisterCustomTranslation(validate, translator, moodTag, moodText)

	_ = validate.RegisterValidation(reasonTag, reasonValidation)
	core.RegisterCustomTranslation(validate, translator, reasonTag, reasonText)
}

func moodValidation(fl validator.FieldLevel) bool {
	mood := fl.Field().String()
	for _, m := range Moods {
		if m == mood {
			return true
		}
	}
	return false
}

func reasonValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
