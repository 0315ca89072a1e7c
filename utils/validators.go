package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	MsgRequired      = "Обязательное поле."
	MsgInvalidSlug   = "Значение должно состоять только из латинских букв, цифр, знаков подчеркивания или дефиса."
	MsgWeakPassword  = "Пароль должен быть не короче 6 символов и содержать цифру и специальный символ."
	MsgPasswordMatch = "Введенные пароли не совпадают."
	MsgInvalid       = "Введите правильное значение."
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

var initOnce sync.Once

// InitValidator registers the custom rules on gin's validator engine.
// Safe to call more than once.
func InitValidator() {
	initOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			RegisterCustomValidators(v)
		}
	})
}

func RegisterCustomValidators(v *validator.Validate) {
	v.RegisterValidation("password", ValidatePasswordRule)
	v.RegisterValidation("slug", ValidateSlugRule)
	// report form field names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
}

func ValidatePasswordRule(fl validator.FieldLevel) bool {
	return ValidatePassword(fl.Field().String())
}

func ValidateSlugRule(fl validator.FieldLevel) bool {
	return IsValidSlug(fl.Field().String())
}

func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

func ValidatePassword(password string) bool {
	// Password must:
	// - Be at least 6 characters long
	// - Contain at least one number
	// - Contain at least one special character

	hasNumber := false
	hasSpecial := false

	if utf8.RuneCountInString(password) < 6 {
		return false
	}

	for _, char := range password {
		switch {
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	return hasNumber && hasSpecial
}

// FormErrors turns validator errors into a field -> messages map. ok is
// false when err is not a validation error.
func FormErrors(err error) (map[string][]string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
	}
	return fields, true
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "max":
		return fmt.Sprintf("Убедитесь, что это значение содержит не более %s символов (сейчас %d).",
			fe.Param(), utf8.RuneCountInString(fmt.Sprint(fe.Value())))
	case "slug":
		return MsgInvalidSlug
	case "password":
		return MsgWeakPassword
	case "eqfield":
		return MsgPasswordMatch
	default:
		return MsgInvalid
	}
}
