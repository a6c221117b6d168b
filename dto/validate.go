package dto

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	clockPattern    = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// RegisterValidators adds the custom rules used by the request types.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return clockPattern.MatchString(fl.Field().String())
	})
}

// RegisterGinValidators installs the custom rules on gin's binding engine.
func RegisterGinValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return RegisterValidators(v)
}

// Validate checks a request with the same "binding" rules gin applies.
func Validate(req any) error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.SetTagName("binding")
		if err := RegisterValidators(validate); err != nil {
			panic(err)
		}
	})
	return validate.Struct(req)
}
