package app

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"gitlab.com/silenteer-oss/eatery"
)

// use a single instance of Validate, it caches struct info
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest turns validation failures into a 400 carrying one entry
// per offending field.
func validateRequest(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.WithMessage(err, "validation error")
	}

	httpErr := eatery.NewBadRequestError(errors.New("Invalid request"))
	httpErr.ValidationErrors = map[string]string{}
	for _, fe := range fieldErrors {
		httpErr.ValidationErrors[fe.Field()] = fe.Tag()
	}
	return httpErr
}
