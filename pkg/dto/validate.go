package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError lists every field that failed its validate tag.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Fields, ", ")
}

// Validate checks req against its validate tags. A failure is returned as a
// *ValidationError with one readable line per field.
func Validate(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		param := fe.Param()

		switch fe.Tag() {
		case "required", "required_without":
			fields = append(fields, field+" is required")
		case "min":
			fields = append(fields, field+" must be at least "+param+" characters")
		case "max":
			fields = append(fields, field+" must be at most "+param+" characters")
		case "email":
			fields = append(fields, field+" must be a valid email")
		case "oneof":
			fields = append(fields, field+" must be one of: "+param)
		case "uuid":
			fields = append(fields, field+" must be a valid id")
		default:
			fields = append(fields, field+" is invalid")
		}
	}
	return &ValidationError{Fields: fields}
}
