// pkg/verify/validate.go

package verify

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/password"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
)

// MaxLength bounds the length accepted from user input.
const MaxLength = 4096

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their flag name when they have one
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("flag"); name != "" && name != "-" {
			return "--" + name
		}
		return fld.Name
	})
	return v
}

// Struct validates a Go struct with `validate:` tags. Every failing field
// becomes one entry of the returned *multierror.Error.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var result *multierror.Error
	for _, fe := range fieldErrs {
		result = multierror.Append(result, errors.New(describe(fe)))
	}
	result.ErrorFormat = listFormat
	return result
}

type request struct {
	Length int `flag:"length" validate:"gte=0,lte=4096"`
}

// Request checks a generation request coming from user input.
func Request(req password.Request) error {
	return Struct(request{Length: req.Length})
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be at least %s (got %v)", fe.Field(), fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s must be at most %s (got %v)", fe.Field(), fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("%s must be at least %s (got %v)", fe.Field(), fe.Param(), fe.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s (got %v)", fe.Field(), fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got %q)", fe.Field(), fe.Param(), fmt.Sprint(fe.Value()))
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	default:
		return fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag())
	}
}

func listFormat(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
