package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared struct-tag validator.
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
}

// validateTags runs the struct tags of v and records each failure as a
// schema error keyed by its YAML path.
func validateTags(v any, r *Report) {
	err := validate.Struct(v)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		r.AddError(Result{Level: LevelSchema, Message: err.Error()})
		return
	}
	for _, e := range verrs {
		path := yamlPath(e.Namespace())
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("%s %s", path, describe(e)),
			SpecPath:    path,
			ActualValue: e.Value(),
			Expected:    expected(e),
		})
	}
}

// yamlPath drops the root type name from a validator namespace.
func yamlPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(e.Param(), " ", ", ")
	default:
		return fmt.Sprintf("failed %q", e.Tag())
	}
}

func expected(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "non-empty"
	case "gte":
		return ">= " + e.Param()
	case "gt":
		return "> " + e.Param()
	case "oneof":
		return e.Param()
	}
	return ""
}
