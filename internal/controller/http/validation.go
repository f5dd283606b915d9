package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"community-board/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// registerValidation makes validator report JSON field names instead of Go field names.
func registerValidation() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	})
}

func bindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return bindingError(err)
	}
	return nil
}

func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperr.Validation(fieldErrors(verrs))
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return apperr.Invalid("body", "missing", "request body is required")
	case errors.As(err, &typeErr):
		return apperr.Invalid(typeErr.Field, "type_error", fmt.Sprintf("must be of type %s", typeErr.Type))
	case errors.As(err, &syntaxErr):
		return apperr.Invalid("body", "json_invalid", "request body is not valid JSON")
	}
	return apperr.Invalid("body", "invalid", err.Error())
}

func fieldErrors(verrs validator.ValidationErrors) map[string][]apperr.FieldError {
	fields := make(map[string][]apperr.FieldError, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], describe(fe))
	}
	return fields
}

func describe(fe validator.FieldError) apperr.FieldError {
	switch fe.Tag() {
	case "required":
		return apperr.FieldError{Type: "missing", Message: "Field required"}
	case "email":
		return apperr.FieldError{Type: "value_error", Message: "value is not a valid email address"}
	case "min", "max":
		limit, _ := strconv.Atoi(fe.Param())
		kind, rel, key := "string_too_short", "at least", "min_length"
		if fe.Tag() == "max" {
			kind, rel, key = "string_too_long", "at most", "max_length"
		}
		return apperr.FieldError{
			Type:    kind,
			Message: fmt.Sprintf("String should have %s %d characters", rel, limit),
			Context: map[string]interface{}{key: limit},
		}
	}
	return apperr.FieldError{Type: fe.Tag(), Message: fmt.Sprintf("failed on the %q rule", fe.Tag())}
}

// idParam parses a positive numeric path parameter.
func idParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Invalid(name, "int_parsing", "Input should be a valid integer")
	}
	return uint(id), nil
}

// queryInt reads an integer query parameter, returning def when it is absent.
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Invalid(name, "int_parsing", "Input should be a valid integer")
	}
	return n, nil
}
