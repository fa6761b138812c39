package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/mo-amir99/course-marketplace-go/pkg/apperrors"
)

var (
	setupOnce    sync.Once
	imageURLExpr = regexp.MustCompile(`(?i)^https?://\S+\.(jpg|jpeg|png|webp|gif)(\?\S*)?$`)
)

// Setup registers json field naming and custom tags on gin's validator.
// Safe to call more than once.
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" && field.Anonymous {
				return embeddedSegment
			}
			if name == "" {
				return field.Name
			}
			return name
		})

		_ = v.RegisterValidation("imageurl", func(fl validator.FieldLevel) bool {
			return IsImageURL(fl.Field().String())
		})
	})
}

// IsImageURL reports whether value is an http(s) URL ending in a known image extension.
func IsImageURL(value string) bool {
	return imageURLExpr.MatchString(strings.TrimSpace(value))
}

// BindJSON decodes and validates the request body, returning a validation AppError on failure.
func BindJSON(c *gin.Context, dst interface{}) error {
	Setup()
	if err := c.ShouldBindJSON(dst); err != nil {
		return translate(err)
	}
	return nil
}

// BindQuery decodes and validates query parameters.
func BindQuery(c *gin.Context, dst interface{}) error {
	Setup()
	if err := c.ShouldBindQuery(dst); err != nil {
		return translate(err)
	}
	return nil
}

func translate(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]apperrors.FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, apperrors.FieldError{
				Path:    fieldPath(fe),
				Message: fieldMessage(fe),
			})
		}
		return apperrors.Validation("Validation Error", fields, err)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperrors.Validation("Validation Error", []apperrors.FieldError{{
			Path:    typeErr.Field,
			Message: fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type.Kind()),
		}}, err)
	}

	if errors.Is(err, io.EOF) {
		return apperrors.Validation("Validation Error", []apperrors.FieldError{{Path: "body", Message: "Request body is required"}}, err)
	}

	return apperrors.Validation("Validation Error", []apperrors.FieldError{{Path: "body", Message: "Invalid request body"}}, err)
}

// embeddedSegment names embedded request structs so their fields keep flat paths.
const embeddedSegment = "_embedded"

// fieldPath drops the root struct name and embedded struct names from the namespace.
func fieldPath(fe validator.FieldError) string {
	segments := strings.Split(fe.Namespace(), ".")
	if len(segments) < 2 {
		return fe.Field()
	}

	path := make([]string, 0, len(segments)-1)
	for _, segment := range segments[1:] {
		if segment != embeddedSegment {
			path = append(path, segment)
		}
	}
	return strings.Join(path, ".")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Invalid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "url":
		return field + " must be a valid URL"
	case "imageurl":
		return field + " must be a jpg, jpeg, png, webp or gif URL"
	case "uuid", "uuid4":
		return field + " must be a valid id"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return field + " is invalid"
	}
}
