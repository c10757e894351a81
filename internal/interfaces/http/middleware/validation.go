package middleware

import (
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/catalog/backend/internal/interfaces/http/dto"
)

// masterCodePattern matches catalog master codes such as "CATE9-00042"
var masterCodePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// SetupValidator configures the validator with custom tags
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	return v.RegisterValidation("mastercode", func(fl validator.FieldLevel) bool {
		return masterCodePattern.MatchString(fl.Field().String())
	})
}

// FormatValidationErrors formats validation errors into a standard response
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
			})
		}
	}

	return dto.NewValidationErrorResponse(
		"Request validation failed",
		requestID,
		details,
	)
}

// HandleValidationError returns a validation error response
func HandleValidationError(c *gin.Context, err error) {
	requestID := c.GetString("request_id")
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, requestID))
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "mastercode":
		return "Invalid master code format"
	default:
		return "Invalid value"
	}
}
