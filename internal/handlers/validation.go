package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/charlesng35/hrms/pkg/errors"
	"github.com/charlesng35/hrms/pkg/response"
	appValidator "github.com/charlesng35/hrms/pkg/validator"
)

// invalidRequestMessenger lets a request type replace the generated error message.
// bindErr is set when the body could not be decoded; failures when validation rejected it.
// Returning an empty string keeps the default message.
type invalidRequestMessenger interface {
	invalidMessage(bindErr error, failures appValidator.ValidationErrors) string
}

// bindAndValidate binds the JSON payload into dest and runs struct validation rules.
// When validation fails, an error response is automatically written and false is returned.
func bindAndValidate[T any](c *gin.Context, dest *T) bool {
	messenger, _ := any(dest).(invalidRequestMessenger)

	if err := c.ShouldBindJSON(dest); err != nil {
		message := "invalid JSON payload"
		if messenger != nil {
			if custom := messenger.invalidMessage(err, nil); custom != "" {
				message = custom
			}
		}
		response.Error(c, appErrors.NewBadRequest(message))
		return false
	}

	if err := appValidator.ValidateStruct(dest); err != nil {
		message := formatValidationError(err)
		if ve, ok := err.(appValidator.ValidationErrors); ok && messenger != nil {
			if custom := messenger.invalidMessage(nil, ve); custom != "" {
				message = custom
			}
		}
		response.Error(c, appErrors.NewBadRequest(message))
		return false
	}

	return true
}

func formatValidationError(err error) string {
	if err == nil {
		return "invalid request payload"
	}

	ve, ok := err.(appValidator.ValidationErrors)
	if !ok || len(ve) == 0 {
		return "invalid request payload"
	}

	messages := make([]string, 0, len(ve))
	for _, failure := range ve {
		field := failure.Field
		switch failure.Tag {
		case "required", "notblank":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, failure.Param))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, failure.Param))
		default:
			if failure.Param != "" {
				messages = append(messages, fmt.Sprintf("%s failed validation: %s=%s", field, failure.Tag, failure.Param))
			} else {
				messages = append(messages, fmt.Sprintf("%s failed validation: %s", field, failure.Tag))
			}
		}
	}
	return strings.Join(messages, "; ")
}

func hasFailure(failures appValidator.ValidationErrors, field, tag string) bool {
	for _, failure := range failures {
		if failure.Field == field && (tag == "" || failure.Tag == tag) {
			return true
		}
	}
	return false
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
