package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/casebridge/casebridge/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bodyKey is the context key under which validateBody stashes the parsed body
const bodyKey = "validated_body"

// bindJSON binds and validates a JSON body. On failure it writes a single
// 400 response enumerating every violated field constraint and returns false.
func bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		violations := make([]models.FieldViolation, 0, len(verrs))
		for _, fe := range verrs {
			violations = append(violations, models.FieldViolation{
				Field:      strings.ToLower(fe.Field()),
				Constraint: fe.Tag(),
				Message:    violationMessage(fe),
			})
		}
		c.JSON(http.StatusBadRequest, models.ValidationErrorResponse{
			Error:      "Invalid request data",
			Code:       models.CodeValidation,
			Violations: violations,
		})
		return false
	}

	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "Invalid request body",
		Message: err.Error(),
		Code:    models.CodeValidation,
	})
	return false
}

func violationMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed the %s constraint", field, fe.Tag())
	}
}

// validateBody parses and validates the request body before any later
// middleware runs, so malformed requests never reach authentication or a
// controller. The parsed value is available to the handler via requestBody.
func validateBody[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req T
		if !bindJSON(c, &req) {
			c.Abort()
			return
		}
		c.Set(bodyKey, req)
		c.Next()
	}
}

// requestBody retrieves the body parsed by validateBody
func requestBody[T any](c *gin.Context) T {
	return c.MustGet(bodyKey).(T)
}
