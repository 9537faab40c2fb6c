package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"agrovision/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var configureValidatorOnce sync.Once

// ConfigureValidator makes gin's validator report json field names.
func ConfigureValidator() {
	configureValidatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	})
}

// validationErrors turns a binding error into per-field messages. Errors that
// do not name a field yield a single entry with an empty field.
func validationErrors(err error) []utils.ValidationError {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		out := make([]utils.ValidationError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			out = append(out, utils.ValidationError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []utils.ValidationError{{Field: typeErr.Field, Message: "must be a " + typeErr.Type.String()}}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return []utils.ValidationError{{Message: "request body must be valid JSON"}}
	}

	return []utils.ValidationError{{Message: err.Error()}}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "email":
		return "must be a valid email address"
	default:
		return "is invalid"
	}
}

func respondValidationError(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, utils.CreateValidationErrorResponse(message, validationErrors(err)))
}

// respondInternalError logs the cause and sends message without it.
func respondInternalError(c *gin.Context, log *zap.Logger, message string, err error) {
	log.Error(message,
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, utils.CreateErrorResponse(message))
}

func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, utils.CreateErrorResponse(message))
}
