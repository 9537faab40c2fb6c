package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"agrovision/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var errMissingBody = errors.New("request body is required")

// decodeJSON decodes the body into target as sent. An absent or empty body
// yields errMissingBody.
func decodeJSON[T any](c *gin.Context, target *T) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return errMissingBody
	}
	if err := json.NewDecoder(c.Request.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return errMissingBody
		}
		return err
	}
	return nil
}

// bindTrimmedJSON decodes the body into target, trims every string and only
// then validates, so a whitespace-only value fails "required".
func bindTrimmedJSON[T any](c *gin.Context, target *T) error {
	if err := decodeJSON(c, target); err != nil {
		return err
	}
	*target = utils.TrimAllStringFields(*target).(T)
	return binding.Validator.ValidateStruct(target)
}
