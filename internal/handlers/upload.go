package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"agrovision/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	MaxImageBytes = 10 << 20

	// Room for multipart boundaries and the other form fields.
	multipartOverhead = 1 << 20
	uploadedImageKey  = "uploadedImage"
)

// ImageUpload parses a multipart body whose file is under field. Oversized
// bodies or files are rejected with 413 and non-image parts with 400. A
// request without the file passes through so the handler can report it.
func ImageUpload(field string, maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes+multipartOverhead {
			abortTooLarge(c, maxBytes)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)

		if err := c.Request.ParseMultipartForm(maxBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				abortTooLarge(c, maxBytes)
				return
			}
			c.Next()
			return
		}
		defer func() { _ = c.Request.MultipartForm.RemoveAll() }()

		files := c.Request.MultipartForm.File[field]
		if len(files) == 0 {
			c.Next()
			return
		}

		header := files[0]
		if header.Size > maxBytes {
			abortTooLarge(c, maxBytes)
			return
		}
		if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
			c.AbortWithStatusJSON(http.StatusBadRequest, utils.CreateErrorResponse("Only image files are allowed"))
			return
		}

		c.Set(uploadedImageKey, header)
		c.Next()
	}
}

func abortTooLarge(c *gin.Context, maxBytes int64) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
		utils.CreateErrorResponse(fmt.Sprintf("Image exceeds the %d MB limit", maxBytes>>20)))
}

func uploadedImage(c *gin.Context) (*multipart.FileHeader, bool) {
	value, ok := c.Get(uploadedImageKey)
	if !ok {
		return nil, false
	}
	header, ok := value.(*multipart.FileHeader)
	return header, ok
}
