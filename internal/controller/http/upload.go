package http

import (
	"errors"
	"net/http"

	"community-board/internal/apperr"
	"community-board/internal/usecase"

	"github.com/gin-gonic/gin"
)

const uploadField = "file"

// multipartOverhead leaves room for boundaries and part headers around the file itself.
const multipartOverhead = 64 << 10

// formUpload opens the uploaded file; the caller must call the returned close func.
func formUpload(c *gin.Context, maxBytes int64) (usecase.Upload, func(), error) {
	if maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)
	}

	header, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return usecase.Upload{}, nil, apperr.ErrFileTooLarge
		}
		return usecase.Upload{}, nil, apperr.ErrInvalidFile
	}

	f, err := header.Open()
	if err != nil {
		return usecase.Upload{}, nil, apperr.Internal(err)
	}

	return usecase.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Body:     f,
	}, func() { f.Close() }, nil
}
