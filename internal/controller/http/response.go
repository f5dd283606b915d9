package http

import (
	"net/http"

	"community-board/internal/apperr"
	"community-board/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Code string      `json:"code"`
	Data interface{} `json:"data"`
}

func respond(c *gin.Context, status int, code string, data interface{}) {
	c.JSON(status, Envelope{Code: code, Data: data})
}

func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// respondError is the one place where errors become responses. Internal details are logged,
// never returned.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	appErr := apperr.From(err)
	status := StatusFor(appErr.Kind)

	if status >= http.StatusInternalServerError {
		if log != nil {
			log.WithFields(map[string]interface{}{
				"method": c.Request.Method,
				"path":   c.Request.URL.Path,
			}).Error("Unhandled error: %v", err)
		}
		c.AbortWithStatusJSON(status, Envelope{Code: apperr.CodeInternal})
		return
	}

	var data interface{}
	if len(appErr.Fields) > 0 {
		data = appErr.Fields
	}
	c.AbortWithStatusJSON(status, Envelope{Code: appErr.Code, Data: data})
}

// Recovery turns panics into the 500 envelope.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("Panic recovered on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, Envelope{Code: apperr.CodeInternal})
	})
}

func noRoute(c *gin.Context) {
	respond(c, http.StatusNotFound, apperr.CodeNotFound, nil)
}

func noMethod(c *gin.Context) {
	respond(c, http.StatusMethodNotAllowed, apperr.CodeMethodNotAllowed, nil)
}
