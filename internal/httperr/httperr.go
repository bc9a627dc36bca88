package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// Respond maps a use case error onto the HTTP envelope. Anything that is not a
// business error is logged and reported as a 500.
func Respond(c *gin.Context, err error) {
	var be BusinessError
	if errors.As(err, &be) {
		message := be.Message
		if message == "" {
			message = be.Code
		}
		switch be.Kind {
		case KindConflict:
			Conflict(c, be.Code, message)
		case KindNotFound:
			NotFound(c, be.Code, message)
		default:
			BadRequest(c, be.Code, message)
		}
		return
	}

	zerolog.Ctx(c.Request.Context()).Error().
		Err(err).
		Bool("storage", IsStorage(err)).
		Msg("request failed")

	if IsStorage(err) {
		Internal(c, "storage_error", "Storage failure, try again later.")
		return
	}
	Internal(c, "internal_error", "Internal server error.")
}
