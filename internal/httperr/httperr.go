package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
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

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Unavailable(c *gin.Context, code, message string) {
	Write(c, http.StatusServiceUnavailable, code, message)
}

func TooManyRequests(c *gin.Context, code, message string) {
	Write(c, http.StatusTooManyRequests, code, message)
}

// FromError maps a domain error onto the matching HTTP response.
func FromError(c *gin.Context, err error) {
	var (
		ve ValidationError
		nf NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		msg := ve.Message
		if msg == "" {
			msg = "Dados inválidos."
		}
		if ve.Code == "time_conflict" {
			Conflict(c, ve.Code, msg)
			return
		}
		BadRequest(c, ve.Code, msg)
	case errors.As(err, &nf):
		NotFound(c, nf.Entity+"_not_found", "Registro não encontrado.")
	case IsStore(err):
		Unavailable(c, "store_unavailable", "Serviço temporariamente indisponível.")
	default:
		Internal(c, "internal_error", "Erro interno.")
	}
}
