package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/files-manager/pkg/apperror"
	"github.com/oksasatya/files-manager/pkg/helpers"
)

// ErrorBody is the shape of every failed response.
type ErrorBody struct {
	Error string `json:"error"`
}

func JSON(ctx *gin.Context, status int, data any) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, data)
}

// Error aborts the chain with {"error": message}.
func Error(ctx *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(status, ErrorBody{Error: message})
}

// FromError maps err onto the public taxonomy. Internal faults are logged
// with the request id and answered without detail.
func FromError(ctx *gin.Context, err error, logger *logrus.Logger) {
	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError && logger != nil {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": ctx.GetString("request_id"),
			"method":     ctx.Request.Method,
			"path":       ctx.FullPath(),
		})
	}
	Error(ctx, status, apperror.PublicMessage(err))
}
