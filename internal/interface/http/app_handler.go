package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/files-manager/internal/application"
	"github.com/oksasatya/files-manager/pkg/response"
)

type AppHandler struct {
	Svc    *application.AppService
	Logger *logrus.Logger
}

func NewAppHandler(svc *application.AppService, logger *logrus.Logger) *AppHandler {
	return &AppHandler{Svc: svc, Logger: logger}
}

func (h *AppHandler) Status(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.Svc.Status(c.Request.Context()))
}

func (h *AppHandler) Stats(c *gin.Context) {
	st, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, err, h.Logger)
		return
	}
	response.JSON(c, http.StatusOK, st)
}
