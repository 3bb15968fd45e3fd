package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/files-manager/internal/application"
	"github.com/oksasatya/files-manager/internal/interface/middleware"
	"github.com/oksasatya/files-manager/pkg/apperror"
	"github.com/oksasatya/files-manager/pkg/response"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

// Connect handles GET /connect with Basic credentials.
func (h *AuthHandler) Connect(c *gin.Context) {
	email, password, ok := c.Request.BasicAuth()
	if !ok {
		response.FromError(c, apperror.Unauthenticated(), h.Logger)
		return
	}
	token, err := h.Svc.Login(c.Request.Context(), email, password)
	if err != nil {
		response.FromError(c, err, h.Logger)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"token": token})
}

// Disconnect handles GET /disconnect.
func (h *AuthHandler) Disconnect(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), c.GetHeader(middleware.TokenHeader)); err != nil {
		response.FromError(c, err, h.Logger)
		return
	}
	c.Status(http.StatusNoContent)
}
