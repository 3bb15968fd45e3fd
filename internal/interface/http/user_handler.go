package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/files-manager/internal/application"
	"github.com/oksasatya/files-manager/internal/interface/middleware"
	"github.com/oksasatya/files-manager/pkg/apperror"
	"github.com/oksasatya/files-manager/pkg/response"
	"github.com/oksasatya/files-manager/pkg/validation"
)

type UserHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.AuthService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Create handles POST /users.
func (h *UserHandler) Create(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, validation.ToAppError(err), h.Logger)
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(c, err, h.Logger)
		return
	}
	response.JSON(c, http.StatusCreated, userResponse{ID: u.ID, Email: u.Email})
}

// Me handles GET /users/me.
func (h *UserHandler) Me(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		response.FromError(c, apperror.Unauthenticated(), h.Logger)
		return
	}
	response.JSON(c, http.StatusOK, userResponse{ID: u.ID, Email: u.Email})
}
