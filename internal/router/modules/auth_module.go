package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/files-manager/internal/interface/http"
)

// AuthModule serves GET /connect and GET /disconnect.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Limits  Limits
}

func NewAuthModule(h *handlers.AuthHandler, limits Limits) *AuthModule {
	return &AuthModule{Handler: h, Limits: limits}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// 10 login attempts per minute per IP
	rg.GET("/connect", m.Limits.PerIPAndPath(10), m.Handler.Connect)
	rg.GET("/disconnect", m.Handler.Disconnect)
}
