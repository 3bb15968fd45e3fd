package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/files-manager/internal/interface/http"
)

// UserModule serves POST /users and GET /users/me.
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    gin.HandlerFunc
	Limits  Limits
}

func NewUserModule(h *handlers.UserHandler, auth gin.HandlerFunc, limits Limits) *UserModule {
	return &UserModule{Handler: h, Auth: auth, Limits: limits}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.POST("", m.Limits.PerIPAndPath(20), m.Handler.Create)
	users.GET("/me", m.Auth, m.Handler.Me)
}
