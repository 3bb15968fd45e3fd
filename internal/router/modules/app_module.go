package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/files-manager/internal/interface/http"
)

// AppModule serves GET /status and GET /stats.
type AppModule struct {
	Handler *handlers.AppHandler
	Limits  Limits
}

func NewAppModule(h *handlers.AppHandler, limits Limits) *AppModule {
	return &AppModule{Handler: h, Limits: limits}
}

func (m *AppModule) Register(rg *gin.RouterGroup) {
	rl := m.Limits.PerIP(120)
	rg.GET("/status", rl, m.Handler.Status)
	rg.GET("/stats", rl, m.Handler.Stats)
}
