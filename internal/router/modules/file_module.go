package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/files-manager/internal/interface/http"
)

// FileModule serves the /files routes and /search/files. Everything but the
// data download requires a session.
type FileModule struct {
	Handler      *handlers.FileHandler
	Auth         gin.HandlerFunc
	OptionalAuth gin.HandlerFunc
	Limits       Limits
}

func NewFileModule(h *handlers.FileHandler, auth, optionalAuth gin.HandlerFunc, limits Limits) *FileModule {
	return &FileModule{Handler: h, Auth: auth, OptionalAuth: optionalAuth, Limits: limits}
}

func (m *FileModule) Register(rg *gin.RouterGroup) {
	rg.GET("/files/:id/data", m.OptionalAuth, m.Limits.PerIP(300), m.Handler.Data)

	auth := rg.Group("/")
	auth.Use(m.Auth, m.Limits.PerUser(120))
	{
		auth.POST("/files", m.Handler.Upload)
		auth.GET("/files", m.Handler.Index)
		auth.GET("/files/:id", m.Handler.Show)
		auth.GET("/files/:id/progress", m.Handler.Progress)
		auth.PUT("/files/:id/publish", m.Handler.Publish)
		auth.PUT("/files/:id/unpublish", m.Handler.Unpublish)
		auth.GET("/search/files", m.Handler.Search)
	}
}
