package router

import (
	"github.com/oksasatya/files-manager/internal/container"
	handlers "github.com/oksasatya/files-manager/internal/interface/http"
	"github.com/oksasatya/files-manager/internal/interface/middleware"
	"github.com/oksasatya/files-manager/internal/router/modules"
)

// InitModules builds the handlers from c and adds every module to r.
func InitModules(r *Registry, c *container.Container) {
	auth := middleware.Auth(c.Authenticator, c.Logger)
	limits := modules.Limits{Redis: c.Redis}

	r.Add(modules.NewAppModule(handlers.NewAppHandler(c.App, c.Logger), limits))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(c.Auth, c.Logger), limits))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(c.Auth, c.Logger), auth, limits))
	r.Add(modules.NewFileModule(
		handlers.NewFileHandler(c.Files, c.Logger),
		auth,
		middleware.OptionalAuth(c.Authenticator, c.Logger),
		limits,
	))
}
