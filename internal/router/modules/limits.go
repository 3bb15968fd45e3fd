package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/files-manager/internal/interface/middleware"
)

// Limits builds per-route rate limiters. A nil Redis disables them.
type Limits struct {
	Redis *redis.Client
}

func (l Limits) PerIP(max int) gin.HandlerFunc {
	return middleware.RateLimit(l.Redis, max, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
}

func (l Limits) PerIPAndPath(max int) gin.HandlerFunc {
	return middleware.RateLimit(l.Redis, max, time.Minute, middleware.KeyByIPAndPath(), nil)
}

func (l Limits) PerUser(max int) gin.HandlerFunc {
	return middleware.RateLimit(l.Redis, max, time.Minute, middleware.KeyByUserID(), nil)
}
