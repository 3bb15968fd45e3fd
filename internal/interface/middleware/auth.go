package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/files-manager/internal/domain/entity"
	"github.com/oksasatya/files-manager/pkg/apperror"
	"github.com/oksasatya/files-manager/pkg/response"
)

// TokenHeader carries the session token on authenticated requests.
const TokenHeader = "X-Token"

const userKey = "user"

// TokenResolver turns a session token into a user.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (*entity.User, error)
}

// Auth rejects requests without a live session. On success it sets userID
// and user in the Gin context.
func Auth(resolver TokenResolver, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := resolver.Resolve(c.Request.Context(), c.GetHeader(TokenHeader))
		if err != nil {
			response.FromError(c, err, logger)
			return
		}
		setUser(c, u)
		c.Next()
	}
}

// OptionalAuth resolves the token when one is sent and lets anonymous
// requests through. Invalid tokens are treated as anonymous.
func OptionalAuth(resolver TokenResolver, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(TokenHeader)
		if token == "" {
			c.Next()
			return
		}
		u, err := resolver.Resolve(c.Request.Context(), token)
		switch {
		case err == nil:
			setUser(c, u)
		case !errors.Is(err, apperror.ErrUnauthenticated):
			response.FromError(c, err, logger)
			return
		}
		c.Next()
	}
}

func setUser(c *gin.Context, u *entity.User) {
	c.Set("userID", u.ID)
	c.Set(userKey, u)
}

// CurrentUser returns the user set by Auth or OptionalAuth, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}
