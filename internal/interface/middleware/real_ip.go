package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP stores the client address under "real_ip". Proxy headers are
// checked in order: CF-Connecting-IP, left-most X-Forwarded-For, X-Real-IP.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := firstValidIP(
			c.GetHeader("CF-Connecting-IP"),
			strings.SplitN(c.GetHeader("X-Forwarded-For"), ",", 2)[0],
			c.GetHeader("X-Real-IP"),
		)
		if ip == "" {
			ip = c.ClientIP()
		}
		c.Set("real_ip", ip)
		c.Next()
	}
}

func firstValidIP(candidates ...string) string {
	for _, s := range candidates {
		if ip := net.ParseIP(strings.TrimSpace(s)); ip != nil {
			return ip.String()
		}
	}
	return ""
}
