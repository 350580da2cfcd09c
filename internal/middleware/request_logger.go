package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one structured line per request with latency, status
// and the caller's device/browser.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		ua := user_agent.New(c.Request.UserAgent())
		browser, version := ua.Browser()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     path,
			"status":   c.Writer.Status(),
			"latency":  time.Since(start).String(),
			"ip":       c.ClientIP(),
			"os":       ua.OS(),
			"browser":  browser,
			"bot":      ua.Bot(),
			"mobile":   ua.Mobile(),
			"ua_ver":   version,
		}
		if user, ok := GetUserContext(c); ok {
			fields["user"] = user.Username
		}

		entry := logger.WithFields(fields)
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("Request failed")
		case c.Writer.Status() >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request handled")
		}
	}
}
