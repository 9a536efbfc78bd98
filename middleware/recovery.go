package middleware

import (
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/utils"

	"github.com/gin-gonic/gin"
)

func EnhancedRecoveryMiddleware(log *utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				utils.TrackError("http", "panic")
				log.Error("panic recovered",
					"panic", err,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"request_id", c.GetString("request_id"),
				)
				utils.InternalError(c, "Internal server error")
			}
		}()
		c.Next()
	}
}
