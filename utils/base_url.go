package utils

import "github.com/gin-gonic/gin"

// Helper function for getting baseURL of the API, used for HAL links
func GetBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if fwd := c.GetHeader("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + c.Request.Host + "/api"
}
