package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// fail writes the 4xx/5xx error body. Detection failures are not errors at
// this level; they come back as error-shaped verdicts with HTTP 200, so this
// shape is reserved for requests that never reached a detector.
func fail(c *gin.Context, status int, detail string) {
	c.JSON(status, gin.H{"detail": detail})
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "truthscan-backend",
	})
}
