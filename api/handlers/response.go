package handlers

import "github.com/gin-gonic/gin"

func writeError(c *gin.Context, statusCode int, message string) {
	c.Abort()
	c.JSON(statusCode, gin.H{"error": message})
}
