package api

import (
	"net/http"

	"github.com/Laptop-Academy1999/store/internal/models"
	"github.com/Laptop-Academy1999/store/internal/upload"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondJSON(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// respondErr maps the catalog error taxonomy onto HTTP statuses. Anything
// unrecognised is a 500 and is logged; its detail is not sent to the client.
func respondErr(c *gin.Context, err error) {
	switch {
	case models.IsValidation(err), upload.IsUploadError(err):
		respondError(c, http.StatusBadRequest, err.Error())
	case models.IsNotFound(err):
		respondError(c, http.StatusNotFound, err.Error())
	default:
		zap.L().Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}
