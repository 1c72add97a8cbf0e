package api

import (
	"net/http"                           // HTTP status codes
	"sports_academy/internal/middleware" // Shared error body

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// respondError writes the {error, message} body with the given status
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, middleware.ErrorBody(message))
}

// internalError logs err with fields and answers 500
func internalError(c *gin.Context, msg string, err error, fields logrus.Fields) {
	entry := logrus.WithFields(fields).WithField("error", err.Error())
	entry.Error(msg)
	c.JSON(http.StatusInternalServerError, middleware.ErrorBody("internal server error"))
}
