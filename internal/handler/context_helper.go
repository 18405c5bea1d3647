package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/campusadvisor/advisor-api/internal/middleware"
	"github.com/campusadvisor/advisor-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// studentIDFromRequest resolves the acting student: the :id route parameter
// when present, otherwise the authenticated subject.
func studentIDFromRequest(c *gin.Context) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	if claims := claimsFromContext(c); claims != nil {
		return claims.StudentID
	}
	return ""
}
