package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/meetgrid/booking-api/internal/middleware"
	"github.com/meetgrid/booking-api/internal/models"
)

// claimsFromContext returns the authenticated owner's claims, or nil when
// the request did not pass the JWT middleware.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}
