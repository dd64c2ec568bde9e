package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tabi-ops/tabi-api/internal/middleware"
	"github.com/tabi-ops/tabi-api/internal/models"
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

func actorMatricula(c *gin.Context) string {
	if claims := claimsFromContext(c); claims != nil {
		return claims.Matricula
	}
	return ""
}

// recordFilterFromQuery maps the shared listing query parameters.
func recordFilterFromQuery(c *gin.Context) models.RecordFilter {
	filter := models.RecordFilter{
		Start:     strings.TrimSpace(c.Query("start")),
		End:       strings.TrimSpace(c.Query("end")),
		Interval:  strings.TrimSpace(c.Query("interval")),
		Segment:   strings.TrimSpace(c.Query("segment")),
		Operation: strings.TrimSpace(c.Query("operation")),
		Status:    models.RecordStatus(strings.TrimSpace(c.Query("status"))),
	}
	if raw := c.Query("hc_min"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.HCMin = &v
		}
	}
	if raw := c.Query("include_expired"); raw != "" {
		filter.IncludeExpired = raw == "true" || raw == "1"
	}
	return filter
}
