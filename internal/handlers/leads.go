package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexcrm/lead-ingestion-service/internal/auth"
	"github.com/nexcrm/lead-ingestion-service/internal/leads"
	"github.com/nexcrm/lead-ingestion-service/internal/models"
)

// LeadSaver keeps the latest fetched snapshot for the dashboard.
// Satisfied by store.PostgresStore.
type LeadSaver interface {
	SaveLeads(ctx context.Context, leads []models.Lead) error
}

// RegisterLeadRoutes registers the dashboard-facing aggregation endpoint.
//
// GET /leads/:source
// - Requires X-API-Key (tenant context)
// - source ∈ {google, facebook, instagram, linkedin}
func RegisterLeadRoutes(r gin.IRoutes, agg *leads.Aggregator, snapshots LeadSaver) {
	r.GET("/leads/:source", func(c *gin.Context) {
		source := c.Param("source")
		if tenant := auth.TenantID(c); tenant != "" {
			log.Printf("tenant %s fetching %s leads", tenant, source)
		}

		result, err := agg.FetchLeads(c.Request.Context(), source)
		if err != nil {
			if errors.Is(err, leads.ErrInvalidSource) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source specified"})
				return
			}

			log.Printf("fetching %s leads failed: %v", source, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": fmt.Sprintf("Failed to fetch %s leads", source),
			})
			return
		}

		// Snapshot persistence is best-effort; the fetch result is
		// returned either way.
		if snapshots != nil && len(result) > 0 {
			if err := snapshots.SaveLeads(c.Request.Context(), result); err != nil {
				log.Printf("saving %s lead snapshot failed: %v", source, err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"leads": result})
	})
}
