package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autologist/cargowatch/internal/database"
)

func (s *Server) handleGetMessageDuplicates(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	dups, err := s.store.GetMessageDuplicates(c.Request.Context(), id)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondList(c, dups, len(dups))
}

func (s *Server) handleDuplicateStats(c *gin.Context) {
	stats, err := s.store.GetDuplicateStats(c.Request.Context())
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondData(c, http.StatusOK, stats)
}

func (s *Server) handleDetailedDuplicates(c *gin.Context) {
	// Clamp here so the pagination envelope reports the bounds the
	// store actually applied.
	page := parseIntQuery(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := database.NormalizePageLimit(parseIntQuery(c, "limit", 50))

	dups, total, err := s.store.GetDetailedDuplicates(c.Request.Context(), page, limit)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}

	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dups,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}
