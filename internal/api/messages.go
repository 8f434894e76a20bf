package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func parseIntQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (s *Server) handleGetMessages(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 50)

	messages, err := s.store.GetRecentMessages(c.Request.Context(), limit)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondList(c, messages, len(messages))
}

func (s *Server) handleGetUnprocessed(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 200)

	messages, err := s.store.GetUnprocessedMessages(c.Request.Context(), limit)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondList(c, messages, len(messages))
}

type aiProcessedRequest struct {
	StructuredData json.RawMessage `json:"structured_data"`
}

func (s *Server) handleMarkAIProcessed(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req aiProcessedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	msg, err := s.store.UpdateAIProcessed(c.Request.Context(), id, req.StructuredData)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondData(c, http.StatusOK, msg)
}

func (s *Server) handleCleanup(c *gin.Context) {
	days := parseIntQuery(c, "days", 14)
	if days < 1 {
		respondError(c, http.StatusBadRequest, "days must be a positive integer")
		return
	}

	deleted, err := s.store.CleanOldMessages(c.Request.Context(), days)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondMessage(c, fmt.Sprintf("deleted %d messages older than %d days", deleted, days))
}
