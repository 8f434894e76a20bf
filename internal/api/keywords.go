package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/autologist/cargowatch/internal/database"
)

func (s *Server) handleGetKeywords(c *gin.Context) {
	keywords, err := s.store.GetKeywords(c.Request.Context())
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondList(c, keywords, len(keywords))
}

type keywordRequest struct {
	Keyword  string  `json:"keyword"`
	Category *string `json:"category"`
}

func (s *Server) handleAddKeyword(c *gin.Context) {
	var req keywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	req.Keyword = strings.TrimSpace(req.Keyword)
	if req.Keyword == "" {
		respondError(c, http.StatusBadRequest, "keyword must not be empty")
		return
	}

	kw, err := s.store.AddKeyword(c.Request.Context(), database.NewKeyword{
		Keyword:  req.Keyword,
		Category: req.Category,
	})
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondData(c, http.StatusCreated, kw)
}

type activeRequest struct {
	Active *bool `json:"active"`
}

func (r activeRequest) value(c *gin.Context) (bool, bool) {
	if r.Active == nil {
		respondError(c, http.StatusBadRequest, "active must be a boolean")
		return false, false
	}
	return *r.Active, true
}

func (s *Server) handleUpdateKeyword(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req activeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	active, ok := req.value(c)
	if !ok {
		return
	}

	kw, err := s.store.UpdateKeyword(c.Request.Context(), id, active)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondData(c, http.StatusOK, kw)
}

func (s *Server) handleDeleteKeyword(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := s.store.DeleteKeyword(c.Request.Context(), id); err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondMessage(c, "keyword deleted")
}
