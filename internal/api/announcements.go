package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/autologist/cargowatch/internal/database"
)

func (s *Server) handleGetAnnouncements(c *gin.Context) {
	anns, err := s.store.GetAnnouncements(c.Request.Context(), c.Query("status"))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondList(c, anns, len(anns))
}

type announcementRequest struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	TargetChats []string   `json:"target_chats"`
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

func (s *Server) handleCreateAnnouncement(c *gin.Context) {
	var req announcementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Content) == "" {
		respondError(c, http.StatusBadRequest, "title and content are required")
		return
	}
	if req.Status == "scheduled" && req.ScheduledAt == nil {
		respondError(c, http.StatusBadRequest, "scheduled announcements require scheduled_at")
		return
	}

	ann, err := s.store.CreateAnnouncement(c.Request.Context(), database.NewAnnouncement{
		Title:       req.Title,
		Content:     req.Content,
		TargetChats: req.TargetChats,
		Status:      req.Status,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondData(c, http.StatusCreated, ann)
}
