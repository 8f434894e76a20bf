package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/autologist/cargowatch/internal/database"
)

func (s *Server) handleGetChats(c *gin.Context) {
	chats, err := s.store.GetMonitoredChats(c.Request.Context(), c.Query("platform"))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondList(c, chats, len(chats))
}

type chatRequest struct {
	ChatID   string   `json:"chat_id"`
	ChatName string   `json:"chat_name"`
	Platform string   `json:"platform"`
	Keywords []string `json:"keywords"`
	Active   *bool    `json:"active"`
}

func (s *Server) handleAddChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	req.ChatID = strings.TrimSpace(req.ChatID)
	req.ChatName = strings.TrimSpace(req.ChatName)
	if req.ChatID == "" || req.ChatName == "" {
		respondError(c, http.StatusBadRequest, "chat_id and chat_name are required")
		return
	}
	if req.Platform == "" {
		req.Platform = "telegram"
	}

	chat, err := s.store.AddMonitoredChat(c.Request.Context(), database.NewMonitoredChat{
		ChatID:   req.ChatID,
		ChatName: req.ChatName,
		Platform: req.Platform,
		Keywords: req.Keywords,
		Active:   req.Active,
	})
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondData(c, http.StatusCreated, chat)
}

func (s *Server) handleUpdateChat(c *gin.Context) {
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

	chat, err := s.store.UpdateMonitoredChat(c.Request.Context(), id, active)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondData(c, http.StatusOK, chat)
}

func (s *Server) handleDeleteChat(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := s.store.DeleteMonitoredChat(c.Request.Context(), id); err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondMessage(c, "chat deleted")
}

// handleTelegramChats lists the chats of the live Telegram account by
// shelling out to the chat-list script. On a degraded environment the
// supervisor substitutes demo data; the response flags that.
func (s *Server) handleTelegramChats(c *gin.Context) {
	chats, demo, err := s.supervisor.ListChats(c.Request.Context(), s.chatCache)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    chats,
		"count":   len(chats),
		"demo":    demo,
	})
}
