package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleParserStatus(c *gin.Context) {
	respondData(c, http.StatusOK, s.supervisor.CurrentStatus(c.Request.Context()))
}

func (s *Server) handleParserStart(c *gin.Context) {
	status, err := s.supervisor.Start(c.Request.Context())
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondData(c, http.StatusOK, status)
}

func (s *Server) handleParserStop(c *gin.Context) {
	if err := s.supervisor.Stop(c.Request.Context()); err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondMessage(c, "parser stopped")
}

func (s *Server) handleParserRunOnce(c *gin.Context) {
	result, err := s.supervisor.RunOnce(c.Request.Context())
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	respondData(c, http.StatusOK, result)
}
