package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealth(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
		"version":   Version,
		"memory": gin.H{
			"heap_alloc_bytes": mem.HeapAlloc,
			"heap_sys_bytes":   mem.HeapSys,
			"num_gc":           mem.NumGC,
			"goroutines":       runtime.NumGoroutine(),
		},
	})
}

// handleStatus reports store connectivity and parser state in one call
// for the dashboard's status bar.
func (s *Server) handleStatus(c *gin.Context) {
	respondData(c, http.StatusOK, gin.H{
		"database": s.store.TestConnection(c.Request.Context()),
		"parser":   s.supervisor.CurrentStatus(c.Request.Context()),
	})
}
