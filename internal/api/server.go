// Package api exposes the data-access gateway and parser supervisor
// over a resource-oriented HTTP surface.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/autologist/cargowatch/internal/cache"
	"github.com/autologist/cargowatch/internal/config"
	"github.com/autologist/cargowatch/internal/database"
	"github.com/autologist/cargowatch/internal/logger"
	"github.com/autologist/cargowatch/internal/parser"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Server wires the gateway, supervisor, and cache into HTTP handlers.
type Server struct {
	store      database.Store
	supervisor *parser.Supervisor
	chatCache  *cache.Cache
	logger     *slog.Logger
	production bool
	startedAt  time.Time
}

// NewServer creates the handler set. chatCache may be built over a nil
// Redis client; caching is then disabled.
func NewServer(
	store database.Store,
	supervisor *parser.Supervisor,
	chatCache *cache.Cache,
	production bool,
	log *slog.Logger,
) *Server {
	return &Server{
		store:      store,
		supervisor: supervisor,
		chatCache:  chatCache,
		logger:     log.With("component", "api"),
		production: production,
		startedAt:  time.Now(),
	}
}

// Router builds the gin engine with the full route table.
func (s *Server) Router(cfg config.ServerConfig) *gin.Engine {
	if s.production {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(s.logger))
	r.Use(metrics())
	r.Use(corsMiddleware(cfg.AllowedOrigins))

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(apiKeyAuth(cfg.APIKeys))
	api.Use(rateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	api.GET("/status", s.handleStatus)
	api.GET("/stats", s.handleStats)

	api.GET("/messages", s.handleGetMessages)
	api.GET("/messages/unprocessed", s.handleGetUnprocessed)
	api.POST("/messages/:id/ai-processed", s.handleMarkAIProcessed)
	api.GET("/messages/:id/duplicates", s.handleGetMessageDuplicates)
	api.DELETE("/messages/cleanup", s.handleCleanup)

	api.GET("/duplicates/stats", s.handleDuplicateStats)
	api.GET("/duplicates/detailed", s.handleDetailedDuplicates)

	api.GET("/keywords", s.handleGetKeywords)
	api.POST("/keywords", s.handleAddKeyword)
	api.PUT("/keywords/:id", s.handleUpdateKeyword)
	api.DELETE("/keywords/:id", s.handleDeleteKeyword)

	api.GET("/chats", s.handleGetChats)
	api.POST("/chats", s.handleAddChat)
	api.PATCH("/chats/:id", s.handleUpdateChat)
	api.DELETE("/chats/:id", s.handleDeleteChat)

	api.GET("/recipient-categories", s.handleGetRecipients)
	api.POST("/recipient-categories", s.handleAddRecipient)
	api.PATCH("/recipient-categories/:id", s.handleUpdateRecipient)
	api.DELETE("/recipient-categories/:id", s.handleDeleteRecipient)

	api.GET("/announcements", s.handleGetAnnouncements)
	api.POST("/announcements", s.handleCreateAnnouncement)

	api.GET("/telegram/chats", s.handleTelegramChats)

	api.GET("/parser/status", s.handleParserStatus)
	api.POST("/parser/start", s.handleParserStart)
	api.POST("/parser/stop", s.handleParserStop)
	api.POST("/parser/run-once", s.handleParserRunOnce)

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "route not found")
	})

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	if len(origins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "X-API-Key")
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	return cors.New(corsCfg)
}
