// Package server exposes the watchdog's HTTP surface: flow parsing,
// health, and the dashboard endpoints.
package server

import (
	"log/slog"
	"net/http"

	glog "github.com/gin-contrib/slog"
	"github.com/gin-gonic/gin"

	nl2flow "github.com/Flume-formerly-Laika/NL2Flow"
	"github.com/Flume-formerly-Laika/NL2Flow/internal/flow"
	"github.com/Flume-formerly-Laika/NL2Flow/internal/scan"
	"github.com/Flume-formerly-Laika/NL2Flow/internal/snapshot"
	"github.com/Flume-formerly-Laika/NL2Flow/pkg/api"
)

// Server implements the HTTP API for the watchdog service
type Server struct {
	store      snapshot.Store
	scanner    *scan.Scanner
	intents    *flow.IntentClient
	fieldRules map[string]string
}

// NewServer creates the HTTP API server
func NewServer(
	store snapshot.Store, scanner *scan.Scanner,
	intents *flow.IntentClient, fieldRules map[string]string,
) *Server {
	return &Server{
		store:      store,
		scanner:    scanner,
		intents:    intents,
		fieldRules: fieldRules,
	}
}

// SetupRoutes configures and returns the HTTP router with all endpoints
func (s *Server) SetupRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(glog.SetLogger(
		glog.WithLogger(func(c *gin.Context, l *slog.Logger) *slog.Logger {
			return slog.Default()
		}),
	))

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set(
			"Access-Control-Allow-Methods",
			"GET, POST, PUT, DELETE, OPTIONS",
		)
		c.Writer.Header().Set(
			"Access-Control-Allow-Headers",
			"Content-Type, Authorization",
		)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	router.GET("/health", s.handleHealth)
	router.POST("/parse-request", s.handleParseRequest)

	dash := router.Group("/dashboard")
	{
		dash.GET("/scan-history", s.handleScanHistory)
		dash.GET("/api-summary", s.handleAPISummary)
		dash.POST("/rescan-api", s.handleRescan)
		dash.GET("/api-changes/:apiName", s.handleAPIChanges)
		dash.DELETE("/snapshots/:apiName", s.handleDeleteSnapshots)
	}

	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{
		Service: nl2flow.Name,
		Status:  "healthy",
	})
}
