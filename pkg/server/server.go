package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hmasato/statchat/internal/manager"
)

// Server holds the state for the REST API server.
type Server struct {
	sessions *manager.SessionManager
	router   *gin.Engine
}

// NewServer creates a new Server instance.
func NewServer(sessions *manager.SessionManager) *Server {
	r := gin.Default()
	s := &Server{
		sessions: sessions,
		router:   r,
	}
	s.setupRoutes()
	return s
}

// Run starts the server on the specified address.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.POST("/v1/sessions", s.handleCreateSession)
	s.router.DELETE("/v1/sessions/:id", s.handleCloseSession)
	s.router.POST("/v1/sessions/:id/upload", s.handleUpload)
	s.router.POST("/v1/sessions/:id/chat", s.handleChat)
	s.router.GET("/v1/sessions/:id/report", s.handleReport)
}

// Health check
func (s *Server) healthCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}
