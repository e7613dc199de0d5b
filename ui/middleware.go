package ui

import (
	"time"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())
}

// requestLogger logs one line per request at DEBUG and server errors at
// ERROR
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		elapsed := time.Since(start).Round(time.Microsecond)
		if status >= 500 {
			s.logger.Error("%s %s -> %d in %s: %s", c.Request.Method, c.Request.URL.Path, status, elapsed, c.Errors.String())
			return
		}
		s.logger.Debug("%s %s -> %d in %s", c.Request.Method, c.Request.URL.Path, status, elapsed)
	}
}
