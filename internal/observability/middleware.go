package observability

import (
	"time"

	"github.com/danmuck/dxftags/internal/dxf/revision"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func routePath(c *gin.Context) string {
	if path := c.FullPath(); path != "" {
		return path
	}
	return c.Request.URL.Path
}

// revisionLabel bounds the revision label to known revision names.
func revisionLabel(raw string) string {
	if raw == "" {
		return ""
	}
	rev, err := revision.Parse(raw)
	if err != nil {
		return "invalid"
	}
	return rev.String()
}

// RequestLogger logs one line per request. Conversion requests also carry
// the requested target revision.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		if status >= 500 {
			event = logger.Error()
		} else if status >= 400 {
			event = logger.Warn()
		}
		if rev := c.Query("revision"); rev != "" {
			event = event.Str("revision", rev)
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		event.
			Str("method", c.Request.Method).
			Str("path", routePath(c)).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Int64("request_bytes", c.Request.ContentLength).
			Int("bytes", c.Writer.Size()).
			Msg("http_request")
	}
}

func RequestMetricsMiddleware(node string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		RecordHTTPRequest(node, c.Request.Method, routePath(c), revisionLabel(c.Query("revision")), c.Writer.Status(), c.Request.ContentLength, time.Since(start))
	}
}
