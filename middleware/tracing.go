package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
)

// RequestTracingMiddleware tags every request with a request id and a trace
// id. The trace id comes from the active span when tracing is on.
func RequestTracingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if requestID == "" {
			requestID = uuid.New().String()
		}

		traceID := ""
		if spanCtx := trace.SpanContextFromContext(c.Request.Context()); spanCtx.HasTraceID() {
			traceID = spanCtx.TraceID().String()
		}
		if traceID == "" {
			traceID = strings.TrimSpace(c.GetHeader(headerTraceID))
		}

		c.Set("request_id", requestID)
		c.Header(headerRequestID, requestID)
		if traceID != "" {
			c.Set("trace_id", traceID)
			c.Header(headerTraceID, traceID)
		}
		c.Next()
	}
}
