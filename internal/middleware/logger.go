package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/xyz-asif/whistleblow/internal/features/auth"
	"github.com/xyz-asif/whistleblow/internal/pkg/logger"
)

// LoggerConfig controls what the request logger records.
type LoggerConfig struct {
	LogRequestBody  bool
	LogResponseBody bool
	MaxBodySize     int64 // bytes captured per body
	SkipPaths       []string
}

func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		LogRequestBody:  true,
		LogResponseBody: false, // errors are always captured
		MaxBodySize:     2048,
		SkipPaths:       []string{"/health", "/ping"},
	}
}

func Logger(log *logger.Logger) gin.HandlerFunc {
	return LoggerWithConfig(log, DefaultLoggerConfig())
}

func LoggerWithConfig(log *logger.Logger, config LoggerConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		start := time.Now()

		var requestBody string
		if config.LogRequestBody && c.Request.Body != nil && c.Request.ContentLength > 0 {
			contentType := c.GetHeader("Content-Type")
			switch {
			case strings.HasPrefix(contentType, "multipart/"):
				requestBody = "[multipart body]"
			case c.Request.ContentLength > config.MaxBodySize:
				requestBody = "[request body too large to log]"
			default:
				bodyBytes, err := io.ReadAll(io.LimitReader(c.Request.Body, config.MaxBodySize))
				if err == nil {
					c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
					requestBody = sanitizeBody(string(bodyBytes), contentType)
				}
			}
		}

		writer := &limitedResponseWriter{ResponseWriter: c.Writer, maxSize: config.MaxBodySize}
		c.Writer = writer

		c.Next()

		status := writer.Status()
		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       routePath(c),
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
			"size":       writer.size,
		}
		if id := c.GetString(RequestIDKey); id != "" {
			fields["request_id"] = id
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields["query"] = truncateString(q, 100)
		}
		if requestBody != "" {
			fields["body"] = requestBody
		}
		if user := auth.CurrentUser(c); user != nil {
			fields["user_id"] = user.ID
		}
		if writer.body.Len() > 0 && (config.LogResponseBody || status >= 400) {
			fields["response"] = truncateString(writer.body.String(), 500)
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		entry := log.WithFields(fields)
		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request handled")
		}
	}
}

// routePath logs the matched route template so path parameters such as
// anonymous report codes stay out of the log. Unmatched requests fall back
// to the raw path.
func routePath(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}

// limitedResponseWriter keeps at most maxSize bytes of the response for logging.
type limitedResponseWriter struct {
	gin.ResponseWriter
	body    bytes.Buffer
	size    int64
	maxSize int64
}

func (w *limitedResponseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	if w.size+int64(n) <= w.maxSize {
		w.body.Write(b[:n])
	}
	w.size += int64(n)
	return n, err
}

func sanitizeBody(body, contentType string) string {
	if body == "" {
		return ""
	}
	if strings.Contains(contentType, "application/json") {
		var data interface{}
		if json.Unmarshal([]byte(body), &data) == nil {
			if out, err := json.Marshal(hideSensitiveFields(data)); err == nil {
				return truncateString(string(out), 1024)
			}
		}
	}
	return truncateString(body, 200)
}

func hideSensitiveFields(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitiveField(strings.ToLower(key)) {
				result[key] = "********"
			} else {
				result[key] = hideSensitiveFields(value)
			}
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = hideSensitiveFields(item)
		}
		return result
	default:
		return v
	}
}

func isSensitiveField(field string) bool {
	for _, s := range []string{"password", "token", "secret", "credential", "unique_code"} {
		if strings.Contains(field, s) {
			return true
		}
	}
	return false
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
