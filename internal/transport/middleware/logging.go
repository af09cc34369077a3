package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/internship-api/internal"
	"github.com/frahmantamala/internship-api/pkg/logger"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

const (
	filtered = "[FILTERED]"

	// bodies are logged up to this many bytes
	maxLoggedBody = 4 << 10
	// at most this much of a body is buffered for redaction; larger bodies are
	// logged by size only
	maxInspectedBody = 64 << 10
)

// redactedKeys match JSON keys and header names after lowercasing and
// stripping '_' and '-', so passwordHash, refresh_token and X-Api-Key all hit.
var redactedKeys = []string{
	"password",
	"token",
	"secret",
	"otp",
	"authorization",
	"cookie",
	"apikey",
}

// summarisedKeys carry base64 payloads; the log keeps only their length.
var summarisedKeys = map[string]bool{
	"photo": true,
}

var quietPrefixes = []string{
	"/swagger/",
	"/ping",
	"/health",
}

// LoggingMiddleware writes one line per request and one per response.
// Credentials are masked and photo payloads are reduced to their size.
func LoggingMiddleware(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range quietPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			start := time.Now()
			traceID := logger.TraceID(r.Context())

			reqBody := &capture{limit: maxInspectedBody}
			if r.Body != nil && r.Body != http.NoBody {
				head, _ := io.ReadAll(io.LimitReader(r.Body, maxInspectedBody+1))
				_, _ = reqBody.Write(head)
				r.Body = struct {
					io.Reader
					io.Closer
				}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}
			}

			log.Info("incoming request",
				"request_id", traceID,
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"headers", redactHeaders(r.Header),
				"body", reqBody.String(),
			)

			respBody := &capture{limit: maxInspectedBody}
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(respBody)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			log.Log(r.Context(), level, "response",
				"request_id", traceID,
				"user_id", internal.UserIDFromContext(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", ww.BytesWritten(),
				"body", respBody.String(),
			)
		})
	}
}

// capture keeps the first limit bytes written to it and counts the rest.
type capture struct {
	buf   bytes.Buffer
	limit int
	total int
}

func (c *capture) Write(p []byte) (int, error) {
	n := len(p)
	c.total += n
	if room := c.limit - c.buf.Len(); room > 0 {
		if n > room {
			p = p[:room]
		}
		c.buf.Write(p)
	}
	return n, nil
}

// String renders the captured body for the log. A body cut off at the limit
// cannot be redacted and is reported by size.
func (c *capture) String() string {
	if c.total > c.limit {
		return fmt.Sprintf("[%d+ bytes, not logged]", c.limit)
	}
	return redactBody(c.buf.Bytes())
}

func isRedacted(name string) bool {
	n := strings.NewReplacer("_", "", "-", "").Replace(strings.ToLower(name))
	for _, k := range redactedKeys {
		if strings.Contains(n, k) {
			return true
		}
	}
	return false
}

func redactHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isRedacted(name) {
			out[name] = filtered
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// redactBody renders a JSON body with credentials masked. Anything that is not
// JSON is logged by size only.
func redactBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Sprintf("[%d bytes, not json]", len(body))
	}

	out, err := json.Marshal(redactValue(doc))
	if err != nil {
		return fmt.Sprintf("[%d bytes]", len(body))
	}
	if len(out) > maxLoggedBody {
		return string(out[:maxLoggedBody]) + "...(truncated)"
	}
	return string(out)
}

func redactValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for key, value := range t {
			switch {
			case isRedacted(key):
				m[key] = filtered
			case summarisedKeys[strings.ToLower(key)]:
				if s, ok := value.(string); ok {
					m[key] = fmt.Sprintf("[%d bytes]", len(s))
					continue
				}
				m[key] = value
			default:
				m[key] = redactValue(value)
			}
		}
		return m
	case []interface{}:
		items := make([]interface{}, len(t))
		for i, item := range t {
			items[i] = redactValue(item)
		}
		return items
	default:
		return t
	}
}
