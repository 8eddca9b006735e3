package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/okian/talentportal/internal/domain/idempotency"
	"github.com/okian/talentportal/pkg/logger"
	"github.com/okian/talentportal/pkg/metrics"
)

// Header names understood by the middleware.
const (
	HeaderRequestID      = "X-Request-ID"
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"
)

const maxIdempotencyKeyLen = 255

// MetricsMiddleware wraps HTTP handlers to record Prometheus metrics.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		durationMs := float64(time.Since(start).Milliseconds())
		statusCodeStr := strconv.Itoa(wrapped.statusCode)

		metrics.RecordHTTPRequest(endpoint, r.Method, statusCodeStr)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, statusCodeStr, durationMs)

		if wrapped.statusCode >= http.StatusBadRequest {
			errorType := getErrorType(wrapped.statusCode)
			metrics.RecordErrorByEndpoint(endpoint, r.Method, errorType)
			metrics.RecordErrorByComponent("http", errorType)
		}
	}
}

// getErrorType returns a standardized error type based on HTTP status code.
func getErrorType(statusCode int) string {
	switch {
	case statusCode == http.StatusServiceUnavailable:
		return "unavailable"
	case statusCode >= http.StatusInternalServerError:
		return "server_error"
	case statusCode == http.StatusNotFound:
		return "not_found"
	case statusCode >= http.StatusBadRequest:
		return "client_error"
	default:
		return "unknown"
	}
}

// RequestIDMiddleware propagates or assigns X-Request-ID and logs each request.
func RequestIDMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(HeaderRequestID))
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, id)
			ctx := logger.WithRequestID(r.Context(), id)

			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r.WithContext(ctx))

			log.Debug(ctx, "http request",
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", wrapped.statusCode),
				logger.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
			)
		})
	}
}

// Replayer stores and replays responses by Idempotency-Key.
type Replayer interface {
	Replay(ctx context.Context, key string) (idempotency.Response, bool)
	Remember(ctx context.Context, key string, resp idempotency.Response)
}

// IdempotencyMiddleware replays the first successful response recorded for
// an Idempotency-Key. Requests without the header pass through; failures are
// never recorded so the client may retry them. Concurrent requests carrying
// the same key run the handler once and all receive its response.
func IdempotencyMiddleware(store Replayer, next http.HandlerFunc) http.HandlerFunc {
	var inflight singleflight.Group
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(r.Header.Get(HeaderIdempotencyKey))
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		if len(key) > maxIdempotencyKeyLen {
			writeError(w, http.StatusBadRequest,
				fmt.Errorf("%w: Idempotency-Key longer than %d bytes", ErrBadRequest, maxIdempotencyKeyLen))
			return
		}
		// Keys are scoped to the route so one key cannot replay another endpoint.
		scoped := r.Method + " " + r.URL.Path + " " + key

		executed := false
		v, _, _ := inflight.Do(scoped, func() (interface{}, error) {
			if resp, ok := store.Replay(r.Context(), scoped); ok {
				return resp, nil
			}
			executed = true
			rec := newCaptureWriter()
			next.ServeHTTP(rec, r)
			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			resp := idempotency.Response{
				Status:      rec.status,
				ContentType: rec.header.Get("Content-Type"),
				Body:        rec.body.Bytes(),
			}
			if resp.Status >= 200 && resp.Status < 300 {
				store.Remember(r.Context(), scoped, resp)
			}
			return resp, nil
		})
		resp := v.(idempotency.Response)

		if resp.ContentType != "" {
			w.Header().Set("Content-Type", resp.ContentType)
		}
		if !executed {
			w.Header().Set(HeaderReplayed, "true")
		}
		w.WriteHeader(resp.Status)
		_, _ = w.Write(resp.Body)
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("failed to write response: %w", err)
	}
	return n, nil
}

// captureWriter buffers a handler's response without sending it.
type captureWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header)}
}

func (c *captureWriter) Header() http.Header { return c.header }

func (c *captureWriter) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
}

func (c *captureWriter) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	return c.body.Write(b)
}
