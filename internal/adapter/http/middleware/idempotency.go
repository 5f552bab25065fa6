package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/edenv/walletvault/internal/infrastructure/metrics"
	"github.com/edenv/walletvault/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"

	defaultIdempotencyTTL = 24 * time.Hour

	pendingMarker = "processing"
)

// IdempotencyMiddleware deduplicates mutating requests by Idempotency-Key.
// The transfer engine itself never deduplicates; replay protection lives
// entirely at this boundary.
type IdempotencyMiddleware struct {
	store   usecase.IdempotencyStore
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware. A zero ttl
// falls back to 24 hours; metrics may be nil.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, m *metrics.Metrics) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}

	return &IdempotencyMiddleware{store: store, ttl: ttl, metrics: m}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		exists, cachedResponse, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			http.Error(w, "idempotency check failed", http.StatusInternalServerError)
			return
		}

		if exists && cachedResponse != nil && string(cachedResponse) != pendingMarker {
			if m.metrics != nil {
				m.metrics.IdempotencyHits.Inc()
			}
			status, body := decodeCachedResponse(cachedResponse)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Idempotency-Replay", "true")
			w.WriteHeader(status)
			w.Write(body)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode >= 200 && recorder.statusCode < 300 {
			m.store.Update(r.Context(), key, encodeCachedResponse(recorder.statusCode, recorder.body.Bytes()), m.ttl)
			return
		}

		// Failed requests release the key so the client may retry with it.
		m.store.Forget(r.Context(), key)
	})
}

// encodeCachedResponse prefixes the body with the original status code so a
// replay can restore it. The prefix is "<code> ", three digits and a space.
func encodeCachedResponse(statusCode int, body []byte) []byte {
	return []byte(fmt.Sprintf("%d %s", statusCode, body))
}

// decodeCachedResponse splits a cached payload back into status and body.
// Payloads without a valid status prefix replay as 200.
func decodeCachedResponse(cached []byte) (int, []byte) {
	if len(cached) >= 4 && cached[3] == ' ' {
		if status, err := strconv.Atoi(string(cached[:3])); err == nil && status >= 200 && status < 300 {
			return status, cached[4:]
		}
	}
	return http.StatusOK, cached
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
