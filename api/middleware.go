package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/routetime/api/predict"
	"github.com/kilianp07/routetime/core/logger"
)

// statusWriter captures the final HTTP status code and number of bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// requestIDMiddleware assigns a request id unless the client sent one and
// echoes it in the response.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(predict.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(predict.RequestIDHeader, id)
		}
		w.Header().Set(predict.RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(log logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		log.Infow("http request", map[string]any{
			"method":      r.Method,
			"path":        r.URL.RequestURI(),
			"status":      sw.status,
			"bytes":       sw.bytes,
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  r.Header.Get(predict.RequestIDHeader),
		})
	})
}
