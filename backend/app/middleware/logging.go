package middleware

import (
	"net/http"
	"time"

	"star-songs/backend/global"

	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	slowRequest     = time.Second
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Logging correlates every request with an X-Request-ID (inbound value
// honored, generated otherwise) and logs method, path, status and duration.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, reqID)
		sw := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(sw, r)
		duration := time.Since(start)

		evt := global.Logger.Info()
		switch {
		case sw.status >= 500:
			evt = global.Logger.Error()
		case sw.status >= 400 || duration > slowRequest:
			evt = global.Logger.Warn()
		}
		evt.Str("request_id", reqID).Str("ip", r.RemoteAddr).Str("method", r.Method).Str("path", r.URL.Path).Int("status", sw.status).Dur("duration", duration).Msg("request")
	})
}
