package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const loggerContextKey contextKey = "logger"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger tags every request with an id and logs its outcome.
func RequestLogger(log logrus.FieldLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()
			entry := log.WithField("request_id", requestID)

			w.Header().Set("X-Request-Id", requestID)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), loggerContextKey, entry)))

			fields := entry.WithFields(logrus.Fields{
				"http_method": r.Method,
				"uri":         r.URL.RequestURI(),
				"status_code": rec.status,
				"latency_ms":  time.Since(start).Milliseconds(),
				"client_ip":   r.RemoteAddr,
			})
			switch {
			case rec.status >= 500:
				fields.Error("request completed with server error")
			case rec.status >= 400:
				fields.Warn("request completed with client error")
			default:
				fields.Info("request completed")
			}
		})
	}
}

// LoggerFromContext returns the request-scoped logger, or the standard
// logrus logger outside a request.
func LoggerFromContext(ctx context.Context) logrus.FieldLogger {
	if entry, ok := ctx.Value(loggerContextKey).(logrus.FieldLogger); ok {
		return entry
	}
	return logrus.StandardLogger()
}
