// Package middleware holds the HTTP middleware shared by every service.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ctxKeyLog struct{}
type ctxKeyRequestID struct{}

const RequestIDHeader = "X-Request-ID"

type responseRecorder struct {
	b      int
	status int
	w      http.ResponseWriter
}

func (r *responseRecorder) Header() http.Header { return r.w.Header() }

func (r *responseRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.w.Write(p)
	r.b += n
	return n, err
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
	r.w.WriteHeader(statusCode)
}

// Logging attaches a request-scoped logger to the request context and logs
// every completed request with its status, size and latency.
func Logging(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)
			ctx = context.WithValue(ctx, ctxKeyRequestID{}, requestID)

			rr := &responseRecorder{w: w}
			reqLog := log.WithFields(logrus.Fields{
				"http.req.path":   r.URL.Path,
				"http.req.method": r.Method,
				"http.req.id":     requestID,
			})
			if v, ok := ctx.Value(ctxKeySessionID{}).(string); ok {
				reqLog = reqLog.WithField("session", v)
			}
			reqLog.Debug("request started")
			defer func() {
				reqLog.WithFields(logrus.Fields{
					"http.resp.took_ms": int64(time.Since(start) / time.Millisecond),
					"http.resp.status":  rr.status,
					"http.resp.bytes":   rr.b,
				}).Info("request complete")
			}()

			ctx = context.WithValue(ctx, ctxKeyLog{}, reqLog)
			next.ServeHTTP(rr, r.WithContext(ctx))
		})
	}
}

// Logger returns the request-scoped logger, or the standard logger when the
// request did not pass through Logging.
func Logger(r *http.Request) logrus.FieldLogger {
	if log, ok := r.Context().Value(ctxKeyLog{}).(logrus.FieldLogger); ok {
		return log
	}
	return logrus.StandardLogger()
}

func RequestID(r *http.Request) string {
	v, _ := r.Context().Value(ctxKeyRequestID{}).(string)
	return v
}
