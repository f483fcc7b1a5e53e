package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RequestLogger registra uma linha por requisição; 5xx sobe para error.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("ip", ClientIP(r)),
			}
			if id := CustomerID(r.Context()); id != "" {
				fields = append(fields, zap.String("customer_id", id))
			}

			switch {
			case ww.Status() >= 500:
				logger.Error("http", fields...)
			case ww.Status() >= 400:
				logger.Warn("http", fields...)
			default:
				logger.Info("http", fields...)
			}
		})
	}
}
