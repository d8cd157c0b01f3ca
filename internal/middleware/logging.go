package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

var log = zap.NewNop().Sugar()

// SetLogger задаёт логгер для мидлварей.
func SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		log = l
	}
}

type responseData struct {
	status int
	size   int
}

type loggingResponseWriter struct {
	http.ResponseWriter
	data *responseData
}

func (lw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lw.data.status == 0 {
		lw.data.status = http.StatusOK
	}
	size, err := lw.ResponseWriter.Write(b)
	lw.data.size += size
	return size, err
}

func (lw *loggingResponseWriter) WriteHeader(statusCode int) {
	if lw.data.status == 0 {
		lw.data.status = statusCode
	}
	lw.ResponseWriter.WriteHeader(statusCode)
}

// WithLogging пишет в лог метод, URI, статус, размер ответа и длительность запроса.
func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		data := &responseData{}
		next.ServeHTTP(&loggingResponseWriter{ResponseWriter: w, data: data}, r)

		if data.status == 0 {
			data.status = http.StatusOK
		}
		log.Infow("request",
			"method", r.Method,
			"uri", r.RequestURI,
			"status", data.status,
			"size", data.size,
			"duration", time.Since(start),
		)
	})
}
