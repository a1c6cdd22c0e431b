package graphqltest

import (
	"log/slog"
	"net/http"
	"time"
)

// RequestIDHeader is sent by graphql.Client on every request.
const RequestIDHeader = "X-Request-ID"

// requestLogging rejects requests without a request id and logs the rest at
// debug level with their outcome.
func requestLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				log.Warn("graphql backend: request without id", "remote", r.RemoteAddr)
				http.Error(w, "missing "+RequestIDHeader, http.StatusBadRequest)
				return
			}

			began := time.Now()
			rec := &recorder{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Debug("graphql backend",
				"request_id", id,
				"code", rec.code,
				"bytes", rec.n,
				"elapsed", time.Since(began),
			)
		})
	}
}

type recorder struct {
	http.ResponseWriter
	code int
	n    int
}

func (r *recorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(p []byte) (int, error) {
	n, err := r.ResponseWriter.Write(p)
	r.n += n
	return n, err
}
