package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/kitchenkeeper/internal/server/auth"
	"github.com/go-chi/chi/v5/middleware"
)

// TokenVerifier validates a session token.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// Guard admits requests carrying a valid session token and attaches the
// caller's identity to the request context. Anything else gets
// 401 {"error":"unauthorized"}. It performs no I/O.
func Guard(v TokenVerifier, ex auth.TokenExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := v.Verify(ex.Extract(r))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			s.logger.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
