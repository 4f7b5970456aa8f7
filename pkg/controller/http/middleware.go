package http

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/haus-labs/haus-agent/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

// bearerTokenMiddleware rejects requests whose bearer token does not match token.
func bearerTokenMiddleware(token string) func(http.Handler) http.Handler {
	expected := []byte(token)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			given, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(given)), expected) != 1 {
				errutil.HandleHTTP(r.Context(), w, goerr.New("invalid callback token"), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
