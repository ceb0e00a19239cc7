package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// publicPaths bypass authentication (health, metrics).
var publicPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// BearerAuthMiddleware rejects requests without a configured API key. An
// empty key list disables authentication.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	keys := make([][]byte, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := publicPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			if msg := checkBearer(r.Header.Get("Authorization"), keys); msg != "" {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, msg)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// checkBearer returns a rejection message, or "" when the header carries a
// known key.
func checkBearer(header string, keys [][]byte) string {
	if header == "" {
		return "missing authorization header"
	}
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok {
		return "authorization header must use Bearer scheme"
	}
	for _, k := range keys {
		if subtle.ConstantTimeCompare([]byte(token), k) == 1 {
			return ""
		}
	}
	return "invalid api key"
}
