package auth

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/kitchenkeeper/internal/common"
)

// TokenExtractor finds a session token on an incoming request.
type TokenExtractor struct {
	CookieNames []string
}

// Extract returns the bearer token from the Authorization header, or the
// value of the first non-empty cookie in CookieNames order, or "".
func (e TokenExtractor) Extract(r *http.Request) string {
	if tok := bearer(r.Header.Get("Authorization")); tok != "" {
		return tok
	}
	for _, name := range e.CookieNames {
		c, err := r.Cookie(name)
		if err != nil {
			continue
		}
		if v := strings.TrimSpace(c.Value); v != "" {
			return v
		}
	}
	return ""
}

func bearer(h string) string {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(tok)
}
