package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/kitchenkeeper/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestTokenExtractor_Extract(t *testing.T) {
	ex := TokenExtractor{CookieNames: common.DefaultSessionCookieNames}

	tests := []struct {
		name    string
		header  string
		cookies map[string]string
		want    string
	}{
		{name: "nothing", want: ""},
		{name: "bearer header", header: "Bearer abc", want: "abc"},
		{name: "scheme case-insensitive", header: "bearer   abc ", want: "abc"},
		{name: "other scheme ignored", header: "Basic abc", want: ""},
		{name: "empty bearer falls through", header: "Bearer ", cookies: map[string]string{"token": "c"}, want: "c"},
		{name: "header beats cookie", header: "Bearer h", cookies: map[string]string{"auth_token": "c"}, want: "h"},
		{name: "cookie order", cookies: map[string]string{"auth": "3", "token": "2"}, want: "2"},
		{name: "first cookie name", cookies: map[string]string{"auth": "3", "token": "2", "auth_token": "1"}, want: "1"},
		{name: "empty cookie skipped", cookies: map[string]string{"auth_token": "", "auth": "3"}, want: "3"},
		{name: "unknown cookie ignored", cookies: map[string]string{"session": "x"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			for k, v := range tt.cookies {
				r.AddCookie(&http.Cookie{Name: k, Value: v})
			}
			assert.Equal(t, tt.want, ex.Extract(r))
		})
	}
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{ID: "u-1", Role: "admin"})
	id, ok := IdentityFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u-1", id.ID)
}
