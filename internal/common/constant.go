package common

// DefaultSessionCookieNames are the cookie names accepted for the session
// token, in lookup priority order. The first one is used when setting the
// cookie; the others are legacy names still sent by older frontends.
var DefaultSessionCookieNames = []string{"auth_token", "token", "auth"}

// BearerScheme is the Authorization header scheme carrying the session token.
const BearerScheme = "Bearer"
