package core

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const sessionName = "todo_session"

const (
	ctxKeySessionToken = "session_token"
	ctxKeyOwner        = "owner"
)

// RequestIDMiddleware tags each request with an X-Request-ID, generating one
// when the client did not send its own.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// CORSMiddleware sets CORS headers for configured origins and answers
// preflight requests. Unlisted origins simply get no CORS headers.
func CORSMiddleware(cfg Config) gin.HandlerFunc {
	allowed := map[string]struct{}{}
	for _, o := range cfg.AllowedOrigins {
		allowed[strings.ToLower(o)] = struct{}{}
	}

	isAllowed := func(origin string) bool {
		if origin == "" || len(allowed) == 0 {
			return false
		}
		_, ok := allowed[strings.ToLower(origin)]
		return ok
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			if referer := c.GetHeader("Referer"); referer != "" {
				if u, err := url.Parse(referer); err == nil {
					origin = u.Scheme + "://" + u.Host
				}
			}
		}

		if isAllowed(origin) {
			setCORSHeaders(c, origin)
		}
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		c.Next()
	}
}

func setCORSHeaders(c *gin.Context, origin string) {
	c.Header("Access-Control-Allow-Origin", origin)
	c.Header("Vary", "Origin")
	c.Header("Access-Control-Allow-Credentials", "true")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
}

// RequireAuth is the gate in front of every protected route. It reads the
// session token from the transport cookie and resolves it against the
// registry; a missing cookie, an unreadable cookie, and an unknown token all
// short-circuit with the same 401 response so a caller cannot tell whether a
// token ever existed. On success the resolved owner and the raw token are
// attached to the request context. The gate never touches the store.
func RequireAuth(store *sessions.CookieStore, registry SessionRegistry, metrics *MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if session, err := store.Get(c.Request, sessionName); err == nil {
			token, _ = session.Values["token"].(string)
		}

		owner, ok := registry.Resolve(token)
		if !ok {
			metrics.Record(c.Request.Context(), OpAuthRejected)
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "sign-in required")
			c.Abort()
			return
		}

		c.Set(ctxKeySessionToken, token)
		c.Set(ctxKeyOwner, owner)
		c.Next()
	}
}

// ownerFromContext returns the owner name attached by RequireAuth.
func ownerFromContext(c *gin.Context) (string, bool) {
	owner, _ := c.Get(ctxKeyOwner)
	name, ok := owner.(string)
	return name, ok && name != ""
}

// tokenFromContext returns the session token attached by RequireAuth.
func tokenFromContext(c *gin.Context) string {
	token, _ := c.Get(ctxKeySessionToken)
	s, _ := token.(string)
	return s
}

// establishSessionCookie writes the token into the session cookie.
func establishSessionCookie(c *gin.Context, cfg Config, store *sessions.CookieStore, token string) error {
	session, err := store.Get(c.Request, sessionName)
	if err != nil {
		// An undecodable stale cookie is replaced, not surfaced.
		session = sessions.NewSession(store, sessionName)
	}
	session.Values = map[interface{}]interface{}{}
	session.Values["token"] = token
	applySessionOptions(cfg, session)
	return session.Save(c.Request, c.Writer)
}

// clearSessionCookie instructs the client to drop the session cookie. It is
// called regardless of whether registry revocation succeeded, so a client is
// never wedged with an unrevocable stale cookie.
func clearSessionCookie(c *gin.Context, cfg Config, store *sessions.CookieStore) {
	session, err := store.Get(c.Request, sessionName)
	if err != nil {
		session = sessions.NewSession(store, sessionName)
	}
	session.Values = map[interface{}]interface{}{}
	applySessionOptions(cfg, session)
	session.Options.MaxAge = -1 // Must be set AFTER applySessionOptions to properly delete cookie
	_ = session.Save(c.Request, c.Writer)
}

func applySessionOptions(cfg Config, session *sessions.Session) {
	if session.Options == nil {
		session.Options = &sessions.Options{}
	}
	session.Options.Path = "/"
	session.Options.MaxAge = cfg.SessionMaxAge
	session.Options.HttpOnly = true
	session.Options.Secure = cfg.CookieSecure
	session.Options.SameSite = sameSiteFromString(cfg.CookieSameSite)
}

func sameSiteFromString(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}
