package echoapi

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// escapeReturnURL escapes query delimiters in a path destined for the
// returnUrl parameter, keeping path separators literal.
func escapeReturnURL(path string) string {
	return strings.ReplaceAll(url.QueryEscape(path), "%2F", "/")
}

// guardSkipPrefixes lists the paths the page guard never touches: the JSON API
// (which authenticates itself) and frontend asset paths.
var guardSkipPrefixes = []string{
	"/api",
	"/_next/static",
	"/_next/image",
	"/favicon.ico",
}

// newPageGuard returns the middleware protecting all page routes. Per request
// it re-derives the auth state from the token alone:
//
//   - no/invalid/expired token on a protected page: 302 to the login page with
//     the original path preserved as returnUrl (the three failure modes are
//     indistinguishable to the client)
//   - valid token on the login page: 302 to the role's home
//   - valid token with the wrong role for the portal: 403
//
// Valid claims are attached to the request context for downstream handlers.
func newPageGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			path := ctx.Request().URL.Path
			for _, prefix := range guardSkipPrefixes {
				if strings.HasPrefix(path, prefix) {
					return next(ctx)
				}
			}

			var claims *Claims
			if raw := extractToken(ctx); raw != "" {
				if token, err := parseToken(raw); err == nil {
					claims = token.Claims.(*Claims)
					ctx.Set(contextTokenKey, token)
				}
			}

			if path == loginPath {
				if claims != nil {
					return ctx.Redirect(http.StatusFound, homePath(claims.Role))
				}
				return next(ctx)
			}

			if p, ok := matchPortal(path); ok {
				if claims == nil {
					return ctx.Redirect(http.StatusFound, loginPath+"?returnUrl="+escapeReturnURL(path))
				}
				if !roleAllowed(claims.Role, p.roles) {
					return errHttpForbidden
				}
			}
			return next(ctx)
		}
	}
}
