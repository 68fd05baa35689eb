package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/neptgadgets/school-nexus-final-sub001/core/user"
)

// jwtMiddleware authenticates API requests. The token comes from the
// `Authorization: Bearer` header or the auth cookie; missing and invalid
// tokens are rejected identically.
func jwtMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			raw := extractToken(ctx)
			if raw == "" {
				return errUnauthorized
			}
			token, err := parseToken(raw)
			if err != nil {
				return err
			}
			ctx.Set(contextTokenKey, token)
			return next(ctx)
		}
	}
}

func requireRoles(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if roleAllowed(claims.Role, roles) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
