package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// The portal pages are server-rendered placeholders; the real screens are a
// frontend concern. They exist so every protected prefix resolves to a page
// the guard can gate.

func registerPages(app *echo.Echo) {
	app.GET("/", home)
	app.GET(loginPath, loginPage)
	for _, p := range portals {
		app.GET(p.prefix, portalPage(p.prefix))
		app.GET(p.prefix+"/*", portalPage(p.prefix))
	}
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to School Nexus!")
}

func loginPage(ctx echo.Context) error {
	return ctx.HTML(http.StatusOK, `<!DOCTYPE html>
<html>
<head><title>Sign in</title></head>
<body>
<form method="post" action="/api/v1/auth/login">
  <input type="email" name="email" placeholder="Email" required>
  <input type="password" name="password" placeholder="Password" required>
  <button type="submit">Sign in</button>
</form>
</body>
</html>`)
}

func portalPage(prefix string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context claims")
		}
		return ctx.HTML(http.StatusOK, fmt.Sprintf(
			"<!DOCTYPE html>\n<html><body><h1>%s</h1><p>Signed in as %s (%s)</p></body></html>",
			prefix, claims.Email, claims.Role))
	}
}
