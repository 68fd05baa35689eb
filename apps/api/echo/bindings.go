package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/neptgadgets/school-nexus-final-sub001/core"
)

// Ordering binds the `ordering` query param: a comma-separated field list
// where a `-` prefix means descending, eg. `?ordering=name,-created_at`.
type Ordering struct {
	Orderings []core.DBOrdering
}

func (o *Ordering) Bind(ctx echo.Context) {
	for _, field := range strings.Split(ctx.QueryParam("ordering"), ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		asc := true
		if strings.HasPrefix(field, "-") {
			asc = false
			field = field[1:]
		}
		o.Orderings = append(o.Orderings, core.DBOrdering{Field: field, Ascending: asc})
	}
}
