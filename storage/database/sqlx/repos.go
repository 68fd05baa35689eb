package sqlxrepos

import (
	"regexp"
	"strings"

	"github.com/neptgadgets/school-nexus-final-sub001/core"
)

var identRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// orderBy renders an ORDER BY clause from the given ordering, falling back to
// def. Field names that are not plain identifiers are dropped rather than
// interpolated into the query.
func orderBy(ordering []core.DBOrdering, def string) string {
	orderList := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		if !identRegex.MatchString(ord.Field) {
			continue
		}
		orderList = append(orderList, ord.String())
	}
	if len(orderList) == 0 {
		if def == "" {
			return ""
		}
		return " ORDER BY " + def
	}
	return " ORDER BY " + strings.Join(orderList, ", ")
}
