package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/neptgadgets/school-nexus-final-sub001/core/attendance"
	"github.com/neptgadgets/school-nexus-final-sub001/core/user"
)

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *attendance.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/attendance", jwt)
	ag.POST("", api.mark, requireRoles(user.RoleSuperAdmin, user.RoleSchoolAdmin, user.RoleTeacher))
	ag.GET("", api.query, requireRoles(user.RoleSuperAdmin, user.RoleSchoolAdmin, user.RoleTeacher))
	ag.GET("/summary", api.summary, requireRoles(user.RoleSuperAdmin, user.RoleSchoolAdmin, user.RoleTeacher))
	ag.DELETE("", api.destroyMultiple, requireRoles(user.RoleSuperAdmin, user.RoleSchoolAdmin))
}

func (api *attendanceApi) mark(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data attendance.MarkAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkAttendance")
	}
	// non super admins only mark within their own school
	if claims.Role != user.RoleSuperAdmin {
		data.SchoolID = claims.SchoolID.String
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rec, err := api.svc.Mark(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusOK, rec)
}

// bindFilter binds and tenant-scopes the attendance filter.
func (api *attendanceApi) bindFilter(ctx echo.Context) (*attendance.QueryFilter, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting context claims")
	}

	filter := new(attendance.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return nil, errors.Wrap(err, "binding to QueryFilter")
	}
	if claims.Role != user.RoleSuperAdmin {
		filter.SchoolID = claims.SchoolID.String
	}
	return filter, nil
}

func (api *attendanceApi) query(ctx echo.Context) error {
	filter, err := api.bindFilter(ctx)
	if err != nil {
		return err
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	recs, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	if recs == nil {
		recs = []attendance.Record{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *attendanceApi) summary(ctx echo.Context) error {
	filter, err := api.bindFilter(ctx)
	if err != nil {
		return err
	}

	sum, err := api.svc.Summarize(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "summarizing attendance")
	}
	return ctx.JSON(http.StatusOK, sum)
}

func (api *attendanceApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting attendance records")
	}
	return ctx.NoContent(http.StatusNoContent)
}
