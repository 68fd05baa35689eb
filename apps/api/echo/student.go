package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/neptgadgets/school-nexus-final-sub001/core/student"
	"github.com/neptgadgets/school-nexus-final-sub001/core/user"
)

type studentApi struct {
	svc *student.Service
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *student.Service) {
	api := studentApi{svc: svc}

	sg := g.Group("/students", jwt)
	sg.GET("", api.query, requireRoles(user.RoleSuperAdmin, user.RoleSchoolAdmin, user.RoleTeacher))
	sg.POST("", api.create, requireRoles(user.RoleSuperAdmin, user.RoleSchoolAdmin))
	sg.DELETE("", api.destroyMultiple, requireRoles(user.RoleSuperAdmin, user.RoleSchoolAdmin))

	dg := sg.Group("/:id")
	dg.GET("", api.retrieve, requireRoles(user.RoleSuperAdmin, user.RoleSchoolAdmin, user.RoleTeacher))
	dg.PUT("", api.update, requireRoles(user.RoleSuperAdmin, user.RoleSchoolAdmin))
	dg.DELETE("", api.destroy, requireRoles(user.RoleSuperAdmin, user.RoleSchoolAdmin))
}

func (api *studentApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	// school admins only enroll into their own school
	if claims.Role != user.RoleSuperAdmin {
		data.SchoolID = claims.SchoolID.String
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}

	st, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (api *studentApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	filter := new(student.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []student.Student{})
	}
	filter.Clean()
	if claims.Role != user.RoleSuperAdmin {
		filter.SchoolID = claims.SchoolID.String
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	students, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

// getScoped fetches the student at :id, hiding students of other schools from
// non super admins.
func (api *studentApi) getScoped(ctx echo.Context) (student.Student, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "getting context claims")
	}

	st, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return student.Student{}, errHttpNotFound
		}
		return student.Student{}, errors.Wrap(err, "finding student by ID")
	}
	if claims.Role != user.RoleSuperAdmin && st.SchoolID != claims.SchoolID.String {
		return student.Student{}, errHttpNotFound
	}
	return st, nil
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	st, err := api.getScoped(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) update(ctx echo.Context) error {
	st, err := api.getScoped(ctx)
	if err != nil {
		return err
	}

	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(st); err != nil {
		return err
	}

	st, err = api.svc.Update(ctx.Request().Context(), st, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	st, err := api.getScoped(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), st.ID); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) destroyMultiple(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if claims.Role != user.RoleSuperAdmin {
		for _, id := range query.IDs {
			st, err := api.svc.GetByID(ctx.Request().Context(), id)
			if err != nil {
				if errors.Cause(err) == student.ErrNotFound {
					continue
				}
				return errors.Wrap(err, "finding student by ID")
			}
			if st.SchoolID != claims.SchoolID.String {
				return errHttpForbidden
			}
		}
	}

	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return ctx.NoContent(http.StatusNoContent)
}
