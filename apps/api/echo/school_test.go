package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/neptgadgets/school-nexus-final-sub001/core/school"
	"github.com/neptgadgets/school-nexus-final-sub001/core/user"
)

func Test_schoolApi(t *testing.T) {
	root := createUser(t, "Root", "sch.root@test.cd", "LolC@t123", user.RoleSuperAdmin, "", true)
	admin := createUser(t, "Admin", "sch.admin@test.cd", "LolC@t123", user.RoleSchoolAdmin, "sch301", true)

	t.Run("super admin only", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/v1/schools", getToken(t, admin))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusForbidden)
		}
	})

	var created school.School
	t.Run("create", func(t *testing.T) {
		body := marchallObj(t, school.NewSchool{Name: "Green Hills Academy", Slug: "green-hills", Address: "Kigali"})
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/schools", getToken(t, root), body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("json.Unmarshal(): %v", err)
		}
		if created.Slug != "green-hills" || !created.IsActive {
			t.Errorf("created = %+v", created)
		}
	})

	t.Run("duplicate slug rejected", func(t *testing.T) {
		body := marchallObj(t, school.NewSchool{Name: "Green Hills Copy", Slug: "green-hills", Address: "Huye"})
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/schools", getToken(t, root), body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})

	t.Run("deactivate", func(t *testing.T) {
		inactive := false
		body := marchallObj(t, school.UpdateSchool{IsActive: &inactive})
		req, rec := newAuthRequest(http.MethodPut, "/api/v1/schools/"+created.ID, getToken(t, root), body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var updated school.School
		if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
			t.Fatalf("json.Unmarshal(): %v", err)
		}
		if updated.IsActive {
			t.Error("school still active")
		}
	})
}
