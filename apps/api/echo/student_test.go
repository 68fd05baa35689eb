package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/neptgadgets/school-nexus-final-sub001/core/student"
	"github.com/neptgadgets/school-nexus-final-sub001/core/user"
)

func Test_studentApi_tenancy(t *testing.T) {
	admin1 := createUser(t, "Admin One", "st.admin1@test.cd", "LolC@t123", user.RoleSchoolAdmin, "sch101", true)
	admin2 := createUser(t, "Admin Two", "st.admin2@test.cd", "LolC@t123", user.RoleSchoolAdmin, "sch102", true)
	teacher := createUser(t, "Teacher", "st.teacher@test.cd", "LolC@t123", user.RoleTeacher, "sch101", true)
	pupil := createUser(t, "Pupil", "st.pupil@test.cd", "LolC@t123", user.RoleStudent, "sch101", true)

	// create: the school comes from the admin's own claims, whatever the body says
	body := marchallObj(t, student.NewStudent{
		SchoolID:    "sch999",
		Name:        "Jane Doe",
		AdmissionNo: "adm-001",
		ClassName:   "P4",
	})
	req, rec := newAuthRequest(http.MethodPost, "/api/v1/students", getToken(t, admin1), body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var created student.Student
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("json.Unmarshal(): %v", err)
	}
	if created.SchoolID != "sch101" {
		t.Errorf("school_id = %q; want %q", created.SchoolID, "sch101")
	}

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		wantCode int
	}{
		{name: "teacher can list", method: http.MethodGet, path: "/api/v1/students", token: getToken(t, teacher), wantCode: http.StatusOK},
		{name: "teacher cannot create", method: http.MethodPost, path: "/api/v1/students", token: getToken(t, teacher), wantCode: http.StatusForbidden},
		{name: "student cannot list", method: http.MethodGet, path: "/api/v1/students", token: getToken(t, pupil), wantCode: http.StatusForbidden},
		{name: "own school sees the record", method: http.MethodGet, path: "/api/v1/students/" + created.ID, token: getToken(t, admin1), wantCode: http.StatusOK},
		{name: "other school does not", method: http.MethodGet, path: "/api/v1/students/" + created.ID, token: getToken(t, admin2), wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}

	// listing from the other school's admin must not include the record
	req, rec = newAuthRequest(http.MethodGet, "/api/v1/students", getToken(t, admin2))
	app.ServeHTTP(rec, req)
	var listed []student.Student
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("json.Unmarshal(): %v", err)
	}
	for _, st := range listed {
		if st.ID == created.ID {
			t.Error("cross-school student leaked into the listing")
		}
	}
}
