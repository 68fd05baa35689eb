package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/neptgadgets/school-nexus-final-sub001/core"
	"github.com/neptgadgets/school-nexus-final-sub001/core/attendance"
	"github.com/neptgadgets/school-nexus-final-sub001/core/school"
	"github.com/neptgadgets/school-nexus-final-sub001/core/student"
	"github.com/neptgadgets/school-nexus-final-sub001/core/user"
	"github.com/neptgadgets/school-nexus-final-sub001/services/email"
	"github.com/neptgadgets/school-nexus-final-sub001/services/logger"
	"github.com/neptgadgets/school-nexus-final-sub001/storage/database/dummy"
)

var (
	app     Server
	usrRepo user.Repository
	usrSvc  *user.Service

	errMissingToken = httpErr{Error: "user not authenticated"}
)

func TestMain(m *testing.M) {
	core.Conf = core.NewTestConfig()
	ConfigureAuth(core.Conf)

	// set up DB & repos
	db, err := dummydb.Open()
	if err != nil {
		log.Fatalf("dummydb.Open(): %v", err)
	}
	usrRepo = dummydb.NewUserRepository(db)

	// set up services
	std := log.New(os.Stdout, "TEST : ", log.LstdFlags)
	appLogger := logsvc.NewStdLogger(std)
	mailSvc := emailsvc.NewConsoleServiceMock(core.Conf)
	usrSvc = user.NewService(core.Conf, usrRepo, mailSvc, appLogger)

	// set up server
	app = NewServer(
		&Options{
			DisableReqLogs: true,
			Logger:         appLogger,
			UserSvc:        usrSvc,
			SchoolSvc:      school.NewService(dummydb.NewSchoolRepository(db)),
			StudentSvc:     student.NewService(dummydb.NewStudentRepository(db)),
			AttendanceSvc:  attendance.NewService(dummydb.NewAttendanceRepository(db)),
		},
	)

	os.Exit(m.Run())
}

func createUser(t *testing.T, name, email, pwd string, role user.Role, schoolID string, isActive bool) user.User {
	t.Helper()

	usr := user.User{
		Name:     name,
		Email:    email,
		Role:     role,
		SchoolID: null.NewString(schoolID, schoolID != ""),
		IsActive: isActive,
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword(): %v", err)
	}
	usr, err := usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// respCookie returns the named cookie from the response, or nil.
func respCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
