package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/neptgadgets/school-nexus-final-sub001/core"
	"github.com/neptgadgets/school-nexus-final-sub001/core/user"
	"github.com/neptgadgets/school-nexus-final-sub001/services/email"
)

func Test_authApi_login(t *testing.T) {
	usr := createUser(t, "Hero", "hero@test.cd", "LolC@t123", user.RoleStudent, "sch001", true)
	naughty := createUser(t, "N Dog", "ndog@test.cd", "LolC@t123", user.RoleStudent, "sch001", false)

	invalidCreds := marchallObj(t, httpErr{Error: "Invalid email or password"})
	missingCreds := marchallObj(t, httpErr{Error: "email and password are required"})

	type extraTest struct {
		wantCookie bool
	}
	tests := []httpTest{
		{name: "no body", wantCode: http.StatusBadRequest, wantData: missingCreds},
		{
			name: "missing password", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, LoginRequest{Email: usr.Email}),
			wantData: missingCreds,
		},
		{
			name: "missing email", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, LoginRequest{Password: "LolC@t123"}),
			wantData: missingCreds,
		},
		{
			name: "wrong password", wantCode: http.StatusUnauthorized,
			body:     marchallObj(t, LoginRequest{Email: usr.Email, Password: "wrong"}),
			wantData: invalidCreds,
		},
		{
			// same error and status as a wrong password: no enumeration
			name: "unknown email", wantCode: http.StatusUnauthorized,
			body:     marchallObj(t, LoginRequest{Email: "x@y.com", Password: "wrong"}),
			wantData: invalidCreds,
		},
		{
			name: "deactivated account", wantCode: http.StatusForbidden,
			body:     marchallObj(t, LoginRequest{Email: naughty.Email, Password: "LolC@t123"}),
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name: "valid credentials", wantCode: http.StatusOK,
			body:  marchallObj(t, LoginRequest{Email: usr.Email, Password: "LolC@t123"}),
			extra: extraTest{wantCookie: true},
		},
		{
			// email is trimmed and lowercased before lookup
			name: "unnormalized email", wantCode: http.StatusOK,
			body:  marchallObj(t, LoginRequest{Email: "  HERO@test.CD ", Password: "LolC@t123"}),
			extra: extraTest{wantCookie: true},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/v1/auth/login"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)

			cookie := respCookie(rec, authCookieName)

			if extra, ok := tt.extra.(extraTest); ok && extra.wantCookie {
				if rec.Code != tt.wantCode {
					t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}

				var respData LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
					t.Fatalf("json.Unmarshal(): %v", err)
				}
				if !respData.Success {
					t.Error("failed! success = false")
				}
				if respData.Token == "" {
					t.Error("failed! empty token")
				}
				if respData.User.Email != usr.Email {
					t.Errorf("user.email = %q; want %q", respData.User.Email, usr.Email)
				}
				// the password hash never leaves the server
				if strings.Contains(strings.ToLower(rec.Body.String()), "password") {
					t.Errorf("response leaks password material: %s", rec.Body.String())
				}

				// the token lands in an HTTPOnly lax cookie
				if cookie == nil {
					t.Fatal("auth cookie not set")
				}
				if cookie.Value != respData.Token {
					t.Error("cookie value does not match the returned token")
				}
				if !cookie.HttpOnly {
					t.Error("auth cookie must be HTTPOnly")
				}
				if cookie.SameSite != http.SameSiteLaxMode {
					t.Errorf("cookie SameSite = %v; want Lax", cookie.SameSite)
				}
				if cookie.MaxAge != int(24*time.Hour/time.Second) {
					t.Errorf("cookie MaxAge = %d; want %d", cookie.MaxAge, int(24*time.Hour/time.Second))
				}

				// decoded claims match the stored principal
				token, err := parseToken(respData.Token)
				if err != nil {
					t.Fatalf("parseToken(): %v", err)
				}
				claims := token.Claims.(*Claims)
				if claims.Role != usr.Role || claims.SchoolID != usr.SchoolID {
					t.Errorf("claims role/school = %v/%v; want %v/%v", claims.Role, claims.SchoolID, usr.Role, usr.SchoolID)
				}
				return
			}

			checkCodeAndData(t, tt, rec)
			if cookie != nil {
				t.Error("auth cookie must not be set on failure")
			}
		})
	}
}

func Test_authApi_logout(t *testing.T) {
	usr := createUser(t, "Out", "out@test.cd", "LolC@t123", user.RoleTeacher, "sch001", true)

	req, rec := newAuthRequest(http.MethodPost, "/api/v1/auth/logout", getToken(t, usr))
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v", rec.Code, http.StatusOK)
	}
	cookie := respCookie(rec, authCookieName)
	if cookie == nil {
		t.Fatal("expected the auth cookie to be cleared")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Errorf("cookie not cleared: value=%q maxAge=%d", cookie.Value, cookie.MaxAge)
	}
}

func Test_authApi_refreshToken(t *testing.T) {
	naughty := createUser(t, "N Dog", "refresh.ndog@test.cd", "LolC@t123", user.RoleStudent, "sch001", false)
	student := createUser(t, "Hero", "refresh.hero@test.cd", "LolC@t123", user.RoleStudent, "sch001", true)

	now := time.Now()
	unrefreshableClaims := GetUserClaims(student)
	unrefreshableClaims.OrigIssuedAt = now.Add(-2 * core.Conf.Server.JWTRefreshExpirationDelta).Unix() // older than threshold
	unrefreshableToken, err := GenerateToken(unrefreshableClaims)
	if err != nil {
		t.Fatalf("GenerateToken(): %v", err)
	}

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Inactive user not allowed", token: getToken(t, naughty), wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"})},
		{name: "Refresh period expired", token: unrefreshableToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "refresh has expired"})},
		{name: "Token refreshed", token: getToken(t, student), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/v1/auth/token-refresh"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			// cannot guess new token.. just check that it's not empty
			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var respData TokenResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &respData); err != nil {
					t.Errorf("json.Unmarshal() failed! err %v", err)
				}
				if respData.Token == "" {
					t.Error("failed! empty token")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_authApi_resetPassword(t *testing.T) {
	student := createUser(t, "Hero", "reset.hero@test.cd", "LolC@t123", user.RoleStudent, "sch001", true)
	successData := marchallObj(t, SuccessResponse{Success: "If the email address supplied is associated with an active account on this system, " +
		"an email will arrive in your inbox shortly with instructions to reset your password."})

	type extraTest struct {
		emailSent bool
	}
	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest, body: []byte("{}"),
			wantData: marchallObj(t, PasswordResetRequest{Email: "this field is required"}),
		},
		{
			name: "invalid email", wantCode: http.StatusBadRequest, body: marchallObj(t, PasswordResetRequest{Email: "lol"}),
			wantData: marchallObj(t, PasswordResetRequest{Email: "email must be a valid email address"}),
		},
		{
			// same response as a known email: no enumeration
			name: "unknown email", wantCode: http.StatusOK, body: marchallObj(t, PasswordResetRequest{Email: "lol@test.com"}),
			wantData: successData, extra: extraTest{emailSent: false},
		},
		{
			name: "known email", wantCode: http.StatusOK, body: marchallObj(t, PasswordResetRequest{Email: student.Email}),
			wantData: successData, extra: extraTest{emailSent: true},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/v1/auth/password-reset"

		t.Run(tt.name, func(t *testing.T) {
			emailsvc.SentMessages = nil // reset

			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if extra, ok := tt.extra.(extraTest); ok {
				if extra.emailSent {
					if len(emailsvc.SentMessages) != 1 {
						t.Fatalf("failed! len(SentMessages) = %d; want 1", len(emailsvc.SentMessages))
					}
					msg := emailsvc.SentMessages[0]
					if msg.To[0].Address != student.Email {
						t.Errorf("failed! To = %v; want %v", msg.To[0].Address, student.Email)
					}
					if !strings.Contains(msg.TextContent, "password-reset-confirm?uid=") {
						t.Errorf("failed! no reset link in %q", msg.TextContent)
					}
				} else if len(emailsvc.SentMessages) > 0 {
					t.Errorf("failed! len(SentMessages) = %d; want 0", len(emailsvc.SentMessages))
				}
			}
		})
	}
}

func Test_authApi_confirmPasswordReset(t *testing.T) {
	student := createUser(t, "Hero", "confirm.hero@test.cd", "LolC@t123", user.RoleStudent, "sch001", true)
	validUID := user.EncodeUID(student)
	validToken, err := user.MakeToken(student)
	if err != nil {
		t.Fatalf("MakeToken(): %v", err)
	}

	reqMsg := "this field is required"
	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest, body: []byte("{}"),
			wantData: marchallObj(t, user.ResetUserPassword{Token: reqMsg, UID: reqMsg, Password: reqMsg, PasswordConfirm: reqMsg}),
		},
		{
			name: "PasswordConfirm must = Password", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.ResetUserPassword{Token: "lol", UID: "lol", Password: "LolC@t123", PasswordConfirm: "lol"}),
			wantData: marchallObj(t, user.ResetUserPassword{PasswordConfirm: "password_confirm must be equal to Password"}),
		},
		{
			name: "valid token", wantCode: http.StatusOK,
			body:     marchallObj(t, user.ResetUserPassword{Token: validToken, UID: validUID, Password: "NewC@t123", PasswordConfirm: "NewC@t123"}),
			wantData: marchallObj(t, SuccessResponse{Success: "Password has been reset with the new password."}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/api/v1/auth/password-reset-confirm"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				refreshed, err := usrRepo.GetUserByID(context.Background(), student.ID)
				if err != nil {
					t.Fatalf("GetUserByID() failed, %v", err)
				}
				if err := refreshed.CheckPassword("NewC@t123"); err != nil {
					t.Error("failed to update new password")
				}
			}
		})
	}
}
