package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/campushub/identity/internal/domain"
	"github.com/campushub/identity/internal/handler"
	"github.com/campushub/identity/internal/service"
)

func newTestServer(t *testing.T) (*service.AuthService, *httptest.Server) {
	t.Helper()
	auth := newTestAuth(t)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth)
	srv := httptest.NewServer(handler.SecurityHeaders(mux))
	t.Cleanup(srv.Close)
	return auth, srv
}

func postJSON(t *testing.T, url, body string, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestHandleLogin_Success(t *testing.T) {
	auth, srv := newTestServer(t)
	ctx := context.Background()

	if _, err := auth.Store().Create(ctx, "login@example.com", "password123", domain.RoleTeacherLevel1, "T One"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	resp := postJSON(t, srv.URL+"/api/auth/login",
		`{"email":"login@example.com","password":"password123"}`, nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("expected a token in the response")
	}
	user, _ := body["user"].(map[string]any)
	if user["role"] != "teacher_level1" {
		t.Fatalf("expected role teacher_level1, got %v", user["role"])
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Fatal("response leaks the password hash")
	}

	claims, err := auth.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.Role != domain.RoleTeacherLevel1 {
		t.Fatalf("expected token role teacher_level1, got %s", claims.Role)
	}
}

func TestHandleLogin_UniformUnauthorized(t *testing.T) {
	auth, srv := newTestServer(t)
	ctx := context.Background()

	if _, err := auth.Store().Create(ctx, "known@example.com", "password123", domain.RoleStudent, ""); err != nil {
		t.Fatalf("Create: %v", err)
	}

	wrongPw := postJSON(t, srv.URL+"/api/auth/login",
		`{"email":"known@example.com","password":"wrong"}`, nil)
	unknown := postJSON(t, srv.URL+"/api/auth/login",
		`{"email":"nobody@example.com","password":"password123"}`, nil)

	if wrongPw.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", wrongPw.StatusCode)
	}
	if unknown.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unknown email: expected 401, got %d", unknown.StatusCode)
	}

	// Same status and same body: no email-enumeration signal.
	bodyA := decodeBody(t, wrongPw)
	bodyB := decodeBody(t, unknown)
	if bodyA["error"] != bodyB["error"] {
		t.Fatalf("error bodies differ: %v vs %v", bodyA["error"], bodyB["error"])
	}
}

func TestHandleLogin_BadBody(t *testing.T) {
	_, srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/auth/login", `{not json`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHandleRegister(t *testing.T) {
	_, srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/auth/register",
		`{"email":"new@example.com","name":"New User","password":"password123"}`, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	user, _ := body["user"].(map[string]any)
	if user["role"] != "student" {
		t.Fatalf("expected self-registered role student, got %v", user["role"])
	}

	dup := postJSON(t, srv.URL+"/api/auth/register",
		`{"email":"new@example.com","name":"Again","password":"password456"}`, nil)
	if dup.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", dup.StatusCode)
	}

	bad := postJSON(t, srv.URL+"/api/auth/register",
		`{"email":"not-an-email","name":"Bad","password":"password123"}`, nil)
	if bad.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for invalid email, got %d", bad.StatusCode)
	}
}

func TestHandleMe(t *testing.T) {
	auth, srv := newTestServer(t)
	token := loginToken(t, auth, "me@example.com", "password123", domain.RoleStudent)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	user, _ := body["user"].(map[string]any)
	if user["email"] != "me@example.com" {
		t.Fatalf("expected me@example.com, got %v", user["email"])
	}
}

func TestHandleChangePassword(t *testing.T) {
	auth, srv := newTestServer(t)
	token := loginToken(t, auth, "rotate@example.com", "oldpassword", domain.RoleStudent)
	authz := map[string]string{"Authorization": "Bearer " + token}

	wrong := postJSON(t, srv.URL+"/api/auth/change-password",
		`{"currentPassword":"nope","newPassword":"newpassword1"}`, authz)
	if wrong.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong current password, got %d", wrong.StatusCode)
	}

	ok := postJSON(t, srv.URL+"/api/auth/change-password",
		`{"currentPassword":"oldpassword","newPassword":"newpassword1"}`, authz)
	if ok.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", ok.StatusCode)
	}

	ctx := context.Background()
	if _, _, err := auth.Login(ctx, "rotate@example.com", "oldpassword"); err == nil {
		t.Fatal("expected old password to stop working")
	}
	if _, _, err := auth.Login(ctx, "rotate@example.com", "newpassword1"); err != nil {
		t.Fatalf("expected new password to work, got %v", err)
	}
}

func TestHandleListUsers_RoleGate(t *testing.T) {
	auth, srv := newTestServer(t)
	studentToken := loginToken(t, auth, "student@example.com", "password123", domain.RoleStudent)
	hodToken := loginToken(t, auth, "hod@example.com", "password123", domain.RoleHOD)

	get := func(token string) *http.Response {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/users", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("Do: %v", err)
		}
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	if resp := get(""); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", resp.StatusCode)
	}
	if resp := get(studentToken); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("student: expected 403, got %d", resp.StatusCode)
	}

	resp := get(hodToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("hod: expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	users, _ := body["users"].([]any)
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}

func TestHandleHealthz(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
