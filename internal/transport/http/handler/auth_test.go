package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"bookingengine/internal/domain"
	"bookingengine/internal/transport/http/handler"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeAuthUsecase struct {
	register        func(ctx context.Context, email, password, fullName string) (*domain.User, error)
	login           func(ctx context.Context, email, password string) (string, error)
	recoverPassword func(ctx context.Context, email string) error
	resetPassword   func(ctx context.Context, rawToken, newPassword string) error
}

func (f *fakeAuthUsecase) Register(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	return f.register(ctx, email, password, fullName)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, email, password string) (string, error) {
	return f.login(ctx, email, password)
}

func (f *fakeAuthUsecase) RecoverPassword(ctx context.Context, email string) error {
	return f.recoverPassword(ctx, email)
}

func (f *fakeAuthUsecase) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	return f.resetPassword(ctx, rawToken, newPassword)
}

func newAuthRouter(uc *fakeAuthUsecase) *gin.Engine {
	h := handler.NewAuthHandler(uc, testLogger())
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/token", h.Login)
	r.POST("/auth/recover-password", h.RecoverPassword)
	r.POST("/auth/reset-password", h.ResetPassword)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return body
}

func TestRegister_Success_Returns201(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(ctx context.Context, email, password, fullName string) (*domain.User, error) {
			return &domain.User{ID: "u-1", Email: email, FullName: fullName}, nil
		},
	}

	w := postJSON(newAuthRouter(uc), "/auth/register",
		`{"email": "jess@example.com", "password": "hunter22", "full_name": "Jess"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	body := decodeBody(t, w)
	if body["id"] != "u-1" || body["email"] != "jess@example.com" || body["full_name"] != "Jess" {
		t.Errorf("unexpected body: %v", body)
	}
	if _, ok := body["password"]; ok {
		t.Error("response must not echo the password")
	}
}

func TestRegister_DuplicateEmail_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(ctx context.Context, email, password, fullName string) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}

	w := postJSON(newAuthRouter(uc), "/auth/register",
		`{"email": "jess@example.com", "password": "hunter22", "full_name": "Jess"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "Email already registered" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestRegister_InvalidBody_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(ctx context.Context, email, password, fullName string) (*domain.User, error) {
			t.Fatal("usecase must not run for an invalid body")
			return nil, nil
		},
	}

	for name, body := range map[string]string{
		"not json":      "not json",
		"missing email": `{"password": "x", "full_name": "Jess"}`,
		"bad email":     `{"email": "nope", "password": "x", "full_name": "Jess"}`,
	} {
		if w := postJSON(newAuthRouter(uc), "/auth/register", body); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, w.Code)
		}
	}
}

func TestLogin_ValidCredentials_ReturnsBearerToken(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(ctx context.Context, email, password string) (string, error) {
			if email != "jess@example.com" || password != "hunter22" {
				t.Errorf("login called with %q / %q", email, password)
			}
			return "signed.jwt.token", nil
		},
	}

	form := url.Values{"username": {"jess@example.com"}, "password": {"hunter22"}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	newAuthRouter(uc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["access_token"] != "signed.jwt.token" {
		t.Errorf("access_token = %v", body["access_token"])
	}
	if body["token_type"] != "bearer" {
		t.Errorf("token_type = %v, want bearer", body["token_type"])
	}
}

func TestLogin_BadCredentials_Returns401(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(ctx context.Context, email, password string) (string, error) {
			return "", domain.ErrInvalidCredentials
		},
	}

	form := url.Values{"username": {"jess@example.com"}, "password": {"wrong"}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	newAuthRouter(uc).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "Invalid credentials" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestRecoverPassword_UnknownEmail_Returns404(t *testing.T) {
	uc := &fakeAuthUsecase{
		recoverPassword: func(ctx context.Context, email string) error {
			return domain.ErrUserNotFound
		},
	}

	w := postJSON(newAuthRouter(uc), "/auth/recover-password", `{"email": "ghost@example.com"}`)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "User not found" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestRecoverPassword_KnownEmail_Returns200(t *testing.T) {
	uc := &fakeAuthUsecase{
		recoverPassword: func(ctx context.Context, email string) error { return nil },
	}

	w := postJSON(newAuthRouter(uc), "/auth/recover-password", `{"email": "jess@example.com"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body := decodeBody(t, w); body["msg"] != "Recovery email sent" {
		t.Errorf("msg = %v", body["msg"])
	}
}

func TestResetPassword_QueryParams_Returns200(t *testing.T) {
	var gotToken, gotPassword string
	uc := &fakeAuthUsecase{
		resetPassword: func(ctx context.Context, rawToken, newPassword string) error {
			gotToken, gotPassword = rawToken, newPassword
			return nil
		},
	}

	w := postJSON(newAuthRouter(uc), "/auth/reset-password?token=raw-token&new_password=newpass1", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotToken != "raw-token" || gotPassword != "newpass1" {
		t.Errorf("usecase called with token=%q password=%q", gotToken, gotPassword)
	}
	if body := decodeBody(t, w); body["msg"] != "Password updated" {
		t.Errorf("msg = %v", body["msg"])
	}
}

func TestResetPassword_JSONBody_Returns200(t *testing.T) {
	uc := &fakeAuthUsecase{
		resetPassword: func(ctx context.Context, rawToken, newPassword string) error {
			if rawToken != "raw-token" || newPassword != "newpass1" {
				t.Errorf("usecase called with token=%q password=%q", rawToken, newPassword)
			}
			return nil
		},
	}

	w := postJSON(newAuthRouter(uc), "/auth/reset-password",
		`{"token": "raw-token", "new_password": "newpass1"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestResetPassword_InvalidToken_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{
		resetPassword: func(ctx context.Context, rawToken, newPassword string) error {
			return domain.ErrTokenInvalid
		},
	}

	w := postJSON(newAuthRouter(uc), "/auth/reset-password?token=stale&new_password=newpass1", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if body := decodeBody(t, w); body["error"] != "Invalid or expired token" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestResetPassword_MissingParams_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{
		resetPassword: func(ctx context.Context, rawToken, newPassword string) error {
			t.Fatal("usecase must not run without token and new_password")
			return nil
		},
	}

	if w := postJSON(newAuthRouter(uc), "/auth/reset-password", ""); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
