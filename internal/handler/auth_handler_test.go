package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ryanpadilha/atlas-brain/internal/middleware"
	"github.com/ryanpadilha/atlas-brain/internal/model"
)

// --- モック定義 ---

type mockAuthService struct {
	loginFn  func(ctx context.Context, email, password string) (*model.Session, *model.ErrorObject, error)
	logoutFn func(ctx context.Context, sessionID string) error
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*model.Session, *model.ErrorObject, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return nil, nil, errors.New("not configured")
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("failed to build renderer: %v", err)
	}
	return renderer
}

func loginRequest(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

// --- テスト ---

func TestAuthHandler_Login_SetsCookieAndRedirects(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (*model.Session, *model.ErrorObject, error) {
			if email != "maria@atlas.io" {
				t.Errorf("email = %q, want maria@atlas.io", email)
			}
			return &model.Session{ID: "s-1", ExpiresAt: time.Now().Add(time.Hour)}, nil, nil
		},
	}
	h := NewAuthHandler(svc, testRenderer(t), AuthHandlerConfig{CookieMaxAge: 3600})

	w := httptest.NewRecorder()
	h.Login(w, loginRequest(url.Values{
		"email":    {"maria@atlas.io"},
		"password": {"secret1"},
	}))

	resp := w.Result()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != "/" {
		t.Errorf("Location = %q, want /", got)
	}

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected session cookie")
	}
	if cookie.Value != "s-1" {
		t.Errorf("cookie value = %q, want s-1", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
}

func TestAuthHandler_Login_HonorsSafeNextParam(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (*model.Session, *model.ErrorObject, error) {
			return &model.Session{ID: "s-1"}, nil, nil
		},
	}
	h := NewAuthHandler(svc, testRenderer(t), AuthHandlerConfig{})

	tests := []struct {
		name string
		next string
		want string
	}{
		{"internal path", "/manage/deal", "/manage/deal"},
		{"external url rejected", "https://evil.example/", "/"},
		{"scheme relative rejected", "//evil.example/", "/"},
		{"empty falls back", "", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Login(w, loginRequest(url.Values{
				"email":    {"maria@atlas.io"},
				"password": {"secret1"},
				"next":     {tt.next},
			}))

			if got := w.Result().Header.Get("Location"); got != tt.want {
				t.Errorf("Location = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAuthHandler_Login_BackendRejectionRendersErrors(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (*model.Session, *model.ErrorObject, error) {
			return nil, &model.ErrorObject{
				Name:       "AUTHENTICATION_REQUIRED_ERROR",
				Message:    "Bad credentials",
				StatusCode: 401,
				Issues:     []model.Issue{{Issue: "BadCredentialsException", Message: "wrong password"}},
			}, nil
		},
	}
	h := NewAuthHandler(svc, testRenderer(t), AuthHandlerConfig{})

	w := httptest.NewRecorder()
	h.Login(w, loginRequest(url.Values{
		"email":    {"maria@atlas.io"},
		"password": {"wrong"},
	}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Bad credentials") || !strings.Contains(body, "wrong password") {
		t.Errorf("body should surface backend error messages, got: %s", body)
	}
}

func TestAuthHandler_Login_MissingFieldsRender400(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testRenderer(t), AuthHandlerConfig{})

	w := httptest.NewRecorder()
	h.Login(w, loginRequest(url.Values{}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAuthHandler_Logout_ClearsCookieAndRedirects(t *testing.T) {
	var loggedOut string
	svc := &mockAuthService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			loggedOut = sessionID
			return nil
		},
	}
	h := NewAuthHandler(svc, testRenderer(t), AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	ctx := middleware.ContextWithSession(req.Context(), &model.Session{ID: "s-9"})
	w := httptest.NewRecorder()

	h.Logout(w, req.WithContext(ctx))

	if loggedOut != "s-9" {
		t.Errorf("logged out session = %q, want s-9", loggedOut)
	}

	resp := w.Result()
	if got := resp.Header.Get("Location"); got != "/auth/login" {
		t.Errorf("Location = %q, want /auth/login", got)
	}

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected expired session cookie")
	}
	if cookie.MaxAge != -1 || cookie.Value != "" {
		t.Errorf("cookie = %+v, want cleared", cookie)
	}
}
