package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ryanpadilha/atlas-brain/internal/forms"
	"github.com/ryanpadilha/atlas-brain/internal/middleware"
	"github.com/ryanpadilha/atlas-brain/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Login は資格情報を検証しセッションを発行する。
	Login(ctx context.Context, email, password string) (*model.Session, *model.ErrorObject, error)
	// Logout はセッションを破棄する。
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlerConfig は認証ハンドラーのCookie設定。
type AuthHandlerConfig struct {
	CookieSecure  bool
	CookieDomain  string
	CookieMaxAge  int // 秒
	LoginRedirect string
}

// AuthHandler はログイン・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	service  AuthServiceInterface
	renderer *Renderer
	config   AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, renderer *Renderer, config AuthHandlerConfig) *AuthHandler {
	if config.LoginRedirect == "" {
		config.LoginRedirect = "/"
	}
	return &AuthHandler{
		service:  service,
		renderer: renderer,
		config:   config,
	}
}

// LoginForm はログインフォームを表示する。
// GET /auth/login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	// ログイン済みならダッシュボードへ
	if middleware.SessionFromContext(r.Context()) != nil {
		http.Redirect(w, r, h.config.LoginRedirect, http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, http.StatusOK, "login", &ViewData{
		Next: r.URL.Query().Get("next"),
	})
}

// Login はログインフォームの送信を処理する。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	form, errs := forms.ParseLoginForm(r)
	if !errs.Valid() {
		h.renderer.Render(w, http.StatusBadRequest, "login", &ViewData{
			Errors: errs.All(),
			Next:   r.PostFormValue("next"),
		})
		return
	}

	session, errObj, err := h.service.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		slog.Error("login failed", slog.String("error", err.Error()))
		h.renderer.Render(w, http.StatusInternalServerError, "login", &ViewData{
			Errors: []string{"login is temporarily unavailable, try again later"},
			Next:   r.PostFormValue("next"),
		})
		return
	}
	if errObj != nil {
		messages := []string{errObj.Message}
		for _, issue := range errObj.Issues {
			if issue.Message != "" {
				messages = append(messages, issue.Message)
			}
		}
		h.renderer.Render(w, http.StatusUnauthorized, "login", &ViewData{
			Errors: messages,
			Next:   r.PostFormValue("next"),
		})
		return
	}

	http.SetCookie(w, h.sessionCookie(session.ID, h.config.CookieMaxAge))

	http.Redirect(w, r, safeRedirectTarget(r.PostFormValue("next"), h.config.LoginRedirect), http.StatusSeeOther)
}

// Logout はセッションを破棄しログインページへリダイレクトする。
// GET|POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := middleware.SessionFromContext(r.Context()); session != nil {
		if err := h.service.Logout(r.Context(), session.ID); err != nil {
			slog.Error("logout failed",
				slog.String("session_id", session.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	http.SetCookie(w, h.sessionCookie("", -1))

	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

// sessionCookie はセッションCookieを組み立てる。
func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// safeRedirectTarget はnextパラメータをサイト内パスに限定する。
// 外部URL・スキーム相対URLへのオープンリダイレクトを防ぐ。
func safeRedirectTarget(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return fallback
	}
	return next
}
