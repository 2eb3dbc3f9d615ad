// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ryanpadilha/atlas-brain/internal/model"
)

// SessionCookieName はセッションIDを保持するHTTP Only Cookieの名前。
const SessionCookieName = "atlas_session"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

const (
	sessionContextKey   = contextKey("session")
	requestIDContextKey = contextKey("request_id")
)

// SessionLoader はセッションの解決に必要なインターフェース。
// auth.Serviceの部分集合として定義する。
type SessionLoader interface {
	LoadSession(ctx context.Context, sessionID string) (*model.Session, error)
}

// NewSessionMiddleware はCookieからセッションを解決し、リクエストコンテキストに
// 注入するミドルウェアを返す。未認証リクエストはそのまま通す（拒否はRequireLoginが行う）。
// セッション解決の内部障害は「未認証」に縮退させる。
func NewSessionMiddleware(loader SessionLoader) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := loader.LoadSession(r.Context(), cookie.Value)
			if err != nil {
				slog.Error("failed to load session",
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}
			if session == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin は未認証リクエストをログインページへリダイレクトするミドルウェアを返す。
// 元のパスはnextクエリパラメータで引き継ぐ。
func RequireLogin(loginPath string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if SessionFromContext(r.Context()) == nil {
				target := loginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromContext はリクエストコンテキストからセッションを取得する。
// 未認証の場合はnilを返す。
func SessionFromContext(ctx context.Context) *model.Session {
	session, _ := ctx.Value(sessionContextKey).(*model.Session)
	return session
}

// ContextWithSession はセッションを格納したコンテキストを返す。
// ハンドラーのテストでセッションを注入するために公開している。
func ContextWithSession(ctx context.Context, session *model.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}
