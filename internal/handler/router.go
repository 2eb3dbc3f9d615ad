package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ryanpadilha/atlas-brain/internal/backend"
	"github.com/ryanpadilha/atlas-brain/internal/middleware"
	"github.com/ryanpadilha/atlas-brain/internal/repository"
	"github.com/ryanpadilha/atlas-brain/internal/security"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// バックエンド統合
	Factory           *backend.Factory
	Catalog           *backend.Catalog
	ProviderSignature string

	// 認証
	AuthService   AuthServiceInterface
	SessionLoader middleware.SessionLoader
	AuthConfig    AuthHandlerConfig

	// セッション行（フラッシュメッセージの永続化）
	SessionRepo repository.SessionRepository

	// 描画
	Renderer  *Renderer
	Sanitizer *security.ContentSanitizer

	// ミドルウェア
	RateLimiter *middleware.RateLimiter
	Logger      *slog.Logger

	// 監視
	MetricsHandler http.Handler
}

// NewRouter は全ルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Recovery → SecurityHeaders → Logging → Session → RateLimit
//
// 管理画面（/ と /manage/*）はRequireLoginで保護する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewSessionMiddleware(deps.SessionLoader))
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Middleware())
	}

	backends := &backendClients{
		factory:           deps.Factory,
		catalog:           deps.Catalog,
		providerSignature: deps.ProviderSignature,
	}
	flash := NewFlashStore(deps.SessionRepo)

	authHandler := NewAuthHandler(deps.AuthService, deps.Renderer, deps.AuthConfig)
	websiteHandler := NewWebsiteHandler(backends, deps.Renderer, flash)
	dealHandler := NewDealHandler(backends, deps.Renderer, flash, deps.Sanitizer)
	buyOptionHandler := NewBuyOptionHandler(backends, deps.Renderer, flash)
	roleHandler := NewRoleHandler(backends, deps.Renderer, flash)
	userHandler := NewUserHandler(backends, deps.Renderer, flash)
	purchaseHandler := NewPurchaseHandler(backends, deps.Renderer, flash)

	// --- 認証不要のルート ---

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", authHandler.LoginForm)
		r.Post("/login", authHandler.Login)
		r.Get("/logout", authHandler.Logout)
		r.Post("/logout", authHandler.Logout)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// --- 認証が必要なルート ---

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireLogin("/auth/login"))

		r.Get("/", websiteHandler.Dashboard)

		r.Route("/manage", func(r chi.Router) {
			r.Route("/buy-option", func(r chi.Router) {
				r.Get("/", buyOptionHandler.List)
				r.Get("/new", buyOptionHandler.NewForm)
				r.Post("/new", buyOptionHandler.Create)
				r.Get("/{id}/edit", buyOptionHandler.EditForm)
				r.Post("/{id}/edit", buyOptionHandler.Update)
				r.Post("/{id}/delete", buyOptionHandler.Delete)
			})

			r.Route("/deal", func(r chi.Router) {
				r.Get("/", dealHandler.List)
				r.Get("/new", dealHandler.NewForm)
				r.Post("/new", dealHandler.Create)
				r.Get("/{id}/edit", dealHandler.EditForm)
				r.Post("/{id}/edit", dealHandler.Update)
				r.Post("/{id}/delete", dealHandler.Delete)
			})

			r.Route("/role", func(r chi.Router) {
				r.Get("/", roleHandler.List)
				r.Get("/new", roleHandler.NewForm)
				r.Post("/new", roleHandler.Create)
				r.Get("/{internal}/edit", roleHandler.EditForm)
				r.Post("/{internal}/edit", roleHandler.Update)
				r.Post("/{internal}/delete", roleHandler.Delete)
			})

			r.Route("/user", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Get("/new", userHandler.NewForm)
				r.Post("/new", userHandler.Create)
				r.Get("/{internal}/edit", userHandler.EditForm)
				r.Post("/{internal}/edit", userHandler.Update)
				r.Post("/{internal}/delete", userHandler.Delete)
			})

			r.Route("/purchase", func(r chi.Router) {
				r.Get("/", purchaseHandler.List)
				r.Post("/{id}/delete", purchaseHandler.Delete)
			})

			// ディール詳細と購入
			r.Get("/o/{url}", dealHandler.Detail)
			r.Post("/o/buy/{deal}/{option}", dealHandler.Buy)

			r.Get("/profile", userHandler.Profile)
			r.Post("/profile", userHandler.ChangePassword)
		})
	})

	return r
}
