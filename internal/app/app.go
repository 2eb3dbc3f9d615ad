// Package app はアプリケーションの初期化・起動・終了を司る。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ryanpadilha/atlas-brain/internal/auth"
	"github.com/ryanpadilha/atlas-brain/internal/backend"
	"github.com/ryanpadilha/atlas-brain/internal/config"
	"github.com/ryanpadilha/atlas-brain/internal/database"
	"github.com/ryanpadilha/atlas-brain/internal/handler"
	"github.com/ryanpadilha/atlas-brain/internal/logger"
	"github.com/ryanpadilha/atlas-brain/internal/metrics"
	"github.com/ryanpadilha/atlas-brain/internal/middleware"
	"github.com/ryanpadilha/atlas-brain/internal/repository"
	"github.com/ryanpadilha/atlas-brain/internal/security"
	"github.com/ryanpadilha/atlas-brain/internal/worker/cleanup"
)

// Init はアプリケーションの初期化を行う。
// JSON構造化ログをセットアップし、指定モードの設定を読み込む。
func Init(w io.Writer, mode string) (*config.Config, error) {
	// 設定読み込み前にログを使えるようにする
	logger.SetupDefault(w)

	cfg, err := config.Load(mode)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドとモードを解析し、対応する処理を起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd, mode := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w, mode)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("mode", cfg.Mode),
		slog.String("port", cfg.ServerPort),
		slog.String("backend", cfg.APIURLBackend),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe は管理画面サーバーモードで起動する。
// セッションDB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. セッションDB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	sessionRepo := repository.NewPostgresSessionRepo(db)

	// 2. メトリクス
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 3. バックエンド統合クライアント
	catalog, err := backend.NewCatalog(cfg.APIURLBackend)
	if err != nil {
		return fmt.Errorf("failed to build endpoint catalog: %w", err)
	}

	factory := backend.NewFactory(backend.FactoryConfig{
		Timeout:            cfg.BackendTimeout,
		InsecureSkipVerify: cfg.BackendInsecureSkipVerify,
	}, slog.Default(), collector)

	// 4. 認証サービス
	authService := auth.NewService(factory, catalog, sessionRepo, auth.ServiceConfig{
		ProviderSignature: cfg.ProviderSignature,
		SessionMaxAge:     cfg.SessionMaxAge,
	})

	// 5. 描画
	renderer, err := handler.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	sanitizer := security.NewContentSanitizer()

	// 6. 期限切れセッションの定期削除
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()

	cleanupJob := cleanup.NewCleanupJob(sessionRepo, slog.Default())
	if err := cleanupJob.Run(cleanupCtx); err != nil {
		slog.Error("initial session cleanup failed", slog.String("error", err.Error()))
	}
	cleanupJob.Start(cleanupCtx, cfg.SessionCleanupInterval)

	// 7. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig(cfg.RateLimitGeneral))
	defer rateLimiter.Stop()

	router := handler.NewRouter(&handler.RouterDeps{
		Factory:           factory,
		Catalog:           catalog,
		ProviderSignature: cfg.ProviderSignature,

		AuthService:   authService,
		SessionLoader: authService,
		AuthConfig: handler.AuthHandlerConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
			CookieMaxAge: cfg.SessionMaxAge,
		},

		SessionRepo: sessionRepo,

		Renderer:  renderer,
		Sanitizer: sanitizer,

		RateLimiter: rateLimiter,
		Logger:      slog.Default(),

		MetricsHandler: metrics.Handler(registry),
	})

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("admin server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down admin server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("admin server stopped gracefully")
	return nil
}

// runMigrate はセッションDBのマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /healthz エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/healthz", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
