// Package auth は上流認証APIによるログインとセッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ryanpadilha/atlas-brain/internal/backend"
	"github.com/ryanpadilha/atlas-brain/internal/model"
	"github.com/ryanpadilha/atlas-brain/internal/repository"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	ProviderSignature string
	SessionMaxAge     int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
// 資格情報の取得はバックエンドのログインエンドポイントに委譲し、
// 発行されたトークンをセッション行に保持する。
type Service struct {
	factory     *backend.Factory
	catalog     *backend.Catalog
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	factory *backend.Factory,
	catalog *backend.Catalog,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		factory:     factory,
		catalog:     catalog,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// Login は上流認証APIに資格情報を送信し、セッションを発行する。
// バックエンドに拒否された場合はErrorObjectを返す（呼び出し側がフラッシュ表示する）。
// セッション永続化等の内部障害はerrorとして返す。
func (s *Service) Login(ctx context.Context, email, password string) (*model.Session, *model.ErrorObject, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	// 1. 未ログイン資格情報でログインエンドポイントを呼び出す
	anonymous := model.EmptyCredential(s.config.ProviderSignature)
	loginRes := backend.NewLoginResource(s.factory.WithCredentials(anonymous), s.catalog)

	authResp, errObj := loginRes.Authenticate(ctx, model.AuthenticationRequest{
		Username: email,
		Password: password,
	})
	if errObj != nil {
		slog.Warn("backend rejected login",
			slog.String("username", email),
			slog.Int("status_code", errObj.StatusCode),
		)
		return nil, errObj, nil
	}

	// 2. 発行されたトークンで資格情報を組み立てる（古い資格情報は破棄される）
	credential := model.Credential{
		Provider:      s.config.ProviderSignature,
		Authorization: authResp.AccessToken,
		Expires:       authResp.ExpiresIn,
	}

	// 3. ログインユーザーを取得する
	userRes := backend.NewUserResource(s.factory.WithCredentials(credential), s.catalog)
	user, errObj := userRes.FindByUsername(ctx, email)
	if errObj != nil {
		return nil, errObj, nil
	}

	if !user.Active {
		return nil, &model.ErrorObject{
			Name:       "USER_INACTIVE",
			Message:    "user account is not active",
			StatusCode: 403,
			Timestamp:  time.Now().UnixMilli(),
			Issues:     []model.Issue{{Issue: "InactiveUserException", Message: "user " + email + " is not active"}},
		}, nil
	}

	// 4. セッションを発行する
	session, err := s.createSession(ctx, credential, authResp.AccessToken, user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("user logged in",
		slog.String("username", email),
		slog.String("internal", user.Internal),
	)

	return session, nil, nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// LoadSession はセッションIDから有効なセッションを取得する。
// トークンのクレームが不正・期限切れの場合はセッションを破棄してnilを返す。
// 欠損したセッションキーはエラーではなく「未認証」に縮退する。
func (s *Service) LoadSession(ctx context.Context, sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil || session.Data.User == nil {
		return nil, nil
	}

	if _, err := ParseClaims(session.Data.Token); err != nil {
		slog.Error("authentication token rejected",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		if delErr := s.sessionRepo.DeleteByID(ctx, sessionID); delErr != nil {
			slog.Error("failed to drop invalid session", slog.String("error", delErr.Error()))
		}
		return nil, nil
	}

	return session, nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, credential model.Credential, token string, user *model.User) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID: sessionID,
		Data: model.SessionData{
			Credential: credential,
			Token:      token,
			User:       user,
		},
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
