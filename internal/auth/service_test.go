package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ryanpadilha/atlas-brain/internal/backend"
	"github.com/ryanpadilha/atlas-brain/internal/model"
)

// --- モック定義 ---

// fakeSessionRepo はインメモリのセッションリポジトリ。
type fakeSessionRepo struct {
	sessions  map[string]*model.Session
	createErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*model.Session)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	session, ok := r.sessions[id]
	if !ok || session.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}
	return session, nil
}

func (r *fakeSessionRepo) UpdateData(ctx context.Context, id string, data model.SessionData) error {
	if session, ok := r.sessions[id]; ok {
		session.Data = data
	}
	return nil
}

func (r *fakeSessionRepo) DeleteByID(ctx context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	var count int64
	for id, session := range r.sessions {
		if session.ExpiresAt.Before(time.Now()) {
			delete(r.sessions, id)
			count++
		}
	}
	return count, nil
}

// --- テストヘルパー ---

func testAccessToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "atlas-auth-server",
		Audience:  jwt.ClaimStrings{"web"},
		Subject:   "maria@atlas.io",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
	})
	signed, err := token.SignedString([]byte("upstream-key"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

// fakeBackend はログインとユーザー検索に応答するバックエンドのスタブを起動する。
func fakeBackend(t *testing.T, accessToken string, user *model.User, rejectLogin bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if rejectLogin {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"name":"AUTHENTICATION_REQUIRED_ERROR","message":"Bad credentials","status_code":401}`))
			return
		}

		var req model.AuthenticationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode login payload: %v", err)
		}
		json.NewEncoder(w).Encode(model.AuthenticationResponse{
			AccessToken: accessToken,
			ExpiresIn:   3600,
		})
	})

	mux.HandleFunc("/api/v1/auth/users/search/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(user)
	})

	return httptest.NewServer(mux)
}

func newTestService(t *testing.T, backendURL string, repo *fakeSessionRepo) *Service {
	t.Helper()
	catalog, err := backend.NewCatalog(backendURL)
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	factory := backend.NewFactory(backend.FactoryConfig{Timeout: 5 * time.Second}, logger, nil)

	return NewService(factory, catalog, repo, ServiceConfig{
		ProviderSignature: "atlas-web",
		SessionMaxAge:     3600,
	})
}

// --- テスト ---

func TestService_Login_CreatesSession(t *testing.T) {
	token := testAccessToken(t)
	user := &model.User{Internal: "u-1", Username: "maria@atlas.io", UserEmail: "maria@atlas.io", Active: true}
	server := fakeBackend(t, token, user, false)
	defer server.Close()

	repo := newFakeSessionRepo()
	service := newTestService(t, server.URL, repo)

	session, errObj, err := service.Login(context.Background(), "Maria@Atlas.IO", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if errObj != nil {
		t.Fatalf("unexpected ErrorObject: %+v", errObj)
	}
	if session == nil {
		t.Fatal("expected session")
	}

	// 資格情報はログインで発行されたトークンを運ぶ
	if session.Data.Credential.Authorization != token {
		t.Error("credential does not carry issued access token")
	}
	if session.Data.Credential.Provider != "atlas-web" {
		t.Errorf("provider = %q, want atlas-web", session.Data.Credential.Provider)
	}
	if session.Data.User == nil || session.Data.User.Internal != "u-1" {
		t.Errorf("session user = %+v, want u-1", session.Data.User)
	}

	// セッションは永続化される
	if _, ok := repo.sessions[session.ID]; !ok {
		t.Error("session was not persisted")
	}
}

func TestService_Login_BackendRejectionReturnsErrorObject(t *testing.T) {
	server := fakeBackend(t, "", nil, true)
	defer server.Close()

	repo := newFakeSessionRepo()
	service := newTestService(t, server.URL, repo)

	session, errObj, err := service.Login(context.Background(), "maria@atlas.io", "wrong")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session != nil {
		t.Errorf("session = %+v, want nil", session)
	}
	if errObj == nil {
		t.Fatal("expected ErrorObject")
	}
	if errObj.StatusCode != 401 {
		t.Errorf("status_code = %d, want 401", errObj.StatusCode)
	}
	if len(repo.sessions) != 0 {
		t.Error("no session should be persisted on rejection")
	}
}

func TestService_Login_InactiveUserIsRejected(t *testing.T) {
	token := testAccessToken(t)
	user := &model.User{Internal: "u-2", Username: "inactive@atlas.io", Active: false}
	server := fakeBackend(t, token, user, false)
	defer server.Close()

	repo := newFakeSessionRepo()
	service := newTestService(t, server.URL, repo)

	session, errObj, err := service.Login(context.Background(), "inactive@atlas.io", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session != nil {
		t.Errorf("session = %+v, want nil", session)
	}
	if errObj == nil || errObj.Name != "USER_INACTIVE" {
		t.Errorf("errObj = %+v, want USER_INACTIVE", errObj)
	}
}

func TestService_LoadSession_ReturnsValidSession(t *testing.T) {
	token := testAccessToken(t)
	repo := newFakeSessionRepo()
	repo.sessions["s-1"] = &model.Session{
		ID: "s-1",
		Data: model.SessionData{
			Credential: model.Credential{Provider: "atlas-web", Authorization: token},
			Token:      token,
			User:       &model.User{Internal: "u-1", Active: true},
		},
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}

	service := newTestService(t, "http://backend.invalid", repo)

	session, err := service.LoadSession(context.Background(), "s-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session == nil || session.ID != "s-1" {
		t.Errorf("session = %+v, want s-1", session)
	}
}

func TestService_LoadSession_MissingKeyDegradesToAnonymous(t *testing.T) {
	repo := newFakeSessionRepo()
	service := newTestService(t, "http://backend.invalid", repo)

	tests := []struct {
		name      string
		sessionID string
	}{
		{"empty id", ""},
		{"unknown id", "does-not-exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := service.LoadSession(context.Background(), tt.sessionID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if session != nil {
				t.Errorf("session = %+v, want nil", session)
			}
		})
	}
}

func TestService_LoadSession_InvalidTokenDropsSession(t *testing.T) {
	// 異なる発行者のトークンを持つセッションは破棄される
	badToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:   "rogue-issuer",
		Audience: jwt.ClaimStrings{"web"},
	})
	signed, err := badToken.SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	repo := newFakeSessionRepo()
	repo.sessions["s-2"] = &model.Session{
		ID: "s-2",
		Data: model.SessionData{
			Token: signed,
			User:  &model.User{Internal: "u-1"},
		},
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}

	service := newTestService(t, "http://backend.invalid", repo)

	session, loadErr := service.LoadSession(context.Background(), "s-2")
	if loadErr != nil {
		t.Fatalf("unexpected error: %v", loadErr)
	}
	if session != nil {
		t.Errorf("session = %+v, want nil", session)
	}
	if _, ok := repo.sessions["s-2"]; ok {
		t.Error("invalid session should be deleted")
	}
}

func TestService_Logout_DeletesSession(t *testing.T) {
	repo := newFakeSessionRepo()
	repo.sessions["s-3"] = &model.Session{ID: "s-3", ExpiresAt: time.Now().Add(time.Hour)}

	service := newTestService(t, "http://backend.invalid", repo)

	if err := service.Logout(context.Background(), "s-3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.sessions["s-3"]; ok {
		t.Error("session should be deleted")
	}
}
