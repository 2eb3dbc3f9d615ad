package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// signToken はテスト用のHS256署名済みトークンを生成する。
// ParseClaimsは署名を検証しないため、鍵の中身は任意でよい。
func signToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func validClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    "atlas-auth-server",
		Audience:  jwt.ClaimStrings{"web"},
		Subject:   "maria@atlas.io",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
	}
}

func TestParseClaims_AcceptsValidToken(t *testing.T) {
	token := signToken(t, validClaims())

	claims, err := ParseClaims(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != "maria@atlas.io" {
		t.Errorf("subject = %q, want maria@atlas.io", claims.Subject)
	}
}

func TestParseClaims_RejectsWrongIssuer(t *testing.T) {
	claims := validClaims()
	claims.Issuer = "someone-else"

	if _, err := ParseClaims(signToken(t, claims)); err == nil {
		t.Error("expected error for wrong issuer")
	}
}

func TestParseClaims_RejectsWrongAudience(t *testing.T) {
	claims := validClaims()
	claims.Audience = jwt.ClaimStrings{"mobile"}

	if _, err := ParseClaims(signToken(t, claims)); err == nil {
		t.Error("expected error for wrong audience")
	}
}

func TestParseClaims_RejectsExpiredToken(t *testing.T) {
	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-1 * time.Minute))

	if _, err := ParseClaims(signToken(t, claims)); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestParseClaims_RejectsGarbage(t *testing.T) {
	if _, err := ParseClaims("not-a-jwt"); err == nil {
		t.Error("expected error for malformed token")
	}
}
