package backend

import (
	"strings"
	"testing"
)

func TestNewCatalog_BuildsEndpointURLs(t *testing.T) {
	catalog, err := NewCatalog("http://backend:9000/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"login", catalog.User.Login.URL(), "http://backend:9000/api/v1/auth/login"},
		{"user search", catalog.User.FindByUsername.URL("ops@atlas.io"), "http://backend:9000/api/v1/auth/users/search/?username=ops@atlas.io"},
		{"user by internal", catalog.User.GetByInternal.URL("u-1"), "http://backend:9000/api/v1/auth/users/u-1"},
		{"roles", catalog.Role.List.URL(), "http://backend:9000/api/v1/auth/roles"},
		{"buy options available", catalog.BuyOption.ListAllAvailable.URL(), "http://backend:9000/api/v1/buy-options/all-available"},
		{"deal by slug", catalog.Deal.GetByURL.URL("pizza-em-dobro"), "http://backend:9000/api/v1/deals/slug/pizza-em-dobro"},
		{"purchase by id", catalog.Purchase.GetByID.URL("p-9"), "http://backend:9000/api/v1/purchases/p-9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("URL = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestEndpoint_URL_EscapesPathArguments(t *testing.T) {
	catalog, err := NewCatalog("http://backend:9000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := catalog.Deal.GetByURL.URL("a/b c")
	if strings.Contains(got, " ") || strings.Contains(got, "/a/b") {
		t.Errorf("URL = %q, want path-escaped argument", got)
	}
	if !strings.HasSuffix(got, "/api/v1/deals/slug/a%2Fb%20c") {
		t.Errorf("URL = %q, want suffix /api/v1/deals/slug/a%%2Fb%%20c", got)
	}
}

func TestCatalog_Validate_RejectsPlaceholderMismatch(t *testing.T) {
	catalog, err := NewCatalog("http://backend:9000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// テンプレートと宣言アリティの不一致は検証で弾かれる
	catalog.Deal.GetByURL = Endpoint{template: "http://backend:9000/api/v1/deals/slug/%s", params: 2}
	if err := catalog.validate(); err == nil {
		t.Error("expected validation error for placeholder mismatch")
	}
}
