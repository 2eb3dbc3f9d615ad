package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ryanpadilha/atlas-brain/internal/model"
)

func testResources(t *testing.T, serverURL string) (*Client, *Catalog) {
	t.Helper()
	catalog, err := NewCatalog(serverURL)
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	client, _ := testClient(t, model.EmptyCredential("atlas-web"))
	return client, catalog
}

func TestDecodeList_PreservesOrder(t *testing.T) {
	raw := json.RawMessage(`[{"id":"1"},{"id":"2"},{"id":"3"}]`)

	got := decodeList[model.BuyOption](raw)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"1", "2", "3"} {
		if got[i].ID != want {
			t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, want)
		}
	}
}

func TestDecodeList_SingleObjectBecomesOneElementSlice(t *testing.T) {
	// 単一オブジェクトのレスポンスは破棄せず1要素のリストにする
	raw := json.RawMessage(`{"id":"only-one","title":"half price"}`)

	got := decodeList[model.BuyOption](raw)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].ID != "only-one" {
		t.Errorf("ID = %q, want only-one", got[0].ID)
	}
}

func TestDecodeList_EmptyAndInvalidInputsDegradeToEmptySlice(t *testing.T) {
	tests := []struct {
		name string
		raw  json.RawMessage
	}{
		{"empty body", json.RawMessage{}},
		{"null", json.RawMessage(`null`)},
		{"garbage", json.RawMessage(`not json`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeList[model.Deal](tt.raw)
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if len(got) != 0 {
				t.Errorf("len = %d, want 0", len(got))
			}
		})
	}
}

func TestBuyOptionResource_Persist_ReturnsCreatedEntity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/buy-options" {
			t.Errorf("request = %s %s, want POST /api/v1/buy-options", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"abc123","title":"metade do preco"}`))
	}))
	defer server.Close()

	client, catalog := testResources(t, server.URL)
	resource := NewBuyOptionResource(client, catalog)

	created, errObj := resource.Persist(context.Background(), &model.BuyOption{Title: "metade do preco"})
	if errObj != nil {
		t.Fatalf("unexpected error: %+v", errObj)
	}
	if created.ID != "abc123" {
		t.Errorf("ID = %q, want abc123", created.ID)
	}
}

func TestDealResource_ListAllAvailable_UnauthorizedDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"name":"UNAUTHORIZED","message":"full authentication required","status_code":401}`))
	}))
	defer server.Close()

	client, catalog := testResources(t, server.URL)
	resource := NewDealResource(client, catalog)

	// List系は失敗を空スライスに縮退させ、ErrorObjectを返さない
	got := resource.ListAllAvailable(context.Background())
	if got == nil {
		t.Fatal("expected non-nil slice")
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestDealResource_GetByID_PropagatesErrorObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"name":"NOT_FOUND","message":"deal not found","status_code":404}`))
	}))
	defer server.Close()

	client, catalog := testResources(t, server.URL)
	resource := NewDealResource(client, catalog)

	deal, errObj := resource.GetByID(context.Background(), "missing")
	if deal != nil {
		t.Errorf("deal = %+v, want nil", deal)
	}
	if errObj == nil {
		t.Fatal("expected ErrorObject")
	}
	if errObj.Name != "NOT_FOUND" || errObj.StatusCode != 404 {
		t.Errorf("errObj = %+v, want NOT_FOUND/404", errObj)
	}
}

func TestUserResource_Update_ReturnsNilOnSuccess(t *testing.T) {
	var gotMethod, gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, catalog := testResources(t, server.URL)
	resource := NewUserResource(client, catalog)

	errObj := resource.Update(context.Background(), "u-42", &model.User{Name: "Maria"})
	if errObj != nil {
		t.Fatalf("unexpected error: %+v", errObj)
	}
	if gotMethod != http.MethodPut || gotPath != "/api/v1/auth/users/u-42" {
		t.Errorf("request = %s %s, want PUT /api/v1/auth/users/u-42", gotMethod, gotPath)
	}
}

func TestRoleResource_Delete_PropagatesErrorObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"name":"ROLE_IN_USE","message":"role has users","status_code":409}`))
	}))
	defer server.Close()

	client, catalog := testResources(t, server.URL)
	resource := NewRoleResource(client, catalog)

	errObj := resource.Delete(context.Background(), "r-1")
	if errObj == nil {
		t.Fatal("expected ErrorObject")
	}
	if errObj.Name != "ROLE_IN_USE" {
		t.Errorf("name = %q, want ROLE_IN_USE", errObj.Name)
	}
}

func TestDealResource_Persist_SendsOptionIDReferences(t *testing.T) {
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"d-1"}`))
	}))
	defer server.Close()

	client, catalog := testResources(t, server.URL)
	resource := NewDealResource(client, catalog)

	deal := &model.Deal{
		Title:     "pizza em dobro",
		OptionIDs: []string{"bo-1", "bo-2"},
	}
	if _, errObj := resource.Persist(context.Background(), deal); errObj != nil {
		t.Fatalf("unexpected error: %+v", errObj)
	}

	// 永続化ペイロードはIDの参照リストを運ぶ
	options, ok := gotBody["options"].([]any)
	if !ok || len(options) != 2 {
		t.Fatalf("options = %v, want two id references", gotBody["options"])
	}
	if options[0] != "bo-1" || options[1] != "bo-2" {
		t.Errorf("options = %v, want [bo-1 bo-2]", options)
	}
}
