package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ryanpadilha/atlas-brain/internal/model"
)

// 各ファサードの契約:
//   - 単一取得・書き込み系は (*T, *model.ErrorObject) を返し、ちょうど一方が非nilとなる。
//   - Update/Delete は成功時nilのErrorObjectのみを返す。
//   - List系はErrorObjectを返さない。失敗は空スライスに縮退する
//     （一覧画面は「0件」に劣化し、単一・書き込み操作のみが明示的な失敗処理を要求する）。

// decodeOne は生JSONを単一のエンティティにデコードする。
func decodeOne[T any](raw json.RawMessage, url string) (*T, *model.ErrorObject) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, model.ResponseParseError(url, err)
	}
	return &v, nil
}

// decodeList は生JSONをエンティティのスライスにデコードする。順序は保存される。
// 単一オブジェクトが渡された場合は1要素のスライスを返す。
// 空ボディ・デコード不能の場合は空スライスを返す。
func decodeList[T any](raw json.RawMessage) []T {
	if len(raw) == 0 {
		return []T{}
	}

	var list []T
	if err := json.Unmarshal(raw, &list); err == nil {
		if list == nil {
			return []T{}
		}
		return list
	}

	var single T
	if err := json.Unmarshal(raw, &single); err == nil {
		return []T{single}
	}

	return []T{}
}

// marshalBody はエンティティをリクエストボディに直列化する。
func marshalBody(v any, url string) ([]byte, *model.ErrorObject) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, model.ResponseParseError(url, err)
	}
	return data, nil
}

// LoginResource は認証エンドポイントへのファサード。
type LoginResource struct {
	client  *Client
	catalog *Catalog
}

// NewLoginResource はLoginResourceを生成する。
func NewLoginResource(client *Client, catalog *Catalog) *LoginResource {
	return &LoginResource{client: client, catalog: catalog}
}

// Authenticate は資格情報をバックエンドに送信し、発行されたトークンを返す。
func (r *LoginResource) Authenticate(ctx context.Context, req model.AuthenticationRequest) (*model.AuthenticationResponse, *model.ErrorObject) {
	url := r.catalog.User.Login.URL()
	body, errObj := marshalBody(req, url)
	if errObj != nil {
		return nil, errObj
	}
	raw, errObj := r.client.Invoke(ctx, http.MethodPost, url, body)
	if errObj != nil {
		return nil, errObj
	}
	return decodeOne[model.AuthenticationResponse](raw, url)
}

// UserResource は操作ユーザーエンティティのCRUDファサード。
type UserResource struct {
	client  *Client
	catalog *Catalog
}

// NewUserResource はUserResourceを生成する。
func NewUserResource(client *Client, catalog *Catalog) *UserResource {
	return &UserResource{client: client, catalog: catalog}
}

// List は全ユーザーを返す。失敗時は空スライス。
func (r *UserResource) List(ctx context.Context) []model.User {
	raw, errObj := r.client.Invoke(ctx, http.MethodGet, r.catalog.User.List.URL(), nil)
	if errObj != nil {
		return []model.User{}
	}
	return decodeList[model.User](raw)
}

// GetByInternal は内部IDでユーザーを取得する。
func (r *UserResource) GetByInternal(ctx context.Context, internal string) (*model.User, *model.ErrorObject) {
	url := r.catalog.User.GetByInternal.URL(internal)
	raw, errObj := r.client.Invoke(ctx, http.MethodGet, url, nil)
	if errObj != nil {
		return nil, errObj
	}
	return decodeOne[model.User](raw, url)
}

// FindByUsername はユーザー名でユーザーを検索する。
func (r *UserResource) FindByUsername(ctx context.Context, username string) (*model.User, *model.ErrorObject) {
	url := r.catalog.User.FindByUsername.URL(username)
	raw, errObj := r.client.Invoke(ctx, http.MethodGet, url, nil)
	if errObj != nil {
		return nil, errObj
	}
	return decodeOne[model.User](raw, url)
}

// Persist は新規ユーザーを永続化し、バックエンドが補完したユーザーを返す。
func (r *UserResource) Persist(ctx context.Context, user *model.User) (*model.User, *model.ErrorObject) {
	url := r.catalog.User.Persist.URL()
	body, errObj := marshalBody(user, url)
	if errObj != nil {
		return nil, errObj
	}
	raw, errObj := r.client.Invoke(ctx, http.MethodPost, url, body)
	if errObj != nil {
		return nil, errObj
	}
	return decodeOne[model.User](raw, url)
}

// Update は既存ユーザーを更新する。成功時はnilを返す。
func (r *UserResource) Update(ctx context.Context, internal string, user *model.User) *model.ErrorObject {
	url := r.catalog.User.Update.URL(internal)
	body, errObj := marshalBody(user, url)
	if errObj != nil {
		return errObj
	}
	_, errObj = r.client.Invoke(ctx, http.MethodPut, url, body)
	return errObj
}

// Delete は指定ユーザーを削除する。成功時はnilを返す。
func (r *UserResource) Delete(ctx context.Context, internal string) *model.ErrorObject {
	_, errObj := r.client.Invoke(ctx, http.MethodDelete, r.catalog.User.Delete.URL(internal), nil)
	return errObj
}

// RoleResource はロールエンティティのCRUDファサード。
type RoleResource struct {
	client  *Client
	catalog *Catalog
}

// NewRoleResource はRoleResourceを生成する。
func NewRoleResource(client *Client, catalog *Catalog) *RoleResource {
	return &RoleResource{client: client, catalog: catalog}
}

// List は全ロールを返す。失敗時は空スライス。
func (r *RoleResource) List(ctx context.Context) []model.Role {
	raw, errObj := r.client.Invoke(ctx, http.MethodGet, r.catalog.Role.List.URL(), nil)
	if errObj != nil {
		return []model.Role{}
	}
	return decodeList[model.Role](raw)
}

// GetByInternal は内部IDでロールを取得する。
func (r *RoleResource) GetByInternal(ctx context.Context, internal string) (*model.Role, *model.ErrorObject) {
	url := r.catalog.Role.GetByInternal.URL(internal)
	raw, errObj := r.client.Invoke(ctx, http.MethodGet, url, nil)
	if errObj != nil {
		return nil, errObj
	}
	return decodeOne[model.Role](raw, url)
}

// Persist は新規ロールを永続化する。
func (r *RoleResource) Persist(ctx context.Context, role *model.Role) (*model.Role, *model.ErrorObject) {
	url := r.catalog.Role.Persist.URL()
	body, errObj := marshalBody(role, url)
	if errObj != nil {
		return nil, errObj
	}
	raw, errObj := r.client.Invoke(ctx, http.MethodPost, url, body)
	if errObj != nil {
		return nil, errObj
	}
	return decodeOne[model.Role](raw, url)
}

// Update は既存ロールを更新する。成功時はnilを返す。
func (r *RoleResource) Update(ctx context.Context, internal string, role *model.Role) *model.ErrorObject {
	url := r.catalog.Role.Update.URL(internal)
	body, errObj := marshalBody(role, url)
	if errObj != nil {
		return errObj
	}
	_, errObj = r.client.Invoke(ctx, http.MethodPut, url, body)
	return errObj
}

// Delete は指定ロールを削除する。成功時はnilを返す。
func (r *RoleResource) Delete(ctx context.Context, internal string) *model.ErrorObject {
	_, errObj := r.client.Invoke(ctx, http.MethodDelete, r.catalog.Role.Delete.URL(internal), nil)
	return errObj
}

// BuyOptionResource は購入オプションエンティティのCRUDファサード。
type BuyOptionResource struct {
	client  *Client
	catalog *Catalog
}

// NewBuyOptionResource はBuyOptionResourceを生成する。
func NewBuyOptionResource(client *Client, catalog *Catalog) *BuyOptionResource {
	return &BuyOptionResource{client: client, catalog: catalog}
}

// List は全購入オプションを返す。失敗時は空スライス。
func (r *BuyOptionResource) List(ctx context.Context) []model.BuyOption {
	raw, errObj := r.client.Invoke(ctx, http.MethodGet, r.catalog.BuyOption.List.URL(), nil)
	if errObj != nil {
		return []model.BuyOption{}
	}
	return decodeList[model.BuyOption](raw)
}

// ListAllAvailable は販売可能な購入オプションのみを返す。失敗時は空スライス。
func (r *BuyOptionResource) ListAllAvailable(ctx context.Context) []model.BuyOption {
	raw, errObj := r.client.Invoke(ctx, http.MethodGet, r.catalog.BuyOption.ListAllAvailable.URL(), nil)
	if errObj != nil {
		return []model.BuyOption{}
	}
	return decodeList[model.BuyOption](raw)
}

// GetByID はIDで購入オプションを取得する。
func (r *BuyOptionResource) GetByID(ctx context.Context, id string) (*model.BuyOption, *model.ErrorObject) {
	url := r.catalog.BuyOption.GetByID.URL(id)
	raw, errObj := r.client.Invoke(ctx, http.MethodGet, url, nil)
	if errObj != nil {
		return nil, errObj
	}
	return decodeOne[model.BuyOption](raw, url)
}

// Persist は新規購入オプションを永続化する。
func (r *BuyOptionResource) Persist(ctx context.Context, option *model.BuyOption) (*model.BuyOption, *model.ErrorObject) {
	url := r.catalog.BuyOption.Persist.URL()
	body, errObj := marshalBody(option, url)
	if errObj != nil {
		return nil, errObj
	}
	raw, errObj := r.client.Invoke(ctx, http.MethodPost, url, body)
	if errObj != nil {
		return nil, errObj
	}
	return decodeOne[model.BuyOption](raw, url)
}

// Update は既存購入オプションを更新する。成功時はnilを返す。
func (r *BuyOptionResource) Update(ctx context.Context, id string, option *model.BuyOption) *model.ErrorObject {
	url := r.catalog.BuyOption.Update.URL(id)
	body, errObj := marshalBody(option, url)
	if errObj != nil {
		return errObj
	}
	_, errObj = r.client.Invoke(ctx, http.MethodPut, url, body)
	return errObj
}

// Delete は指定購入オプションを削除する。成功時はnilを返す。
func (r *BuyOptionResource) Delete(ctx context.Context, id string) *model.ErrorObject {
	_, errObj := r.client.Invoke(ctx, http.MethodDelete, r.catalog.BuyOption.Delete.URL(id), nil)
	return errObj
}

// DealResource はディールエンティティのCRUDファサード。
type DealResource struct {
	client  *Client
	catalog *Catalog
}

// NewDealResource はDealResourceを生成する。
func NewDealResource(client *Client, catalog *Catalog) *DealResource {
	return &DealResource{client: client, catalog: catalog}
}

// List は全ディールを返す。失敗時は空スライス。
func (r *DealResource) List(ctx context.Context) []model.Deal {
	raw, errObj := r.client.Invoke(ctx, http.MethodGet, r.catalog.Deal.List.URL(), nil)
	if errObj != nil {
		return []model.Deal{}
	}
	return decodeList[model.Deal](raw)
}

// ListAllAvailable は公開中のディールのみを返す。失敗時は空スライス。
func (r *DealResource) ListAllAvailable(ctx context.Context) []model.Deal {
	raw, errObj := r.client.Invoke(ctx, http.MethodGet, r.catalog.Deal.ListAllAvailable.URL(), nil)
	if errObj != nil {
		return []model.Deal{}
	}
	return decodeList[model.Deal](raw)
}

// GetByID はIDでディールを取得する。
func (r *DealResource) GetByID(ctx context.Context, id string) (*model.Deal, *model.ErrorObject) {
	url := r.catalog.Deal.GetByID.URL(id)
	raw, errObj := r.client.Invoke(ctx, http.MethodGet, url, nil)
	if errObj != nil {
		return nil, errObj
	}
	return decodeOne[model.Deal](raw, url)
}

// GetByURL はスラグでディールを取得する。
func (r *DealResource) GetByURL(ctx context.Context, slug string) (*model.Deal, *model.ErrorObject) {
	url := r.catalog.Deal.GetByURL.URL(slug)
	raw, errObj := r.client.Invoke(ctx, http.MethodGet, url, nil)
	if errObj != nil {
		return nil, errObj
	}
	return decodeOne[model.Deal](raw, url)
}

// Persist は新規ディールを永続化する。
func (r *DealResource) Persist(ctx context.Context, deal *model.Deal) (*model.Deal, *model.ErrorObject) {
	url := r.catalog.Deal.Persist.URL()
	body, errObj := marshalBody(deal, url)
	if errObj != nil {
		return nil, errObj
	}
	raw, errObj := r.client.Invoke(ctx, http.MethodPost, url, body)
	if errObj != nil {
		return nil, errObj
	}
	return decodeOne[model.Deal](raw, url)
}

// Update は既存ディールを更新する。成功時はnilを返す。
func (r *DealResource) Update(ctx context.Context, id string, deal *model.Deal) *model.ErrorObject {
	url := r.catalog.Deal.Update.URL(id)
	body, errObj := marshalBody(deal, url)
	if errObj != nil {
		return errObj
	}
	_, errObj = r.client.Invoke(ctx, http.MethodPut, url, body)
	return errObj
}

// Delete は指定ディールを削除する。成功時はnilを返す。
func (r *DealResource) Delete(ctx context.Context, id string) *model.ErrorObject {
	_, errObj := r.client.Invoke(ctx, http.MethodDelete, r.catalog.Deal.Delete.URL(id), nil)
	return errObj
}

// PurchaseResource は購入エンティティのCRUDファサード。
type PurchaseResource struct {
	client  *Client
	catalog *Catalog
}

// NewPurchaseResource はPurchaseResourceを生成する。
func NewPurchaseResource(client *Client, catalog *Catalog) *PurchaseResource {
	return &PurchaseResource{client: client, catalog: catalog}
}

// List は全購入を返す。失敗時は空スライス。
func (r *PurchaseResource) List(ctx context.Context) []model.Purchase {
	raw, errObj := r.client.Invoke(ctx, http.MethodGet, r.catalog.Purchase.List.URL(), nil)
	if errObj != nil {
		return []model.Purchase{}
	}
	return decodeList[model.Purchase](raw)
}

// GetByID はIDで購入を取得する。
func (r *PurchaseResource) GetByID(ctx context.Context, id string) (*model.Purchase, *model.ErrorObject) {
	url := r.catalog.Purchase.GetByID.URL(id)
	raw, errObj := r.client.Invoke(ctx, http.MethodGet, url, nil)
	if errObj != nil {
		return nil, errObj
	}
	return decodeOne[model.Purchase](raw, url)
}

// Persist は新規購入を永続化する。
func (r *PurchaseResource) Persist(ctx context.Context, purchase *model.Purchase) (*model.Purchase, *model.ErrorObject) {
	url := r.catalog.Purchase.Persist.URL()
	body, errObj := marshalBody(purchase, url)
	if errObj != nil {
		return nil, errObj
	}
	raw, errObj := r.client.Invoke(ctx, http.MethodPost, url, body)
	if errObj != nil {
		return nil, errObj
	}
	return decodeOne[model.Purchase](raw, url)
}

// Update は既存購入を更新する。成功時はnilを返す。
func (r *PurchaseResource) Update(ctx context.Context, id string, purchase *model.Purchase) *model.ErrorObject {
	url := r.catalog.Purchase.Update.URL(id)
	body, errObj := marshalBody(purchase, url)
	if errObj != nil {
		return errObj
	}
	_, errObj = r.client.Invoke(ctx, http.MethodPut, url, body)
	return errObj
}

// Delete は指定購入を削除する。成功時はnilを返す。
func (r *PurchaseResource) Delete(ctx context.Context, id string) *model.ErrorObject {
	_, errObj := r.client.Invoke(ctx, http.MethodDelete, r.catalog.Purchase.Delete.URL(id), nil)
	return errObj
}
