// Package backend はバックエンドREST APIとの統合レイヤを提供する。
// エンドポイントカタログ、HTTP統合クライアント、エンティティ別リソースファサードを含む。
package backend

import (
	"fmt"
	"net/url"
	"strings"
)

// Endpoint は1つの論理操作に対応するURLテンプレートを表す。
// テンプレートのパスパラメータは%sプレースホルダで表現する。
type Endpoint struct {
	template string
	params   int
}

// URL はテンプレートのプレースホルダを引数で展開した完全なURLを返す。
// 引数はパスセグメントとしてエスケープされる。
// 引数の数はカタログ構築時に検証済みのため、ここでは検証しない。
func (e Endpoint) URL(args ...string) string {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = url.PathEscape(a)
	}
	return fmt.Sprintf(e.template, escaped...)
}

// UserEndpoints はユーザーエンティティの操作別URLテンプレート。
type UserEndpoints struct {
	Login          Endpoint
	FindByUsername Endpoint
	List           Endpoint
	GetByInternal  Endpoint
	Persist        Endpoint
	Update         Endpoint
	Delete         Endpoint
}

// RoleEndpoints はロールエンティティの操作別URLテンプレート。
type RoleEndpoints struct {
	List          Endpoint
	GetByInternal Endpoint
	Persist       Endpoint
	Update        Endpoint
	Delete        Endpoint
}

// BuyOptionEndpoints は購入オプションエンティティの操作別URLテンプレート。
type BuyOptionEndpoints struct {
	List             Endpoint
	ListAllAvailable Endpoint
	GetByID          Endpoint
	Persist          Endpoint
	Update           Endpoint
	Delete           Endpoint
}

// DealEndpoints はディールエンティティの操作別URLテンプレート。
type DealEndpoints struct {
	List             Endpoint
	ListAllAvailable Endpoint
	GetByID          Endpoint
	GetByURL         Endpoint
	Persist          Endpoint
	Update           Endpoint
	Delete           Endpoint
}

// PurchaseEndpoints は購入エンティティの操作別URLテンプレート。
type PurchaseEndpoints struct {
	List    Endpoint
	GetByID Endpoint
	Persist Endpoint
	Update  Endpoint
	Delete  Endpoint
}

// Catalog はエンティティ種別ごとのエンドポイントマッピングを保持する。
// ベースURLは設定から構築時に1度だけ注入される。
type Catalog struct {
	User      UserEndpoints
	Role      RoleEndpoints
	BuyOption BuyOptionEndpoints
	Deal      DealEndpoints
	Purchase  PurchaseEndpoints
}

// NewCatalog はベースURLからカタログを構築する。
// 各テンプレートのプレースホルダ数が操作のアリティと一致することを起動時に検証し、
// 不一致があればエラーを返す（実行時の呼び出しでは検証しない）。
func NewCatalog(baseURL string) (*Catalog, error) {
	base := strings.TrimRight(baseURL, "/")

	ep := func(path string, params int) Endpoint {
		return Endpoint{template: base + path, params: params}
	}

	c := &Catalog{
		User: UserEndpoints{
			Login:          ep("/api/v1/auth/login", 0),
			FindByUsername: ep("/api/v1/auth/users/search/?username=%s", 1),
			List:           ep("/api/v1/auth/users", 0),
			GetByInternal:  ep("/api/v1/auth/users/%s", 1),
			Persist:        ep("/api/v1/auth/users", 0),
			Update:         ep("/api/v1/auth/users/%s", 1),
			Delete:         ep("/api/v1/auth/users/%s", 1),
		},
		Role: RoleEndpoints{
			List:          ep("/api/v1/auth/roles", 0),
			GetByInternal: ep("/api/v1/auth/roles/%s", 1),
			Persist:       ep("/api/v1/auth/roles", 0),
			Update:        ep("/api/v1/auth/roles/%s", 1),
			Delete:        ep("/api/v1/auth/roles/%s", 1),
		},
		BuyOption: BuyOptionEndpoints{
			List:             ep("/api/v1/buy-options", 0),
			ListAllAvailable: ep("/api/v1/buy-options/all-available", 0),
			GetByID:          ep("/api/v1/buy-options/%s", 1),
			Persist:          ep("/api/v1/buy-options", 0),
			Update:           ep("/api/v1/buy-options/%s", 1),
			Delete:           ep("/api/v1/buy-options/%s", 1),
		},
		Deal: DealEndpoints{
			List:             ep("/api/v1/deals", 0),
			ListAllAvailable: ep("/api/v1/deals/all-available", 0),
			GetByID:          ep("/api/v1/deals/%s", 1),
			GetByURL:         ep("/api/v1/deals/slug/%s", 1),
			Persist:          ep("/api/v1/deals", 0),
			Update:           ep("/api/v1/deals/%s", 1),
			Delete:           ep("/api/v1/deals/%s", 1),
		},
		Purchase: PurchaseEndpoints{
			List:    ep("/api/v1/purchases", 0),
			GetByID: ep("/api/v1/purchases/%s", 1),
			Persist: ep("/api/v1/purchases", 0),
			Update:  ep("/api/v1/purchases/%s", 1),
			Delete:  ep("/api/v1/purchases/%s", 1),
		},
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// validate は全テンプレートのプレースホルダ数を検証する。
func (c *Catalog) validate() error {
	all := []struct {
		name string
		e    Endpoint
	}{
		{"user.login", c.User.Login},
		{"user.find_by_username", c.User.FindByUsername},
		{"user.list", c.User.List},
		{"user.get_by_internal", c.User.GetByInternal},
		{"user.persist", c.User.Persist},
		{"user.update", c.User.Update},
		{"user.delete", c.User.Delete},
		{"role.list", c.Role.List},
		{"role.get_by_internal", c.Role.GetByInternal},
		{"role.persist", c.Role.Persist},
		{"role.update", c.Role.Update},
		{"role.delete", c.Role.Delete},
		{"buy_option.list", c.BuyOption.List},
		{"buy_option.list_all_available", c.BuyOption.ListAllAvailable},
		{"buy_option.get_by_id", c.BuyOption.GetByID},
		{"buy_option.persist", c.BuyOption.Persist},
		{"buy_option.update", c.BuyOption.Update},
		{"buy_option.delete", c.BuyOption.Delete},
		{"deal.list", c.Deal.List},
		{"deal.list_all_available", c.Deal.ListAllAvailable},
		{"deal.get_by_id", c.Deal.GetByID},
		{"deal.get_by_url", c.Deal.GetByURL},
		{"deal.persist", c.Deal.Persist},
		{"deal.update", c.Deal.Update},
		{"deal.delete", c.Deal.Delete},
		{"purchase.list", c.Purchase.List},
		{"purchase.get_by_id", c.Purchase.GetByID},
		{"purchase.persist", c.Purchase.Persist},
		{"purchase.update", c.Purchase.Update},
		{"purchase.delete", c.Purchase.Delete},
	}

	for _, item := range all {
		count := strings.Count(item.e.template, "%s")
		if count != item.e.params {
			return fmt.Errorf("endpoint %s: template has %d placeholders, expected %d",
				item.name, count, item.e.params)
		}
	}

	return nil
}
