package model

// 本パッケージのエンティティはバックエンドが所有する永続データの
// リクエスト単位の写像であり、レスポンス描画後に破棄される。キャッシュしない。

// Role は操作権限のグルーピングを表す。
type Role struct {
	Internal    string `json:"internal,omitempty"`
	Created     string `json:"created,omitempty"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// User は管理画面の操作ユーザーを表す。
// RolesはタイプコードのリストではなくRoleの完全な写像で返される。
type User struct {
	Internal              string `json:"internal,omitempty"`
	Created               string `json:"created,omitempty"`
	Active                bool   `json:"active"`
	Name                  string `json:"name"`
	Phone                 string `json:"phone"`
	DocumentMain          string `json:"document_main"`
	Username              string `json:"username"`
	Password              string `json:"password,omitempty"`
	UserEmail             string `json:"user_email"`
	LastPasswordResetDate string `json:"last_password_reset_date,omitempty"`
	FileName              string `json:"file_name,omitempty"`
	FileURL               string `json:"file_url,omitempty"`
	Company               string `json:"company"`
	Occupation            string `json:"occupation"`
	Roles                 []Role `json:"roles"`

	// RoleTypes は永続化時に送るロールタイプコードのリスト。
	// 読み取り時はRolesが使われるため通常は空。
	RoleTypes []string `json:"role_types,omitempty"`
}

// BuyOption はディールに紐づく購入オプション（クーポン枠）を表す。
type BuyOption struct {
	ID                 string  `json:"id,omitempty"`
	CreateDate         string  `json:"create_date,omitempty"`
	Title              string  `json:"title"`
	NormalPrice        float64 `json:"normal_price"`
	SalePrice          float64 `json:"sale_price"`
	PercentageDiscount float64 `json:"percentage_discount"`
	QuantityCupom      int     `json:"quantity_cupom"`
	StartDate          Date    `json:"start_date"`
	EndDate            Date    `json:"end_date"`
}

// Deal は公開されるオファーを表す。
// 読み取り時はOptionsにBuyOptionの完全な写像が入り、
// 永続化・更新時はOptionIDsにID参照のみを入れて送る（多対多のID参照）。
type Deal struct {
	ID          string      `json:"id,omitempty"`
	CreateDate  string      `json:"create_date,omitempty"`
	Title       string      `json:"title"`
	Text        string      `json:"text"`
	PublishDate Date        `json:"publish_date"`
	EndDate     Date        `json:"end_date"`
	URL         string      `json:"url"`
	TotalSold   int         `json:"total_sold"`
	Type        string      `json:"type"`
	Options     []BuyOption `json:"buy_options,omitempty"`
	OptionIDs   []string    `json:"options,omitempty"`
}

// ディール種別のコード。
const (
	DealTypeLocal   = "LOCAL"
	DealTypeProduct = "PRODUCT"
	DealTypeTravel  = "TRAVEL"
)

// DealTypes は選択可能なディール種別の一覧を返す。
func DealTypes() []string {
	return []string{DealTypeLocal, DealTypeProduct, DealTypeTravel}
}

// Purchase はディール・購入オプションに対する1件の購入を表す。
// ちょうど1つのディールIDと1つの購入オプションIDを参照する。
type Purchase struct {
	ID          string `json:"id,omitempty"`
	DealID      string `json:"deal_id"`
	BuyOptionID string `json:"buy_option_id"`
	Quantity    int    `json:"quantity"`
}

// AuthenticationRequest はバックエンドのログインエンドポイントへ送る資格情報ペイロード。
type AuthenticationRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthenticationResponse はログイン成功時にバックエンドが発行するトークン情報。
type AuthenticationResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
