// Package forms はHTMLフォームのデコードとバリデーションを提供する。
// ここでの検証はフォーム入力の整合性のみを対象とし、
// 一意性等のドメイン制約はバックエンドが判定してErrorObjectで返す。
package forms

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ryanpadilha/atlas-brain/internal/library"
	"github.com/ryanpadilha/atlas-brain/internal/model"
)

// Errors はフィールド名からエラーメッセージへのマッピング。
type Errors map[string][]string

// Add はフィールドにエラーメッセージを追加する。
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Valid はエラーが1件もないかどうかを返す。
func (e Errors) Valid() bool {
	return len(e) == 0
}

// All は全フィールドのエラーメッセージを平坦化して返す。
func (e Errors) All() []string {
	var all []string
	for _, messages := range e {
		all = append(all, messages...)
	}
	return all
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// LoginForm はログインフォームの入力。
type LoginForm struct {
	Email      string
	Password   string
	RememberMe bool
}

// ParseLoginForm はリクエストからログインフォームをデコード・検証する。
func ParseLoginForm(r *http.Request) (*LoginForm, Errors) {
	errs := Errors{}

	f := &LoginForm{
		Email:      strings.TrimSpace(r.PostFormValue("email")),
		Password:   r.PostFormValue("password"),
		RememberMe: r.PostFormValue("remember_me") != "",
	}

	if f.Email == "" {
		errs.Add("email", "email or phone is required")
	}
	if f.Password == "" {
		errs.Add("password", "password is required")
	}

	return f, errs
}

// BuyOptionForm は購入オプションフォームの入力。
type BuyOptionForm struct {
	Title              string
	NormalPrice        float64
	SalePrice          float64
	PercentageDiscount float64
	QuantityCupom      int
	StartDate          model.Date
	EndDate            model.Date
}

// ParseBuyOptionForm はリクエストから購入オプションフォームをデコード・検証する。
// nowは日付順序の検証基準（通常はtime.Now()）。
func ParseBuyOptionForm(r *http.Request, now time.Time) (*BuyOptionForm, Errors) {
	errs := Errors{}

	f := &BuyOptionForm{
		Title:              strings.TrimSpace(r.PostFormValue("title")),
		NormalPrice:        library.ParseCurrency(r.PostFormValue("normal_price")),
		SalePrice:          library.ParseCurrency(r.PostFormValue("sale_price")),
		PercentageDiscount: library.ParseCurrency(r.PostFormValue("percentage_discount")),
	}

	if f.Title == "" {
		errs.Add("title", "title is required")
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("quantity_cupom")))
	if err != nil {
		errs.Add("quantity_cupom", "coupon quantity must be a valid number")
	} else {
		f.QuantityCupom = quantity
		if quantity < 1 || quantity > 99999 {
			errs.Add("quantity_cupom", "coupon quantity must be between 1 and 99999")
		}
	}

	if f.NormalPrice <= 0 {
		errs.Add("normal_price", "normal price must be greater than 0")
	}
	if f.SalePrice <= 0 {
		errs.Add("sale_price", "sale price must be greater than 0")
	}
	if f.PercentageDiscount > 100 {
		errs.Add("percentage_discount", "discount percentage must not exceed 100")
	}
	if f.PercentageDiscount < 0 {
		errs.Add("percentage_discount", "discount percentage must not be negative")
	}
	if f.SalePrice > f.NormalPrice {
		errs.Add("sale_price", "sale price must be less than or equal to normal price")
	}

	f.StartDate = parseDateField(r, "start_date", "publish date", errs)
	f.EndDate = parseDateField(r, "end_date", "expiration date", errs)

	today := model.DateOf(now)
	if !f.StartDate.IsZero() && f.StartDate.Before(today) {
		errs.Add("start_date", "publish date must not be before today")
	}
	if !f.StartDate.IsZero() && !f.EndDate.IsZero() && !f.EndDate.After(f.StartDate) {
		errs.Add("end_date", "expiration date must be after publish date")
	}

	return f, errs
}

// ToModel はフォーム入力をエンティティに変換する。
func (f *BuyOptionForm) ToModel() *model.BuyOption {
	return &model.BuyOption{
		Title:              f.Title,
		NormalPrice:        f.NormalPrice,
		SalePrice:          f.SalePrice,
		PercentageDiscount: f.PercentageDiscount,
		QuantityCupom:      f.QuantityCupom,
		StartDate:          f.StartDate,
		EndDate:            f.EndDate,
	}
}

// DealForm はディールフォームの入力。
type DealForm struct {
	Title       string
	Text        string
	Type        string
	PublishDate model.Date
	EndDate     model.Date
	OptionIDs   []string

	// 編集時に引き継ぐ不可視フィールド
	HiddenURL       string
	HiddenTotalSold int
}

// ParseDealForm はリクエストからディールフォームをデコード・検証する。
func ParseDealForm(r *http.Request, now time.Time) (*DealForm, Errors) {
	errs := Errors{}

	f := &DealForm{
		Title:     strings.TrimSpace(r.PostFormValue("title")),
		Text:      strings.TrimSpace(r.PostFormValue("text")),
		Type:      strings.TrimSpace(r.PostFormValue("type")),
		OptionIDs: r.PostForm["options"],
		HiddenURL: strings.TrimSpace(r.PostFormValue("h_url")),
	}

	if sold := strings.TrimSpace(r.PostFormValue("h_total_sold")); sold != "" {
		if v, err := strconv.Atoi(sold); err == nil {
			f.HiddenTotalSold = v
		}
	}

	if f.Title == "" {
		errs.Add("title", "title is required")
	}
	if f.Text == "" {
		errs.Add("text", "description is required")
	}

	if f.Type == "" {
		f.Type = model.DealTypeLocal
	}
	var typeOK bool
	for _, t := range model.DealTypes() {
		if f.Type == t {
			typeOK = true
			break
		}
	}
	if !typeOK {
		errs.Add("type", "invalid deal type")
	}

	f.PublishDate = parseDateField(r, "publish_date", "publish date", errs)
	f.EndDate = parseDateField(r, "end_date", "expiration date", errs)

	today := model.DateOf(now)
	if !f.PublishDate.IsZero() && f.PublishDate.Before(today) {
		errs.Add("publish_date", "publish date must not be before today")
	}
	if !f.PublishDate.IsZero() && !f.EndDate.IsZero() && !f.EndDate.After(f.PublishDate) {
		errs.Add("end_date", "expiration date must be after publish date")
	}

	return f, errs
}

// RoleForm はロールフォームの入力。
type RoleForm struct {
	Name        string
	Type        string
	Description string
}

// ParseRoleForm はリクエストからロールフォームをデコード・検証する。
// Typeは永続化時に大文字化される。
func ParseRoleForm(r *http.Request) (*RoleForm, Errors) {
	errs := Errors{}

	f := &RoleForm{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Type:        strings.ToUpper(strings.TrimSpace(r.PostFormValue("type"))),
		Description: strings.TrimSpace(r.PostFormValue("description")),
	}

	if f.Name == "" {
		errs.Add("name", "name is required")
	}
	if f.Type == "" {
		errs.Add("type", "type is required")
	} else if len(f.Type) > 25 {
		errs.Add("type", "type must be at most 25 characters")
	}

	return f, errs
}

// ToModel はフォーム入力をエンティティに変換する。
func (f *RoleForm) ToModel() *model.Role {
	return &model.Role{
		Name:        f.Name,
		Type:        f.Type,
		Description: f.Description,
	}
}

// UserForm は操作ユーザーフォームの入力。
type UserForm struct {
	Active       bool
	Name         string
	UserEmail    string
	Phone        string
	DocumentMain string
	Company      string
	Occupation   string
	Roles        []string
	Password     string
}

// ParseUserForm はリクエストからユーザーフォームをデコード・検証する。
// withPasswordがtrueの場合（新規作成）、パスワードと確認入力を必須として検証する。
func ParseUserForm(r *http.Request, withPassword bool) (*UserForm, Errors) {
	errs := Errors{}

	f := &UserForm{
		Active:       r.PostFormValue("active") == "1",
		Name:         strings.TrimSpace(r.PostFormValue("name")),
		UserEmail:    strings.ToLower(strings.TrimSpace(r.PostFormValue("user_email"))),
		Phone:        normalizePhone(r.PostFormValue("phone")),
		DocumentMain: strings.TrimSpace(r.PostFormValue("document_main")),
		Company:      strings.TrimSpace(r.PostFormValue("company")),
		Occupation:   strings.TrimSpace(r.PostFormValue("occupation")),
		Roles:        r.PostForm["roles"],
	}

	if f.Name == "" {
		errs.Add("name", "full name is required")
	}
	if f.UserEmail == "" {
		errs.Add("user_email", "email is required")
	} else if !emailPattern.MatchString(f.UserEmail) {
		errs.Add("user_email", "invalid email address")
	}
	if f.Phone == "" {
		errs.Add("phone", "phone is required")
	}
	if len(f.Roles) == 0 {
		errs.Add("roles", "select at least one role")
	}

	if withPassword {
		f.Password = r.PostFormValue("user_password")
		confirm := r.PostFormValue("confirm_password")
		validatePassword(f.Password, confirm, errs)
	}

	return f, errs
}

// ToModel はフォーム入力をエンティティに変換する。
// ロールはタイプコードのリストとして送信される。
func (f *UserForm) ToModel() *model.User {
	return &model.User{
		Active:       f.Active,
		Name:         f.Name,
		Username:     f.UserEmail,
		UserEmail:    f.UserEmail,
		Password:     f.Password,
		Phone:        f.Phone,
		DocumentMain: f.DocumentMain,
		Company:      f.Company,
		Occupation:   f.Occupation,
		Roles:        []model.Role{},
		RoleTypes:    f.Roles,
	}
}

// ChangePasswordForm はパスワード変更フォームの入力。
type ChangePasswordForm struct {
	CurrentPassword string
	NewPassword     string
}

// ParseChangePasswordForm はリクエストからパスワード変更フォームをデコード・検証する。
func ParseChangePasswordForm(r *http.Request) (*ChangePasswordForm, Errors) {
	errs := Errors{}

	f := &ChangePasswordForm{
		CurrentPassword: r.PostFormValue("current_password"),
		NewPassword:     r.PostFormValue("user_password"),
	}

	if f.CurrentPassword == "" {
		errs.Add("current_password", "current password is required")
	}
	validatePassword(f.NewPassword, r.PostFormValue("confirm_password"), errs)

	return f, errs
}

// validatePassword はパスワードの長さと確認入力の一致を検証する。
func validatePassword(password, confirm string, errs Errors) {
	if password == "" {
		errs.Add("user_password", "password is required")
	} else if len(password) < 6 || len(password) > 20 {
		errs.Add("user_password", "password must be between 6 and 20 characters")
	}
	if confirm != password {
		errs.Add("confirm_password", "password confirmation does not match")
	}
}

// parseDateField はdd/mm/yyyy形式の日付フィールドをパースする。
func parseDateField(r *http.Request, field, label string, errs Errors) model.Date {
	raw := strings.TrimSpace(r.PostFormValue(field))
	if raw == "" {
		errs.Add(field, label+" is required")
		return model.Date{}
	}

	t, err := library.ParseFormDate(raw)
	if err != nil {
		errs.Add(field, "invalid "+label)
		return model.Date{}
	}
	return model.DateOf(t)
}

// normalizePhone は電話番号から書式文字を取り除く。
func normalizePhone(phone string) string {
	replacer := strings.NewReplacer("(", "", ")", "", " ", "", "-", "")
	return strings.TrimSpace(replacer.Replace(phone))
}
