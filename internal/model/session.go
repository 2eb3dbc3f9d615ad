package model

import "time"

// フラッシュメッセージのカテゴリ。
const (
	FlashCategoryMessage = "message"
	FlashCategoryError   = "error"
	FlashCategoryInfo    = "info"
	FlashCategoryWarning = "warning"
)

// Flash は次回レンダリングで1度だけ表示されるメッセージを表す。
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// SessionData はセッション行のjsonbカラムに格納される可変データ。
// 資格情報・ログインユーザー・未表示のフラッシュメッセージを持つ。
type SessionData struct {
	Credential Credential `json:"credential"`
	Token      string     `json:"token,omitempty"`
	User       *User      `json:"user,omitempty"`
	Flashes    []Flash    `json:"flashes,omitempty"`
}

// Session は操作ユーザーのログインセッションを表す。
type Session struct {
	ID        string
	Data      SessionData
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Credentials は現在の資格情報を返す。未ログインの場合は
// 指定プロバイダのデフォルト資格情報を返す。
func (s *Session) Credentials(provider string) Credential {
	if s == nil || s.Data.Credential.IsAnonymous() {
		return EmptyCredential(provider)
	}
	return s.Data.Credential
}
