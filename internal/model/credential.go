// Package model はドメインモデルを定義する。
package model

// Credential はバックエンドAPI呼び出しに使用するセッションスコープの資格情報を表す。
// ログイン成功時に発行され、次回ログインまで上書きされない。
type Credential struct {
	Provider      string `json:"provider"`
	Authorization string `json:"authorization"`
	Expires       int64  `json:"expires"`
}

// EmptyCredential は未ログイン状態のデフォルト資格情報を返す。
// Authorizationが空の場合、バックエンドは401で拒否する（クライアント側では期限を検証しない）。
func EmptyCredential(provider string) Credential {
	return Credential{Provider: provider, Authorization: "", Expires: 0}
}

// IsAnonymous はログインが行われていない資格情報かどうかを返す。
func (c Credential) IsAnonymous() bool {
	return c.Authorization == ""
}
