// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizer はディールの説明文として入力されたHTMLをサニタイズし、
// 一覧・詳細画面の描画時にXSSを持ち込ませない。
// bluemondayの許可リストベースのポリシーで安全なタグのみを通過させる。
package security

import (
	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizer はディール説明文のサニタイズを行う。
// ポリシーはスレッドセーフであり、プロセス内で共有できる。
type ContentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerを生成する。
// 許可タグはp, br, ul, ol, li, blockquote, strong, em, a。
// scriptやon*イベント属性は許可リストに含めないことで自動的に除去される。
// aタグにはrel="noopener noreferrer"が自動付与される。
func NewContentSanitizer() *ContentSanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements("p", "br", "ul", "ol", "li", "blockquote", "strong", "em")

	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(false)
	p.RequireNoReferrerOnLinks(true)

	return &ContentSanitizer{policy: p}
}

// Sanitize はHTMLをサニタイズして安全なHTMLを返す。
// 空文字列の入力には空文字列を返す。同一入力に対して常に同一出力を返す。
func (s *ContentSanitizer) Sanitize(rawHTML string) string {
	if rawHTML == "" {
		return ""
	}
	return s.policy.Sanitize(rawHTML)
}
