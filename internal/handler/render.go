// Package handler は管理画面のHTTPハンドラーとルーティングを提供する。
//
// 全ハンドラーはサーバーサイドレンダリングのHTMLを返す。
// エンティティの永続化は一切行わず、リクエストごとにバックエンドAPIへ委譲する。
package handler

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/ryanpadilha/atlas-brain/internal/library"
	"github.com/ryanpadilha/atlas-brain/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// ViewData は全テンプレートに渡される描画コンテキスト。
type ViewData struct {
	Operator *model.User   // ログイン中の操作ユーザー（未認証ならnil）
	Flashes  []model.Flash // ポップ済みのフラッシュメッセージ
	Errors   []string      // フォームバリデーションエラー
	Next     string        // ログイン後のリダイレクト先
	Data     any           // ページ固有のデータ
}

// Renderer は埋め込みテンプレートによるHTML描画を行う。
type Renderer struct {
	templates *template.Template
}

// NewRenderer は埋め込みテンプレートをパースしてRendererを生成する。
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"currency": library.FormatCurrency,
		"formdate": func(d model.Date) string {
			return library.FormatFormDate(d.Time)
		},
		"epochdate": library.EpochToDate,
		// サニタイズ済みのディール説明文をエスケープせずに描画する。
		// 呼び出し側がContentSanitizerを通した値のみを渡すこと。
		"sanitized": func(s string) template.HTML {
			return template.HTML(s)
		},
	}

	t, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Renderer{templates: t}, nil
}

// Render は指定テンプレートを描画する。
// 描画失敗はログに残すのみとする（ヘッダー送信後はリカバリー不能）。
func (rd *Renderer) Render(w http.ResponseWriter, statusCode int, name string, data *ViewData) {
	if data == nil {
		data = &ViewData{}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := rd.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("failed to render template",
			slog.String("template", name),
			slog.String("error", err.Error()),
		)
	}
}
