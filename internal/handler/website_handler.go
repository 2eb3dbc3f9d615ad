package handler

import (
	"net/http"

	"github.com/ryanpadilha/atlas-brain/internal/middleware"
	"github.com/ryanpadilha/atlas-brain/internal/model"
)

// WebsiteHandler はダッシュボードのHTTPハンドラー。
type WebsiteHandler struct {
	backends *backendClients
	renderer *Renderer
	flash    *FlashStore
}

// NewWebsiteHandler はWebsiteHandlerを生成する。
func NewWebsiteHandler(backends *backendClients, renderer *Renderer, flash *FlashStore) *WebsiteHandler {
	return &WebsiteHandler{
		backends: backends,
		renderer: renderer,
		flash:    flash,
	}
}

// dashboardView はダッシュボードの描画データ。
type dashboardView struct {
	Deals []model.Deal
}

// Dashboard は公開中のディール一覧を表示する。
// GET /
func (h *WebsiteHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	// 一覧取得の失敗は空一覧に縮退する（ダッシュボードは常に描画する）
	deals := h.backends.deals(r).ListAllAvailable(r.Context())

	session := middleware.SessionFromContext(r.Context())
	h.renderer.Render(w, http.StatusOK, "dashboard", &ViewData{
		Operator: operatorFromRequest(r),
		Flashes:  h.flash.Pop(r.Context(), session),
		Data:     dashboardView{Deals: deals},
	})
}
