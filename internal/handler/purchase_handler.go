package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ryanpadilha/atlas-brain/internal/middleware"
	"github.com/ryanpadilha/atlas-brain/internal/model"
)

// PurchaseHandler は購入履歴のHTTPハンドラー。
type PurchaseHandler struct {
	backends *backendClients
	renderer *Renderer
	flash    *FlashStore
}

// NewPurchaseHandler はPurchaseHandlerを生成する。
func NewPurchaseHandler(backends *backendClients, renderer *Renderer, flash *FlashStore) *PurchaseHandler {
	return &PurchaseHandler{
		backends: backends,
		renderer: renderer,
		flash:    flash,
	}
}

// purchaseListView は購入一覧の描画データ。
type purchaseListView struct {
	Purchases []model.Purchase
}

// List は購入一覧を表示する。
// GET /manage/purchase
func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	purchases := h.backends.purchases(r).List(r.Context())

	session := middleware.SessionFromContext(r.Context())
	h.renderer.Render(w, http.StatusOK, "purchase_list", &ViewData{
		Operator: operatorFromRequest(r),
		Flashes:  h.flash.Pop(r.Context(), session),
		Data:     purchaseListView{Purchases: purchases},
	})
}

// Delete は購入を取り消す。
// POST /manage/purchase/{id}/delete
func (h *PurchaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session := middleware.SessionFromContext(r.Context())
	if errObj := h.backends.purchases(r).Delete(r.Context(), id); errObj != nil {
		flashErrorObject(r, h.flash, errObj)
	} else {
		h.flash.Push(r.Context(), session, model.FlashCategoryInfo, "purchase removed")
	}

	http.Redirect(w, r, "/manage/purchase", http.StatusSeeOther)
}
