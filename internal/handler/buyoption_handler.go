package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ryanpadilha/atlas-brain/internal/forms"
	"github.com/ryanpadilha/atlas-brain/internal/middleware"
	"github.com/ryanpadilha/atlas-brain/internal/model"
)

// BuyOptionHandler は購入オプション管理のHTTPハンドラー。
type BuyOptionHandler struct {
	backends *backendClients
	renderer *Renderer
	flash    *FlashStore
}

// NewBuyOptionHandler はBuyOptionHandlerを生成する。
func NewBuyOptionHandler(backends *backendClients, renderer *Renderer, flash *FlashStore) *BuyOptionHandler {
	return &BuyOptionHandler{
		backends: backends,
		renderer: renderer,
		flash:    flash,
	}
}

// buyOptionListView は購入オプション一覧の描画データ。
type buyOptionListView struct {
	Options []model.BuyOption
}

// buyOptionFormView は購入オプションフォームの描画データ。
type buyOptionFormView struct {
	Option  *model.BuyOption
	Editing bool
}

// List は購入オプション一覧を表示する。
// GET /manage/buy-option
func (h *BuyOptionHandler) List(w http.ResponseWriter, r *http.Request) {
	options := h.backends.buyOptions(r).List(r.Context())

	session := middleware.SessionFromContext(r.Context())
	h.renderer.Render(w, http.StatusOK, "buyoption_list", &ViewData{
		Operator: operatorFromRequest(r),
		Flashes:  h.flash.Pop(r.Context(), session),
		Data:     buyOptionListView{Options: options},
	})
}

// NewForm は新規購入オプションフォームを表示する。
// GET /manage/buy-option/new
func (h *BuyOptionHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "buyoption_form", &ViewData{
		Operator: operatorFromRequest(r),
		Data:     buyOptionFormView{Option: &model.BuyOption{}},
	})
}

// Create は新規購入オプションを永続化する。
// POST /manage/buy-option/new
func (h *BuyOptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, errs := forms.ParseBuyOptionForm(r, time.Now())
	if !errs.Valid() {
		h.renderer.Render(w, http.StatusBadRequest, "buyoption_form", &ViewData{
			Operator: operatorFromRequest(r),
			Errors:   errs.All(),
			Data:     buyOptionFormView{Option: form.ToModel()},
		})
		return
	}

	session := middleware.SessionFromContext(r.Context())
	if _, errObj := h.backends.buyOptions(r).Persist(r.Context(), form.ToModel()); errObj != nil {
		flashErrorObject(r, h.flash, errObj)
		http.Redirect(w, r, "/manage/buy-option", http.StatusSeeOther)
		return
	}

	h.flash.Push(r.Context(), session, model.FlashCategoryInfo, "buy option created")
	http.Redirect(w, r, "/manage/buy-option", http.StatusSeeOther)
}

// EditForm は既存購入オプションの編集フォームを表示する。
// GET /manage/buy-option/{id}/edit
func (h *BuyOptionHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	option, errObj := h.backends.buyOptions(r).GetByID(r.Context(), id)
	if errObj != nil {
		flashErrorObject(r, h.flash, errObj)
		http.Redirect(w, r, "/manage/buy-option", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, http.StatusOK, "buyoption_form", &ViewData{
		Operator: operatorFromRequest(r),
		Data:     buyOptionFormView{Option: option, Editing: true},
	})
}

// Update は既存購入オプションを更新する。
// POST /manage/buy-option/{id}/edit
func (h *BuyOptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	form, errs := forms.ParseBuyOptionForm(r, time.Now())
	if !errs.Valid() {
		option := form.ToModel()
		option.ID = id
		h.renderer.Render(w, http.StatusBadRequest, "buyoption_form", &ViewData{
			Operator: operatorFromRequest(r),
			Errors:   errs.All(),
			Data:     buyOptionFormView{Option: option, Editing: true},
		})
		return
	}

	session := middleware.SessionFromContext(r.Context())
	if errObj := h.backends.buyOptions(r).Update(r.Context(), id, form.ToModel()); errObj != nil {
		flashErrorObject(r, h.flash, errObj)
		http.Redirect(w, r, "/manage/buy-option", http.StatusSeeOther)
		return
	}

	h.flash.Push(r.Context(), session, model.FlashCategoryInfo, "buy option updated")
	http.Redirect(w, r, "/manage/buy-option", http.StatusSeeOther)
}

// Delete は購入オプションを削除する。
// POST /manage/buy-option/{id}/delete
func (h *BuyOptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session := middleware.SessionFromContext(r.Context())
	if errObj := h.backends.buyOptions(r).Delete(r.Context(), id); errObj != nil {
		flashErrorObject(r, h.flash, errObj)
	} else {
		h.flash.Push(r.Context(), session, model.FlashCategoryInfo, "buy option removed")
	}

	http.Redirect(w, r, "/manage/buy-option", http.StatusSeeOther)
}
