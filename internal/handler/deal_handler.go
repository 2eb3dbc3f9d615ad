package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ryanpadilha/atlas-brain/internal/forms"
	"github.com/ryanpadilha/atlas-brain/internal/library"
	"github.com/ryanpadilha/atlas-brain/internal/middleware"
	"github.com/ryanpadilha/atlas-brain/internal/model"
	"github.com/ryanpadilha/atlas-brain/internal/security"
)

// DealHandler はディール管理のHTTPハンドラー。
type DealHandler struct {
	backends  *backendClients
	renderer  *Renderer
	flash     *FlashStore
	sanitizer *security.ContentSanitizer
}

// NewDealHandler はDealHandlerを生成する。
func NewDealHandler(backends *backendClients, renderer *Renderer, flash *FlashStore, sanitizer *security.ContentSanitizer) *DealHandler {
	return &DealHandler{
		backends:  backends,
		renderer:  renderer,
		flash:     flash,
		sanitizer: sanitizer,
	}
}

// dealListView はディール一覧の描画データ。
type dealListView struct {
	Deals []model.Deal
}

// dealFormView はディールフォームの描画データ。
// Optionsはマルチセレクトの選択肢（販売可能な購入オプションに限定）。
type dealFormView struct {
	Deal     *model.Deal
	Options  []model.BuyOption
	Selected map[string]bool
	Editing  bool
}

// dealDetailView はディール詳細の描画データ。
type dealDetailView struct {
	Deal *model.Deal
}

// List はディール一覧を表示する。
// GET /manage/deal
func (h *DealHandler) List(w http.ResponseWriter, r *http.Request) {
	deals := h.backends.deals(r).List(r.Context())

	session := middleware.SessionFromContext(r.Context())
	h.renderer.Render(w, http.StatusOK, "deal_list", &ViewData{
		Operator: operatorFromRequest(r),
		Flashes:  h.flash.Pop(r.Context(), session),
		Data:     dealListView{Deals: deals},
	})
}

// NewForm は新規ディールフォームを表示する。
// GET /manage/deal/new
func (h *DealHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "deal_form", &ViewData{
		Operator: operatorFromRequest(r),
		Data:     h.formView(r, &model.Deal{Type: model.DealTypeLocal}, false),
	})
}

// Create は新規ディールを永続化する。
// POST /manage/deal/new
func (h *DealHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, errs := forms.ParseDealForm(r, time.Now())
	if !errs.Valid() {
		h.renderer.Render(w, http.StatusBadRequest, "deal_form", &ViewData{
			Operator: operatorFromRequest(r),
			Errors:   errs.All(),
			Data:     h.formView(r, h.dealFromForm(form), false),
		})
		return
	}

	deal := h.dealFromForm(form)
	deal.URL = library.Slugify(form.Title)

	session := middleware.SessionFromContext(r.Context())
	if _, errObj := h.backends.deals(r).Persist(r.Context(), deal); errObj != nil {
		flashErrorObject(r, h.flash, errObj)
		http.Redirect(w, r, "/manage/deal", http.StatusSeeOther)
		return
	}

	h.flash.Push(r.Context(), session, model.FlashCategoryInfo, "deal created")
	http.Redirect(w, r, "/manage/deal", http.StatusSeeOther)
}

// EditForm は既存ディールの編集フォームを表示する。
// GET /manage/deal/{id}/edit
func (h *DealHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deal, errObj := h.backends.deals(r).GetByID(r.Context(), id)
	if errObj != nil {
		flashErrorObject(r, h.flash, errObj)
		http.Redirect(w, r, "/manage/deal", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, http.StatusOK, "deal_form", &ViewData{
		Operator: operatorFromRequest(r),
		Data:     h.formView(r, deal, true),
	})
}

// Update は既存ディールを更新する。
// POST /manage/deal/{id}/edit
func (h *DealHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	form, errs := forms.ParseDealForm(r, time.Now())
	if !errs.Valid() {
		deal := h.dealFromForm(form)
		deal.ID = id
		h.renderer.Render(w, http.StatusBadRequest, "deal_form", &ViewData{
			Operator: operatorFromRequest(r),
			Errors:   errs.All(),
			Data:     h.formView(r, deal, true),
		})
		return
	}

	deal := h.dealFromForm(form)
	deal.ID = id
	// スラグと累計販売数は編集フォームの不可視フィールドから引き継ぐ
	deal.URL = form.HiddenURL
	if deal.URL == "" {
		deal.URL = library.Slugify(form.Title)
	}
	deal.TotalSold = form.HiddenTotalSold

	session := middleware.SessionFromContext(r.Context())
	if errObj := h.backends.deals(r).Update(r.Context(), id, deal); errObj != nil {
		flashErrorObject(r, h.flash, errObj)
		http.Redirect(w, r, "/manage/deal", http.StatusSeeOther)
		return
	}

	h.flash.Push(r.Context(), session, model.FlashCategoryInfo, "deal updated")
	http.Redirect(w, r, "/manage/deal", http.StatusSeeOther)
}

// Delete はディールを削除する。
// POST /manage/deal/{id}/delete
func (h *DealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session := middleware.SessionFromContext(r.Context())
	if errObj := h.backends.deals(r).Delete(r.Context(), id); errObj != nil {
		flashErrorObject(r, h.flash, errObj)
	} else {
		h.flash.Push(r.Context(), session, model.FlashCategoryInfo, "deal removed")
	}

	http.Redirect(w, r, "/manage/deal", http.StatusSeeOther)
}

// Detail はスラグでディール詳細を表示する。
// GET /manage/o/{url}
func (h *DealHandler) Detail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "url")

	deal, errObj := h.backends.deals(r).GetByURL(r.Context(), slug)
	if errObj != nil {
		flashErrorObject(r, h.flash, errObj)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	session := middleware.SessionFromContext(r.Context())
	h.renderer.Render(w, http.StatusOK, "deal_detail", &ViewData{
		Operator: operatorFromRequest(r),
		Flashes:  h.flash.Pop(r.Context(), session),
		Data:     dealDetailView{Deal: deal},
	})
}

// Buy はディールの購入オプションに対する購入を登録する。
// POST /manage/o/buy/{deal}/{option}
func (h *DealHandler) Buy(w http.ResponseWriter, r *http.Request) {
	purchase := &model.Purchase{
		DealID:      chi.URLParam(r, "deal"),
		BuyOptionID: chi.URLParam(r, "option"),
		Quantity:    1,
	}

	session := middleware.SessionFromContext(r.Context())
	if _, errObj := h.backends.purchases(r).Persist(r.Context(), purchase); errObj != nil {
		flashErrorObject(r, h.flash, errObj)
	} else {
		h.flash.Push(r.Context(), session, model.FlashCategoryMessage, "purchase registered")
	}

	// 購入元のディール詳細へ戻る
	if slug := r.PostFormValue("h_url"); slug != "" {
		http.Redirect(w, r, "/manage/o/"+slug, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// dealFromForm はフォーム入力からエンティティを組み立てる。
// 説明文は保存前にサニタイズする。
func (h *DealHandler) dealFromForm(form *forms.DealForm) *model.Deal {
	return &model.Deal{
		Title:       form.Title,
		Text:        h.sanitizer.Sanitize(form.Text),
		Type:        form.Type,
		PublishDate: form.PublishDate,
		EndDate:     form.EndDate,
		OptionIDs:   form.OptionIDs,
	}
}

// formView はディールフォームの描画データを組み立てる。
func (h *DealHandler) formView(r *http.Request, deal *model.Deal, editing bool) dealFormView {
	options := h.backends.buyOptions(r).ListAllAvailable(r.Context())

	selected := make(map[string]bool, len(deal.OptionIDs))
	for _, id := range deal.OptionIDs {
		selected[id] = true
	}
	for _, opt := range deal.Options {
		selected[opt.ID] = true
	}

	return dealFormView{
		Deal:     deal,
		Options:  options,
		Selected: selected,
		Editing:  editing,
	}
}
