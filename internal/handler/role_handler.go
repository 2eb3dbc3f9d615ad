package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ryanpadilha/atlas-brain/internal/forms"
	"github.com/ryanpadilha/atlas-brain/internal/middleware"
	"github.com/ryanpadilha/atlas-brain/internal/model"
)

// RoleHandler はロール管理のHTTPハンドラー。
type RoleHandler struct {
	backends *backendClients
	renderer *Renderer
	flash    *FlashStore
}

// NewRoleHandler はRoleHandlerを生成する。
func NewRoleHandler(backends *backendClients, renderer *Renderer, flash *FlashStore) *RoleHandler {
	return &RoleHandler{
		backends: backends,
		renderer: renderer,
		flash:    flash,
	}
}

// roleListView はロール一覧の描画データ。
type roleListView struct {
	Roles []model.Role
}

// roleFormView はロールフォームの描画データ。
type roleFormView struct {
	Role    *model.Role
	Editing bool
}

// List はロール一覧を表示する。
// GET /manage/role
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	roles := h.backends.roles(r).List(r.Context())

	session := middleware.SessionFromContext(r.Context())
	h.renderer.Render(w, http.StatusOK, "role_list", &ViewData{
		Operator: operatorFromRequest(r),
		Flashes:  h.flash.Pop(r.Context(), session),
		Data:     roleListView{Roles: roles},
	})
}

// NewForm は新規ロールフォームを表示する。
// GET /manage/role/new
func (h *RoleHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "role_form", &ViewData{
		Operator: operatorFromRequest(r),
		Data:     roleFormView{Role: &model.Role{}},
	})
}

// Create は新規ロールを永続化する。
// POST /manage/role/new
func (h *RoleHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, errs := forms.ParseRoleForm(r)
	if !errs.Valid() {
		h.renderer.Render(w, http.StatusBadRequest, "role_form", &ViewData{
			Operator: operatorFromRequest(r),
			Errors:   errs.All(),
			Data:     roleFormView{Role: form.ToModel()},
		})
		return
	}

	session := middleware.SessionFromContext(r.Context())
	if _, errObj := h.backends.roles(r).Persist(r.Context(), form.ToModel()); errObj != nil {
		flashErrorObject(r, h.flash, errObj)
		http.Redirect(w, r, "/manage/role", http.StatusSeeOther)
		return
	}

	h.flash.Push(r.Context(), session, model.FlashCategoryInfo, "role created")
	http.Redirect(w, r, "/manage/role", http.StatusSeeOther)
}

// EditForm は既存ロールの編集フォームを表示する。
// GET /manage/role/{internal}/edit
func (h *RoleHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	internal := chi.URLParam(r, "internal")

	role, errObj := h.backends.roles(r).GetByInternal(r.Context(), internal)
	if errObj != nil {
		flashErrorObject(r, h.flash, errObj)
		http.Redirect(w, r, "/manage/role", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, http.StatusOK, "role_form", &ViewData{
		Operator: operatorFromRequest(r),
		Data:     roleFormView{Role: role, Editing: true},
	})
}

// Update は既存ロールを更新する。
// POST /manage/role/{internal}/edit
func (h *RoleHandler) Update(w http.ResponseWriter, r *http.Request) {
	internal := chi.URLParam(r, "internal")

	form, errs := forms.ParseRoleForm(r)
	if !errs.Valid() {
		role := form.ToModel()
		role.Internal = internal
		h.renderer.Render(w, http.StatusBadRequest, "role_form", &ViewData{
			Operator: operatorFromRequest(r),
			Errors:   errs.All(),
			Data:     roleFormView{Role: role, Editing: true},
		})
		return
	}

	session := middleware.SessionFromContext(r.Context())
	if errObj := h.backends.roles(r).Update(r.Context(), internal, form.ToModel()); errObj != nil {
		flashErrorObject(r, h.flash, errObj)
		http.Redirect(w, r, "/manage/role", http.StatusSeeOther)
		return
	}

	h.flash.Push(r.Context(), session, model.FlashCategoryInfo, "role updated")
	http.Redirect(w, r, "/manage/role", http.StatusSeeOther)
}

// Delete はロールを削除する。
// POST /manage/role/{internal}/delete
func (h *RoleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	internal := chi.URLParam(r, "internal")

	session := middleware.SessionFromContext(r.Context())
	if errObj := h.backends.roles(r).Delete(r.Context(), internal); errObj != nil {
		flashErrorObject(r, h.flash, errObj)
	} else {
		h.flash.Push(r.Context(), session, model.FlashCategoryInfo, "role removed")
	}

	http.Redirect(w, r, "/manage/role", http.StatusSeeOther)
}
