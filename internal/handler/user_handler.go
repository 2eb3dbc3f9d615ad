package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ryanpadilha/atlas-brain/internal/forms"
	"github.com/ryanpadilha/atlas-brain/internal/middleware"
	"github.com/ryanpadilha/atlas-brain/internal/model"
)

// UserHandler は操作ユーザー管理とプロフィールのHTTPハンドラー。
type UserHandler struct {
	backends *backendClients
	renderer *Renderer
	flash    *FlashStore
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(backends *backendClients, renderer *Renderer, flash *FlashStore) *UserHandler {
	return &UserHandler{
		backends: backends,
		renderer: renderer,
		flash:    flash,
	}
}

// userListView はユーザー一覧の描画データ。
type userListView struct {
	Users []model.User
}

// userFormView はユーザーフォームの描画データ。
// Rolesはロール選択肢の全件。
type userFormView struct {
	User     *model.User
	Roles    []model.Role
	Selected map[string]bool
	Editing  bool
}

// List はユーザー一覧を表示する。
// GET /manage/user
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users := h.backends.users(r).List(r.Context())

	session := middleware.SessionFromContext(r.Context())
	h.renderer.Render(w, http.StatusOK, "user_list", &ViewData{
		Operator: operatorFromRequest(r),
		Flashes:  h.flash.Pop(r.Context(), session),
		Data:     userListView{Users: users},
	})
}

// NewForm は新規ユーザーフォームを表示する。
// GET /manage/user/new
func (h *UserHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "user_form", &ViewData{
		Operator: operatorFromRequest(r),
		Data:     h.formView(r, &model.User{Active: true}, false),
	})
}

// Create は新規ユーザーを永続化する。パスワード必須。
// POST /manage/user/new
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, errs := forms.ParseUserForm(r, true)
	if !errs.Valid() {
		h.renderer.Render(w, http.StatusBadRequest, "user_form", &ViewData{
			Operator: operatorFromRequest(r),
			Errors:   errs.All(),
			Data:     h.formView(r, form.ToModel(), false),
		})
		return
	}

	session := middleware.SessionFromContext(r.Context())
	if _, errObj := h.backends.users(r).Persist(r.Context(), form.ToModel()); errObj != nil {
		flashErrorObject(r, h.flash, errObj)
		http.Redirect(w, r, "/manage/user", http.StatusSeeOther)
		return
	}

	h.flash.Push(r.Context(), session, model.FlashCategoryInfo, "user created")
	http.Redirect(w, r, "/manage/user", http.StatusSeeOther)
}

// EditForm は既存ユーザーの編集フォームを表示する。
// GET /manage/user/{internal}/edit
func (h *UserHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	internal := chi.URLParam(r, "internal")

	user, errObj := h.backends.users(r).GetByInternal(r.Context(), internal)
	if errObj != nil {
		flashErrorObject(r, h.flash, errObj)
		http.Redirect(w, r, "/manage/user", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, http.StatusOK, "user_form", &ViewData{
		Operator: operatorFromRequest(r),
		Data:     h.formView(r, user, true),
	})
}

// Update は既存ユーザーを更新する。パスワードは変更しない。
// POST /manage/user/{internal}/edit
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	internal := chi.URLParam(r, "internal")

	form, errs := forms.ParseUserForm(r, false)
	if !errs.Valid() {
		user := form.ToModel()
		user.Internal = internal
		h.renderer.Render(w, http.StatusBadRequest, "user_form", &ViewData{
			Operator: operatorFromRequest(r),
			Errors:   errs.All(),
			Data:     h.formView(r, user, true),
		})
		return
	}

	session := middleware.SessionFromContext(r.Context())
	if errObj := h.backends.users(r).Update(r.Context(), internal, form.ToModel()); errObj != nil {
		flashErrorObject(r, h.flash, errObj)
		http.Redirect(w, r, "/manage/user", http.StatusSeeOther)
		return
	}

	h.flash.Push(r.Context(), session, model.FlashCategoryInfo, "user updated")
	http.Redirect(w, r, "/manage/user", http.StatusSeeOther)
}

// Delete はユーザーを削除する。
// POST /manage/user/{internal}/delete
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	internal := chi.URLParam(r, "internal")

	session := middleware.SessionFromContext(r.Context())
	if errObj := h.backends.users(r).Delete(r.Context(), internal); errObj != nil {
		flashErrorObject(r, h.flash, errObj)
	} else {
		h.flash.Push(r.Context(), session, model.FlashCategoryInfo, "user removed")
	}

	http.Redirect(w, r, "/manage/user", http.StatusSeeOther)
}

// Profile はログイン中ユーザーのパスワード変更フォームを表示する。
// GET /manage/profile
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	h.renderer.Render(w, http.StatusOK, "profile", &ViewData{
		Operator: operatorFromRequest(r),
		Flashes:  h.flash.Pop(r.Context(), session),
	})
}

// ChangePassword はログイン中ユーザーのパスワードを変更する。
// 現在のパスワードをログインエンドポイントで再検証してから更新する。
// POST /manage/profile
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	operator := operatorFromRequest(r)
	if operator == nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	form, errs := forms.ParseChangePasswordForm(r)
	if !errs.Valid() {
		h.renderer.Render(w, http.StatusBadRequest, "profile", &ViewData{
			Operator: operator,
			Errors:   errs.All(),
		})
		return
	}

	session := middleware.SessionFromContext(r.Context())

	// 現在のパスワードの再検証
	if _, errObj := h.backends.login(r).Authenticate(r.Context(), model.AuthenticationRequest{
		Username: operator.Username,
		Password: form.CurrentPassword,
	}); errObj != nil {
		h.renderer.Render(w, http.StatusUnauthorized, "profile", &ViewData{
			Operator: operator,
			Errors:   []string{"current password is incorrect"},
		})
		return
	}

	updated := *operator
	updated.Password = form.NewPassword
	updated.RoleTypes = roleTypeCodes(operator.Roles)

	if errObj := h.backends.users(r).Update(r.Context(), operator.Internal, &updated); errObj != nil {
		flashErrorObject(r, h.flash, errObj)
		http.Redirect(w, r, "/manage/profile", http.StatusSeeOther)
		return
	}

	h.flash.Push(r.Context(), session, model.FlashCategoryInfo, "password changed")
	http.Redirect(w, r, "/manage/profile", http.StatusSeeOther)
}

// formView はユーザーフォームの描画データを組み立てる。
func (h *UserHandler) formView(r *http.Request, user *model.User, editing bool) userFormView {
	roles := h.backends.roles(r).List(r.Context())

	selected := make(map[string]bool, len(user.Roles))
	for _, role := range user.Roles {
		selected[role.Type] = true
	}
	for _, code := range user.RoleTypes {
		selected[code] = true
	}

	return userFormView{
		User:     user,
		Roles:    roles,
		Selected: selected,
		Editing:  editing,
	}
}

// roleTypeCodes はロールの写像からタイプコードのリストを作る。
func roleTypeCodes(roles []model.Role) []string {
	codes := make([]string, 0, len(roles))
	for _, role := range roles {
		codes = append(codes, role.Type)
	}
	return codes
}
