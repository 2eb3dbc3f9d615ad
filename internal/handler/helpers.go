package handler

import (
	"net/http"

	"github.com/ryanpadilha/atlas-brain/internal/backend"
	"github.com/ryanpadilha/atlas-brain/internal/middleware"
	"github.com/ryanpadilha/atlas-brain/internal/model"
)

// backendClients はリクエスト単位のバックエンドクライアントを組み立てる。
// セッションの資格情報（未認証ならプロバイダのデフォルト資格情報）で
// クライアントを生成するため、操作ユーザー間で資格情報が漏れない。
type backendClients struct {
	factory           *backend.Factory
	catalog           *backend.Catalog
	providerSignature string
}

// client はリクエストのセッション資格情報を束ねたクライアントを返す。
func (b *backendClients) client(r *http.Request) *backend.Client {
	session := middleware.SessionFromContext(r.Context())
	credential := session.Credentials(b.providerSignature)
	return b.factory.WithCredentials(credential)
}

func (b *backendClients) deals(r *http.Request) *backend.DealResource {
	return backend.NewDealResource(b.client(r), b.catalog)
}

func (b *backendClients) buyOptions(r *http.Request) *backend.BuyOptionResource {
	return backend.NewBuyOptionResource(b.client(r), b.catalog)
}

func (b *backendClients) roles(r *http.Request) *backend.RoleResource {
	return backend.NewRoleResource(b.client(r), b.catalog)
}

func (b *backendClients) users(r *http.Request) *backend.UserResource {
	return backend.NewUserResource(b.client(r), b.catalog)
}

func (b *backendClients) purchases(r *http.Request) *backend.PurchaseResource {
	return backend.NewPurchaseResource(b.client(r), b.catalog)
}

func (b *backendClients) login(r *http.Request) *backend.LoginResource {
	anonymous := model.EmptyCredential(b.providerSignature)
	return backend.NewLoginResource(b.factory.WithCredentials(anonymous), b.catalog)
}

// operatorFromRequest はログイン中の操作ユーザーを返す。未認証ならnil。
func operatorFromRequest(r *http.Request) *model.User {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		return nil
	}
	return session.Data.User
}

// flashErrorObject はバックエンドのエラーをエラーフラッシュとして積む。
// メッセージに加え、各issueの詳細メッセージも表示する。
func flashErrorObject(r *http.Request, flash *FlashStore, errObj *model.ErrorObject) {
	session := middleware.SessionFromContext(r.Context())
	if errObj.Message != "" {
		flash.Push(r.Context(), session, model.FlashCategoryError, errObj.Message)
	}
	for _, issue := range errObj.Issues {
		if issue.Message != "" {
			flash.Push(r.Context(), session, model.FlashCategoryError, issue.Message)
		}
	}
}
