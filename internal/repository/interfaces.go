// Package repository はローカル永続化のリポジトリインターフェースと実装を提供する。
// このアプリケーションが所有する永続データはセッションのみであり、
// エンティティ本体の永続化はすべてバックエンドAPIに委譲される。
package repository

import (
	"context"

	"github.com/ryanpadilha/atlas-brain/internal/model"
)

// SessionRepository はセッションの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDの有効なセッションを取得する。期限切れ・未存在の場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// UpdateData はセッションの可変データ（資格情報・ユーザー・フラッシュ）を置き換える。
	UpdateData(ctx context.Context, id string, data model.SessionData) error
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}
