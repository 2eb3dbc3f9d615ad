package handler

import (
	"context"
	"log/slog"

	"github.com/ryanpadilha/atlas-brain/internal/model"
	"github.com/ryanpadilha/atlas-brain/internal/repository"
)

// FlashStore はセッション行を介したフラッシュメッセージの積み込みと取り出しを行う。
// フラッシュはセッションのjsonbデータに保持され、リダイレクトをまたいで生存する。
type FlashStore struct {
	repo repository.SessionRepository
}

// NewFlashStore はFlashStoreを生成する。
func NewFlashStore(repo repository.SessionRepository) *FlashStore {
	return &FlashStore{repo: repo}
}

// Push はフラッシュメッセージをセッションに積む。
// 未認証（session == nil）の場合は何もしない。
// 永続化の失敗はメッセージの消失にとどまるためログのみとする。
func (f *FlashStore) Push(ctx context.Context, session *model.Session, category, message string) {
	if session == nil {
		return
	}

	session.Data.Flashes = append(session.Data.Flashes, model.Flash{
		Category: category,
		Message:  message,
	})

	if err := f.repo.UpdateData(ctx, session.ID, session.Data); err != nil {
		slog.Error("failed to push flash message",
			slog.String("session_id", session.ID),
			slog.String("error", err.Error()),
		)
	}
}

// Pop は未表示のフラッシュメッセージを全件取り出し、セッションから消去する。
func (f *FlashStore) Pop(ctx context.Context, session *model.Session) []model.Flash {
	if session == nil || len(session.Data.Flashes) == 0 {
		return nil
	}

	flashes := session.Data.Flashes
	session.Data.Flashes = nil

	if err := f.repo.UpdateData(ctx, session.ID, session.Data); err != nil {
		slog.Error("failed to clear flash messages",
			slog.String("session_id", session.ID),
			slog.String("error", err.Error()),
		)
	}

	return flashes
}
