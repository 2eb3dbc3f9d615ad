package cleanup

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// mockPurger はSessionPurgerのモック。
type mockPurger struct {
	called  bool
	deleted int64
	err     error
}

func (m *mockPurger) DeleteExpired(ctx context.Context) (int64, error) {
	m.called = true
	return m.deleted, m.err
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

func TestCleanupJob_Run_DeletesExpiredSessions(t *testing.T) {
	var buf bytes.Buffer
	purger := &mockPurger{deleted: 7}
	job := NewCleanupJob(purger, newTestLogger(&buf))

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !purger.called {
		t.Error("DeleteExpired should be called")
	}
	if !strings.Contains(buf.String(), `"deleted_count":7`) {
		t.Errorf("log output = %s, want deleted_count=7", buf.String())
	}
}

func TestCleanupJob_Run_IdempotentWhenNothingExpired(t *testing.T) {
	var buf bytes.Buffer
	job := NewCleanupJob(&mockPurger{deleted: 0}, newTestLogger(&buf))

	if err := job.Run(context.Background()); err != nil {
		t.Errorf("unexpected error for empty purge: %v", err)
	}
}

func TestCleanupJob_Run_PropagatesFailure(t *testing.T) {
	var buf bytes.Buffer
	purger := &mockPurger{err: errors.New("connection reset")}
	job := NewCleanupJob(purger, newTestLogger(&buf))

	if err := job.Run(context.Background()); err == nil {
		t.Error("expected error from failed purge")
	}
	if !strings.Contains(buf.String(), "connection reset") {
		t.Errorf("log output = %s, want failure reason", buf.String())
	}
}
