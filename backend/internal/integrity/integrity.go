// Package integrity keeps the parent→child id lists of boards and threads in step
// with thread and reply lifecycles.
//
// Every method runs against the storage handle it is given, so callers pass the
// transactional handle of the operation that creates or deletes the child. That
// way the link change commits or rolls back together with the child itself.
package integrity

import (
	"context"
	"fmt"
	"slices"

	"github.com/itchan-dev/anonboard/backend/internal/storage"
	"github.com/itchan-dev/anonboard/shared/domain"
	"github.com/itchan-dev/anonboard/shared/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	linkOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anonboard_link_operations_total",
			Help: "Parent/child link changes performed by the integrity manager",
		},
		[]string{"operation"},
	)

	cascadedRepliesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "anonboard_cascaded_replies_total",
			Help: "Replies hard-deleted together with their thread",
		},
	)
)

// Links is the subset of storage the manager touches.
type Links interface {
	BoardByID(ctx context.Context, id domain.BoardId) (domain.Board, error)
	UpdateBoard(ctx context.Context, id domain.BoardId, patch domain.BoardPatch) (domain.Board, error)
	ThreadByID(ctx context.Context, id domain.ThreadId) (domain.Thread, error)
	UpdateThread(ctx context.Context, id domain.ThreadId, patch domain.ThreadPatch) (domain.Thread, error)
	DeleteRepliesByThread(ctx context.Context, threadId domain.ThreadId) (int64, error)
}

var _ Links = (storage.Storage)(nil)

type Manager struct{}

func New() *Manager {
	return &Manager{}
}

// OnThreadCreated appends threadId to the board's thread list unless it is already there.
func (m *Manager) OnThreadCreated(ctx context.Context, s Links, boardId domain.BoardId, threadId domain.ThreadId) error {
	board, err := s.BoardByID(ctx, boardId)
	if err != nil {
		return err
	}
	if slices.Contains(board.ThreadIds, threadId) {
		return nil
	}

	ids := append(slices.Clone(board.ThreadIds), threadId)
	if _, err := s.UpdateBoard(ctx, boardId, domain.BoardPatch{ThreadIds: &ids}); err != nil {
		return fmt.Errorf("failed to link thread to board: %w", err)
	}
	linkOperationsTotal.WithLabelValues("thread_linked").Inc()
	logger.Log.Debug("thread linked", "board_id", boardId, "thread_id", threadId)
	return nil
}

// OnReplyCreated appends replyId to the thread's reply list and bumps the thread.
// The bump happens even if the id was already linked, so a retried call still floats the thread.
func (m *Manager) OnReplyCreated(ctx context.Context, s Links, threadId domain.ThreadId, replyId domain.ReplyId) error {
	thread, err := s.ThreadByID(ctx, threadId)
	if err != nil {
		return err
	}

	ids := thread.ReplyIds
	if !slices.Contains(ids, replyId) {
		ids = append(slices.Clone(ids), replyId)
	}
	if _, err := s.UpdateThread(ctx, threadId, domain.ThreadPatch{ReplyIds: &ids}); err != nil {
		return fmt.Errorf("failed to link reply to thread: %w", err)
	}
	linkOperationsTotal.WithLabelValues("reply_linked").Inc()
	logger.Log.Debug("reply linked", "thread_id", threadId, "reply_id", replyId)
	return nil
}

// OnThreadDeleted hard-deletes the thread's replies, then unlinks the thread from its board.
// The thread row itself is removed by the caller afterwards in the same transaction.
func (m *Manager) OnThreadDeleted(ctx context.Context, s Links, boardId domain.BoardId, threadId domain.ThreadId) error {
	removed, err := s.DeleteRepliesByThread(ctx, threadId)
	if err != nil {
		return fmt.Errorf("failed to cascade replies: %w", err)
	}
	cascadedRepliesTotal.Add(float64(removed))

	board, err := s.BoardByID(ctx, boardId)
	if err != nil {
		return err
	}
	ids := slices.DeleteFunc(slices.Clone(board.ThreadIds), func(id domain.ThreadId) bool { return id == threadId })
	if len(ids) != len(board.ThreadIds) {
		if _, err := s.UpdateBoard(ctx, boardId, domain.BoardPatch{ThreadIds: &ids}); err != nil {
			return fmt.Errorf("failed to unlink thread from board: %w", err)
		}
	}
	linkOperationsTotal.WithLabelValues("thread_unlinked").Inc()
	logger.Log.Debug("thread unlinked", "board_id", boardId, "thread_id", threadId, "replies_removed", removed)
	return nil
}
