package service

import (
	"context"
	"fmt"

	"github.com/itchan-dev/anonboard/backend/internal/storage"
	"github.com/itchan-dev/anonboard/shared/domain"
	"github.com/itchan-dev/anonboard/shared/errors"
	"github.com/itchan-dev/anonboard/shared/logger"
)

// to mock service in tests
type BoardService interface {
	FindOrCreate(ctx context.Context, name domain.BoardName) (domain.Board, error)
	ListRecentThreads(ctx context.Context, name domain.BoardName, threadLimit, replyLimit int) ([]domain.ThreadSummary, error)
}

type Board struct {
	storage   storage.Storage
	validator BoardValidator
}

type BoardValidator interface {
	BoardName(name domain.BoardName) error
}

func NewBoard(storage storage.Storage, validator BoardValidator) BoardService {
	return &Board{storage, validator}
}

// FindOrCreate looks the board up by exact name and inserts it when absent.
// Losing an insert race to a concurrent caller falls back to a second lookup.
// Must not run inside a transaction: on postgres the failed insert would abort it.
func (b *Board) FindOrCreate(ctx context.Context, name domain.BoardName) (domain.Board, error) {
	if err := b.validator.BoardName(name); err != nil {
		return domain.Board{}, err
	}

	board, err := b.storage.BoardByName(ctx, name)
	if err == nil {
		return board, nil
	}
	if !errors.IsNotFound(err) {
		return domain.Board{}, err
	}

	board, err = b.storage.InsertBoard(ctx, name)
	if err == nil {
		logger.Log.Info("board created", "board", name, "board_id", board.Id)
		return board, nil
	}
	if !errors.IsDuplicateKey(err) {
		return domain.Board{}, err
	}

	logger.Log.Debug("board created concurrently, retrying lookup", "board", name)
	return b.storage.BoardByName(ctx, name)
}

func (b *Board) ListRecentThreads(ctx context.Context, name domain.BoardName, threadLimit, replyLimit int) ([]domain.ThreadSummary, error) {
	board, err := b.FindOrCreate(ctx, name)
	if err != nil {
		return nil, err
	}

	threads, err := b.storage.RecentThreads(ctx, board.Id, threadLimit)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.ThreadSummary, 0, len(threads))
	for _, thread := range threads {
		replies, err := b.storage.RecentReplies(ctx, thread.Id, replyLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to load replies of thread %s: %w", thread.Id, err)
		}
		shown := make([]domain.ReplySummary, 0, len(replies))
		for _, r := range replies {
			shown = append(shown, r.Summary())
		}
		summaries = append(summaries, domain.ThreadSummary{
			Id:         thread.Id,
			Text:       thread.Text,
			CreatedAt:  thread.CreatedAt,
			UpdatedAt:  thread.UpdatedAt,
			Replies:    shown,
			ReplyCount: thread.ReplyCount(),
		})
	}
	return summaries, nil
}
