// Package storage defines the persistence contract shared by the service layer,
// the integrity manager and the concrete engines (pg, sqlite).
package storage

import (
	"context"

	"github.com/itchan-dev/anonboard/shared/domain"
)

// Storage is the entity store for boards, threads and replies.
//
// Lookups return errors.NotFound when the record does not exist (malformed ids
// included). Updates always bump updated_at. Listings with limit <= 0 are unbounded.
type Storage interface {
	BoardStorage
	ThreadStorage
	ReplyStorage

	// WithTx runs fn atomically against a transactional Storage.
	// Calling WithTx on a transactional Storage joins the running transaction.
	WithTx(ctx context.Context, fn func(tx Storage) error) error
	Ping(ctx context.Context) error
}

type BoardStorage interface {
	// InsertBoard returns errors.DuplicateKey if the name is taken.
	InsertBoard(ctx context.Context, name domain.BoardName) (domain.Board, error)
	BoardByID(ctx context.Context, id domain.BoardId) (domain.Board, error)
	BoardByName(ctx context.Context, name domain.BoardName) (domain.Board, error)
	UpdateBoard(ctx context.Context, id domain.BoardId, patch domain.BoardPatch) (domain.Board, error)
}

type ThreadStorage interface {
	// InsertThread assigns Id and timestamps. BoardId, Text and DeletePasswordHash are required.
	InsertThread(ctx context.Context, thread domain.Thread) (domain.Thread, error)
	ThreadByID(ctx context.Context, id domain.ThreadId) (domain.Thread, error)
	// RecentThreads returns the threads of a board, most recently bumped first.
	RecentThreads(ctx context.Context, boardId domain.BoardId, limit int) ([]domain.Thread, error)
	UpdateThread(ctx context.Context, id domain.ThreadId, patch domain.ThreadPatch) (domain.Thread, error)
	DeleteThread(ctx context.Context, id domain.ThreadId) error
}

type ReplyStorage interface {
	// InsertReply assigns Id and timestamps. ThreadId, Text and DeletePasswordHash are required.
	InsertReply(ctx context.Context, reply domain.Reply) (domain.Reply, error)
	ReplyByID(ctx context.Context, id domain.ReplyId) (domain.Reply, error)
	// RecentReplies returns the replies of a thread, most recently bumped first.
	RecentReplies(ctx context.Context, threadId domain.ThreadId, limit int) ([]domain.Reply, error)
	// ThreadReplies returns every reply of a thread in creation order.
	ThreadReplies(ctx context.Context, threadId domain.ThreadId) ([]domain.Reply, error)
	UpdateReply(ctx context.Context, id domain.ReplyId, patch domain.ReplyPatch) (domain.Reply, error)
	// DeleteRepliesByThread hard-deletes every reply of a thread and returns how many were removed.
	DeleteRepliesByThread(ctx context.Context, threadId domain.ThreadId) (int64, error)
}
