package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/itchan-dev/anonboard/backend/internal/storage"
	"github.com/itchan-dev/anonboard/shared/domain"
	internal_errors "github.com/itchan-dev/anonboard/shared/errors"
	sharedpg "github.com/itchan-dev/anonboard/shared/storage/pg"
	"github.com/lib/pq"
)

const boardColumns = "id, name, thread_ids, created_at, updated_at"

func scanBoard(row scanner) (domain.Board, error) {
	var b domain.Board
	var threadIds pq.StringArray
	if err := row.Scan(&b.Id, &b.Name, &threadIds, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Board{}, internal_errors.NotFound()
		}
		return domain.Board{}, fmt.Errorf("failed to scan board: %w", err)
	}
	b.ThreadIds = stringSlice(threadIds)
	return b, nil
}

func (s *Storage) InsertBoard(ctx context.Context, name domain.BoardName) (domain.Board, error) {
	if err := storage.ValidateBoard(name); err != nil {
		return domain.Board{}, err
	}
	now := s.timestamp()
	board := domain.Board{Id: uuid.NewString(), Name: name, ThreadIds: []domain.ThreadId{}, CreatedAt: now, UpdatedAt: now}

	_, err := s.q.ExecContext(ctx, `
        INSERT INTO boards (id, name, thread_ids, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
    `, board.Id, board.Name, pq.StringArray(board.ThreadIds), board.CreatedAt, board.UpdatedAt)
	if err != nil {
		if sharedpg.IsUniqueViolation(err) {
			return domain.Board{}, internal_errors.DuplicateKey("board already exists")
		}
		return domain.Board{}, fmt.Errorf("failed to insert board: %w", err)
	}
	return board, nil
}

func (s *Storage) BoardByID(ctx context.Context, id domain.BoardId) (domain.Board, error) {
	return scanBoard(s.q.QueryRowContext(ctx,
		"SELECT "+boardColumns+" FROM boards WHERE id = $1"+s.lock(), id))
}

func (s *Storage) BoardByName(ctx context.Context, name domain.BoardName) (domain.Board, error) {
	return scanBoard(s.q.QueryRowContext(ctx,
		"SELECT "+boardColumns+" FROM boards WHERE name = $1", name))
}

func (s *Storage) UpdateBoard(ctx context.Context, id domain.BoardId, patch domain.BoardPatch) (domain.Board, error) {
	set := newSetClause(s.timestamp())
	if patch.ThreadIds != nil {
		set.add("thread_ids", pq.StringArray(stringSlice(*patch.ThreadIds)))
	}
	query, args := set.build("boards", id, boardColumns)
	return scanBoard(s.q.QueryRowContext(ctx, query, args...))
}
