package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/itchan-dev/anonboard/backend/internal/storage"
	"github.com/itchan-dev/anonboard/shared/domain"
	internal_errors "github.com/itchan-dev/anonboard/shared/errors"
)

const threadColumns = "id, board_id, text, delete_password_hash, reported, reply_ids, created_at, updated_at"

func scanThread(row scanner) (domain.Thread, error) {
	var t domain.Thread
	var replyIds string
	var createdAt, updatedAt int64
	if err := row.Scan(
		&t.Id, &t.BoardId, &t.Text, &t.DeletePasswordHash,
		&t.Reported, &replyIds, &createdAt, &updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Thread{}, internal_errors.NotFound()
		}
		return domain.Thread{}, fmt.Errorf("failed to scan thread: %w", err)
	}
	ids, err := decodeIds(replyIds)
	if err != nil {
		return domain.Thread{}, err
	}
	t.ReplyIds = ids
	t.CreatedAt, t.UpdatedAt = fromNanos(createdAt), fromNanos(updatedAt)
	return t, nil
}

func (s *Storage) InsertThread(ctx context.Context, thread domain.Thread) (domain.Thread, error) {
	if err := storage.ValidateThread(thread); err != nil {
		return domain.Thread{}, err
	}
	now := s.timestamp()
	thread.Id = uuid.NewString()
	thread.Reported = false
	thread.ReplyIds = []domain.ReplyId{}
	thread.CreatedAt, thread.UpdatedAt = now, now

	_, err := s.q.ExecContext(ctx, `
        INSERT INTO threads (id, board_id, text, delete_password_hash, reported, reply_ids, created_at, updated_at)
        VALUES (?1, ?2, ?3, ?4, 0, '[]', ?5, ?5)
    `, thread.Id, thread.BoardId, thread.Text, thread.DeletePasswordHash, now.UnixNano())
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Thread{}, internal_errors.NotFound()
		}
		return domain.Thread{}, fmt.Errorf("failed to insert thread: %w", err)
	}
	return thread, nil
}

func (s *Storage) ThreadByID(ctx context.Context, id domain.ThreadId) (domain.Thread, error) {
	return scanThread(s.q.QueryRowContext(ctx, "SELECT "+threadColumns+" FROM threads WHERE id = ?1", id))
}

func (s *Storage) RecentThreads(ctx context.Context, boardId domain.BoardId, limit int) ([]domain.Thread, error) {
	rows, err := s.q.QueryContext(ctx, `
        SELECT `+threadColumns+`
        FROM threads
        WHERE board_id = ?1
        ORDER BY updated_at DESC, created_at DESC, id DESC
        LIMIT ?2
    `, boardId, limitArg(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query threads: %w", err)
	}
	defer rows.Close()

	threads := []domain.Thread{}
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, err
		}
		threads = append(threads, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return threads, nil
}

func (s *Storage) UpdateThread(ctx context.Context, id domain.ThreadId, patch domain.ThreadPatch) (domain.Thread, error) {
	set := newSetClause(s.timestamp())
	if patch.Reported != nil {
		set.add("reported", *patch.Reported)
	}
	if patch.ReplyIds != nil {
		encoded, err := encodeIds(*patch.ReplyIds)
		if err != nil {
			return domain.Thread{}, err
		}
		set.add("reply_ids", encoded)
	}
	query, args := set.build("threads", id, threadColumns)
	return scanThread(s.q.QueryRowContext(ctx, query, args...))
}

func (s *Storage) DeleteThread(ctx context.Context, id domain.ThreadId) error {
	result, err := s.q.ExecContext(ctx, "DELETE FROM threads WHERE id = ?1", id)
	if err != nil {
		return fmt.Errorf("failed to delete thread: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return internal_errors.NotFound()
	}
	return nil
}
