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

const replyColumns = "id, thread_id, text, delete_password_hash, reported, created_at, updated_at"

func scanReply(row scanner) (domain.Reply, error) {
	var r domain.Reply
	var createdAt, updatedAt int64
	if err := row.Scan(
		&r.Id, &r.ThreadId, &r.Text, &r.DeletePasswordHash,
		&r.Reported, &createdAt, &updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Reply{}, internal_errors.NotFound()
		}
		return domain.Reply{}, fmt.Errorf("failed to scan reply: %w", err)
	}
	r.CreatedAt, r.UpdatedAt = fromNanos(createdAt), fromNanos(updatedAt)
	return r, nil
}

func (s *Storage) InsertReply(ctx context.Context, reply domain.Reply) (domain.Reply, error) {
	if err := storage.ValidateReply(reply); err != nil {
		return domain.Reply{}, err
	}
	now := s.timestamp()
	reply.Id = uuid.NewString()
	reply.Reported = false
	reply.CreatedAt, reply.UpdatedAt = now, now

	_, err := s.q.ExecContext(ctx, `
        INSERT INTO replies (id, thread_id, text, delete_password_hash, reported, created_at, updated_at)
        VALUES (?1, ?2, ?3, ?4, 0, ?5, ?5)
    `, reply.Id, reply.ThreadId, reply.Text, reply.DeletePasswordHash, now.UnixNano())
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Reply{}, internal_errors.NotFound()
		}
		return domain.Reply{}, fmt.Errorf("failed to insert reply: %w", err)
	}
	return reply, nil
}

func (s *Storage) ReplyByID(ctx context.Context, id domain.ReplyId) (domain.Reply, error) {
	return scanReply(s.q.QueryRowContext(ctx, "SELECT "+replyColumns+" FROM replies WHERE id = ?1", id))
}

func (s *Storage) RecentReplies(ctx context.Context, threadId domain.ThreadId, limit int) ([]domain.Reply, error) {
	return s.queryReplies(ctx, `
        SELECT `+replyColumns+`
        FROM replies
        WHERE thread_id = ?1
        ORDER BY updated_at DESC, created_at DESC, id DESC
        LIMIT ?2
    `, threadId, limitArg(limit))
}

func (s *Storage) ThreadReplies(ctx context.Context, threadId domain.ThreadId) ([]domain.Reply, error) {
	return s.queryReplies(ctx, `
        SELECT `+replyColumns+`
        FROM replies
        WHERE thread_id = ?1
        ORDER BY created_at, id
    `, threadId)
}

func (s *Storage) queryReplies(ctx context.Context, query string, args ...any) ([]domain.Reply, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query replies: %w", err)
	}
	defer rows.Close()

	replies := []domain.Reply{}
	for rows.Next() {
		r, err := scanReply(rows)
		if err != nil {
			return nil, err
		}
		replies = append(replies, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return replies, nil
}

func (s *Storage) UpdateReply(ctx context.Context, id domain.ReplyId, patch domain.ReplyPatch) (domain.Reply, error) {
	set := newSetClause(s.timestamp())
	if patch.Text != nil {
		set.add("text", *patch.Text)
	}
	if patch.Reported != nil {
		set.add("reported", *patch.Reported)
	}
	query, args := set.build("replies", id, replyColumns)
	return scanReply(s.q.QueryRowContext(ctx, query, args...))
}

func (s *Storage) DeleteRepliesByThread(ctx context.Context, threadId domain.ThreadId) (int64, error) {
	result, err := s.q.ExecContext(ctx, "DELETE FROM replies WHERE thread_id = ?1", threadId)
	if err != nil {
		return 0, fmt.Errorf("failed to delete replies: %w", err)
	}
	return result.RowsAffected()
}
