package service

import (
	"context"
	"fmt"

	"github.com/itchan-dev/anonboard/backend/internal/integrity"
	"github.com/itchan-dev/anonboard/backend/internal/storage"
	"github.com/itchan-dev/anonboard/shared/domain"
	"github.com/itchan-dev/anonboard/shared/errors"
	"github.com/itchan-dev/anonboard/shared/logger"
)

type ThreadService interface {
	Create(ctx context.Context, creationData domain.ThreadCreationData) (domain.Thread, error)
	Get(ctx context.Context, id domain.ThreadId) (domain.ThreadWithReplies, error)
	Report(ctx context.Context, id domain.ThreadId) (domain.Thread, error)
	Delete(ctx context.Context, id domain.ThreadId, password domain.Password) error
}

type Thread struct {
	storage   storage.Storage
	boards    BoardService
	hasher    Hasher
	validator PostValidator
	links     *integrity.Manager
}

func NewThread(storage storage.Storage, boards BoardService, hasher Hasher, validator PostValidator, links *integrity.Manager) ThreadService {
	return &Thread{
		storage:   storage,
		boards:    boards,
		hasher:    hasher,
		validator: validator,
		links:     links,
	}
}

func (s *Thread) Create(ctx context.Context, creationData domain.ThreadCreationData) (domain.Thread, error) {
	if err := s.validator.Text(creationData.Text); err != nil {
		return domain.Thread{}, err
	}
	if err := s.validator.Password(creationData.Password); err != nil {
		return domain.Thread{}, err
	}

	hash, err := s.hasher.Hash(creationData.Password)
	if err != nil {
		return domain.Thread{}, fmt.Errorf("failed to hash password: %w", err)
	}

	board, err := s.boards.FindOrCreate(ctx, creationData.Board)
	if err != nil {
		return domain.Thread{}, err
	}

	var thread domain.Thread
	err = s.storage.WithTx(ctx, func(tx storage.Storage) error {
		var err error
		thread, err = tx.InsertThread(ctx, domain.Thread{
			BoardId:            board.Id,
			Text:               creationData.Text,
			DeletePasswordHash: hash,
		})
		if err != nil {
			return err
		}
		return s.links.OnThreadCreated(ctx, tx, board.Id, thread.Id)
	})
	if err != nil {
		return domain.Thread{}, err
	}

	logger.Log.Info("thread created", "board", creationData.Board, "thread_id", thread.Id)
	return thread, nil
}

// Get returns the thread with every reply in creation order.
func (s *Thread) Get(ctx context.Context, id domain.ThreadId) (domain.ThreadWithReplies, error) {
	thread, err := s.storage.ThreadByID(ctx, id)
	if err != nil {
		return domain.ThreadWithReplies{}, err
	}
	replies, err := s.storage.ThreadReplies(ctx, id)
	if err != nil {
		return domain.ThreadWithReplies{}, err
	}
	return domain.ThreadWithReplies{Thread: thread, Replies: replies}, nil
}

func (s *Thread) Report(ctx context.Context, id domain.ThreadId) (domain.Thread, error) {
	reported := true
	thread, err := s.storage.UpdateThread(ctx, id, domain.ThreadPatch{Reported: &reported})
	if err != nil {
		return domain.Thread{}, err
	}
	logger.Log.Info("thread reported", "thread_id", id)
	return thread, nil
}

// Delete removes the thread and all of its replies once the password matches.
func (s *Thread) Delete(ctx context.Context, id domain.ThreadId, password domain.Password) error {
	if id == "" {
		return errors.Validation("thread_id is required")
	}
	if err := s.validator.Password(password); err != nil {
		return err
	}

	return s.storage.WithTx(ctx, func(tx storage.Storage) error {
		thread, err := tx.ThreadByID(ctx, id)
		if err != nil {
			return err
		}
		if !s.hasher.Verify(password, thread.DeletePasswordHash) {
			return errors.IncorrectPassword()
		}

		if err := s.links.OnThreadDeleted(ctx, tx, thread.BoardId, thread.Id); err != nil {
			return err
		}
		if err := tx.DeleteThread(ctx, thread.Id); err != nil {
			return err
		}
		logger.Log.Info("thread deleted", "thread_id", id, "board_id", thread.BoardId)
		return nil
	})
}
