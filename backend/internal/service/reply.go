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

type ReplyService interface {
	Create(ctx context.Context, creationData domain.ReplyCreationData) (domain.Reply, error)
	Report(ctx context.Context, id domain.ReplyId) (domain.Reply, error)
	Delete(ctx context.Context, id domain.ReplyId, password domain.Password) (domain.Reply, error)
}

type Reply struct {
	storage   storage.Storage
	hasher    Hasher
	validator PostValidator
	links     *integrity.Manager
}

func NewReply(storage storage.Storage, hasher Hasher, validator PostValidator, links *integrity.Manager) ReplyService {
	return &Reply{
		storage:   storage,
		hasher:    hasher,
		validator: validator,
		links:     links,
	}
}

func (s *Reply) Create(ctx context.Context, creationData domain.ReplyCreationData) (domain.Reply, error) {
	if creationData.ThreadId == "" {
		return domain.Reply{}, errors.Validation("thread_id is required")
	}
	if err := s.validator.Text(creationData.Text); err != nil {
		return domain.Reply{}, err
	}
	if err := s.validator.Password(creationData.Password); err != nil {
		return domain.Reply{}, err
	}

	if _, err := s.storage.ThreadByID(ctx, creationData.ThreadId); err != nil {
		return domain.Reply{}, err
	}

	hash, err := s.hasher.Hash(creationData.Password)
	if err != nil {
		return domain.Reply{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var reply domain.Reply
	err = s.storage.WithTx(ctx, func(tx storage.Storage) error {
		var err error
		reply, err = tx.InsertReply(ctx, domain.Reply{
			ThreadId:           creationData.ThreadId,
			Text:               creationData.Text,
			DeletePasswordHash: hash,
		})
		if err != nil {
			return err
		}
		return s.links.OnReplyCreated(ctx, tx, reply.ThreadId, reply.Id)
	})
	if err != nil {
		return domain.Reply{}, err
	}

	logger.Log.Info("reply created", "thread_id", reply.ThreadId, "reply_id", reply.Id)
	return reply, nil
}

func (s *Reply) Report(ctx context.Context, id domain.ReplyId) (domain.Reply, error) {
	reported := true
	reply, err := s.storage.UpdateReply(ctx, id, domain.ReplyPatch{Reported: &reported})
	if err != nil {
		return domain.Reply{}, err
	}
	logger.Log.Info("reply reported", "reply_id", id)
	return reply, nil
}

// Delete soft-deletes the reply: the text is replaced and the record stays linked to its thread.
func (s *Reply) Delete(ctx context.Context, id domain.ReplyId, password domain.Password) (domain.Reply, error) {
	if id == "" {
		return domain.Reply{}, errors.Validation("reply_id is required")
	}
	if err := s.validator.Password(password); err != nil {
		return domain.Reply{}, err
	}

	reply, err := s.storage.ReplyByID(ctx, id)
	if err != nil {
		return domain.Reply{}, err
	}
	if !s.hasher.Verify(password, reply.DeletePasswordHash) {
		return domain.Reply{}, errors.IncorrectPassword()
	}

	text := domain.DeletedText
	reply, err = s.storage.UpdateReply(ctx, id, domain.ReplyPatch{Text: &text})
	if err != nil {
		return domain.Reply{}, err
	}
	logger.Log.Info("reply deleted", "reply_id", id, "thread_id", reply.ThreadId)
	return reply, nil
}
