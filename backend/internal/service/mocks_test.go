package service

import (
	"context"
	"sync"

	"github.com/itchan-dev/anonboard/backend/internal/storage"
	"github.com/itchan-dev/anonboard/shared/domain"
	internal_errors "github.com/itchan-dev/anonboard/shared/errors"
)

// MockStorage mocks storage.Storage. Unset funcs return NotFound for lookups and zero values otherwise.
type MockStorage struct {
	mu    sync.Mutex
	calls map[string]int

	InsertBoardFunc           func(ctx context.Context, name domain.BoardName) (domain.Board, error)
	BoardByIDFunc             func(ctx context.Context, id domain.BoardId) (domain.Board, error)
	BoardByNameFunc           func(ctx context.Context, name domain.BoardName) (domain.Board, error)
	UpdateBoardFunc           func(ctx context.Context, id domain.BoardId, patch domain.BoardPatch) (domain.Board, error)
	InsertThreadFunc          func(ctx context.Context, thread domain.Thread) (domain.Thread, error)
	ThreadByIDFunc            func(ctx context.Context, id domain.ThreadId) (domain.Thread, error)
	RecentThreadsFunc         func(ctx context.Context, boardId domain.BoardId, limit int) ([]domain.Thread, error)
	UpdateThreadFunc          func(ctx context.Context, id domain.ThreadId, patch domain.ThreadPatch) (domain.Thread, error)
	DeleteThreadFunc          func(ctx context.Context, id domain.ThreadId) error
	InsertReplyFunc           func(ctx context.Context, reply domain.Reply) (domain.Reply, error)
	ReplyByIDFunc             func(ctx context.Context, id domain.ReplyId) (domain.Reply, error)
	RecentRepliesFunc         func(ctx context.Context, threadId domain.ThreadId, limit int) ([]domain.Reply, error)
	ThreadRepliesFunc         func(ctx context.Context, threadId domain.ThreadId) ([]domain.Reply, error)
	UpdateReplyFunc           func(ctx context.Context, id domain.ReplyId, patch domain.ReplyPatch) (domain.Reply, error)
	DeleteRepliesByThreadFunc func(ctx context.Context, threadId domain.ThreadId) (int64, error)
}

var _ storage.Storage = (*MockStorage)(nil)

func (m *MockStorage) track(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
}

func (m *MockStorage) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *MockStorage) InsertBoard(ctx context.Context, name domain.BoardName) (domain.Board, error) {
	m.track("InsertBoard")
	if m.InsertBoardFunc != nil {
		return m.InsertBoardFunc(ctx, name)
	}
	return domain.Board{Id: "board-" + name, Name: name}, nil
}

func (m *MockStorage) BoardByID(ctx context.Context, id domain.BoardId) (domain.Board, error) {
	m.track("BoardByID")
	if m.BoardByIDFunc != nil {
		return m.BoardByIDFunc(ctx, id)
	}
	return domain.Board{}, internal_errors.NotFound()
}

func (m *MockStorage) BoardByName(ctx context.Context, name domain.BoardName) (domain.Board, error) {
	m.track("BoardByName")
	if m.BoardByNameFunc != nil {
		return m.BoardByNameFunc(ctx, name)
	}
	return domain.Board{}, internal_errors.NotFound()
}

func (m *MockStorage) UpdateBoard(ctx context.Context, id domain.BoardId, patch domain.BoardPatch) (domain.Board, error) {
	m.track("UpdateBoard")
	if m.UpdateBoardFunc != nil {
		return m.UpdateBoardFunc(ctx, id, patch)
	}
	return domain.Board{Id: id}, nil
}

func (m *MockStorage) InsertThread(ctx context.Context, thread domain.Thread) (domain.Thread, error) {
	m.track("InsertThread")
	if m.InsertThreadFunc != nil {
		return m.InsertThreadFunc(ctx, thread)
	}
	thread.Id = "thread-1"
	return thread, nil
}

func (m *MockStorage) ThreadByID(ctx context.Context, id domain.ThreadId) (domain.Thread, error) {
	m.track("ThreadByID")
	if m.ThreadByIDFunc != nil {
		return m.ThreadByIDFunc(ctx, id)
	}
	return domain.Thread{}, internal_errors.NotFound()
}

func (m *MockStorage) RecentThreads(ctx context.Context, boardId domain.BoardId, limit int) ([]domain.Thread, error) {
	m.track("RecentThreads")
	if m.RecentThreadsFunc != nil {
		return m.RecentThreadsFunc(ctx, boardId, limit)
	}
	return []domain.Thread{}, nil
}

func (m *MockStorage) UpdateThread(ctx context.Context, id domain.ThreadId, patch domain.ThreadPatch) (domain.Thread, error) {
	m.track("UpdateThread")
	if m.UpdateThreadFunc != nil {
		return m.UpdateThreadFunc(ctx, id, patch)
	}
	return domain.Thread{Id: id}, nil
}

func (m *MockStorage) DeleteThread(ctx context.Context, id domain.ThreadId) error {
	m.track("DeleteThread")
	if m.DeleteThreadFunc != nil {
		return m.DeleteThreadFunc(ctx, id)
	}
	return nil
}

func (m *MockStorage) InsertReply(ctx context.Context, reply domain.Reply) (domain.Reply, error) {
	m.track("InsertReply")
	if m.InsertReplyFunc != nil {
		return m.InsertReplyFunc(ctx, reply)
	}
	reply.Id = "reply-1"
	return reply, nil
}

func (m *MockStorage) ReplyByID(ctx context.Context, id domain.ReplyId) (domain.Reply, error) {
	m.track("ReplyByID")
	if m.ReplyByIDFunc != nil {
		return m.ReplyByIDFunc(ctx, id)
	}
	return domain.Reply{}, internal_errors.NotFound()
}

func (m *MockStorage) RecentReplies(ctx context.Context, threadId domain.ThreadId, limit int) ([]domain.Reply, error) {
	m.track("RecentReplies")
	if m.RecentRepliesFunc != nil {
		return m.RecentRepliesFunc(ctx, threadId, limit)
	}
	return []domain.Reply{}, nil
}

func (m *MockStorage) ThreadReplies(ctx context.Context, threadId domain.ThreadId) ([]domain.Reply, error) {
	m.track("ThreadReplies")
	if m.ThreadRepliesFunc != nil {
		return m.ThreadRepliesFunc(ctx, threadId)
	}
	return []domain.Reply{}, nil
}

func (m *MockStorage) UpdateReply(ctx context.Context, id domain.ReplyId, patch domain.ReplyPatch) (domain.Reply, error) {
	m.track("UpdateReply")
	if m.UpdateReplyFunc != nil {
		return m.UpdateReplyFunc(ctx, id, patch)
	}
	return domain.Reply{Id: id}, nil
}

func (m *MockStorage) DeleteRepliesByThread(ctx context.Context, threadId domain.ThreadId) (int64, error) {
	m.track("DeleteRepliesByThread")
	if m.DeleteRepliesByThreadFunc != nil {
		return m.DeleteRepliesByThreadFunc(ctx, threadId)
	}
	return 0, nil
}

func (m *MockStorage) WithTx(ctx context.Context, fn func(tx storage.Storage) error) error {
	m.track("WithTx")
	return fn(m)
}

func (m *MockStorage) Ping(ctx context.Context) error {
	return nil
}

// plainHasher stores passwords as "hashed:<password>" so tests stay fast
type plainHasher struct {
	err error
}

func (h *plainHasher) Hash(password string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + password, nil
}

func (h *plainHasher) Verify(password, hash string) bool {
	return hash == "hashed:"+password
}

type MockPostValidator struct {
	TextFunc     func(text string) error
	PasswordFunc func(password string) error
}

func (m *MockPostValidator) Text(text string) error {
	if m.TextFunc != nil {
		return m.TextFunc(text)
	}
	return nil
}

func (m *MockPostValidator) Password(password string) error {
	if m.PasswordFunc != nil {
		return m.PasswordFunc(password)
	}
	return nil
}

type MockBoardValidator struct {
	BoardNameFunc func(name string) error
}

func (m *MockBoardValidator) BoardName(name string) error {
	if m.BoardNameFunc != nil {
		return m.BoardNameFunc(name)
	}
	return nil
}
