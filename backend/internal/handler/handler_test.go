package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/itchan-dev/anonboard/shared/api"
	"github.com/itchan-dev/anonboard/shared/config"
	"github.com/itchan-dev/anonboard/shared/domain"
	internal_errors "github.com/itchan-dev/anonboard/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type MockBoardService struct {
	FindOrCreateFunc      func(ctx context.Context, name domain.BoardName) (domain.Board, error)
	ListRecentThreadsFunc func(ctx context.Context, name domain.BoardName, threadLimit, replyLimit int) ([]domain.ThreadSummary, error)
}

func (m *MockBoardService) FindOrCreate(ctx context.Context, name domain.BoardName) (domain.Board, error) {
	if m.FindOrCreateFunc != nil {
		return m.FindOrCreateFunc(ctx, name)
	}
	return domain.Board{Name: name}, nil
}

func (m *MockBoardService) ListRecentThreads(ctx context.Context, name domain.BoardName, threadLimit, replyLimit int) ([]domain.ThreadSummary, error) {
	if m.ListRecentThreadsFunc != nil {
		return m.ListRecentThreadsFunc(ctx, name, threadLimit, replyLimit)
	}
	return []domain.ThreadSummary{}, nil
}

type MockThreadService struct {
	CreateFunc func(ctx context.Context, data domain.ThreadCreationData) (domain.Thread, error)
	GetFunc    func(ctx context.Context, id domain.ThreadId) (domain.ThreadWithReplies, error)
	ReportFunc func(ctx context.Context, id domain.ThreadId) (domain.Thread, error)
	DeleteFunc func(ctx context.Context, id domain.ThreadId, password domain.Password) error
}

func (m *MockThreadService) Create(ctx context.Context, data domain.ThreadCreationData) (domain.Thread, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, data)
	}
	return domain.Thread{Id: "t1"}, nil
}

func (m *MockThreadService) Get(ctx context.Context, id domain.ThreadId) (domain.ThreadWithReplies, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return domain.ThreadWithReplies{}, internal_errors.NotFound()
}

func (m *MockThreadService) Report(ctx context.Context, id domain.ThreadId) (domain.Thread, error) {
	if m.ReportFunc != nil {
		return m.ReportFunc(ctx, id)
	}
	return domain.Thread{Id: id, Reported: true}, nil
}

func (m *MockThreadService) Delete(ctx context.Context, id domain.ThreadId, password domain.Password) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, password)
	}
	return nil
}

type MockReplyService struct {
	CreateFunc func(ctx context.Context, data domain.ReplyCreationData) (domain.Reply, error)
	ReportFunc func(ctx context.Context, id domain.ReplyId) (domain.Reply, error)
	DeleteFunc func(ctx context.Context, id domain.ReplyId, password domain.Password) (domain.Reply, error)
}

func (m *MockReplyService) Create(ctx context.Context, data domain.ReplyCreationData) (domain.Reply, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, data)
	}
	return domain.Reply{Id: "r1", ThreadId: data.ThreadId}, nil
}

func (m *MockReplyService) Report(ctx context.Context, id domain.ReplyId) (domain.Reply, error) {
	if m.ReportFunc != nil {
		return m.ReportFunc(ctx, id)
	}
	return domain.Reply{Id: id, Reported: true}, nil
}

func (m *MockReplyService) Delete(ctx context.Context, id domain.ReplyId, password domain.Password) (domain.Reply, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, password)
	}
	return domain.Reply{Id: id, Text: domain.DeletedText}, nil
}

func testConfig() *config.Config {
	return &config.Config{Public: config.Public{ThreadsPerPage: 10, NLastMsg: 3}}
}

// setupRouter mounts the handler the same way the production router does
func setupRouter(board *MockBoardService, thread *MockThreadService, reply *MockReplyService) *chi.Mux {
	h := New(board, thread, reply, &MockHealthChecker{}, testConfig())
	r := chi.NewRouter()
	r.Get("/api/threads/{board}", h.ListThreads)
	r.Post("/api/threads/{board}", h.CreateThread)
	r.Put("/api/threads/{board}", h.ReportThread)
	r.Delete("/api/threads/{board}", h.DeleteThread)
	r.Get("/api/replies/{board}", h.GetThread)
	r.Post("/api/replies/{board}", h.CreateReply)
	r.Put("/api/replies/{board}", h.ReportReply)
	r.Delete("/api/replies/{board}", h.DeleteReply)
	return r
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestListThreads(t *testing.T) {
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	bumped := created.Add(time.Hour)
	board := &MockBoardService{
		ListRecentThreadsFunc: func(ctx context.Context, name domain.BoardName, threadLimit, replyLimit int) ([]domain.ThreadSummary, error) {
			assert.Equal(t, "b1", name)
			assert.Equal(t, 10, threadLimit)
			assert.Equal(t, 3, replyLimit)
			return []domain.ThreadSummary{{
				Id:         "t1",
				Text:       "hello",
				CreatedAt:  created,
				UpdatedAt:  bumped,
				Replies:    []domain.ReplySummary{{Id: "r5", Text: "five", CreatedAt: bumped}},
				ReplyCount: 5,
			}}, nil
		},
	}
	router := setupRouter(board, &MockThreadService{}, &MockReplyService{})

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/threads/b1", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var got []api.ThreadSummaryView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	want := []api.ThreadSummaryView{{
		Id:         "t1",
		Text:       "hello",
		CreatedOn:  created,
		BumpedOn:   bumped,
		Replies:    []api.ReplyView{{Id: "r5", Text: "five", CreatedOn: bumped}},
		ReplyCount: 5,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("listing mismatch (-want +got):\n%s", diff)
	}

	t.Run("sensitive fields never leave the server", func(t *testing.T) {
		var raw []map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
		require.Len(t, raw, 1)
		for _, key := range []string{"_id", "text", "created_on", "bumped_on", "replies", "replycount"} {
			assert.Contains(t, raw[0], key)
		}
		assert.NotContains(t, raw[0], "reported")
		assert.NotContains(t, raw[0], "delete_password")
		assert.NotContains(t, raw[0], "DeletePasswordHash")
	})

	t.Run("empty board encodes as an empty list", func(t *testing.T) {
		router := setupRouter(&MockBoardService{}, &MockThreadService{}, &MockReplyService{})
		rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/threads/empty", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, "[]", rr.Body.String())
	})
}

func TestCreateThread(t *testing.T) {
	t.Run("json body redirects to board", func(t *testing.T) {
		var got domain.ThreadCreationData
		thread := &MockThreadService{
			CreateFunc: func(ctx context.Context, data domain.ThreadCreationData) (domain.Thread, error) {
				got = data
				return domain.Thread{Id: "t1"}, nil
			},
		}
		router := setupRouter(&MockBoardService{}, thread, &MockReplyService{})

		rr := serve(router, jsonRequest(http.MethodPost, "/api/threads/b1", `{"text":"hello","delete_password":"x"}`))
		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/b/b1", rr.Header().Get("Location"))
		assert.Equal(t, domain.ThreadCreationData{Board: "b1", Text: "hello", Password: "x"}, got)
	})

	t.Run("form body", func(t *testing.T) {
		called := false
		thread := &MockThreadService{
			CreateFunc: func(ctx context.Context, data domain.ThreadCreationData) (domain.Thread, error) {
				called = true
				assert.Equal(t, "hello world", data.Text)
				return domain.Thread{Id: "t1"}, nil
			},
		}
		router := setupRouter(&MockBoardService{}, thread, &MockReplyService{})

		rr := serve(router, formRequest(http.MethodPost, "/api/threads/b1", url.Values{"text": {"hello world"}, "delete_password": {"x"}}))
		assert.Equal(t, http.StatusFound, rr.Code)
		assert.True(t, called)
	})

	t.Run("missing password", func(t *testing.T) {
		thread := &MockThreadService{
			CreateFunc: func(ctx context.Context, data domain.ThreadCreationData) (domain.Thread, error) {
				t.Fatal("service must not be called")
				return domain.Thread{}, nil
			},
		}
		router := setupRouter(&MockBoardService{}, thread, &MockReplyService{})

		rr := serve(router, jsonRequest(http.MethodPost, "/api/threads/b1", `{"text":"hello"}`))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestReportThread(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		serviceErr   error
		expectedId   string
		expectedCode int
		expectedBody string
	}{
		{name: "thread_id", body: `{"thread_id":"t1"}`, expectedId: "t1", expectedCode: 200, expectedBody: "reported"},
		{name: "report_id alias", body: `{"report_id":"t2"}`, expectedId: "t2", expectedCode: 200, expectedBody: "reported"},
		{name: "unknown thread", body: `{"thread_id":"nope"}`, serviceErr: internal_errors.NotFound(), expectedId: "nope", expectedCode: 404, expectedBody: "resource not found\n"},
		{name: "no id", body: `{}`, expectedCode: 400, expectedBody: "Required fields missing\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotId string
			thread := &MockThreadService{
				ReportFunc: func(ctx context.Context, id domain.ThreadId) (domain.Thread, error) {
					gotId = id
					return domain.Thread{Id: id, Reported: true}, tt.serviceErr
				},
			}
			router := setupRouter(&MockBoardService{}, thread, &MockReplyService{})

			rr := serve(router, jsonRequest(http.MethodPut, "/api/threads/b1", tt.body))
			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, tt.expectedBody, rr.Body.String())
			assert.Equal(t, tt.expectedId, gotId)
		})
	}
}

func TestDeleteThread(t *testing.T) {
	tests := []struct {
		name         string
		serviceErr   error
		expectedCode int
		expectedBody string
	}{
		{name: "success", expectedCode: 200, expectedBody: "success"},
		{name: "incorrect password", serviceErr: internal_errors.IncorrectPassword(), expectedCode: 403, expectedBody: "incorrect password\n"},
		{name: "not found", serviceErr: internal_errors.NotFound(), expectedCode: 404, expectedBody: "resource not found\n"},
		{name: "storage failure", serviceErr: context.DeadlineExceeded, expectedCode: 500, expectedBody: "Internal server error\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thread := &MockThreadService{
				DeleteFunc: func(ctx context.Context, id domain.ThreadId, password domain.Password) error {
					assert.Equal(t, "t1", id)
					assert.Equal(t, "x", password)
					return tt.serviceErr
				},
			}
			router := setupRouter(&MockBoardService{}, thread, &MockReplyService{})

			// form-encoded DELETE bodies are what the html client sends
			rr := serve(router, formRequest(http.MethodDelete, "/api/threads/b1", url.Values{"thread_id": {"t1"}, "delete_password": {"x"}}))
			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, tt.expectedBody, rr.Body.String())
		})
	}
}

func TestGetThread(t *testing.T) {
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	thread := &MockThreadService{
		GetFunc: func(ctx context.Context, id domain.ThreadId) (domain.ThreadWithReplies, error) {
			if id != "t1" {
				return domain.ThreadWithReplies{}, internal_errors.NotFound()
			}
			return domain.ThreadWithReplies{
				Thread: domain.Thread{Id: "t1", Text: "hello", DeletePasswordHash: "secret", Reported: true, CreatedAt: created, UpdatedAt: created},
				Replies: []domain.Reply{
					{Id: "r1", Text: "first", DeletePasswordHash: "secret", CreatedAt: created},
					{Id: "r2", Text: domain.DeletedText, CreatedAt: created},
				},
			}, nil
		},
	}
	router := setupRouter(&MockBoardService{}, thread, &MockReplyService{})

	rr := serve(router, httptest.NewRequest(http.MethodGet, "/api/replies/b1?thread_id=t1", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var got api.ThreadView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	want := api.ThreadView{
		Id:        "t1",
		Text:      "hello",
		CreatedOn: created,
		BumpedOn:  created,
		Replies: []api.ReplyView{
			{Id: "r1", Text: "first", CreatedOn: created},
			{Id: "r2", Text: "[deleted]", CreatedOn: created},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("thread mismatch (-want +got):\n%s", diff)
	}
	assert.NotContains(t, rr.Body.String(), "secret")

	rr = serve(router, httptest.NewRequest(http.MethodGet, "/api/replies/b1?thread_id=missing", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = serve(router, httptest.NewRequest(http.MethodGet, "/api/replies/b1", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "thread_id is required\n", rr.Body.String())
}

func TestCreateReply(t *testing.T) {
	t.Run("redirects to thread", func(t *testing.T) {
		var got domain.ReplyCreationData
		reply := &MockReplyService{
			CreateFunc: func(ctx context.Context, data domain.ReplyCreationData) (domain.Reply, error) {
				got = data
				return domain.Reply{Id: "r1", ThreadId: data.ThreadId}, nil
			},
		}
		router := setupRouter(&MockBoardService{}, &MockThreadService{}, reply)

		rr := serve(router, formRequest(http.MethodPost, "/api/replies/b1", url.Values{"thread_id": {"t1"}, "text": {"re"}, "delete_password": {"y"}}))
		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/b/b1/t1", rr.Header().Get("Location"))
		assert.Equal(t, domain.ReplyCreationData{ThreadId: "t1", Text: "re", Password: "y"}, got)
	})

	t.Run("unknown thread", func(t *testing.T) {
		reply := &MockReplyService{
			CreateFunc: func(ctx context.Context, data domain.ReplyCreationData) (domain.Reply, error) {
				return domain.Reply{}, internal_errors.NotFound()
			},
		}
		router := setupRouter(&MockBoardService{}, &MockThreadService{}, reply)

		rr := serve(router, jsonRequest(http.MethodPost, "/api/replies/b1", `{"thread_id":"nope","text":"re","delete_password":"y"}`))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid json", func(t *testing.T) {
		router := setupRouter(&MockBoardService{}, &MockThreadService{}, &MockReplyService{})
		rr := serve(router, jsonRequest(http.MethodPost, "/api/replies/b1", `{"thread_id":`))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestReportReply(t *testing.T) {
	var gotId string
	reply := &MockReplyService{
		ReportFunc: func(ctx context.Context, id domain.ReplyId) (domain.Reply, error) {
			gotId = id
			if id == "missing" {
				return domain.Reply{}, internal_errors.NotFound()
			}
			return domain.Reply{Id: id, Reported: true}, nil
		},
	}
	router := setupRouter(&MockBoardService{}, &MockThreadService{}, reply)

	rr := serve(router, jsonRequest(http.MethodPut, "/api/replies/b1", `{"thread_id":"t1","reply_id":"r1"}`))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "reported", rr.Body.String())
	assert.Equal(t, "r1", gotId)

	rr = serve(router, jsonRequest(http.MethodPut, "/api/replies/b1", `{"thread_id":"t1","reply_id":"missing"}`))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "resource not found\n", rr.Body.String())
}

func TestDeleteReply(t *testing.T) {
	tests := []struct {
		name         string
		serviceErr   error
		expectedCode int
		expectedBody string
	}{
		{name: "success", expectedCode: 200, expectedBody: "success"},
		{name: "incorrect password", serviceErr: internal_errors.IncorrectPassword(), expectedCode: 403, expectedBody: "incorrect password\n"},
		{name: "not found", serviceErr: internal_errors.NotFound(), expectedCode: 404, expectedBody: "resource not found\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := &MockReplyService{
				DeleteFunc: func(ctx context.Context, id domain.ReplyId, password domain.Password) (domain.Reply, error) {
					assert.Equal(t, "r1", id)
					assert.Equal(t, "y", password)
					return domain.Reply{Id: id, Text: domain.DeletedText}, tt.serviceErr
				},
			}
			router := setupRouter(&MockBoardService{}, &MockThreadService{}, reply)

			rr := serve(router, jsonRequest(http.MethodDelete, "/api/replies/b1", `{"thread_id":"t1","reply_id":"r1","delete_password":"y"}`))
			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, tt.expectedBody, rr.Body.String())
		})
	}
}
