package api

import (
	"net/url"
	"time"

	"github.com/itchan-dev/anonboard/shared/domain"
)

// Request DTOs

type CreateThreadRequest struct {
	Text           string `json:"text" validate:"required"`
	DeletePassword string `json:"delete_password" validate:"required"`
}

func (r *CreateThreadRequest) FromForm(form url.Values) {
	r.Text = form.Get("text")
	r.DeletePassword = form.Get("delete_password")
}

// ReportThreadRequest accepts report_id as an alias of thread_id.
type ReportThreadRequest struct {
	ThreadId string `json:"thread_id" validate:"required_without=ReportId"`
	ReportId string `json:"report_id"`
}

func (r *ReportThreadRequest) FromForm(form url.Values) {
	r.ThreadId = form.Get("thread_id")
	r.ReportId = form.Get("report_id")
}

func (r *ReportThreadRequest) Id() domain.ThreadId {
	if r.ThreadId != "" {
		return r.ThreadId
	}
	return r.ReportId
}

type DeleteThreadRequest struct {
	ThreadId       string `json:"thread_id" validate:"required"`
	DeletePassword string `json:"delete_password" validate:"required"`
}

func (r *DeleteThreadRequest) FromForm(form url.Values) {
	r.ThreadId = form.Get("thread_id")
	r.DeletePassword = form.Get("delete_password")
}

// Response DTOs

// ThreadSummaryView is a board listing entry. Password hash and reported flag never leave the server.
type ThreadSummaryView struct {
	Id         string      `json:"_id"`
	Text       string      `json:"text"`
	CreatedOn  time.Time   `json:"created_on"`
	BumpedOn   time.Time   `json:"bumped_on"`
	Replies    []ReplyView `json:"replies"`
	ReplyCount int         `json:"replycount"`
}

// ThreadView is a single thread with every reply.
type ThreadView struct {
	Id        string      `json:"_id"`
	Text      string      `json:"text"`
	CreatedOn time.Time   `json:"created_on"`
	BumpedOn  time.Time   `json:"bumped_on"`
	Replies   []ReplyView `json:"replies"`
}

func NewThreadSummaryViews(summaries []domain.ThreadSummary) []ThreadSummaryView {
	views := make([]ThreadSummaryView, 0, len(summaries))
	for _, s := range summaries {
		replies := make([]ReplyView, 0, len(s.Replies))
		for _, r := range s.Replies {
			replies = append(replies, NewReplyView(r))
		}
		views = append(views, ThreadSummaryView{
			Id:         s.Id,
			Text:       s.Text,
			CreatedOn:  s.CreatedAt,
			BumpedOn:   s.UpdatedAt,
			Replies:    replies,
			ReplyCount: s.ReplyCount,
		})
	}
	return views
}

func NewThreadView(thread domain.ThreadWithReplies) ThreadView {
	replies := make([]ReplyView, 0, len(thread.Replies))
	for _, r := range thread.Replies {
		replies = append(replies, NewReplyView(r.Summary()))
	}
	return ThreadView{
		Id:        thread.Id,
		Text:      thread.Text,
		CreatedOn: thread.CreatedAt,
		BumpedOn:  thread.UpdatedAt,
		Replies:   replies,
	}
}
