package api

import (
	"net/url"
	"time"

	"github.com/itchan-dev/anonboard/shared/domain"
)

// Request DTOs

type CreateReplyRequest struct {
	ThreadId       string `json:"thread_id" validate:"required"`
	Text           string `json:"text" validate:"required"`
	DeletePassword string `json:"delete_password" validate:"required"`
}

func (r *CreateReplyRequest) FromForm(form url.Values) {
	r.ThreadId = form.Get("thread_id")
	r.Text = form.Get("text")
	r.DeletePassword = form.Get("delete_password")
}

type ReportReplyRequest struct {
	ThreadId string `json:"thread_id"`
	ReplyId  string `json:"reply_id" validate:"required"`
}

func (r *ReportReplyRequest) FromForm(form url.Values) {
	r.ThreadId = form.Get("thread_id")
	r.ReplyId = form.Get("reply_id")
}

type DeleteReplyRequest struct {
	ThreadId       string `json:"thread_id"`
	ReplyId        string `json:"reply_id" validate:"required"`
	DeletePassword string `json:"delete_password" validate:"required"`
}

func (r *DeleteReplyRequest) FromForm(form url.Values) {
	r.ThreadId = form.Get("thread_id")
	r.ReplyId = form.Get("reply_id")
	r.DeletePassword = form.Get("delete_password")
}

// Response DTOs

type ReplyView struct {
	Id        string    `json:"_id"`
	Text      string    `json:"text"`
	CreatedOn time.Time `json:"created_on"`
}

func NewReplyView(r domain.ReplySummary) ReplyView {
	return ReplyView{Id: r.Id, Text: r.Text, CreatedOn: r.CreatedAt}
}
