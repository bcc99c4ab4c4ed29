package domain

import (
	"time"
)

type ReplyCreationData struct {
	ThreadId ThreadId
	Text     PostText
	Password Password
}

type Reply struct {
	Id                 ReplyId
	ThreadId           ThreadId
	Text               PostText
	DeletePasswordHash string `json:"-"`
	Reported           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (r *Reply) IsDeleted() bool {
	return r.Text == DeletedText
}

type ReplyPatch struct {
	Text     *PostText
	Reported *bool
}

type ReplySummary struct {
	Id        ReplyId
	Text      PostText
	CreatedAt time.Time
}

func (r Reply) Summary() ReplySummary {
	return ReplySummary{Id: r.Id, Text: r.Text, CreatedAt: r.CreatedAt}
}
