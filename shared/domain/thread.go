package domain

import (
	"time"
)

// to iterate thru layers: handler -> service -> storage
type ThreadCreationData struct {
	Board    BoardName
	Text     PostText
	Password Password
}

type Thread struct {
	Id                 ThreadId
	BoardId            BoardId
	Text               PostText
	DeletePasswordHash string `json:"-"`
	Reported           bool
	ReplyIds           []ReplyId
	CreatedAt          time.Time
	UpdatedAt          time.Time // bumped on every new reply
}

func (t *Thread) ReplyCount() int {
	return len(t.ReplyIds)
}

type ThreadPatch struct {
	Reported *bool
	ReplyIds *[]ReplyId
}

type ThreadWithReplies struct {
	Thread
	Replies []Reply
}

// ThreadSummary is the board listing entry. It intentionally has no password hash and no reported flag.
type ThreadSummary struct {
	Id         ThreadId
	Text       PostText
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Replies    []ReplySummary // most recently bumped first, truncated
	ReplyCount int            // full count, not len(Replies)
}
