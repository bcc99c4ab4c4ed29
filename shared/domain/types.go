package domain

type (
	BoardId   = string
	BoardName = string

	ThreadId = string
	ReplyId  = string

	PostText = string
	Password = string
)

// DeletedText replaces the text of a soft-deleted reply.
const DeletedText PostText = "[deleted]"
