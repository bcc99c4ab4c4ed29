package domain

import (
	"time"
)

type Board struct {
	Id        BoardId
	Name      BoardName
	ThreadIds []ThreadId // append order; listings sort by bump time instead
	CreatedAt time.Time
	UpdatedAt time.Time
}

// nil fields are left untouched
type BoardPatch struct {
	ThreadIds *[]ThreadId
}
