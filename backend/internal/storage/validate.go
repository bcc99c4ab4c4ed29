package storage

import (
	"github.com/itchan-dev/anonboard/shared/domain"
	"github.com/itchan-dev/anonboard/shared/errors"
)

// Required-field checks applied by every engine before insert.

func ValidateBoard(name domain.BoardName) error {
	if name == "" {
		return errors.Validation("board name is required")
	}
	return nil
}

func ValidateThread(t domain.Thread) error {
	switch {
	case t.BoardId == "":
		return errors.Validation("board id is required")
	case t.Text == "":
		return errors.Validation("text is required")
	case t.DeletePasswordHash == "":
		return errors.Validation("delete password is required")
	}
	return nil
}

func ValidateReply(r domain.Reply) error {
	switch {
	case r.ThreadId == "":
		return errors.Validation("thread id is required")
	case r.Text == "":
		return errors.Validation("text is required")
	case r.DeletePasswordHash == "":
		return errors.Validation("delete password is required")
	}
	return nil
}
