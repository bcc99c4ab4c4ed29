package utils

import (
	"github.com/itchan-dev/anonboard/shared/domain"
	"github.com/itchan-dev/anonboard/shared/errors"
)

// PostValidator performs the required-field checks for boards, threads and replies.
type PostValidator struct{}

func (v *PostValidator) BoardName(name domain.BoardName) error {
	if name == "" {
		return errors.Validation("board name is required")
	}
	return nil
}

func (v *PostValidator) Text(text domain.PostText) error {
	if text == "" {
		return errors.Validation("text is required")
	}
	return nil
}

func (v *PostValidator) Password(password domain.Password) error {
	if password == "" {
		return errors.Validation("delete_password is required")
	}
	return nil
}
