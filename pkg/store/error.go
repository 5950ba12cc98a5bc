package store

import (
	"errors"
	"strconv"
)

// ErrNotFound is returned when a row doesn't exist for the requesting user.
// Rows owned by a different user surface the same error; callers cannot
// distinguish "absent" from "not yours".
type ErrNotFound struct {
	Kind string // "task", "conversation"
	ID   int64
}

func (e ErrNotFound) Error() string {
	if e.ID == 0 {
		return e.Kind + " not found"
	}

	return e.Kind + " " + strconv.FormatInt(e.ID, 10) + " not found"
}

// IsNotFound reports whether err is an ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}
