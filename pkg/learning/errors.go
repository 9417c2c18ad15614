package learning

import "errors"

var (
	ErrStudySetNotFound = errors.New("study set not found")
	ErrTermNotFound     = errors.New("term not found")
	ErrNotOwner         = errors.New("study set is not accessible by this user")
	ErrInvalidAttempt   = errors.New("invalid attempt payload")
)
