package recipe

import "errors"

var (
	ErrCandidateNotFound = errors.New("recipe candidate not found")
)
