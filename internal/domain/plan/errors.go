package plan

import "errors"

// Shape validation errors

var (
	ErrNoDays            = errors.New("plan has no days")
	ErrNoMeals           = errors.New("day has no meals")
	ErrNonPositiveMacros = errors.New("meal calories and macros must be positive")
)
