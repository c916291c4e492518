package scheduler

import "errors"

var (
	ErrNoJobs               = errors.New("scheduler: no jobs registered")
	ErrJobAlreadyRegistered = errors.New("scheduler: job already registered")
	ErrInvalidJob           = errors.New("scheduler: job needs a name, schedule and function")
	ErrAlreadyStarted       = errors.New("scheduler: already started")
)
