package service

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrNoAgency          = errors.New("user is not attached to an agency")
	ErrNoClientSelected  = errors.New("no client selected")
	ErrClientNotFound    = errors.New("client not found")
	ErrPostNotInQueue    = errors.New("post is not in the queue")
	ErrNothingAhead      = errors.New("no other posts in the queue")
	ErrMoveTooLate       = errors.New("not enough time before the first post")
	ErrInvalidTimeslots  = errors.New("invalid timeslot definition")
	ErrTimeslotsNotReady = errors.New("timeslots are not loaded")
)
