package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a quiz session id is unknown.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrNameTooShort is returned when a learner name has fewer than 3 characters after trimming.
	ErrNameTooShort = errors.New("student name must have at least 3 characters")
	// ErrNotStarted indicates an action that needs a learner identity.
	ErrNotStarted = errors.New("quiz session has no learner")
	// ErrAwaitingAck is returned when an answer is submitted before feedback was acknowledged.
	ErrAwaitingAck = errors.New("feedback must be acknowledged first")
	// ErrNoFeedback is returned when acknowledging without a pending answer.
	ErrNoFeedback = errors.New("no answer awaiting acknowledgement")
	// ErrQuizFinished indicates the session has no questions left.
	ErrQuizFinished = errors.New("quiz already finished")
	// ErrInvalidChoice indicates the submitted choice is not one of the displayed options.
	ErrInvalidChoice = errors.New("choice is not one of the options")
	// ErrQuestionMismatch indicates an answer aimed at a question other than the current one.
	ErrQuestionMismatch = errors.New("answer does not match the current question")
	// ErrNotFinished is returned when finalizing a session that still has questions left.
	ErrNotFinished = errors.New("quiz not finished yet")
	// ErrDuplicateQuestion indicates two catalog items share an id.
	ErrDuplicateQuestion = errors.New("duplicate question id")
	// ErrClearNotConfirmed is returned when clearing results without confirmation.
	ErrClearNotConfirmed = errors.New("clearing results requires confirmation")
	// ErrUnknownRecordSet indicates an export of a record set that does not exist.
	ErrUnknownRecordSet = errors.New("unknown record set")
)
