package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a quiz session id is unknown or expired.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrNoQuestions indicates a session cannot start because no questions could be built.
	ErrNoQuestions = errors.New("no quiz available")
	// ErrNotAnswered is returned when advancing past a question that has no answer yet.
	ErrNotAnswered = errors.New("current question has not been answered")
	// ErrAlreadyAnswered reports an ignored second answer for the same question.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrSessionCompleted is returned for transitions on a finished session.
	ErrSessionCompleted = errors.New("quiz session already completed")
	// ErrConcurrentUpdate is returned when a session kept changing underneath an update.
	ErrConcurrentUpdate = errors.New("quiz session modified concurrently")
	// ErrInvalidCount indicates a non-positive question count.
	ErrInvalidCount = errors.New("question count must be positive")
)
