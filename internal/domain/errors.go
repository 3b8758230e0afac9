package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResult is returned when a module has no questions to play.
	ErrEmptyResult = errors.New("no questions available")
	// ErrSessionNotFound is returned when a game session does not exist or was ended.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrSessionClosed is returned for actions on a torn-down session.
	ErrSessionClosed = errors.New("game session closed")
	// ErrAlreadySubmitted guards the one submission allowed per session.
	ErrAlreadySubmitted = errors.New("result already submitted")
	// ErrProfileNotFound indicates no user profile is cached locally.
	ErrProfileNotFound = errors.New("user profile not found")
	// ErrWrongGame is returned when an action targets a different game type.
	ErrWrongGame = errors.New("action not supported by this game")
	// ErrInvalidMode indicates an unknown RPS mode.
	ErrInvalidMode = errors.New("invalid game mode")
	// ErrInvalidChoice indicates an unknown rock-paper-scissors hand.
	ErrInvalidChoice = errors.New("invalid choice")
)

// NetworkError wraps any failed call to the remote API.
type NetworkError struct {
	Op     string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
