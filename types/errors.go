package types

import "errors"

var (
	// ErrEpisodeExhausted is returned by Step once the episode reached its step limit.
	// The caller has to Reset before stepping again.
	ErrEpisodeExhausted = errors.New("episode is done")
	// ErrInvalidAction is returned by Step for actions outside the action space
	ErrInvalidAction = errors.New("invalid action")
)
