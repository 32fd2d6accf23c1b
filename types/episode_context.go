package types

import (
	"context"
	"time"
)

// EpisodeContext carries the information used and produced by a single episode
type EpisodeContext struct {
	Context        context.Context
	Episode        int
	ExperimentName string

	Trace     *Trace
	Timesteps int     // steps executed in the episode
	Reward    float64 // sum of the step rewards

	Terminal   bool // the environment reported done
	HorizonEnd bool // the agent horizon cut the episode short

	Err         error
	RunDuration time.Duration
}

func NewEpisodeContext(ctx context.Context, episode int, experimentName string) *EpisodeContext {
	return &EpisodeContext{
		Context:        ctx,
		Episode:        episode,
		ExperimentName: experimentName,
		Trace:          NewTrace(),
	}
}

func (e *EpisodeContext) SetError(err error) {
	e.Err = err
}

// Valid reports whether the episode finished without an error
func (e *EpisodeContext) Valid() bool {
	return e.Err == nil
}
