// Package dummy implements minimal environments for sanity testing RL agents.
//
// Every environment shares the same episode controller, Env, parameterised by a Variant
// that decides how observations are drawn and how actions are rewarded.
package dummy

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zeu5/gym-dummy/types"
	"golang.org/x/exp/rand"
)

const DefaultMaxSteps = 100

// ErrNoEpisode is returned by Step before the first Reset
var ErrNoEpisode = errors.New("no active episode, call Reset first")

// Status of the episode state machine
type Status int

const (
	Unstarted Status = iota
	Active
	Done
)

func (s Status) String() string {
	switch s {
	case Unstarted:
		return "Unstarted"
	case Active:
		return "Active"
	default:
		return "Done"
	}
}

type options struct {
	maxSteps     int
	historyLimit int
	src          rand.Source
	logger       *slog.Logger
}

type Option func(*options)

// WithMaxSteps sets the number of steps after which an episode is done
func WithMaxSteps(n int) Option {
	return func(o *options) {
		o.maxSteps = n
	}
}

// WithSeed makes the observation sequence reproducible
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.src = rand.NewSource(seed)
	}
}

// WithSource draws observations from src
func WithSource(src rand.Source) Option {
	return func(o *options) {
		o.src = src
	}
}

// WithHistoryLimit keeps only the n most recent episode records, 0 keeps all of them
func WithHistoryLimit(n int) Option {
	return func(o *options) {
		o.historyLimit = n
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Env is the episode controller. It owns the step counters and every episode record.
// Not safe for concurrent use.
type Env struct {
	variant   Variant
	maxSteps  int
	generator ObservationGenerator
	history   *History
	logger    *slog.Logger

	episode int // -1 before the first reset
	step    int
}

var _ types.Environment = &Env{}

// New creates an environment of the given variant
func New(v Variant, opts ...Option) (*Env, error) {
	o := &options{
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.maxSteps <= 0 {
		return nil, fmt.Errorf("%s: max steps per episode must be positive, got %d", v.Name, o.maxSteps)
	}
	if o.historyLimit < 0 {
		return nil, fmt.Errorf("%s: history limit must not be negative, got %d", v.Name, o.historyLimit)
	}
	if v.NewGenerator == nil || v.Reward == nil {
		return nil, fmt.Errorf("variant %q needs an observation generator and a reward function", v.Name)
	}
	if o.src == nil {
		o.src = rand.NewSource(uint64(time.Now().UnixNano()))
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	e := &Env{
		variant:   v,
		maxSteps:  o.maxSteps,
		generator: v.NewGenerator(o.src),
		history:   newHistory(o.historyLimit),
		logger:    o.logger.With("env", v.Name),
		episode:   -1,
	}
	e.logger.Info("environment created", "version", v.Version, "max_steps", e.maxSteps)
	return e, nil
}

// Reset starts a new episode and returns its first observation. Always legal.
func (e *Env) Reset() (types.Observation, error) {
	e.episode += 1
	e.step = 0
	obs := e.generator.Next()
	e.history.begin(e.episode, obs)
	e.logger.Debug("episode started", "episode", e.episode)
	return obs.Copy(), nil
}

// Step takes the action in the active episode.
// Nothing is recorded when an error is returned.
func (e *Env) Step(action types.Action) (types.StepResult, error) {
	if !e.ActionSpace().Contains(action) {
		return types.StepResult{}, fmt.Errorf("%s: action %d: %w", e.variant.Name, action, types.ErrInvalidAction)
	}
	if e.episode < 0 {
		return types.StepResult{}, fmt.Errorf("%s: %w", e.variant.Name, ErrNoEpisode)
	}
	if e.step >= e.maxSteps {
		return types.StepResult{}, fmt.Errorf("%s episode %d after %d steps: %w", e.variant.Name, e.episode, e.step, types.ErrEpisodeExhausted)
	}

	record := e.history.current()
	record.Actions = append(record.Actions, action)
	e.step += 1
	done := e.step >= e.maxSteps
	reward := e.variant.Reward.Reward(record.Actions, record.Observations)
	obs := e.generator.Next()
	record.Observations = append(record.Observations, obs)

	return types.StepResult{
		Observation: obs.Copy(),
		Reward:      reward,
		Done:        done,
		Info:        types.Info{},
	}, nil
}

// Render does nothing, there is nothing to draw
func (e *Env) Render(_ string) error {
	return nil
}

// Close does nothing, the environment holds no external resources
func (e *Env) Close() error {
	return nil
}

func (e *Env) ActionSpace() types.Discrete {
	return types.Discrete{N: 2}
}

func (e *Env) ObservationSpace() types.Discrete {
	return types.Discrete{N: 2}
}

func (e *Env) Name() string {
	return e.variant.Name
}

func (e *Env) Version() string {
	return e.variant.Version
}

func (e *Env) MaxSteps() int {
	return e.maxSteps
}

// Episode is the index of the active episode, -1 before the first reset
func (e *Env) Episode() int {
	return e.episode
}

// CurrentStep is the number of steps taken in the active episode
func (e *Env) CurrentStep() int {
	return e.step
}

func (e *Env) Status() Status {
	switch {
	case e.episode < 0:
		return Unstarted
	case e.step >= e.maxSteps:
		return Done
	default:
		return Active
	}
}

// History gives read access to the episode records
func (e *Env) History() *History {
	return e.history
}
