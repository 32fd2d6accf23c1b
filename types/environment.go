package types

import (
	"strconv"
	"strings"
)

// Environment is the gym style contract every test environment implements.
// Instances are single owner; callers serialize access.
type Environment interface {
	// Reset starts a new episode and returns its first observation
	Reset() (Observation, error)
	// Step applies the action to the active episode
	Step(Action) (StepResult, error)
	// Render is kept for interface completeness with gym hosts
	Render(mode string) error
	Close() error
	ActionSpace() Discrete
	ObservationSpace() Discrete
}

// Observation the agent perceives after a reset or a step
type Observation []float64

// Hash returns a deterministic key for the observation
func (o Observation) Hash() string {
	parts := make([]string, len(o))
	for i, v := range o {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (o Observation) Eq(other Observation) bool {
	if len(o) != len(other) {
		return false
	}
	for i := range o {
		if o[i] != other[i] {
			return false
		}
	}
	return true
}

func (o Observation) Copy() Observation {
	if o == nil {
		return nil
	}
	c := make(Observation, len(o))
	copy(c, o)
	return c
}

// Action is an index into a discrete action space
type Action int

func (a Action) Hash() string {
	return strconv.Itoa(int(a))
}

// Info carries diagnostics alongside a step. Never used for learning.
type Info map[string]interface{}

// StepResult is the (observation, reward, done, info) tuple returned by Step
type StepResult struct {
	Observation Observation
	Reward      float64
	Done        bool
	Info        Info
}

// Discrete space with N values {0, ..., N-1}
type Discrete struct {
	N int
}

func (d Discrete) Contains(a Action) bool {
	return a >= 0 && int(a) < d.N
}

// Actions lists every member of the space in order
func (d Discrete) Actions() []Action {
	actions := make([]Action, d.N)
	for i := 0; i < d.N; i++ {
		actions[i] = Action(i)
	}
	return actions
}

// StateAbstractor maps the observations seen so far in an episode to a state key
type StateAbstractor func([]Observation) string
