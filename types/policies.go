package types

import (
	"time"

	"golang.org/x/exp/rand"
)

type Policy interface {
	// UpdateIteration is called with the trace at the end of each episode
	UpdateIteration(int, *Trace)
	// NextAction picks the action for the observation at the given step, false to stop the episode
	NextAction(int, Observation, Discrete) (Action, bool)
	// Update is called after every step with the transition and the step reward
	Update(step int, obs Observation, action Action, reward float64, nextObs Observation, done bool)
	// Reset clears everything learned so far
	Reset()
}

// RecordablePolicy can persist what it learned under the given path
type RecordablePolicy interface {
	Policy
	Record(path string) error
}

type RandomPolicy struct {
	rand *rand.Rand
}

var _ Policy = &RandomPolicy{}

func NewRandomPolicy() *RandomPolicy {
	return NewRandomPolicyWithSeed(uint64(time.Now().UnixNano()))
}

func NewRandomPolicyWithSeed(seed uint64) *RandomPolicy {
	return &RandomPolicy{
		rand: rand.New(rand.NewSource(seed)),
	}
}

func (r *RandomPolicy) Reset() {

}

func (r *RandomPolicy) UpdateIteration(_ int, _ *Trace) {

}

func (r *RandomPolicy) NextAction(_ int, _ Observation, space Discrete) (Action, bool) {
	if space.N <= 0 {
		return 0, false
	}
	return Action(r.rand.Intn(space.N)), true
}

func (r *RandomPolicy) Update(_ int, _ Observation, _ Action, _ float64, _ Observation, _ bool) {}

// ConstantPolicy always plays the same action. Useful as a floor in comparisons.
type ConstantPolicy struct {
	action Action
}

var _ Policy = &ConstantPolicy{}

func NewConstantPolicy(action Action) *ConstantPolicy {
	return &ConstantPolicy{action: action}
}

func (c *ConstantPolicy) Reset() {}

func (c *ConstantPolicy) UpdateIteration(_ int, _ *Trace) {}

func (c *ConstantPolicy) NextAction(_ int, _ Observation, space Discrete) (Action, bool) {
	if !space.Contains(c.action) {
		return 0, false
	}
	return c.action, true
}

func (c *ConstantPolicy) Update(_ int, _ Observation, _ Action, _ float64, _ Observation, _ bool) {}
