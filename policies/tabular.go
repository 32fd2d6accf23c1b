package policies

import (
	"fmt"

	"github.com/zeu5/gym-dummy/types"
)

// observations kept per episode, abstractors only look at a suffix
const maxWindow = 16

// tabular holds the Q table shared by the tabular policies and the episode window
// the state keys are computed from
type tabular struct {
	qTable     *QTable
	alpha      float64
	gamma      float64
	abstractor types.StateAbstractor
	window     []types.Observation
	numActions int
}

func newTabular(alpha, gamma float64, abstractor types.StateAbstractor) *tabular {
	if abstractor == nil {
		abstractor = WindowAbstractor(1)
	}
	return &tabular{
		qTable:     NewQTable(),
		alpha:      alpha,
		gamma:      gamma,
		abstractor: abstractor,
		window:     make([]types.Observation, 0, maxWindow),
		numActions: 2,
	}
}

// observe appends the observation to the episode window and returns the state key
func (t *tabular) observe(step int, obs types.Observation, space types.Discrete) string {
	if step == 0 {
		t.window = t.window[:0]
	}
	t.numActions = space.N
	t.window = append(t.window, obs)
	if len(t.window) > maxWindow {
		t.window = append(t.window[:0], t.window[len(t.window)-maxWindow:]...)
	}
	return t.abstractor(t.window)
}

// learn applies the Q-learning update for the last observed state
func (t *tabular) learn(action types.Action, reward float64, nextObs types.Observation, done bool) {
	state := t.abstractor(t.window)

	target := reward
	if !done && t.gamma > 0 {
		nextWindow := make([]types.Observation, len(t.window), len(t.window)+1)
		copy(nextWindow, t.window)
		nextWindow = append(nextWindow, nextObs)
		_, best := t.qTable.Max(t.abstractor(nextWindow), 0)
		target += t.gamma * best
	}

	cur := t.qTable.Get(state, action.Hash(), 0)
	t.qTable.Set(state, action.Hash(), (1-t.alpha)*cur+t.alpha*target)
}

func (t *tabular) values(state string) []float64 {
	values := make([]float64, t.numActions)
	for i := range values {
		values[i] = t.qTable.Value(state, types.Action(i).Hash(), 0)
	}
	return values
}

// Predict returns the learned value of every action after the observation sequence
func (t *tabular) Predict(sequence []types.Observation) ([]float64, error) {
	if len(sequence) == 0 {
		return nil, fmt.Errorf("empty observation sequence")
	}
	return t.values(t.abstractor(sequence)), nil
}

func (t *tabular) QTable() *QTable {
	return t.qTable
}

func (t *tabular) reset() {
	t.qTable = NewQTable()
	t.window = t.window[:0]
}
