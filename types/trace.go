package types

import "encoding/json"

// Trace of an episode as tuples (observation, action, reward, nextObservation)
type Trace struct {
	observations     []Observation
	actions          []Action
	rewards          []float64
	nextObservations []Observation
}

func NewTrace() *Trace {
	return &Trace{
		observations:     make([]Observation, 0),
		actions:          make([]Action, 0),
		rewards:          make([]float64, 0),
		nextObservations: make([]Observation, 0),
	}
}

func (t *Trace) Slice(from, to int) *Trace {
	slicedTrace := NewTrace()
	for i := from; i < to; i++ {
		slicedTrace.Append(i-from, t.observations[i], t.actions[i], t.rewards[i], t.nextObservations[i])
	}
	return slicedTrace
}

func (t *Trace) Append(step int, obs Observation, action Action, reward float64, nextObs Observation) {
	t.observations = append(t.observations, obs)
	t.actions = append(t.actions, action)
	t.rewards = append(t.rewards, reward)
	t.nextObservations = append(t.nextObservations, nextObs)
}

func (t *Trace) Len() int {
	return len(t.observations)
}

func (t *Trace) Get(i int) (Observation, Action, float64, Observation, bool) {
	if i < 0 || i >= len(t.observations) {
		return nil, 0, 0, nil, false
	}
	return t.observations[i], t.actions[i], t.rewards[i], t.nextObservations[i], true
}

func (t *Trace) Last() (Observation, Action, float64, Observation, bool) {
	if len(t.observations) < 1 {
		return nil, 0, 0, nil, false
	}
	return t.Get(len(t.observations) - 1)
}

func (t *Trace) GetPrefix(i int) (*Trace, bool) {
	if i > len(t.observations) {
		return nil, false
	}
	return &Trace{
		observations:     t.observations[0:i],
		actions:          t.actions[0:i],
		rewards:          t.rewards[0:i],
		nextObservations: t.nextObservations[0:i],
	}, true
}

// TotalReward sums the rewards collected along the trace
func (t *Trace) TotalReward() float64 {
	total := 0.0
	for _, r := range t.rewards {
		total += r
	}
	return total
}

type traceStep struct {
	Observation     Observation `json:"obs"`
	Action          Action      `json:"action"`
	Reward          float64     `json:"reward"`
	NextObservation Observation `json:"next_obs"`
}

// MarshalJSON encodes the trace as a list of steps, one JSONL line per episode when recorded
func (t *Trace) MarshalJSON() ([]byte, error) {
	steps := make([]traceStep, t.Len())
	for i := range steps {
		steps[i] = traceStep{
			Observation:     t.observations[i],
			Action:          t.actions[i],
			Reward:          t.rewards[i],
			NextObservation: t.nextObservations[i],
		}
	}
	return json.Marshal(steps)
}
