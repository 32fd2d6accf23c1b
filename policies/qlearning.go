package policies

import (
	"github.com/zeu5/gym-dummy/dummy"
	"github.com/zeu5/gym-dummy/types"
	"golang.org/x/exp/rand"
)

// QLearningPolicy is an epsilon greedy tabular Q-learner
type QLearningPolicy struct {
	*tabular
	epsilon float64
	rand    *rand.Rand
}

var _ types.RecordablePolicy = &QLearningPolicy{}
var _ dummy.Predictor = &QLearningPolicy{}

func NewQLearningPolicy(alpha, gamma, epsilon float64, abstractor types.StateAbstractor, seed uint64) *QLearningPolicy {
	return &QLearningPolicy{
		tabular: newTabular(alpha, gamma, abstractor),
		epsilon: epsilon,
		rand:    rand.New(rand.NewSource(seed)),
	}
}

func (q *QLearningPolicy) Reset() {
	q.reset()
}

func (q *QLearningPolicy) Record(path string) error {
	return q.qTable.Record(path)
}

func (q *QLearningPolicy) UpdateIteration(_ int, _ *types.Trace) {

}

func (q *QLearningPolicy) NextAction(step int, obs types.Observation, space types.Discrete) (types.Action, bool) {
	state := q.observe(step, obs, space)
	actions := space.Actions()
	if len(actions) == 0 {
		return 0, false
	}

	if q.rand.Float64() < q.epsilon {
		return actions[q.rand.Intn(len(actions))], true
	}

	actionsMap := make(map[string]types.Action)
	availableActions := make([]string, len(actions))
	for i, a := range actions {
		aHash := a.Hash()
		actionsMap[aHash] = a
		availableActions[i] = aHash
	}
	maxAction, _ := q.qTable.MaxAmong(state, availableActions, 0)
	if maxAction == "" {
		return 0, false
	}
	return actionsMap[maxAction], true
}

func (q *QLearningPolicy) Update(_ int, _ types.Observation, action types.Action, reward float64, nextObs types.Observation, done bool) {
	q.learn(action, reward, nextObs, done)
}
