package policies

import (
	"math"

	"github.com/zeu5/gym-dummy/dummy"
	"github.com/zeu5/gym-dummy/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// SoftMaxPolicy samples actions with probability proportional to exp(Q/temperature)
type SoftMaxPolicy struct {
	*tabular
	temperature float64
	src         rand.Source
}

var _ types.RecordablePolicy = &SoftMaxPolicy{}
var _ dummy.Predictor = &SoftMaxPolicy{}

func NewSoftMaxPolicy(alpha, gamma, temperature float64, abstractor types.StateAbstractor, seed uint64) *SoftMaxPolicy {
	if temperature <= 0 {
		temperature = 1
	}
	return &SoftMaxPolicy{
		tabular:     newTabular(alpha, gamma, abstractor),
		temperature: temperature,
		src:         rand.NewSource(seed),
	}
}

func (s *SoftMaxPolicy) Reset() {
	s.reset()
}

func (s *SoftMaxPolicy) Record(path string) error {
	return s.qTable.Record(path)
}

func (s *SoftMaxPolicy) UpdateIteration(_ int, _ *types.Trace) {

}

func (s *SoftMaxPolicy) NextAction(step int, obs types.Observation, space types.Discrete) (types.Action, bool) {
	state := s.observe(step, obs, space)
	actions := space.Actions()
	if len(actions) == 0 {
		return 0, false
	}

	vals := make([]float64, len(actions))
	maxVal := math.Inf(-1)
	for i, a := range actions {
		vals[i] = s.qTable.Get(state, a.Hash(), 0) / s.temperature
		if vals[i] > maxVal {
			maxVal = vals[i]
		}
	}

	sum := float64(0)
	for i, v := range vals {
		vals[i] = math.Exp(v - maxVal)
		sum += vals[i]
	}
	weights := make([]float64, len(actions))
	for i, v := range vals {
		weights[i] = v / sum
	}

	i, ok := sampleuv.NewWeighted(weights, s.src).Take()
	if !ok {
		return 0, false
	}
	return actions[i], true
}

func (s *SoftMaxPolicy) Update(_ int, _ types.Observation, action types.Action, reward float64, nextObs types.Observation, done bool) {
	s.learn(action, reward, nextObs, done)
}
