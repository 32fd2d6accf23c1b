package dummy

import "github.com/zeu5/gym-dummy/types"

// RewardFunction scores the action just taken. It sees the episode actions including the
// new one and the observations up to, but not including, the one the step will produce.
// Callers guarantee at least one action.
type RewardFunction interface {
	Reward(actions []types.Action, observations []types.Observation) float64
}

// RewardFunc adapts a function to RewardFunction
type RewardFunc func(actions []types.Action, observations []types.Observation) float64

func (f RewardFunc) Reward(actions []types.Action, observations []types.Observation) float64 {
	return f(actions, observations)
}

func score(hit bool) float64 {
	if hit {
		return 1
	}
	return -1
}

func lastAction(actions []types.Action) types.Action {
	return actions[len(actions)-1]
}

// SignReward pays for action 1 on a positive last observation and action 0 otherwise
var SignReward = RewardFunc(func(actions []types.Action, observations []types.Observation) float64 {
	action := lastAction(actions)
	last := observations[len(observations)-1]
	if last[0] > 0 {
		return score(action == 1)
	}
	return score(action == 0)
})

// NotXORReward pays for action 1 when both bits of the last observation agree
var NotXORReward = RewardFunc(func(actions []types.Action, observations []types.Observation) float64 {
	action := lastAction(actions)
	last := observations[len(observations)-1]
	if last[0] == last[1] {
		return score(action == 1)
	}
	return score(action == 0)
})

// TwoInARowReward pays for action 1 when the two most recent observations are equal.
// On the first step of an episode there is no pair yet and action 0 is the right one.
var TwoInARowReward = RewardFunc(func(actions []types.Action, observations []types.Observation) float64 {
	action := lastAction(actions)
	if len(observations) < 2 {
		return score(action == 0)
	}
	n := len(observations)
	if observations[n-2].Eq(observations[n-1]) {
		return score(action == 1)
	}
	return score(action == 0)
})
