package dummy

import "golang.org/x/exp/rand"

// Variant bundles the strategies that make an environment: how observations are drawn
// and how actions are scored
type Variant struct {
	Name    string
	Version string
	// NewGenerator builds the observation generator on the environment's random source
	NewGenerator func(src rand.Source) ObservationGenerator
	Reward       RewardFunction
}

var (
	// GreaterThanZero: take action 1 when the last observation is positive, 0 otherwise.
	// Observations are continuous even though the declared space is Discrete(2).
	GreaterThanZero = Variant{
		Name:    "GreaterThanZero",
		Version: "0.0.2",
		NewGenerator: func(src rand.Source) ObservationGenerator {
			return NewNormalGenerator(src)
		},
		Reward: SignReward,
	}

	// NotXOR: both bits are in the observation, take action 1 when they agree
	NotXOR = Variant{
		Name:    "NotXOR",
		Version: "0.0.2",
		NewGenerator: func(src rand.Source) ObservationGenerator {
			return NewBitGenerator(2, src)
		},
		Reward: NotXORReward,
	}

	// TwoInARow: a single bit per observation, take action 1 when the last two bits agree.
	// Needs memory of the previous observation.
	TwoInARow = Variant{
		Name:    "TwoInARow",
		Version: "0.0.2",
		NewGenerator: func(src rand.Source) ObservationGenerator {
			return NewBitGenerator(1, src)
		},
		Reward: TwoInARowReward,
	}
)

func NewGreaterThanZero(opts ...Option) (*Env, error) {
	return New(GreaterThanZero, opts...)
}

func NewNotXOR(opts ...Option) (*Env, error) {
	return New(NotXOR, opts...)
}

func NewTwoInARow(opts ...Option) (*Env, error) {
	return New(TwoInARow, opts...)
}
