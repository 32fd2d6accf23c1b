package dummy

import (
	"github.com/zeu5/gym-dummy/types"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// ObservationGenerator draws the next observation. Sampling never fails and never
// looks at the episode history.
type ObservationGenerator interface {
	Next() types.Observation
}

// GeneratorFunc adapts a function to ObservationGenerator
type GeneratorFunc func() types.Observation

func (f GeneratorFunc) Next() types.Observation {
	return f()
}

// NormalGenerator yields [x] with x drawn from a standard normal
type NormalGenerator struct {
	dist distuv.Normal
}

var _ ObservationGenerator = &NormalGenerator{}

func NewNormalGenerator(src rand.Source) *NormalGenerator {
	return &NormalGenerator{
		dist: distuv.Normal{Mu: 0, Sigma: 1, Src: src},
	}
}

func (g *NormalGenerator) Next() types.Observation {
	return types.Observation{g.dist.Rand()}
}

// BitGenerator yields width independent fair bits
type BitGenerator struct {
	width int
	dist  distuv.Bernoulli
}

var _ ObservationGenerator = &BitGenerator{}

func NewBitGenerator(width int, src rand.Source) *BitGenerator {
	return &BitGenerator{
		width: width,
		dist:  distuv.Bernoulli{P: 0.5, Src: src},
	}
}

func (g *BitGenerator) Next() types.Observation {
	obs := make(types.Observation, g.width)
	for i := range obs {
		obs[i] = g.dist.Rand()
	}
	return obs
}
