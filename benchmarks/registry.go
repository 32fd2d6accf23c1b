package benchmarks

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zeu5/gym-dummy/dummy"
)

var ErrUnknownEnv = errors.New("unknown environment")

// EnvConstructor builds a fresh environment
type EnvConstructor func(opts ...dummy.Option) (*dummy.Env, error)

var registry = map[string]EnvConstructor{
	"GreaterThanZero-v0": dummy.NewGreaterThanZero,
	"NotXOR-v0":          dummy.NewNotXOR,
	"TwoInARow-v0":       dummy.NewTwoInARow,
}

// Make builds the environment registered under id
func Make(id string, opts ...dummy.Option) (*dummy.Env, error) {
	c, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownEnv)
	}
	return c(opts...)
}

// IDs lists the registered environments in order
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
