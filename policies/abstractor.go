package policies

import (
	"strings"

	"github.com/zeu5/gym-dummy/types"
)

// WindowAbstractor keys a state by the last k observations of the episode.
// Shorter windows at the start of an episode get their own keys.
func WindowAbstractor(k int) types.StateAbstractor {
	return func(observations []types.Observation) string {
		start := len(observations) - k
		if start < 0 {
			start = 0
		}
		parts := make([]string, 0, k)
		for _, o := range observations[start:] {
			parts = append(parts, o.Hash())
		}
		return strings.Join(parts, "|")
	}
}

// SignAbstractor keys a state by the sign of the first component of the last observation
func SignAbstractor() types.StateAbstractor {
	return func(observations []types.Observation) string {
		if len(observations) == 0 {
			return ""
		}
		last := observations[len(observations)-1]
		if len(last) > 0 && last[0] > 0 {
			return "+"
		}
		return "-"
	}
}
