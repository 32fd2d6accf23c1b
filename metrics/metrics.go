// Package metrics exposes prometheus instrumentation for experiment runs.
package metrics

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Recorder tracks episodes, steps and rewards per experiment.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	episodes *prometheus.CounterVec
	steps    *prometheus.CounterVec
	errors   *prometheus.CounterVec
	rewards  *prometheus.HistogramVec
}

// NewRecorder creates the collectors and registers them on reg
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		episodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gym_dummy",
			Name:      "episodes_total",
			Help:      "Episodes completed without error.",
		}, []string{"experiment"}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gym_dummy",
			Name:      "steps_total",
			Help:      "Environment steps executed.",
		}, []string{"experiment"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gym_dummy",
			Name:      "episode_errors_total",
			Help:      "Episodes that ended with an error.",
		}, []string{"experiment"}),
		rewards: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gym_dummy",
			Name:      "episode_reward",
			Help:      "Total reward collected per episode.",
			Buckets:   prometheus.LinearBuckets(-100, 20, 11),
		}, []string{"experiment"}),
	}
	for _, c := range []prometheus.Collector{r.episodes, r.steps, r.errors, r.rewards} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return r, nil
}

func (r *Recorder) ObserveEpisode(experiment string, steps int, reward float64) {
	if r == nil {
		return
	}
	r.episodes.WithLabelValues(experiment).Inc()
	r.steps.WithLabelValues(experiment).Add(float64(steps))
	r.rewards.WithLabelValues(experiment).Observe(reward)
}

func (r *Recorder) ObserveError(experiment string, steps int) {
	if r == nil {
		return
	}
	r.errors.WithLabelValues(experiment).Inc()
	r.steps.WithLabelValues(experiment).Add(float64(steps))
}

// WriteText dumps everything gathered by g to path in the prometheus text format
func WriteText(g prometheus.Gatherer, path string) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := expfmt.NewEncoder(f, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
