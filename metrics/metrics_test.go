package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	r.ObserveEpisode("random", 100, -4)
	r.ObserveEpisode("random", 100, 10)
	r.ObserveError("random", 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.episodes.WithLabelValues("random")))
	assert.Equal(t, 203.0, testutil.ToFloat64(r.steps.WithLabelValues("random")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errors.WithLabelValues("random")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.rewards))
}

func TestRecorderDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRecorder(reg)
	require.NoError(t, err)
	_, err = NewRecorder(reg)
	assert.Error(t, err)
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveEpisode("x", 1, 1)
		r.ObserveError("x", 1)
	})
}

func TestWriteText(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)
	r.ObserveEpisode("qlearning", 10, 8)

	path := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, WriteText(reg, path))

	bs, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(bs), `gym_dummy_episodes_total{experiment="qlearning"} 1`)
	assert.Contains(t, string(bs), "gym_dummy_episode_reward_bucket")
}
