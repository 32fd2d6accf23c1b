package types

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// countingEnv observes its step counter and pays +1 for action 1, -1 otherwise
type countingEnv struct {
	maxSteps int
	step     int
	failAt   int
}

var _ Environment = &countingEnv{}

func (c *countingEnv) Reset() (Observation, error) {
	c.step = 0
	return Observation{0}, nil
}

func (c *countingEnv) Step(a Action) (StepResult, error) {
	if c.failAt > 0 && c.step+1 == c.failAt {
		return StepResult{}, errBoom
	}
	c.step++
	reward := -1.0
	if a == 1 {
		reward = 1
	}
	return StepResult{
		Observation: Observation{float64(c.step)},
		Reward:      reward,
		Done:        c.step == c.maxSteps,
		Info:        Info{},
	}, nil
}

func (c *countingEnv) Render(string) error { return nil }
func (c *countingEnv) Close() error { return nil }
func (c *countingEnv) ActionSpace() Discrete { return Discrete{N: 2} }
func (c *countingEnv) ObservationSpace() Discrete { return Discrete{N: 2} }

type panickyPolicy struct {
	*ConstantPolicy
}

func (p *panickyPolicy) NextAction(int, Observation, Discrete) (Action, bool) {
	panic("policy exploded")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestObservation(t *testing.T) {
	o := Observation{1, -0.5}
	assert.Equal(t, "1,-0.5", o.Hash())
	assert.True(t, o.Eq(Observation{1, -0.5}))
	assert.False(t, o.Eq(Observation{1}))

	c := o.Copy()
	c[0] = 3
	assert.Equal(t, 1.0, o[0])
}

func TestDiscrete(t *testing.T) {
	d := Discrete{N: 2}
	assert.True(t, d.Contains(0))
	assert.True(t, d.Contains(1))
	assert.False(t, d.Contains(2))
	assert.False(t, d.Contains(-1))
	assert.Equal(t, []Action{0, 1}, d.Actions())
}

func TestTrace(t *testing.T) {
	tr := NewTrace()
	_, _, _, _, ok := tr.Last()
	assert.False(t, ok)

	tr.Append(0, Observation{0}, 1, 1, Observation{1})
	tr.Append(1, Observation{1}, 0, -1, Observation{2})
	tr.Append(2, Observation{2}, 1, 1, Observation{3})
	assert.Equal(t, 3, tr.Len())
	assert.Equal(t, 1.0, tr.TotalReward())

	obs, action, reward, next, ok := tr.Get(1)
	require.True(t, ok)
	assert.Equal(t, Observation{1}, obs)
	assert.Equal(t, Action(0), action)
	assert.Equal(t, -1.0, reward)
	assert.Equal(t, Observation{2}, next)

	_, _, _, _, ok = tr.Get(3)
	assert.False(t, ok)

	prefix, ok := tr.GetPrefix(2)
	require.True(t, ok)
	assert.Equal(t, 2, prefix.Len())
	_, ok = tr.GetPrefix(4)
	assert.False(t, ok)

	sliced := tr.Slice(1, 3)
	assert.Equal(t, 2, sliced.Len())
	assert.Equal(t, 0.0, sliced.TotalReward())

	bs, err := json.Marshal(tr)
	require.NoError(t, err)
	var steps []map[string]interface{}
	require.NoError(t, json.Unmarshal(bs, &steps))
	require.Len(t, steps, 3)
	assert.Equal(t, -1.0, steps[1]["reward"])
}

func TestAgentRunsUntilDone(t *testing.T) {
	agent := NewAgent(&AgentConfig{
		Episodes:    3,
		Policy:      NewConstantPolicy(1),
		Environment: &countingEnv{maxSteps: 5},
	})
	require.NoError(t, agent.Run())
	for _, tr := range agent.Traces() {
		assert.Equal(t, 5, tr.Len())
		assert.Equal(t, 5.0, tr.TotalReward())
	}
}

func TestAgentHorizon(t *testing.T) {
	agent := NewAgent(&AgentConfig{
		Episodes:    1,
		Horizon:     3,
		Policy:      NewConstantPolicy(0),
		Environment: &countingEnv{maxSteps: 5},
	})
	eCtx := NewEpisodeContext(context.Background(), 0, "horizon")
	agent.RunEpisode(eCtx)
	assert.True(t, eCtx.Valid())
	assert.True(t, eCtx.HorizonEnd)
	assert.False(t, eCtx.Terminal)
	assert.Equal(t, 3, eCtx.Timesteps)
	assert.Equal(t, -3.0, eCtx.Reward)
}

func TestAgentStepError(t *testing.T) {
	agent := NewAgent(&AgentConfig{
		Episodes:    2,
		Policy:      NewRandomPolicyWithSeed(1),
		Environment: &countingEnv{maxSteps: 5, failAt: 2},
	})
	err := agent.Run()
	assert.ErrorIs(t, err, errBoom)
}

func TestAgentCancelledContext(t *testing.T) {
	agent := NewAgent(&AgentConfig{
		Episodes:    1,
		Policy:      NewConstantPolicy(1),
		Environment: &countingEnv{maxSteps: 5},
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	eCtx := NewEpisodeContext(ctx, 0, "cancelled")
	agent.RunEpisode(eCtx)
	assert.ErrorIs(t, eCtx.Err, context.Canceled)
	assert.Equal(t, 0, eCtx.Timesteps)
}

func TestAnalyzers(t *testing.T) {
	tr := NewTrace()
	tr.Append(0, Observation{0}, 1, 1, Observation{1})
	tr.Append(1, Observation{1}, 1, 1, Observation{2})
	tr.Append(2, Observation{2}, 0, -1, Observation{3})
	tr.Append(3, Observation{3}, 1, 1, Observation{4})

	reward := RewardAnalyzer()
	accuracy := AccuracyAnalyzer()
	reward.Analyze(0, 0, 0, "e", tr)
	accuracy.Analyze(0, 0, 0, "e", tr)
	accuracy.Analyze(0, 1, 4, "e", NewTrace())

	assert.Equal(t, EpisodeValues{2}, reward.DataSet())
	assert.Equal(t, EpisodeValues{0.75, 0}, accuracy.DataSet())

	reward.Reset()
	assert.Empty(t, reward.DataSet())
}

func TestEpisodeValues(t *testing.T) {
	v := EpisodeValues{1, 2, 3, 6}
	assert.Equal(t, 3.0, v.Mean())
	assert.Equal(t, EpisodeValues{3, 6}, v.Tail(2))
	assert.Equal(t, v, v.Tail(10))
	assert.Equal(t, 0.0, EpisodeValues{}.Mean())
}

func TestPlotComparator(t *testing.T) {
	dir := t.TempDir()
	c := PlotComparator(dir, "Test", "Mean Reward", quietLogger())
	c(0, 3, []string{"a", "b"}, []DataSet{EpisodeValues{1, 2, 3}, EpisodeValues{3, 2, 1}})
	assert.FileExists(t, filepath.Join(dir, "0_mean_reward.png"))
}

func TestComparison(t *testing.T) {
	dir := t.TempDir()
	ds := make(map[string][]DataSet)
	c, err := NewComparison(&ComparisonConfig{
		Runs:         2,
		Episodes:     4,
		RecordPath:   dir,
		RecordTraces: true,
		Logger:       quietLogger(),
	})
	require.NoError(t, err)
	c.AddAnalysis("reward", RewardAnalyzer(), func(run, _ int, names []string, d []DataSet) {
		assert.Equal(t, []string{"good", "bad"}, names)
		ds[names[0]] = append(ds[names[0]], d[0])
		ds[names[1]] = append(ds[names[1]], d[1])
	})
	c.AddExperiment(NewExperiment("good", NewConstantPolicy(1), &countingEnv{maxSteps: 3}))
	c.AddExperiment(NewExperiment("bad", NewConstantPolicy(0), &countingEnv{maxSteps: 3}))
	require.NoError(t, c.Run(context.Background()))

	require.Len(t, ds["good"], 2)
	assert.Equal(t, EpisodeValues{3, 3, 3, 3}, ds["good"][1])
	assert.Equal(t, EpisodeValues{-3, -3, -3, -3}, ds["bad"][0])

	cfg, err := os.ReadFile(filepath.Join(dir, "comparison_config.json"))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), c.ID.String())

	f, err := os.Open(filepath.Join(dir, "traces", "good_1.jsonl"))
	require.NoError(t, err)
	defer f.Close()
	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
	}
	assert.Equal(t, 4, lines)
}

func TestExperimentAbortsOnConsecutiveErrors(t *testing.T) {
	c, err := NewComparison(&ComparisonConfig{
		Runs:                   1,
		Episodes:               10,
		RecordPath:             t.TempDir(),
		ConsecutiveErrorsAbort: 3,
		Logger:                 quietLogger(),
	})
	require.NoError(t, err)
	c.AddExperiment(NewExperiment("panics", &panickyPolicy{NewConstantPolicy(0)}, &countingEnv{maxSteps: 3}))
	err = c.Run(context.Background())
	assert.ErrorIs(t, err, ErrExperimentAborted)
}
