package dummy

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/gym-dummy/types"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T, v Variant, opts ...Option) *Env {
	t.Helper()
	opts = append([]Option{WithSeed(7), WithLogger(quietLogger())}, opts...)
	env, err := New(v, opts...)
	require.NoError(t, err)
	return env
}

func TestNewDefaults(t *testing.T) {
	env := newTestEnv(t, TwoInARow)
	assert.Equal(t, DefaultMaxSteps, env.MaxSteps())
	assert.Equal(t, -1, env.Episode())
	assert.Equal(t, Unstarted, env.Status())
	assert.Equal(t, types.Discrete{N: 2}, env.ActionSpace())
	assert.Equal(t, types.Discrete{N: 2}, env.ObservationSpace())
	assert.NoError(t, env.Render("human"))
	assert.NoError(t, env.Close())
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(TwoInARow, WithMaxSteps(0), WithLogger(quietLogger()))
	assert.Error(t, err)

	_, err = New(TwoInARow, WithMaxSteps(-3), WithLogger(quietLogger()))
	assert.Error(t, err)

	_, err = New(TwoInARow, WithHistoryLimit(-1), WithLogger(quietLogger()))
	assert.Error(t, err)

	_, err = New(Variant{Name: "empty"}, WithLogger(quietLogger()))
	assert.Error(t, err)
}

func TestDoneExactlyAtMaxSteps(t *testing.T) {
	for _, v := range []Variant{GreaterThanZero, NotXOR, TwoInARow} {
		t.Run(v.Name, func(t *testing.T) {
			env := newTestEnv(t, v, WithMaxSteps(5))
			_, err := env.Reset()
			require.NoError(t, err)

			for i := 1; i <= 5; i++ {
				res, err := env.Step(types.Action(i % 2))
				require.NoError(t, err)
				assert.Equal(t, i == 5, res.Done, "step %d", i)
				assert.NotNil(t, res.Info)
				assert.Empty(t, res.Info)
			}
			assert.Equal(t, Done, env.Status())
		})
	}
}

func TestHistoryLengthsAfterSteps(t *testing.T) {
	env := newTestEnv(t, TwoInARow, WithMaxSteps(10))
	_, err := env.Reset()
	require.NoError(t, err)

	for k := 1; k <= 7; k++ {
		_, err := env.Step(0)
		require.NoError(t, err)

		record, ok := env.History().Episode(env.Episode())
		require.True(t, ok)
		assert.Len(t, record.Actions, k)
		assert.Len(t, record.Observations, k+1)
		assert.Equal(t, k, env.CurrentStep())
	}
}

func TestStepRecordsActionAndObservation(t *testing.T) {
	env := newTestEnv(t, NotXOR)
	first, err := env.Reset()
	require.NoError(t, err)

	res, err := env.Step(1)
	require.NoError(t, err)

	record, ok := env.History().Episode(0)
	require.True(t, ok)
	assert.Equal(t, []types.Action{1}, record.Actions)
	assert.Equal(t, []types.Observation{first, res.Observation}, record.Observations)
}

func TestInvalidActionLeavesStateUnchanged(t *testing.T) {
	env := newTestEnv(t, TwoInARow, WithMaxSteps(3))
	_, err := env.Reset()
	require.NoError(t, err)
	_, err = env.Step(1)
	require.NoError(t, err)
	before, _ := env.History().Episode(0)

	for _, a := range []types.Action{-1, 2, 42} {
		_, err := env.Step(a)
		assert.ErrorIs(t, err, types.ErrInvalidAction)
	}

	after, _ := env.History().Episode(0)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, env.CurrentStep())
}

func TestInvalidActionRegardlessOfStatus(t *testing.T) {
	env := newTestEnv(t, GreaterThanZero, WithMaxSteps(1))

	_, err := env.Step(5)
	assert.ErrorIs(t, err, types.ErrInvalidAction)

	_, err = env.Reset()
	require.NoError(t, err)
	_, err = env.Step(0)
	require.NoError(t, err)

	_, err = env.Step(5)
	assert.ErrorIs(t, err, types.ErrInvalidAction)
}

func TestStepAfterDoneIsExhausted(t *testing.T) {
	env := newTestEnv(t, TwoInARow, WithMaxSteps(2))
	_, err := env.Reset()
	require.NoError(t, err)
	_, err = env.Step(0)
	require.NoError(t, err)
	res, err := env.Step(1)
	require.NoError(t, err)
	require.True(t, res.Done)
	before, _ := env.History().Episode(0)

	_, err = env.Step(0)
	assert.ErrorIs(t, err, types.ErrEpisodeExhausted)
	assert.NotErrorIs(t, err, types.ErrInvalidAction)

	after, _ := env.History().Episode(0)
	assert.Equal(t, before, after)
	assert.Equal(t, 2, env.CurrentStep())
	assert.Equal(t, Done, env.Status())
}

func TestStepBeforeReset(t *testing.T) {
	env := newTestEnv(t, TwoInARow)
	_, err := env.Step(0)
	assert.ErrorIs(t, err, ErrNoEpisode)
	assert.Equal(t, 0, env.History().Len())
}

func TestResetStartsNewRecord(t *testing.T) {
	env := newTestEnv(t, TwoInARow, WithMaxSteps(2))

	_, err := env.Reset()
	require.NoError(t, err)
	assert.Equal(t, 0, env.Episode())
	assert.Equal(t, Active, env.Status())

	_, err = env.Step(0)
	require.NoError(t, err)

	_, err = env.Reset()
	require.NoError(t, err)
	assert.Equal(t, 1, env.Episode())
	assert.Equal(t, 0, env.CurrentStep())

	_, err = env.Reset()
	require.NoError(t, err)
	assert.Equal(t, 2, env.Episode())

	records := env.History().Records()
	require.Len(t, records, 3)
	for i, r := range records {
		assert.Equal(t, i, r.Index)
	}
	assert.Len(t, records[0].Actions, 1)
	assert.Len(t, records[1].Actions, 0)
	assert.Len(t, records[1].Observations, 1)
}

func TestResetFromDoneAllowsStepping(t *testing.T) {
	env := newTestEnv(t, GreaterThanZero, WithMaxSteps(1))
	_, err := env.Reset()
	require.NoError(t, err)
	_, err = env.Step(1)
	require.NoError(t, err)
	require.Equal(t, Done, env.Status())

	_, err = env.Reset()
	require.NoError(t, err)
	res, err := env.Step(1)
	require.NoError(t, err)
	assert.True(t, res.Done)
}

func TestResetObservationDomain(t *testing.T) {
	gtz := newTestEnv(t, GreaterThanZero)
	nxor := newTestEnv(t, NotXOR)
	tiar := newTestEnv(t, TwoInARow)

	for i := 0; i < 50; i++ {
		obs, err := gtz.Reset()
		require.NoError(t, err)
		assert.Len(t, obs, 1)

		obs, err = tiar.Reset()
		require.NoError(t, err)
		require.Len(t, obs, 1)
		assert.Contains(t, []float64{0, 1}, obs[0])

		obs, err = nxor.Reset()
		require.NoError(t, err)
		require.Len(t, obs, 2)
		assert.Contains(t, []float64{0, 1}, obs[0])
		assert.Contains(t, []float64{0, 1}, obs[1])
	}
	assert.Equal(t, 49, gtz.Episode())
}

func TestSeededEnvironmentsAgree(t *testing.T) {
	a := newTestEnv(t, GreaterThanZero, WithSeed(11))
	b := newTestEnv(t, GreaterThanZero, WithSeed(11))

	obsA, _ := a.Reset()
	obsB, _ := b.Reset()
	assert.Equal(t, obsA, obsB)
	for i := 0; i < 20; i++ {
		resA, errA := a.Step(1)
		resB, errB := b.Step(1)
		require.NoError(t, errA)
		require.NoError(t, errB)
		assert.Equal(t, resA, resB)
	}
}

func TestReturnedObservationIsACopy(t *testing.T) {
	env := newTestEnv(t, NotXOR)
	obs, err := env.Reset()
	require.NoError(t, err)
	want := obs.Copy()
	obs[0] = 99

	record, ok := env.History().Episode(0)
	require.True(t, ok)
	assert.Equal(t, want, record.Observations[0])
}

func TestHistoryLimitEvictsOldest(t *testing.T) {
	env := newTestEnv(t, TwoInARow, WithHistoryLimit(2))
	for i := 0; i < 5; i++ {
		_, err := env.Reset()
		require.NoError(t, err)
	}
	assert.Equal(t, 4, env.Episode())
	assert.Equal(t, 2, env.History().Len())

	_, ok := env.History().Episode(2)
	assert.False(t, ok)
	r, ok := env.History().Episode(3)
	require.True(t, ok)
	assert.Equal(t, 3, r.Index)
	r, ok = env.History().Episode(4)
	require.True(t, ok)
	assert.Equal(t, 4, r.Index)
	_, ok = env.History().Episode(5)
	assert.False(t, ok)

	_, err := env.Step(0)
	assert.NoError(t, err)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Unstarted", Unstarted.String())
	assert.Equal(t, "Active", Active.String())
	assert.Equal(t, "Done", Done.String())
}
