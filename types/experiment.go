package types

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/zeu5/gym-dummy/metrics"
	"github.com/zeu5/gym-dummy/util"
)

// ErrExperimentAborted is returned when too many consecutive episodes failed
var ErrExperimentAborted = errors.New("experiment aborted")

type experimentRunConfig struct {
	// execution configuration
	CurrentRun int
	Episodes   int
	Horizon    int
	Analyzers  []Analyzer
	Context    context.Context

	// threshold to abort the experiment
	ConsecutiveErrorsAbort int

	// record flags
	RecordTraces bool
	RecordPolicy bool
	SavePath     string

	Logger        *slog.Logger
	Metrics       *metrics.Recorder
	ProgressEvery int
}

// Experiment encapsulates the different parameters to configure an agent and analyze the traces
type Experiment struct {
	Name        string
	policy      Policy
	environment Environment
}

// NewExperiment creates a new experiment instance
func NewExperiment(name string, policy Policy, environment Environment) *Experiment {
	return &Experiment{
		Name:        name,
		policy:      policy,
		environment: environment,
	}
}

// Policy used by the experiment
func (e *Experiment) Policy() Policy {
	return e.policy
}

func (e *Experiment) recordTrace(rConfig *experimentRunConfig, trace *Trace) error {
	tracesFile := path.Join(rConfig.SavePath, "traces", e.Name+"_"+strconv.Itoa(rConfig.CurrentRun)+".jsonl")
	bs, err := json.Marshal(trace)
	if err != nil {
		return err
	}
	return util.AppendToFile(tracesFile, string(bs))
}

// Run the experiment for the specified number of episodes
// Every trace is handed to the analyzers, failed episodes included
func (e *Experiment) Run(rConfig *experimentRunConfig) error {
	logger := rConfig.Logger
	if logger == nil {
		logger = slog.Default()
	}

	agent := NewAgent(&AgentConfig{
		Episodes:    rConfig.Episodes,
		Horizon:     rConfig.Horizon,
		Policy:      e.policy,
		Environment: e.environment,
	})

	totalWithError := 0
	consecutiveErrors := 0
	totalTimesteps := 0
	totalReward := 0.0

	for episode := 0; episode < rConfig.Episodes; episode++ {
		if err := rConfig.Context.Err(); err != nil {
			return err
		}

		eCtx := NewEpisodeContext(rConfig.Context, episode, e.Name)
		e.runEpisode(eCtx, agent)

		startingTimesteps := totalTimesteps
		totalTimesteps += eCtx.Timesteps

		if eCtx.Err != nil {
			totalWithError += 1
			consecutiveErrors += 1
			rConfig.Metrics.ObserveError(e.Name, eCtx.Timesteps)
			logger.Debug("episode failed", "experiment", e.Name, "episode", episode, "err", eCtx.Err)
		} else {
			consecutiveErrors = 0
			totalReward += eCtx.Reward
			rConfig.Metrics.ObserveEpisode(e.Name, eCtx.Timesteps, eCtx.Reward)
		}

		if rConfig.RecordTraces {
			if err := e.recordTrace(rConfig, eCtx.Trace); err != nil {
				return fmt.Errorf("record trace: %w", err)
			}
		}

		for _, a := range rConfig.Analyzers {
			a.Analyze(rConfig.CurrentRun, episode, startingTimesteps, e.Name, eCtx.Trace)
		}

		if consecutiveErrors >= rConfig.ConsecutiveErrorsAbort {
			logger.Warn("aborting experiment", "experiment", e.Name, "consecutive_errors", consecutiveErrors, "last_err", eCtx.Err)
			return fmt.Errorf("%s: %d consecutive errors: %w", e.Name, consecutiveErrors, ErrExperimentAborted)
		}

		if rConfig.ProgressEvery > 0 && (episode+1)%rConfig.ProgressEvery == 0 {
			logger.Info("experiment progress",
				"experiment", e.Name,
				"run", rConfig.CurrentRun,
				"episodes", fmt.Sprintf("%d/%d", episode+1, rConfig.Episodes),
				"timesteps", totalTimesteps,
				"errors", totalWithError,
			)
		}
	}

	if rConfig.RecordPolicy {
		if rp, ok := e.policy.(RecordablePolicy); ok {
			if err := rp.Record(path.Join(rConfig.SavePath, "policies", e.Name+"_"+strconv.Itoa(rConfig.CurrentRun)+".json")); err != nil {
				return fmt.Errorf("record policy: %w", err)
			}
		}
	}

	valid := rConfig.Episodes - totalWithError
	meanReward := 0.0
	if valid > 0 {
		meanReward = totalReward / float64(valid)
	}
	logger.Info("experiment finished",
		"experiment", e.Name,
		"run", rConfig.CurrentRun,
		"episodes", rConfig.Episodes,
		"errors", totalWithError,
		"timesteps", totalTimesteps,
		"mean_reward", meanReward,
	)
	return nil
}

func (e *Experiment) runEpisode(eCtx *EpisodeContext, agent *Agent) {
	defer func() {
		if r := recover(); r != nil {
			eCtx.SetError(fmt.Errorf("%v", r))
		}
	}()

	start := time.Now()
	agent.RunEpisode(eCtx)
	eCtx.RunDuration = time.Since(start)
}

// Reset cleans what the policy learned so that the next run starts fresh
func (e *Experiment) Reset() {
	e.policy.Reset()
}

// Generic Dataset that contains information after processing the traces
type DataSet interface{}

// Analyzer compresses the information in the traces to a DataSet
type Analyzer interface {
	// Run, episode, timesteps executed so far, experiment, trace
	Analyze(int, int, int, string, *Trace)
	// Resulting dataset
	DataSet() DataSet
	// Reset the analyzer
	Reset()
}

// Comparator differentiates between different datasets with associated names
// run, total episodes, experiment names, datasets
type Comparator func(int, int, []string, []DataSet)

func NoopComparator() Comparator {
	return func(_, _ int, _ []string, _ []DataSet) {}
}

// ComparisonConfig contains the configuration for the comparison
type ComparisonConfig struct {
	Runs     int // number of runs
	Episodes int // number of episodes
	Horizon  int // maximum steps per episode on the agent side, 0 leaves it to the environment

	RecordPath string // path to store the results

	// threshold to abort an experiment, defaults to 10
	ConsecutiveErrorsAbort int

	// record flags
	RecordTraces bool
	RecordPolicy bool

	Logger        *slog.Logger
	Metrics       *metrics.Recorder
	ProgressEvery int
}

// Comparison contains the different experiments to compare
// The traces obtained from the experiments are analyzed
// The analyzed datasets are then compared
type Comparison struct {
	ID          uuid.UUID
	Experiments []*Experiment
	analyzers   map[string]Analyzer
	comparators map[string]Comparator
	cConfig     *ComparisonConfig
}

// NewComparison creates a comparison instance and the folders it records into
func NewComparison(config *ComparisonConfig) (*Comparison, error) {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	foldersToCreate := []string{config.RecordPath}
	if config.RecordTraces {
		foldersToCreate = append(foldersToCreate, path.Join(config.RecordPath, "traces"))
	}
	if config.RecordPolicy {
		foldersToCreate = append(foldersToCreate, path.Join(config.RecordPath, "policies"))
	}
	for _, fldPath := range foldersToCreate {
		if err := os.MkdirAll(fldPath, 0777); err != nil {
			return nil, fmt.Errorf("create %s: %w", fldPath, err)
		}
	}

	return &Comparison{
		ID:          uuid.New(),
		Experiments: make([]*Experiment, 0),
		analyzers:   make(map[string]Analyzer),
		comparators: make(map[string]Comparator),
		cConfig:     config,
	}, nil
}

// AddAnalysis adds an analyzer and comparator to the comparison
func (c *Comparison) AddAnalysis(name string, analyzer Analyzer, comparator Comparator) {
	c.analyzers[name] = analyzer
	c.comparators[name] = comparator
}

// Add experiments to compare
func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

// record the configuration of the comparison
func (c *Comparison) recordConfig() error {
	cfg := c.cConfig
	out := make(map[string]interface{})
	out["id"] = c.ID.String()
	out["runs"] = cfg.Runs
	out["episodes"] = cfg.Episodes
	out["horizon"] = cfg.Horizon
	out["record_traces"] = cfg.RecordTraces
	out["record_policy"] = cfg.RecordPolicy

	experiments := make([]string, 0)
	for _, e := range c.Experiments {
		experiments = append(experiments, e.Name)
	}
	out["experiments"] = experiments
	out["analyzers"] = c.analyzerNames()

	bs, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path.Join(cfg.RecordPath, "comparison_config.json"), bs, 0644)
}

func (c *Comparison) analyzerNames() []string {
	names := make([]string, 0, len(c.analyzers))
	for name := range c.analyzers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run the comparison
func (c *Comparison) Run(ctx context.Context) error {
	if err := c.recordConfig(); err != nil {
		return fmt.Errorf("record comparison config: %w", err)
	}
	analyzerNames := c.analyzerNames()

	for run := 0; run < c.cConfig.Runs; run++ {
		c.cConfig.Logger.Info("starting run", "comparison", c.ID.String(), "run", run+1, "runs", c.cConfig.Runs)
		datasets := make(map[string][]DataSet)
		for _, name := range analyzerNames {
			datasets[name] = make([]DataSet, len(c.Experiments))
		}

		names := make([]string, len(c.Experiments))
		for i, e := range c.Experiments {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := e.Run(c.prepareRunConfig(ctx, run)); err != nil {
				return err
			}
			for _, name := range analyzerNames {
				a := c.analyzers[name]
				datasets[name][i] = a.DataSet()
				a.Reset()
			}
			names[i] = e.Name
			if run < c.cConfig.Runs-1 {
				e.Reset()
			}
		}
		for _, name := range analyzerNames {
			c.comparators[name](run, c.cConfig.Episodes, names, datasets[name])
		}
	}
	return nil
}

// prepare the run configuration for the experiment
func (c *Comparison) prepareRunConfig(ctx context.Context, run int) *experimentRunConfig {
	rCfg := &experimentRunConfig{
		CurrentRun:             run,
		Episodes:               c.cConfig.Episodes,
		Horizon:                c.cConfig.Horizon,
		Analyzers:              make([]Analyzer, 0),
		Context:                ctx,
		ConsecutiveErrorsAbort: c.cConfig.ConsecutiveErrorsAbort,
		RecordTraces:           c.cConfig.RecordTraces,
		RecordPolicy:           c.cConfig.RecordPolicy,
		SavePath:               c.cConfig.RecordPath,
		Logger:                 c.cConfig.Logger,
		Metrics:                c.cConfig.Metrics,
		ProgressEvery:          c.cConfig.ProgressEvery,
	}

	if rCfg.ConsecutiveErrorsAbort == 0 {
		rCfg.ConsecutiveErrorsAbort = 10
	}

	for _, name := range c.analyzerNames() {
		rCfg.Analyzers = append(rCfg.Analyzers, c.analyzers[name])
	}
	return rCfg
}
