package types

import (
	"log/slog"
	"path"
	"strconv"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// EpisodeValues is the DataSet of analyzers producing one value per episode
type EpisodeValues []float64

// Mean of the values, 0 when empty
func (v EpisodeValues) Mean() float64 {
	if len(v) == 0 {
		return 0
	}
	return stat.Mean(v, nil)
}

// Tail returns the last n values
func (v EpisodeValues) Tail(n int) EpisodeValues {
	if n >= len(v) {
		return v
	}
	return v[len(v)-n:]
}

type episodeValueAnalyzer struct {
	values EpisodeValues
	value  func(*Trace) float64
}

var _ Analyzer = &episodeValueAnalyzer{}

func (a *episodeValueAnalyzer) Analyze(_, _, _ int, _ string, t *Trace) {
	a.values = append(a.values, a.value(t))
}

func (a *episodeValueAnalyzer) DataSet() DataSet {
	out := make(EpisodeValues, len(a.values))
	copy(out, a.values)
	return out
}

func (a *episodeValueAnalyzer) Reset() {
	a.values = make(EpisodeValues, 0)
}

// RewardAnalyzer records the total reward of every episode
func RewardAnalyzer() Analyzer {
	return &episodeValueAnalyzer{
		values: make(EpisodeValues, 0),
		value: func(t *Trace) float64 {
			return t.TotalReward()
		},
	}
}

// AccuracyAnalyzer records the fraction of positively rewarded steps of every episode
func AccuracyAnalyzer() Analyzer {
	return &episodeValueAnalyzer{
		values: make(EpisodeValues, 0),
		value: func(t *Trace) float64 {
			if t.Len() == 0 {
				return 0
			}
			hits := 0
			for i := 0; i < t.Len(); i++ {
				_, _, r, _, _ := t.Get(i)
				if r > 0 {
					hits += 1
				}
			}
			return float64(hits) / float64(t.Len())
		},
	}
}

// PlotComparator draws one line per experiment of the EpisodeValues datasets
func PlotComparator(plotPath, title, yLabel string, logger *slog.Logger) Comparator {
	if logger == nil {
		logger = slog.Default()
	}
	return func(run, _ int, names []string, ds []DataSet) {
		p := plot.New()
		p.Title.Text = title
		p.X.Label.Text = "Episode"
		p.Y.Label.Text = yLabel
		for i := 0; i < len(names); i++ {
			values, ok := ds[i].(EpisodeValues)
			if !ok || len(values) == 0 {
				continue
			}
			points := make(plotter.XYs, len(values))
			for j, v := range values {
				points[j] = plotter.XY{
					X: float64(j),
					Y: v,
				}
			}
			line, err := plotter.NewLine(points)
			if err != nil {
				continue
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(names[i], line)
		}
		file := path.Join(plotPath, strconv.Itoa(run)+"_"+yLabelFile(yLabel)+".png")
		if err := p.Save(8*vg.Inch, 8*vg.Inch, file); err != nil {
			logger.Error("saving plot", "file", file, "err", err)
		}
	}
}

func yLabelFile(label string) string {
	out := make([]rune, 0, len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

// LogComparator logs the mean value of every experiment, overall and over the last tail episodes
func LogComparator(metric string, tail int, logger *slog.Logger) Comparator {
	if logger == nil {
		logger = slog.Default()
	}
	return func(run, _ int, names []string, ds []DataSet) {
		for i, name := range names {
			values, ok := ds[i].(EpisodeValues)
			if !ok {
				continue
			}
			logger.Info("comparison result",
				"run", run,
				"experiment", name,
				"metric", metric,
				"mean", values.Mean(),
				"tail_mean", values.Tail(tail).Mean(),
			)
		}
	}
}
