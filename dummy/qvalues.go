package dummy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/zeu5/gym-dummy/types"
)

// Predictor estimates the value of each action after an observation sequence
type Predictor interface {
	Predict(sequence []types.Observation) ([]float64, error)
}

// two step sequences covering every TwoInARow state after the first step
var qValueSequences = [][]types.Observation{
	{{0}, {0}},
	{{1}, {1}},
	{{0}, {1}},
	{{1}, {0}},
}

// QValues renders the values the model predicts for both actions on every two step
// observation sequence. Assumes a deterministic model, one prediction per sequence.
func QValues(model Predictor) (string, error) {
	rows := make([][]string, 0, len(qValueSequences))
	for _, seq := range qValueSequences {
		values, err := model.Predict(seq)
		if err != nil {
			return "", fmt.Errorf("predict %s: %w", sequenceLabel(seq), err)
		}
		if len(values) < 2 {
			return "", fmt.Errorf("predict %s: expected a value per action, got %d", sequenceLabel(seq), len(values))
		}
		rows = append(rows, []string{
			sequenceLabel(seq),
			strconv.FormatFloat(values[0], 'f', 4, 64),
			strconv.FormatFloat(values[1], 'f', 4, 64),
		})
	}

	cell := lipgloss.NewStyle().PaddingRight(2)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col > 0 {
				return cell.Align(lipgloss.Right)
			}
			return cell
		}).
		Headers("Obs. Seq", "Action 0", "Action 1").
		Rows(rows...)

	return "\n" + t.Render() + "\n", nil
}

func sequenceLabel(seq []types.Observation) string {
	parts := make([]string, len(seq))
	for i, o := range seq {
		parts[i] = o.Hash()
	}
	return strings.Join(parts, ",")
}
