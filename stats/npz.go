package stats

import (
	"io"

	"github.com/sbinet/npyio/npz"
	"gonum.org/v1/gonum/mat"
)

// History accumulates per-generation fitness snapshots across a run, so
// a caller can export a run's fitness trajectory for offline analysis.
type History struct {
	generations []Floats
}

// Record appends one generation's fitness values.
func (h *History) Record(fitness Floats) {
	h.generations = append(h.generations, append(Floats(nil), fitness...))
}

// WriteNPZ dumps the recorded history to w in NPZ format: "mean_variance"
// holds one [mean, variance] row per generation, "best" holds the best
// fitness per generation.
func (h *History) WriteNPZ(w io.Writer) error {
	meanVar := mat.NewDense(len(h.generations), 2, nil)
	best := make([]float64, len(h.generations))
	for i, gen := range h.generations {
		mean, variance := gen.MeanVariance()
		meanVar.SetRow(i, []float64{mean, variance})
		best[i] = gen.Max()
	}

	out := npz.NewWriter(w)
	if err := out.Write("mean_variance", meanVar); err != nil {
		return err
	}
	if err := out.Write("best", best); err != nil {
		return err
	}
	return out.Close()
}
