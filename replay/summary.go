package replay

import "github.com/oomph-ac/motion/game"

// Summary describes how far reconciled transforms strayed from the animation.
type Summary struct {
	Steps int
	// Mean, Median, StdDev and Max describe the distance between the reconciled position and
	// the animation position.
	Mean, Median, StdDev, Max float64
	// MaxStep is the largest positional change committed in a single step.
	MaxStep   float64
	Snaps     int
	NonFinite int
}

// Summarize summarizes records.
func Summarize(records []Record) Summary {
	s := Summary{Steps: len(records)}
	gaps := make([]float64, 0, len(records))
	for _, r := range records {
		if r.Handoff.Snapped {
			s.Snaps++
		}
		if r.Handoff.NonFinite {
			s.NonFinite++
		}
		s.MaxStep = max(s.MaxStep, r.Handoff.Delta)
		if !game.FiniteVec3(r.Frame.Animation.Transform.Pos) {
			continue
		}
		gaps = append(gaps, r.Handoff.Transform.Pos.Sub(r.Frame.Animation.Transform.Pos).Len())
	}
	s.Mean = game.Mean(gaps)
	s.Median = game.Median(gaps)
	s.StdDev = game.StandardDeviation(gaps)
	s.Max = game.Max(gaps)
	return s
}
