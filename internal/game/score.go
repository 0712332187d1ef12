package game

// Stats is a read-only view of the running score.
type Stats struct {
	Correct    int     `json:"correct"`
	Incorrect  int     `json:"incorrect"`
	Total      int     `json:"total"`
	Percentage int     `json:"percentage"` // rounded half-up, 0..100
	Ratio      float64 `json:"ratio"`      // unrounded percentage, for progress bars
}

// Score accumulates answers. It only grows; a new game gets a new Score.
type Score struct {
	correct int
	total   int
}

// NewScore returns an empty score.
func NewScore() *Score { return &Score{} }

// Record counts one answered (or timed-out) round.
func (s *Score) Record(isCorrect bool) {
	s.total++
	if isCorrect {
		s.correct++
	}
}

func (s *Score) Correct() int   { return s.correct }
func (s *Score) Total() int     { return s.total }
func (s *Score) Incorrect() int { return s.total - s.correct }

// Percentage returns round(100*correct/total) with halves rounded up,
// or 0 before the first answer.
func (s *Score) Percentage() int {
	if s.total == 0 {
		return 0
	}
	return (200*s.correct + s.total) / (2 * s.total)
}

// Ratio is the unrounded percentage.
func (s *Score) Ratio() float64 {
	if s.total == 0 {
		return 0
	}
	return 100 * float64(s.correct) / float64(s.total)
}

// Stats snapshots the score.
func (s *Score) Stats() Stats {
	return Stats{
		Correct:    s.correct,
		Incorrect:  s.Incorrect(),
		Total:      s.total,
		Percentage: s.Percentage(),
		Ratio:      s.Ratio(),
	}
}
