package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/stonetell/internal/action"
)

// Outcome is how a simulated game ended, from the engine's side of the table
type Outcome int

const (
	Draw Outcome = iota
	Won
	Lost
)

func (o Outcome) String() string {
	switch o {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "draw"
	}
}

// GameResult represents the outcome of a single simulated game
type GameResult struct {
	Seed        int64                // RNG seed for this game (for replay)
	Outcome     Outcome              // Result for the engine
	Turns       int                  // Engine turns played
	Decisions   [action.NumKinds]int // Engine decisions by kind
	Signatures  int                  // Decisions produced by a signature move
	Predictions int                  // PredictStone calls checked against the truth
	Correct     int                  // Predictions that named the right stone
	Responses   map[string]int       // Boast responses by name
}

// Accuracy returns the share of correct predictions, or 0 with none made
func (r GameResult) Accuracy() float64 {
	if r.Predictions == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Predictions)
}

// Statistics aggregates simulated games. The sample statistics (Mean,
// StdDev and friends) are over per-game prediction accuracy; games with no
// predictions are counted but not sampled.
type Statistics struct {
	Games  int
	Sum    float64
	Sum2   float64   // Sum of squares for variance calculation
	Values []float64 // Per-game accuracies for median/percentile calculation

	Wins, Losses, Draws int

	Turns       int
	Decisions   [action.NumKinds]int
	Signatures  int
	Predictions int
	Correct     int
	Responses   map[string]int
}

// Add incorporates a new game result into the statistics
func (s *Statistics) Add(result GameResult) {
	s.Games++
	switch result.Outcome {
	case Won:
		s.Wins++
	case Lost:
		s.Losses++
	default:
		s.Draws++
	}

	s.Turns += result.Turns
	for k, n := range result.Decisions {
		s.Decisions[k] += n
	}
	s.Signatures += result.Signatures
	s.Predictions += result.Predictions
	s.Correct += result.Correct
	for name, n := range result.Responses {
		if s.Responses == nil {
			s.Responses = make(map[string]int)
		}
		s.Responses[name] += n
	}

	if result.Predictions > 0 {
		acc := result.Accuracy()
		s.Sum += acc
		s.Sum2 += acc * acc
		s.Values = append(s.Values, acc)
	}
}

// samples is the number of games that contributed an accuracy value
func (s *Statistics) samples() int {
	return len(s.Values)
}

// Mean returns the mean per-game prediction accuracy
func (s *Statistics) Mean() float64 {
	if s.samples() == 0 {
		return 0
	}
	return s.Sum / float64(s.samples())
}

// Variance returns the sample variance of per-game accuracy
func (s *Statistics) Variance() float64 {
	n := s.samples()
	if n < 2 {
		return 0
	}
	mean := s.Mean()
	// rounding can push a zero variance slightly negative
	return math.Max(0, (s.Sum2-float64(n)*mean*mean)/float64(n-1))
}

// StdDev returns the sample standard deviation
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.samples() == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.samples()))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median per-game accuracy
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// OverallAccuracy pools every prediction across games
func (s *Statistics) OverallAccuracy() float64 {
	if s.Predictions == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Predictions)
}

// Share returns the fraction of engine decisions of the given kind
func (s *Statistics) Share(kind action.Kind) float64 {
	if s.Turns == 0 {
		return 0
	}
	return float64(s.Decisions[kind]) / float64(s.Turns)
}

// Validate checks the aggregate counters agree with each other
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}
	if s.Wins+s.Losses+s.Draws != s.Games {
		return fmt.Errorf("outcomes (%d won, %d lost, %d drawn) do not add up to %d games",
			s.Wins, s.Losses, s.Draws, s.Games)
	}
	total := 0
	for _, n := range s.Decisions {
		total += n
	}
	if total != s.Turns {
		return fmt.Errorf("decision total (%d) does not match turns (%d)", total, s.Turns)
	}
	if s.Signatures > s.Turns {
		return fmt.Errorf("signature moves (%d) exceed turns (%d)", s.Signatures, s.Turns)
	}
	if s.Correct > s.Predictions {
		return fmt.Errorf("correct predictions (%d) exceed predictions (%d)", s.Correct, s.Predictions)
	}
	if len(s.Values) > s.Games {
		return fmt.Errorf("accuracy samples (%d) exceed games (%d)", len(s.Values), s.Games)
	}
	return nil
}
