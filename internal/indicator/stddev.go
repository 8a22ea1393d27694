package indicator

import (
	"math"
	"strconv"

	"signal-enginev1/internal/model"
)

// StdDev calculates the rolling population standard deviation of closes.
// The variance is recomputed over the window on every update rather than
// carried as a running sum of squares: the window is small (20) and the
// direct form keeps incremental results bit-equal to a batch recomputation.
// A zero-variance window yields exactly zero, never an error.
type StdDev struct {
	period  int
	buf     []float64
	idx     int
	count   int
	current float64
}

// NewStdDev creates a rolling standard deviation with the given window.
func NewStdDev(period int) *StdDev {
	return &StdDev{
		period: period,
		buf:    make([]float64, period),
	}
}

func (s *StdDev) Name() string { return "STDDEV_" + strconv.Itoa(s.period) }

func (s *StdDev) Update(bar model.Bar) {
	s.buf[s.idx] = bar.Close
	s.idx = (s.idx + 1) % s.period
	s.count++

	if s.count < s.period {
		return
	}

	mean := 0.0
	for _, v := range s.buf {
		mean += v
	}
	mean /= float64(s.period)

	sumSq := 0.0
	for _, v := range s.buf {
		d := v - mean
		sumSq += d * d
	}
	s.current = math.Sqrt(sumSq / float64(s.period))
}

func (s *StdDev) Value() float64 { return s.current }
func (s *StdDev) Ready() bool    { return s.count >= s.period }
