package indicator

import (
	"strconv"

	"signal-enginev1/internal/model"
)

// SMA calculates a Simple Moving Average over a rolling window.
// Uses a preallocated circular buffer so the hot path never allocates.
// The source selector decides which bar field is averaged: closes by
// default, volumes for the volume-confirmation gate.
type SMA struct {
	name    string
	period  int
	source  func(model.Bar) float64
	buf     []float64
	idx     int
	count   int
	sum     float64
	current float64
}

// NewSMA creates an SMA over bar closes.
func NewSMA(period int) *SMA {
	return &SMA{
		name:   "SMA_" + strconv.Itoa(period),
		period: period,
		source: func(b model.Bar) float64 { return b.Close },
		buf:    make([]float64, period),
	}
}

// NewVolumeSMA creates an SMA over bar volumes.
func NewVolumeSMA(period int) *SMA {
	return &SMA{
		name:   "VOL_SMA_" + strconv.Itoa(period),
		period: period,
		source: func(b model.Bar) float64 { return b.Volume },
		buf:    make([]float64, period),
	}
}

func (s *SMA) Name() string { return s.name }

func (s *SMA) Update(bar model.Bar) {
	v := s.source(bar)

	if s.count >= s.period {
		// Subtract the oldest value being overwritten.
		s.sum -= s.buf[s.idx]
	}

	s.buf[s.idx] = v
	s.sum += v
	s.idx = (s.idx + 1) % s.period
	s.count++

	if s.count >= s.period {
		s.current = s.sum / float64(s.period)
	}
}

func (s *SMA) Value() float64 { return s.current }
func (s *SMA) Ready() bool    { return s.count >= s.period }
