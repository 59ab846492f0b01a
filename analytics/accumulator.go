package analytics

import "math"

// Accumulator keeps running count, sum, min and max of a series so the
// summary can be produced in a single pass.
type Accumulator struct {
	count int
	sum   float64
	min   float64
	max   float64
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		min: math.Inf(1),
		max: math.Inf(-1),
	}
}

func (a *Accumulator) Add(value float64) {
	a.count++
	a.sum += value
	if value < a.min {
		a.min = value
	}
	if value > a.max {
		a.max = value
	}
}

func (a *Accumulator) Count() int {
	return a.count
}

// Mean returns NaN for an empty series; callers must check Count first.
func (a *Accumulator) Mean() float64 {
	if a.count == 0 {
		return math.NaN()
	}
	return a.sum / float64(a.count)
}

func (a *Accumulator) Min() float64 {
	return a.min
}

func (a *Accumulator) Max() float64 {
	return a.max
}
