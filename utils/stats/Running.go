// Package stats implements statistics computed incrementally over
// streams of values.
package stats

import (
	"fmt"
	"math"
)

// Running tracks the count, mean, variance, minimum, and maximum of a
// stream of values. Values are folded in one at a time with Add and
// are not retained, so that each update takes constant time and
// memory regardless of how many values have been seen.
//
// The mean and variance are updated with Welford's method. The zero
// value of Running is ready to use and represents an empty stream.
type Running struct {
	n    int
	mean float64
	m2   float64 // Sum of squared deviations from the mean
	min  float64
	max  float64
}

// NewRunning returns a new, empty Running statistic
func NewRunning() *Running {
	return &Running{}
}

// Add folds a value into the statistic
func (r *Running) Add(x float64) {
	r.n++

	if r.n == 1 {
		r.mean = x
		r.m2 = 0
		r.min, r.max = x, x
		return
	}

	delta := x - r.mean
	r.mean += delta / float64(r.n)
	r.m2 += delta * (x - r.mean)

	r.min = math.Min(r.min, x)
	r.max = math.Max(r.max, x)
}

// Count returns the number of values added since the last Reset
func (r *Running) Count() int {
	return r.n
}

// Mean returns the arithmetic mean of all values added since the last
// Reset. The mean of an empty stream is 0.
func (r *Running) Mean() float64 {
	return r.mean
}

// Var returns the sample variance (normalized by n-1) of the values
// added since the last Reset. Fewer than two values have a variance
// of 0.
func (r *Running) Var() float64 {
	if r.n < 2 {
		return 0
	}
	return r.m2 / float64(r.n-1)
}

// StdDev returns the sample standard deviation
func (r *Running) StdDev() float64 {
	return math.Sqrt(r.Var())
}

// Min returns the smallest value added, or 0 for an empty stream
func (r *Running) Min() float64 {
	return r.min
}

// Max returns the largest value added, or 0 for an empty stream
func (r *Running) Max() float64 {
	return r.max
}

// Reset empties the statistic
func (r *Running) Reset() {
	*r = Running{}
}

// String implements the fmt.Stringer interface
func (r *Running) String() string {
	return fmt.Sprintf("Running | N: %v  |  Mean: %.4f  |  StdDev: %.4f  |  "+
		"Min: %.4f  |  Max: %.4f", r.n, r.Mean(), r.StdDev(), r.min, r.max)
}
