// Package particle evaluates per-particle values over a normalized lifetime.
//
// A List holds keyframes (time in [0, 1], value) and returns the interpolated
// value for a particle's age percent. Lists are built once when a behavior is
// constructed and evaluated every frame without allocating.
package particle

import (
	"math"
	"math/rand/v2"
	"sort"
)

// Keyframe represents a single point on a value curve.
type Keyframe[T any] struct {
	Time  float64 // Normalized time (0-1)
	Value T       // Value at this keyframe
}

// Lerper interpolates between two values of T.
type Lerper[T any] func(a, b T, t float64) T

// List is a keyframed value curve over a particle's lifetime.
type List[T any] struct {
	keyframes []Keyframe[T]
	lerp      Lerper[T]
	stepped   bool
	ease      func(float64) float64
}

// NewList creates a List from keyframes; they are sorted by time.
// An empty keyframe slice yields a list that always returns the zero value.
func NewList[T any](keyframes []Keyframe[T], lerp Lerper[T]) *List[T] {
	kf := append([]Keyframe[T](nil), keyframes...)
	sort.SliceStable(kf, func(i, j int) bool { return kf[i].Time < kf[j].Time })
	return &List[T]{keyframes: kf, lerp: lerp}
}

// Constant returns a list that evaluates to v everywhere.
func Constant[T any](v T) *List[T] {
	return &List[T]{keyframes: []Keyframe[T]{{Time: 0, Value: v}}}
}

// SetStepped switches the list to hold each keyframe value until the next one.
func (l *List[T]) SetStepped(stepped bool) *List[T] {
	l.stepped = stepped
	return l
}

// SetEase applies an ease to the time value before lookup. nil means linear.
func (l *List[T]) SetEase(ease func(float64) float64) *List[T] {
	l.ease = ease
	return l
}

// First returns the value of the first keyframe.
func (l *List[T]) First() T {
	var zero T
	if len(l.keyframes) == 0 {
		return zero
	}
	return l.keyframes[0].Value
}

// Len returns the number of keyframes.
func (l *List[T]) Len() int {
	return len(l.keyframes)
}

// Evaluate returns the value at normalized time t (clamped to [0, 1]).
func (l *List[T]) Evaluate(t float64) T {
	var zero T
	n := len(l.keyframes)
	if n == 0 {
		return zero
	}
	if n == 1 {
		return l.keyframes[0].Value
	}

	t = math.Max(0, math.Min(1, t))
	if l.ease != nil {
		t = l.ease(t)
	}

	if t <= l.keyframes[0].Time {
		return l.keyframes[0].Value
	}

	if l.stepped {
		current := 0
		for current+1 < n && t >= l.keyframes[current+1].Time {
			current++
		}
		return l.keyframes[current].Value
	}

	for i := 0; i < n-1; i++ {
		k0 := l.keyframes[i]
		k1 := l.keyframes[i+1]
		if t > k1.Time {
			continue
		}
		duration := k1.Time - k0.Time
		if duration <= 0 || l.lerp == nil {
			return k1.Value
		}
		return l.lerp(k0.Value, k1.Value, (t-k0.Time)/duration)
	}

	// t is beyond the last keyframe
	return l.keyframes[n-1].Value
}

// LerpFloat is the Lerper for float64 lists.
func LerpFloat(a, b, t float64) float64 {
	return a + (b-a)*t
}

// RandomInRange returns a value in [min, max). When min == max it returns max
// exactly and does not consume a random draw.
func RandomInRange(rng *rand.Rand, min, max float64) float64 {
	if min == max {
		return max
	}
	return rng.Float64()*(max-min) + min
}
