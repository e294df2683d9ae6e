package utils

import "math"

// Easing Functions (缓动函数)
//
// 缓动函数把归一化进度 t ∈ [0, 1] 映射到 [0, 1]，用于粒子年龄百分比
// 和关键帧列表的插值曲线。
//
// 参考：https://easings.net/

// EaseFunc maps a normalized progress value to an eased progress value.
type EaseFunc func(t float64) float64

// EaseLinear 线性缓动（无缓动）
func EaseLinear(t float64) float64 {
	return t
}

// EaseInQuad 二次方缓入
// 公式：f(t) = t²
func EaseInQuad(t float64) float64 {
	return t * t
}

// EaseOutQuad 二次方缓出
// 公式：f(t) = 1 - (1-t)²
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// EaseInOutQuad 二次方缓入缓出
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

// EaseInCubic 三次方缓入
// 公式：f(t) = t³
func EaseInCubic(t float64) float64 {
	return t * t * t
}

// EaseOutCubic 三次方缓出
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInOutCubic 三次方缓入缓出
//
//	t < 0.5: f(t) = 4t³
//	t >= 0.5: f(t) = 1 - (-2t + 2)³ / 2
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EaseOutExpo 指数缓出
// 公式：f(t) = 1 - 2^(-10t)
func EaseOutExpo(t float64) float64 {
	if t >= 1.0 {
		return 1.0
	}
	return 1 - math.Pow(2, -10*t)
}

// EaseSmoothStep Hermite 平滑插值
func EaseSmoothStep(t float64) float64 {
	return t * t * (3 - 2*t)
}

var easeByName = map[string]EaseFunc{
	"linear":         EaseLinear,
	"easeInQuad":     EaseInQuad,
	"easeOutQuad":    EaseOutQuad,
	"easeInOutQuad":  EaseInOutQuad,
	"easeInCubic":    EaseInCubic,
	"easeOutCubic":   EaseOutCubic,
	"easeInOutCubic": EaseInOutCubic,
	"easeOutExpo":    EaseOutExpo,
	"smoothStep":     EaseSmoothStep,
}

// EaseByName looks up a named easing curve. An empty name returns (nil, true):
// callers treat a nil ease as linear and skip the call entirely.
func EaseByName(name string) (EaseFunc, bool) {
	if name == "" {
		return nil, true
	}
	fn, ok := easeByName[name]
	return fn, ok
}

// EaseSegment is one quadratic piece of a custom ease: start value S,
// control point CP and end value E.
type EaseSegment struct {
	S  float64 `yaml:"s"`
	CP float64 `yaml:"cp"`
	E  float64 `yaml:"e"`
}

// GenerateEase builds a piecewise quadratic ease from evenly spaced segments.
// Returns nil when no segments are given.
func GenerateEase(segments []EaseSegment) EaseFunc {
	qty := len(segments)
	if qty == 0 {
		return nil
	}
	oneOverQty := 1.0 / float64(qty)
	segs := append([]EaseSegment(nil), segments...)

	return func(t float64) float64 {
		i := int(float64(qty) * t)
		if i < 0 {
			i = 0
		}
		if i >= qty {
			i = qty - 1
		}
		local := (t - float64(i)*oneOverQty) * float64(qty)
		s := segs[i]
		return s.S + local*(2*(1-local)*(s.CP-s.S)+local*(s.E-s.S))
	}
}
