package utils

import (
	"math"
	"testing"
)

// TestNamedEasesEndpoints 测试所有具名缓动函数的端点
func TestNamedEasesEndpoints(t *testing.T) {
	for name, fn := range easeByName {
		t.Run(name, func(t *testing.T) {
			if got := fn(0); math.Abs(got) > 0.001 {
				t.Errorf("%s(0) = %v, 期望 0", name, got)
			}
			if got := fn(1); math.Abs(got-1) > 0.001 {
				t.Errorf("%s(1) = %v, 期望 1", name, got)
			}
		})
	}
}

// TestEaseMidpoints 测试中点取值
func TestEaseMidpoints(t *testing.T) {
	tests := []struct {
		name     string
		fn       EaseFunc
		expected float64
	}{
		{"linear", EaseLinear, 0.5},
		{"inQuad", EaseInQuad, 0.25},
		{"outQuad", EaseOutQuad, 0.75},
		{"inOutQuad", EaseInOutQuad, 0.5},
		{"inCubic", EaseInCubic, 0.125},
		{"outCubic", EaseOutCubic, 0.875},
		{"smoothStep", EaseSmoothStep, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(0.5); math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("%s(0.5) = %v, 期望 %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestEaseByName(t *testing.T) {
	fn, ok := EaseByName("")
	if !ok || fn != nil {
		t.Errorf("empty name should resolve to (nil, true)")
	}

	fn, ok = EaseByName("easeOutCubic")
	if !ok || fn == nil {
		t.Fatalf("easeOutCubic should be registered")
	}
	if math.Abs(fn(0.5)-0.875) > 0.001 {
		t.Errorf("easeOutCubic(0.5) = %v", fn(0.5))
	}

	if _, ok := EaseByName("bouncy"); ok {
		t.Errorf("unknown ease should not resolve")
	}
}

// TestGenerateEase 测试分段二次缓动
func TestGenerateEase(t *testing.T) {
	if GenerateEase(nil) != nil {
		t.Errorf("GenerateEase(nil) should be nil")
	}

	// 单段且控制点在中间时退化为线性
	linear := GenerateEase([]EaseSegment{{S: 0, CP: 0.5, E: 1}})
	for _, x := range []float64{0, 0.25, 0.5, 0.75} {
		if got := linear(x); math.Abs(got-x) > 1e-9 {
			t.Errorf("linear segment(%v) = %v", x, got)
		}
	}

	// 两段：0→1 然后 1→0
	updown := GenerateEase([]EaseSegment{
		{S: 0, CP: 0.5, E: 1},
		{S: 1, CP: 0.5, E: 0},
	})
	if got := updown(0.5); math.Abs(got-1) > 1e-9 {
		t.Errorf("updown(0.5) = %v, 期望 1", got)
	}
	if got := updown(1); math.Abs(got) > 1e-9 {
		t.Errorf("updown(1) = %v, 期望 0", got)
	}
}
