package utils

import (
	"math"
	"testing"
)

func TestEasing(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(float64) float64
		input    float64
		expected float64
	}{
		{"cubic 起点", EaseOutCubic, 0, 0},
		{"cubic 中点", EaseOutCubic, 0.5, 0.875},
		{"cubic 终点", EaseOutCubic, 1, 1},
		{"cubic 越界", EaseOutCubic, 1.5, 1},
		{"quad 起点", EaseOutQuad, 0, 0},
		{"quad 中点", EaseOutQuad, 0.5, 0.75},
		{"quad 终点", EaseOutQuad, 1, 1},
		{"quad 负数", EaseOutQuad, -0.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.input); math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("f(%v) = %v, 期望 %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLerp(t *testing.T) {
	tests := []struct {
		a, b, t, expected float64
	}{
		{0, 100, 0, 0},
		{0, 100, 0.25, 25},
		{40, 200, 1, 200},
	}
	for _, tt := range tests {
		if got := Lerp(tt.a, tt.b, tt.t); math.Abs(got-tt.expected) > 0.001 {
			t.Errorf("Lerp(%v, %v, %v) = %v, 期望 %v", tt.a, tt.b, tt.t, got, tt.expected)
		}
	}
}
