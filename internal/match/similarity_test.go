package match

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "Rain Dogs", "Rain Dogs", 1.0},
		{"case insensitive", "rain dogs", "RAIN DOGS", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "Rain Dogs", "", 0.0},
		{"disjoint", "abc", "xyz", 0.0},
		// one substitution over four runes
		{"single edit", "door", "doom", 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ratio(tt.a, tt.b); !almostEqual(got, tt.want) {
				t.Errorf("Ratio(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRatioBounds(t *testing.T) {
	pairs := [][2]string{
		{"Tom Waits", "Tom Waits (2)"},
		{"a", "completely different thing"},
		{"Hüsker Dü", "Husker Du"},
		{"", "x"},
	}
	for _, pair := range pairs {
		got := Ratio(pair[0], pair[1])
		if got < 0.0 || got > 1.0 {
			t.Errorf("Ratio(%q, %q) = %f, out of [0, 1]", pair[0], pair[1], got)
		}
	}
}

func TestRatioSymmetric(t *testing.T) {
	if Ratio("Swordfishtrombones", "Rain Dogs") != Ratio("Rain Dogs", "Swordfishtrombones") {
		t.Error("expected Ratio to be symmetric")
	}
}
