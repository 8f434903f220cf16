package physics

import "testing"

func TestNear(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 float64
		r              float64
		want           bool
	}{
		{"same point", 5, 5, 5, 5, 10, true},
		{"inside on both axes", 0, 0, 9.9, -9.9, 10, true},
		{"box corner beyond circle", 0, 0, 9, 9, 10, true},
		{"x at the range is excluded", 0, 0, 10, 0, 10, false},
		{"y outside", 0, 0, 0, 12, 12, false},
		{"negative coordinates", -3, -3, 5, 4, 12, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Near(tt.x1, tt.y1, tt.x2, tt.y2, tt.r); got != tt.want {
				t.Fatalf("Near(%v, %v, %v, %v, %v) = %v, want %v", tt.x1, tt.y1, tt.x2, tt.y2, tt.r, got, tt.want)
			}
		})
	}
}
