package calc

import (
	"math"
	"testing"
)

func almostEq(x, y, eps float64) bool { return math.Abs(x-y) < eps }

func TestCentralDiff(t *testing.T) {
	xs := []float64{0, 1, 3, 4}
	ys := []float64{0, 2, 6, 8}
	out := CentralDiff(xs, ys)
	if len(out) != 2 {
		t.Fatalf("len(CentralDiff) = %d, expected 2", len(out))
	}
	for i := range out {
		if !almostEq(out[i], 2, 1e-12) {
			t.Errorf("CentralDiff(2x)[%d] = %g", i, out[i])
		}
	}

	buf := make([]float64, 2)
	CentralDiff(xs, ys, Out(buf))
	if buf[0] != out[0] || buf[1] != out[1] {
		t.Errorf("CentralDiff did not write to the Out buffer.")
	}
}
