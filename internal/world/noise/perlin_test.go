package noise

import (
	"math"
	"testing"
)

func TestValueRange(t *testing.T) {
	p := New(42)
	for x := -50; x < 50; x++ {
		for z := -50; z < 50; z++ {
			v := p.Value(float64(x)*0.37, 0.5, float64(z)*0.41)
			if v < -1 || v > 1 {
				t.Fatalf("Value(%d, %d) = %f, outside [-1, 1]", x, z, v)
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	a := New(12345)
	b := New(12345)
	for i := 0; i < 1000; i++ {
		x := float64(i) * 0.173
		va := a.Value(x, x*0.5, -x)
		vb := b.Value(x, x*0.5, -x)
		if va != vb {
			t.Fatalf("same seed diverged at sample %d: %f vs %f", i, va, vb)
		}
	}
}

func TestSeedChangesField(t *testing.T) {
	a := New(1)
	b := New(2)
	diff := false
	for i := 0; i < 100 && !diff; i++ {
		x := float64(i)*0.311 + 0.17
		if a.Value(x, 0, x) != b.Value(x, 0, x) {
			diff = true
		}
	}
	if !diff {
		t.Error("different seeds produced identical fields")
	}
}

func TestOctavesRange(t *testing.T) {
	p := New(7)
	for i := 0; i < 500; i++ {
		x := float64(i) * 0.219
		v := p.Octaves(x, 1.3, -x*0.7, 4, 0.5)
		if v < -1 || v > 1 {
			t.Fatalf("Octaves at sample %d = %f, outside [-1, 1]", i, v)
		}
	}
}

func TestOctavesSingleMatchesValue(t *testing.T) {
	p := New(99)
	x, y, z := 3.7, 0.2, -1.9
	if got, want := p.Octaves(x, y, z, 1, 0.5), p.Value(x, y, z); math.Abs(got-want) > 1e-12 {
		t.Errorf("one octave = %f, want raw value %f", got, want)
	}
}

func TestHeightAtRange(t *testing.T) {
	p := New(12345)
	const max = 64.0
	for x := -200; x <= 200; x += 7 {
		for z := -200; z <= 200; z += 7 {
			h := p.HeightAt(x, z, 4, 80, max)
			if h < 0 || h > max {
				t.Fatalf("HeightAt(%d, %d) = %f, outside [0, %f]", x, z, h, max)
			}
		}
	}
}

func TestPermTableWraps(t *testing.T) {
	p := New(5)
	for i := 0; i < 256; i++ {
		if p.perm[i] != p.perm[i+256] {
			t.Fatalf("perm table not duplicated at %d", i)
		}
	}
}
