package geometry

import (
	"math"
	"testing"
)

func TestPointOnSphere(t *testing.T) {
	tests := []struct {
		name       string
		theta, phi float64
		wantX      float64
		wantY      float64
		wantZ      float64
	}{
		{"equator front", math.Pi / 2, 0, 1500, 0, 0},
		{"equator left", math.Pi / 2, math.Pi / 2, 0, 1500, 0},
		{"north pole", 0, 0, 0, 0, 1500},
		{"south pole", math.Pi, 0, 0, 0, -1500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Point(1500, tt.theta, tt.phi)
			if math.Abs(p.X-tt.wantX) > 1e-9 || math.Abs(p.Y-tt.wantY) > 1e-9 || math.Abs(p.Z-tt.wantZ) > 1e-9 {
				t.Errorf("Point() = %v, want (%v, %v, %v)", p, tt.wantX, tt.wantY, tt.wantZ)
			}
			if r := p.Norm(); math.Abs(r-1500) > 1e-9 {
				t.Errorf("|Point()| = %v, want 1500", r)
			}
		})
	}
}

func TestLinspace(t *testing.T) {
	got := Linspace(-90, 90, 5)
	want := []float64{-90, -45, 0, 45, 90}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("Linspace[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if got := Linspace(1, 2, 0); got != nil {
		t.Errorf("Linspace(n=0) = %v, want nil", got)
	}
	if got := Linspace(3, 4, 1); len(got) != 1 || got[0] != 3 {
		t.Errorf("Linspace(n=1) = %v, want [3]", got)
	}
}

func TestDomeWindow(t *testing.T) {
	d := Dome{DiameterMM: 3000, FOVH: 180, FOVNorth: 60, FOVSouth: 30}

	thMin, thMax := d.ThetaRange()
	if math.Abs(thMin-math.Pi/6) > 1e-12 || math.Abs(thMax-2*math.Pi/3) > 1e-12 {
		t.Errorf("ThetaRange() = (%v, %v), want (π/6, 2π/3)", thMin, thMax)
	}

	phMin, phMax := d.PhiRange()
	if math.Abs(phMin+math.Pi/2) > 1e-12 || math.Abs(phMax-math.Pi/2) > 1e-12 {
		t.Errorf("PhiRange() = (%v, %v), want (-π/2, π/2)", phMin, phMax)
	}

	wantHeight := 1500 * (math.Sin(math.Pi/3) + 0.5)
	if got := d.DisplayHeightMM(); math.Abs(got-wantHeight) > 1e-9 {
		t.Errorf("DisplayHeightMM() = %v, want %v", got, wantHeight)
	}
	if got := d.BottomZ(); math.Abs(got+750) > 1e-9 {
		t.Errorf("BottomZ() = %v, want -750", got)
	}
}

func TestParallelArcMatchesPoints(t *testing.T) {
	// The parallel arc at latitude lat must equal the chord-free length of the
	// rendered parallel: R·cos(lat)·Δφ.
	const diameter, fovH, lat = 3000.0, 120.0, 40.0
	r := diameter / 2
	want := r * math.Cos(Radians(lat)) * Radians(fovH)
	if got := ParallelArcMM(diameter, lat, fovH); math.Abs(got-want) > 1e-9 {
		t.Errorf("ParallelArcMM() = %v, want %v", got, want)
	}
	if got := ArcMM(diameter, 180); math.Abs(got-math.Pi*1500) > 1e-9 {
		t.Errorf("ArcMM(180) = %v, want %v", got, math.Pi*1500)
	}
}
