package wireframe

import (
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/domespec/pkg/errors"
	"github.com/matzehuels/domespec/pkg/geometry"
)

func referenceLayout() geometry.Layout {
	return geometry.Layout{
		Dome: geometry.Dome{
			DiameterMM: 3000,
			FOVH:       180,
			FOVNorth:   67.5,
			FOVSouth:   33.75,
			ModulesH:   32,
			ModulesV:   12,
		},
		Room: &geometry.Room{WidthMM: 6000, LengthMM: 4500, HeightMM: 3719.17},
	}
}

func countKind(lines []Polyline, k LineKind) int {
	n := 0
	for _, l := range lines {
		if l.Kind == k {
			n++
		}
	}
	return n
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		wantLines  int
		wantRoom   int
		wantLabels int
	}{
		{name: "Bare", opts: Options{}, wantLines: 1 + 33 + 13},
		{name: "Room", opts: Options{Room: true}, wantLines: 1 + 33 + 13 + 12, wantRoom: 12},
		{name: "RoomLabels", opts: Options{Room: true, Labels: true}, wantLines: 1 + 33 + 13 + 12 + 1, wantRoom: 12, wantLabels: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Build(referenceLayout(), tt.opts)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if len(s.Faces) != 32*12 {
				t.Errorf("faces = %d, want %d", len(s.Faces), 32*12)
			}
			if len(s.Lines) != tt.wantLines {
				t.Errorf("lines = %d, want %d", len(s.Lines), tt.wantLines)
			}
			if got := countKind(s.Lines, LineRoom); got != tt.wantRoom {
				t.Errorf("room edges = %d, want %d", got, tt.wantRoom)
			}
			if len(s.Labels) != tt.wantLabels {
				t.Errorf("labels = %d, want %d", len(s.Labels), tt.wantLabels)
			}
			if got := countKind(s.Lines, LineMeridian); got != 33 {
				t.Errorf("meridians = %d, want 33", got)
			}
			if got := countKind(s.Lines, LineParallel); got != 13 {
				t.Errorf("parallels = %d, want 13", got)
			}
		})
	}
}

func TestBuildPointsOnSphere(t *testing.T) {
	s, err := Build(referenceLayout(), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, f := range s.Faces {
		for _, c := range f.Corners {
			if math.Abs(c.Norm()-1500) > 1e-6 {
				t.Fatalf("corner %v off sphere: |v| = %v", c, c.Norm())
			}
		}
	}
	eq := s.Lines[0]
	if eq.Kind != LineEquator || len(eq.Points) != DefaultEquatorSamples {
		t.Fatalf("first line = %s with %d points, want equator with %d", eq.Kind, len(eq.Points), DefaultEquatorSamples)
	}
	for _, p := range eq.Points {
		if math.Abs(p.Z) > 1e-9 {
			t.Fatalf("equator point %v not at z=0", p)
		}
	}
}

func TestBuildRejectsEmptyDome(t *testing.T) {
	for _, d := range []geometry.Dome{
		{DiameterMM: 3000, FOVH: 180, FOVNorth: 10, ModulesH: 0, ModulesV: 4},
		{DiameterMM: 3000, FOVH: 180, FOVNorth: 10, ModulesH: 4, ModulesV: 0},
		{DiameterMM: 0, FOVH: 180, FOVNorth: 10, ModulesH: 4, ModulesV: 4},
	} {
		if _, err := Build(geometry.Layout{Dome: d}, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Build(%+v) = %v, want %s", d, err, errors.ErrCodeInvalidInput)
		}
	}
}

func TestRoomCorners(t *testing.T) {
	l := referenceLayout()
	l.GroundOffsetMM = 500
	s, err := Build(l, Options{Room: true, Labels: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	c := s.RoomCorners()
	wantFloor := -1500*math.Sin(geometry.Radians(33.75)) - 500
	if math.Abs(c[0].Z-wantFloor) > 1e-9 {
		t.Errorf("floor z = %v, want %v", c[0].Z, wantFloor)
	}
	if math.Abs(c[4].Z-c[0].Z-3719.17) > 1e-9 {
		t.Errorf("room height = %v, want 3719.17", c[4].Z-c[0].Z)
	}
	if c[1].X != 1500 || c[0].X != 1500-4500 {
		t.Errorf("room x span = [%v, %v], want [-3000, 1500]", c[0].X, c[1].X)
	}

	var clearance bool
	for _, lb := range s.Labels {
		if strings.HasPrefix(lb.Text, "Ground clearance 500") {
			clearance = true
		}
	}
	if !clearance {
		t.Error("missing ground clearance label")
	}
}

func TestViewByName(t *testing.T) {
	for _, name := range []string{"a", "A", "b"} {
		if _, err := ViewByName(name); err != nil {
			t.Errorf("ViewByName(%q): %v", name, err)
		}
	}
	if _, err := ViewByName("c"); !errors.Is(err, errors.ErrCodeInvalidView) {
		t.Errorf("ViewByName(c) = %v, want %s", err, errors.ErrCodeInvalidView)
	}
}

func TestProjectFitsViewport(t *testing.T) {
	s, err := Build(referenceLayout(), Options{Room: true, Labels: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, cam := range Views {
		f := s.Project(cam, 800, 600)
		check := func(p Point2) {
			if p.X < frameMargin-1e-6 || p.X > 800-frameMargin+1e-6 ||
				p.Y < frameMargin+titleHeight-1e-6 || p.Y > 600-frameMargin+1e-6 {
				t.Fatalf("%s: point %+v outside viewport", cam.Title, p)
			}
		}
		for _, face := range f.Faces {
			for _, p := range face.Points {
				check(p)
			}
		}
		for _, l := range f.Lines {
			for _, p := range l.Points {
				check(p)
			}
		}
		for i := 1; i < len(f.Faces); i++ {
			if f.Faces[i].Depth < f.Faces[i-1].Depth {
				t.Fatalf("%s: faces not sorted back to front at %d", cam.Title, i)
			}
		}
		if len(f.Labels) != len(s.Labels) {
			t.Errorf("%s: labels = %d, want %d", cam.Title, len(f.Labels), len(s.Labels))
		}
	}
}

func TestProjectMinimumViewport(t *testing.T) {
	s, err := Build(referenceLayout(), Options{Room: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, size := range []struct{ w, h float64 }{{MinWidth, MinHeight}, {40, 40}} {
		f := s.Project(Views[0], size.w, size.h)
		right := frameMargin + max(size.w-2*frameMargin, 1)
		for _, l := range f.Lines {
			for _, p := range l.Points {
				if p.X < frameMargin-1e-6 || p.X > right+1e-6 {
					t.Fatalf("%vx%v: point %+v outside the drawing area", size.w, size.h, p)
				}
			}
		}
	}
}

func TestProjectViewAOrientation(t *testing.T) {
	s, err := Build(referenceLayout(), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	f := s.Project(ViewA, 800, 800)

	// Looking from -X toward +X, the column at the dome apex is farthest.
	far := f.Faces[0]
	if far.Col != 15 && far.Col != 16 {
		t.Errorf("farthest face column = %d, want a center column", far.Col)
	}
	// North rows sit above south rows on screen.
	var top, bottom float64
	for _, face := range f.Faces {
		switch face.Row {
		case 0:
			top = face.Points[0].Y
		case 11:
			bottom = face.Points[2].Y
		}
	}
	if top >= bottom {
		t.Errorf("top row y = %v, bottom row y = %v; want top above bottom", top, bottom)
	}
}

func TestProjectFlipMirrors(t *testing.T) {
	s, err := Build(referenceLayout(), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	plain := s.Project(ViewB, 640, 640)
	flipped := ViewB
	flipped.Flip = true
	mirror := s.Project(flipped, 640, 640)

	for i, l := range plain.Lines {
		for k, p := range l.Points {
			q := mirror.Lines[i].Points[k]
			if math.Abs(p.X+q.X-640) > 1e-6 || math.Abs(p.Y-q.Y) > 1e-6 {
				t.Fatalf("line %d point %d: %+v vs %+v not mirrored", i, k, p, q)
			}
		}
	}
}
