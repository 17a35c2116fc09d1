package coloring

import "testing"

func buildScenarioMask(r *Raster) Mask {
	est := EstimateBackground(r)
	return BuildMask(r, est.Background, est.Tolerance)
}

func TestBuildMaskUniformBackground(t *testing.T) {
	r := newUniform(12, 9, White)
	m := buildScenarioMask(r)

	for i, v := range m {
		if v != 1 {
			t.Fatalf("pixel %d = %d, want 1 (uniform background is all border-connected)", i, v)
		}
	}
}

func TestBuildMaskEnclosedInterior(t *testing.T) {
	r := newBoxScenario()
	m := buildScenarioMask(r)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			got := m[y*10+x]
			outer := x < 2 || x > 7 || y < 2 || y > 7
			var want uint8
			if outer {
				want = 1
			}
			if got != want {
				t.Errorf("mask[%d,%d] = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestBuildMaskToleranceCap(t *testing.T) {
	// A pixel 30 channel-sum away from the background is within the
	// estimated bright tolerance (55) but outside the mask cap (25), so
	// it must not be marked even though it touches the border.
	r := newUniform(8, 8, White)
	r.SetColor(0, 3, RGB(245, 245, 245))

	m := BuildMask(r, White, ToleranceBright)
	if m[3*8] != 0 {
		t.Error("pixel 30 away from bg was masked; mask tolerance must cap at 25")
	}

	// At distance 24 it stays within the cap and is marked.
	r.SetColor(0, 3, RGB(247, 247, 247))
	m = BuildMask(r, White, ToleranceBright)
	if m[3*8] != 1 {
		t.Error("pixel 24 away from bg was not masked")
	}
}

func TestBuildMaskBrightnessFloor(t *testing.T) {
	// Anti-aliased stroke edges can be color-close to dim paper yet fall
	// under the 200 luminance floor; those must not join the background.
	bg := RGB(205, 205, 205) // luma 205, floor = max(200, 205-15) = 200
	r := newUniform(8, 8, bg)
	bright := RGB(205, 200, 205) // distance 5, luma 202
	dim := RGB(205, 196, 205)    // distance 9 (within cap), luma 199
	r.SetColor(0, 2, bright)
	r.SetColor(0, 5, dim)

	m := BuildMask(r, bg, ToleranceDim)
	if m[2*8] != 1 {
		t.Error("bright in-tolerance pixel was not masked")
	}
	if m[5*8] != 0 {
		t.Error("pixel below the luminance floor was masked")
	}
}

func TestBuildMaskGapLeaks(t *testing.T) {
	// An almost-closed outline with a one-pixel gap: the interior is
	// reachable through the gap, so it is all background.
	r := newUniform(10, 10, White)
	for i := 2; i <= 7; i++ {
		r.SetColor(i, 2, Black)
		r.SetColor(i, 7, Black)
		r.SetColor(2, i, Black)
		r.SetColor(7, i, Black)
	}
	r.SetColor(7, 4, White) // the gap

	m := buildScenarioMask(r)
	if m[4*10+5] != 1 {
		t.Error("interior pixel not reached through the gap")
	}
	if m[2*10+2] != 0 {
		t.Error("stroke pixel was masked as background")
	}
}

func TestBuildMaskDeterministic(t *testing.T) {
	r := newBoxScenario()
	a := buildScenarioMask(r)
	b := buildScenarioMask(r)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("mask differs between runs at pixel %d", i)
		}
	}
}
