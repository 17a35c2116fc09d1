package coloring

import "testing"

// newBenchRaster builds a sketch-like raster: white paper with a grid of
// enclosed black boxes, so masks and fills traverse realistic regions.
func newBenchRaster(w, h int) *Raster {
	r := newUniform(w, h, White)
	for by := 20; by+100 < h; by += 120 {
		for bx := 20; bx+100 < w; bx += 120 {
			for i := 0; i <= 100; i++ {
				r.SetColor(bx+i, by, Black)
				r.SetColor(bx+i, by+100, Black)
				r.SetColor(bx, by+i, Black)
				r.SetColor(bx+100, by+i, Black)
			}
		}
	}
	return r
}

func BenchmarkEstimateBackground(b *testing.B) {
	r := newBenchRaster(1920, 1080)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = EstimateBackground(r)
	}
}

func BenchmarkBuildMask(b *testing.B) {
	r := newBenchRaster(1920, 1080)
	est := EstimateBackground(r)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = BuildMask(r, est.Background, est.Tolerance)
	}
}

func BenchmarkFill(b *testing.B) {
	r := newBenchRaster(1920, 1080)
	est := EstimateBackground(r)
	m := BuildMask(r, est.Background, est.Tolerance)

	colors := [2]Color{RGB(255, 255, 200), RGB(200, 255, 255)}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Alternate colors so the fill never short-circuits as a
		// same-color no-op.
		Fill(r, m, 70, 70, colors[i%2], DefaultFillTolerance)
	}
}

func BenchmarkSessionFillUndo(b *testing.B) {
	s := NewSession(newBenchRaster(1920, 1080))
	c := RGB(255, 255, 200)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Fill(70, 70, c)
		s.Undo()
	}
}
