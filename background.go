package coloring

// Background estimation tolerances, in channel-sum (Manhattan) distance.
// Brighter paper tolerates more sensor/compression noise before clean
// background is confused with intended content.
const (
	// ToleranceBright is used when the estimated background is near-white.
	ToleranceBright = 55

	// ToleranceDim is used for darker paper.
	ToleranceDim = 40

	// brightPaperLuma is the luminance above which paper counts as bright.
	brightPaperLuma = 220

	// edgeSamples is the number of evenly spaced samples taken along each
	// border edge, in addition to the corners and edge midpoints.
	edgeSamples = 20
)

// Estimate is the result of background estimation for one loaded image.
type Estimate struct {
	// Background is the estimated paper color.
	Background Color

	// Tolerance is the channel-sum distance within which a pixel still
	// counts as background.
	Tolerance int
}

// EstimateBackground samples the border of the raster and returns the
// estimated paper color and similarity tolerance.
//
// Samples are the four corners, the midpoint of each edge, and 20 evenly
// spaced points along each edge, so sampling stays border-only at any
// canvas size. The raster must be at least 2×2; smaller inputs are a
// caller error and yield unspecified results.
func EstimateBackground(r *Raster) Estimate {
	w, h := r.width, r.height

	var points [][2]int
	points = append(points,
		[2]int{0, 0}, [2]int{w - 1, 0}, [2]int{0, h - 1}, [2]int{w - 1, h - 1},
		[2]int{w / 2, 0}, [2]int{w / 2, h - 1}, [2]int{0, h / 2}, [2]int{w - 1, h / 2},
	)
	for i := 1; i <= edgeSamples; i++ {
		x := (w - 1) * i / (edgeSamples + 1)
		y := (h - 1) * i / (edgeSamples + 1)
		points = append(points,
			[2]int{x, 0}, [2]int{x, h - 1},
			[2]int{0, y}, [2]int{w - 1, y},
		)
	}

	var sumR, sumG, sumB int
	for _, p := range points {
		c := r.ColorAt(p[0], p[1])
		sumR += int(c.R)
		sumG += int(c.G)
		sumB += int(c.B)
	}

	n := len(points)
	bg := RGB(
		uint8((sumR+n/2)/n),
		uint8((sumG+n/2)/n),
		uint8((sumB+n/2)/n),
	)

	tol := ToleranceDim
	if Luminance(bg) > brightPaperLuma {
		tol = ToleranceBright
	}
	return Estimate{Background: bg, Tolerance: tol}
}
