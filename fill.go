package coloring

// Fill constants. The estimate, mask and fill tolerances are deliberately
// separate tunables; see the package documentation.
const (
	// DefaultFillTolerance is the channel-sum distance within which a
	// pixel still belongs to the tapped region. This is the value the
	// interactive layer passes for every tap.
	DefaultFillTolerance = 35

	// tapBrightLuma is the luminance under which a tapped pixel is
	// assumed to sit on a drawn line rather than inside a region.
	tapBrightLuma = 180

	// retargetLuma is the minimum luminance for a retarget candidate:
	// near-white region interior, well clear of stroke anti-aliasing.
	retargetLuma = 200

	// retargetRadius bounds the tap-correction search window to 7×7.
	retargetRadius = 3

	// sameColorEps is the channel-sum distance under which the start
	// pixel already counts as carrying the fill color.
	sameColorEps = 10
)

// Fill flood-fills the region of r around (x, y) with color c, writing the
// result into r in place. The traversal is 4-connected and bounded by the
// background mask and by channel-sum similarity to the starting pixel's
// original color, so one tap recolors exactly one visually contiguous
// region and never crosses drawn lines or escapes into border-connected
// background.
//
// Abnormal taps are silent no-ops, never errors: coordinates outside the
// raster, a fully transparent pixel, a tap on masked background, or a
// region that already carries the fill color all leave r untouched. A tap
// landing on a dark stroke is retargeted to the nearest bright non-masked
// pixel within a 7×7 window, recovering fills on or next to line art.
//
// Callers that maintain undo history must snapshot r before calling Fill,
// not after. Every pixel is visited at most once, so a fill always
// terminates in O(w·h).
func Fill(r *Raster, m Mask, x, y int, c Color, tolerance int) {
	fillRegion(r, m, x, y, c, tolerance)
}

// FillCount is Fill reporting the number of pixels painted, letting a
// caller distinguish a no-op tap from a real mutation.
func FillCount(r *Raster, m Mask, x, y int, c Color, tolerance int) int {
	return fillRegion(r, m, x, y, c, tolerance)
}

// fillRegion is Fill with the painted pixel count exposed, so the session
// layer can tell a no-op tap from a real mutation.
func fillRegion(r *Raster, m Mask, x, y int, c Color, tolerance int) int {
	w, h := r.width, r.height

	if !r.In(x, y) {
		return 0
	}
	target := r.ColorAt(x, y)
	if target.A == 0 {
		return 0
	}
	if m.Background(y*w + x) {
		return 0
	}

	// Tap correction: a tap on a stroke pixel is redirected to the
	// nearest bright interior pixel nearby, if one exists.
	if Luminance(target) < tapBrightLuma {
		nx, ny, ok := retarget(r, m, x, y)
		if !ok {
			return 0
		}
		x, y = nx, ny
		target = r.ColorAt(x, y)
	}

	if Dist(target, c) <= sameColorEps {
		return 0
	}

	visited := make([]uint8, w*h)
	queue := make([]int32, 0, 64)

	start := y*w + x
	visited[start] = 1
	queue = append(queue, int32(start))

	painted := 0
	for head := 0; head < len(queue); head++ {
		i := int(queue[head])
		px, py := i%w, i/w

		d := i * 4
		r.data[d+0] = c.R
		r.data[d+1] = c.G
		r.data[d+2] = c.B
		r.data[d+3] = 255
		painted++

		if px > 0 {
			fillVisit(r, m, visited, &queue, i-1, target, tolerance)
		}
		if px < w-1 {
			fillVisit(r, m, visited, &queue, i+1, target, tolerance)
		}
		if py > 0 {
			fillVisit(r, m, visited, &queue, i-w, target, tolerance)
		}
		if py < h-1 {
			fillVisit(r, m, visited, &queue, i+w, target, tolerance)
		}
	}
	return painted
}

// fillVisit enqueues pixel i if it is unvisited, not masked background, and
// within tolerance of the fill's original target color. Visited is marked
// exactly once regardless of outcome.
func fillVisit(r *Raster, m Mask, visited []uint8, queue *[]int32, i int, target Color, tolerance int) {
	if visited[i] != 0 {
		return
	}
	visited[i] = 1
	if m.Background(i) {
		return
	}
	px := Color{R: r.data[i*4], G: r.data[i*4+1], B: r.data[i*4+2], A: r.data[i*4+3]}
	if Dist(px, target) > tolerance {
		return
	}
	*queue = append(*queue, int32(i))
}

// retarget searches the fixed window around (x, y) for the nearest
// non-masked pixel bright enough to be region interior. Candidates are
// scanned ring by ring so the closest match wins.
func retarget(r *Raster, m Mask, x, y int) (int, int, bool) {
	w := r.width
	for radius := 1; radius <= retargetRadius; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if max(abs(dx), abs(dy)) != radius {
					continue
				}
				nx, ny := x+dx, y+dy
				if !r.In(nx, ny) {
					continue
				}
				if m.Background(ny*w + nx) {
					continue
				}
				px := r.ColorAt(nx, ny)
				if px.A == 0 || Luminance(px) < retargetLuma {
					continue
				}
				return nx, ny, true
			}
		}
	}
	return 0, 0, false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
