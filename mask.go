package coloring

// Mask construction constants.
const (
	// maskToleranceCap tightens the estimated background tolerance for
	// mask construction. A looser tolerance here would let anti-aliased
	// line edges join the background region.
	maskToleranceCap = 25

	// maskMinLumaFloor is the lowest acceptable brightness floor for a
	// background-like pixel, regardless of how dark the paper is.
	maskMinLumaFloor = 200

	// maskLumaSlack is how far below the paper's own luminance a pixel
	// may fall and still count as background-like.
	maskLumaSlack = 15
)

// Mask flags, one per pixel, row-major. A pixel is 1 iff it is connected to
// the canvas border through background-like pixels only; such pixels define
// the impassable "outside" region that fills never paint.
//
// A Mask is only valid for the exact raster it was built from. It is always
// rebuilt wholesale when the image is reloaded or resized, never patched.
type Mask []uint8

// Background reports whether the pixel at index i is border-connected
// background.
func (m Mask) Background(i int) bool {
	return m[i] != 0
}

// BuildMask enumerates the background pixels of r that are topologically
// connected to the canvas border, by multi-source breadth-first traversal
// seeded from every background-like border pixel. Background-colored pixels
// enclosed by line strokes are not reachable and stay unmarked, so they
// remain fillable.
//
// A pixel is background-like iff its channel-sum distance to bg is within
// min(tolerance, 25) AND its luminance is at least max(200, luma(bg)-15).
// Both conditions are required: color similarity alone would classify light
// gray anti-aliased stroke edges as background.
//
// The traversal is a single O(w·h) pass with an explicit queue (no
// recursion) and is deterministic given (r, bg, tolerance).
func BuildMask(r *Raster, bg Color, tolerance int) Mask {
	w, h := r.width, r.height
	mask := make(Mask, w*h)

	maskTol := tolerance
	if maskTol > maskToleranceCap {
		maskTol = maskToleranceCap
	}
	minLuma := Luminance(bg) - maskLumaSlack
	if minLuma < maskMinLumaFloor {
		minLuma = maskMinLumaFloor
	}

	like := func(i int) bool {
		px := Color{
			R: r.data[i*4],
			G: r.data[i*4+1],
			B: r.data[i*4+2],
			A: r.data[i*4+3],
		}
		return Dist(px, bg) <= maskTol && Luminance(px) >= minLuma
	}

	// Seed from all border pixels; mask doubles as the visited set since
	// only background-like pixels are ever enqueued.
	queue := make([]int32, 0, 2*(w+h))
	seed := func(i int) {
		if mask[i] == 0 && like(i) {
			mask[i] = 1
			queue = append(queue, int32(i))
		}
	}
	for x := 0; x < w; x++ {
		seed(x)
		seed((h-1)*w + x)
	}
	for y := 0; y < h; y++ {
		seed(y * w)
		seed(y*w + w - 1)
	}

	for head := 0; head < len(queue); head++ {
		i := int(queue[head])
		x, y := i%w, i/w

		if x > 0 {
			seed(i - 1)
		}
		if x < w-1 {
			seed(i + 1)
		}
		if y > 0 {
			seed(i - w)
		}
		if y < h-1 {
			seed(i + w)
		}
	}

	return mask
}
