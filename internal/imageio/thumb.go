package imageio

import (
	"image"

	xdraw "golang.org/x/image/draw"

	coloring "github.com/jaehwan-AI/coloring-web"
)

// Thumbnail downscales the raster so its longer side is at most maxDim
// pixels, preserving aspect ratio. Rasters already within bounds are
// returned as a copy at original size. CatmullRom resampling keeps line
// art crisp at gallery sizes.
func Thumbnail(r *coloring.Raster, maxDim int) *coloring.Raster {
	w, h := r.Width(), r.Height()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return r.Clone()
	}

	tw, th := w, h
	if w >= h {
		tw = maxDim
		th = h * maxDim / w
	} else {
		th = maxDim
		tw = w * maxDim / h
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), r, r.Bounds(), xdraw.Src, nil)
	return coloring.FromImage(dst)
}
