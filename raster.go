package coloring

import (
	"image"
	"image/color"
)

// Raster is a rectangular RGBA pixel buffer, 4 bytes per pixel.
//
// The buffer is owned by the caller (the canvas/host surface); the engine
// mutates it in place or derives masks from it, never takes ownership.
// A Raster is not safe for concurrent use.
type Raster struct {
	width  int
	height int
	data   []uint8 // RGBA format, 4 bytes per pixel
}

// NewRaster creates a new raster with the given dimensions.
// All pixels start fully transparent black.
func NewRaster(width, height int) *Raster {
	return &Raster{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// FromImage creates a raster from a decoded image.
func FromImage(img image.Image) *Raster {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	r := NewRaster(width, height)

	// Fast path: image.RGBA with the standard stride shares our layout.
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == width*4 {
		copy(r.data, rgba.Pix)
		return r
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cr, cg, cb, ca := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := (y*width + x) * 4
			r.data[i+0] = uint8(cr >> 8)
			r.data[i+1] = uint8(cg >> 8)
			r.data[i+2] = uint8(cb >> 8)
			r.data[i+3] = uint8(ca >> 8)
		}
	}
	return r
}

// Width returns the width of the raster in pixels.
func (r *Raster) Width() int {
	return r.width
}

// Height returns the height of the raster in pixels.
func (r *Raster) Height() int {
	return r.height
}

// Data returns the raw pixel data (RGBA format).
func (r *Raster) Data() []uint8 {
	return r.data
}

// In reports whether (x, y) lies inside the raster bounds.
func (r *Raster) In(x, y int) bool {
	return x >= 0 && x < r.width && y >= 0 && y < r.height
}

// index returns the byte offset of the pixel at (x, y).
// The caller must ensure (x, y) is in bounds.
func (r *Raster) index(x, y int) int {
	return (y*r.width + x) * 4
}

// ColorAt returns the color of the pixel at (x, y).
// Out-of-bounds coordinates return the zero (transparent) color.
func (r *Raster) ColorAt(x, y int) Color {
	if !r.In(x, y) {
		return Color{}
	}
	i := r.index(x, y)
	return Color{R: r.data[i], G: r.data[i+1], B: r.data[i+2], A: r.data[i+3]}
}

// SetColor sets the color of the pixel at (x, y).
// Out-of-bounds coordinates are silently ignored.
func (r *Raster) SetColor(x, y int, c Color) {
	if !r.In(x, y) {
		return
	}
	i := r.index(x, y)
	r.data[i+0] = c.R
	r.data[i+1] = c.G
	r.data[i+2] = c.B
	r.data[i+3] = c.A
}

// Clone returns a deep copy of the raster.
func (r *Raster) Clone() *Raster {
	c := NewRaster(r.width, r.height)
	copy(c.data, r.data)
	return c
}

// ToImage converts the raster to an image.RGBA with its own pixel storage.
func (r *Raster) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	copy(img.Pix, r.data)
	return img
}

// At implements the image.Image interface.
func (r *Raster) At(x, y int) color.Color {
	c := r.ColorAt(x, y)
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Bounds implements the image.Image interface.
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.width, r.height)
}

// ColorModel implements the image.Image interface.
func (r *Raster) ColorModel() color.Model {
	return color.RGBAModel
}
