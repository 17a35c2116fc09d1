package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	coloring "github.com/jaehwan-AI/coloring-web"
	"github.com/jaehwan-AI/coloring-web/internal/imageio"
)

// maxFillTaps bounds the work of a single fill request.
const maxFillTaps = 64

// fillTap is one tap of a fill request.
type fillTap struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Color string `json:"color"`
}

// fillIn is the payload of POST /api/fill.
type fillIn struct {
	URL       string    `json:"url"`
	Taps      []fillTap `json:"taps"`
	Tolerance *int      `json:"tolerance"`
}

// handleFill applies region fills to a stored upload and returns the result
// as a data URL. The background mask is cached per upload; uploads carry
// uuid filenames and are never rewritten, so url plus geometry identifies
// one image version.
func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	var in fillIn
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(in.Taps) == 0 {
		writeError(w, http.StatusBadRequest, "taps are required")
		return
	}
	if len(in.Taps) > maxFillTaps {
		writeError(w, http.StatusBadRequest, "too many taps")
		return
	}
	tolerance := coloring.DefaultFillTolerance
	if in.Tolerance != nil {
		if *in.Tolerance < 1 || *in.Tolerance > 3*255 {
			writeError(w, http.StatusBadRequest, "invalid tolerance")
			return
		}
		tolerance = *in.Tolerance
	}
	taps := make([]struct {
		x, y int
		c    coloring.Color
	}, len(in.Taps))
	for i, tap := range in.Taps {
		c, err := parseHexColor(tap.Color)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("tap %d: %v", i, err))
			return
		}
		taps[i].x, taps[i].y, taps[i].c = tap.X, tap.Y, c
	}

	path, ok := s.uploadPath(in.URL)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid url")
		return
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		writeError(w, http.StatusNotFound, "Image not found")
		return
	}
	if err != nil {
		s.serverError(w, "fill: open image", err)
		return
	}
	raster, err := imageio.Decode(f)
	f.Close()
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot decode image")
		return
	}
	if raster.Width() < 2 || raster.Height() < 2 {
		writeError(w, http.StatusBadRequest, "image too small")
		return
	}

	key := fmt.Sprintf("%s|%dx%d", in.URL, raster.Width(), raster.Height())
	mask := s.masks.GetOrBuild(key, func() coloring.Mask {
		est := coloring.EstimateBackground(raster)
		return coloring.BuildMask(raster, est.Background, est.Tolerance)
	})

	painted := 0
	for _, tap := range taps {
		painted += coloring.FillCount(raster, mask, tap.x, tap.y, tap.c, tolerance)
	}

	dataURL, err := imageio.EncodeDataURL(raster)
	if err != nil {
		s.serverError(w, "fill: encode", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"image_data_url": dataURL,
		"painted":        painted,
	})
}

// uploadPath resolves a public /uploads/... URL to a file path, rejecting
// anything that escapes the upload directory.
func (s *Server) uploadPath(url string) (string, bool) {
	rel, ok := strings.CutPrefix(url, "/uploads/")
	if !ok || rel == "" {
		return "", false
	}
	base, err := filepath.Abs(s.cfg.UploadDir)
	if err != nil {
		return "", false
	}
	target, err := filepath.Abs(filepath.Join(base, filepath.FromSlash(rel)))
	if err != nil {
		return "", false
	}
	if target == base || !strings.HasPrefix(target, base+string(filepath.Separator)) {
		return "", false
	}
	return target, true
}

// parseHexColor parses a #rrggbb color.
func parseHexColor(s string) (coloring.Color, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || len(hex) != 6 {
		return coloring.Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return coloring.Color{}, fmt.Errorf("invalid color %q", s)
	}
	return coloring.RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}
