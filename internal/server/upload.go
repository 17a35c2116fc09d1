package server

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// maxUploadBytes bounds sketch uploads; scans are a few MB at most.
const maxUploadBytes = 20 << 20

// allowedExts are the accepted upload filename extensions. Anything else
// (including a missing extension) is stored as .png, since the content
// type was already checked.
var allowedExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".bmp":  true,
}

// handleUpload stores an uploaded sketch image and returns its public URL.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	ct := header.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		writeError(w, http.StatusBadRequest, "Only image files are allowed.")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExts[ext] {
		ext = ".png"
	}

	// uuid hex + extension only; no caller-controlled path parts.
	name := strings.ReplaceAll(uuid.New().String(), "-", "") + ext
	dst := filepath.Join(s.cfg.UploadDir, name)

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		s.log.Error("create upload dir", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	out, err := os.Create(dst)
	if err != nil {
		s.log.Error("create upload file", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, file); err != nil {
		s.log.Error("write upload", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": "/uploads/" + name})
}
