package server

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	coloring "github.com/jaehwan-AI/coloring-web"
	"github.com/jaehwan-AI/coloring-web/internal/imageio"
	"github.com/jaehwan-AI/coloring-web/internal/store"
)

// thumbMaxDim is the longer-side bound of gallery thumbnails.
const thumbMaxDim = 320

// saveResultIn is the payload of POST /api/results/save.
type saveResultIn struct {
	Member            memberIn `json:"member"`
	ImageDataURL      string   `json:"image_data_url"`
	OriginalID        *int64   `json:"original_id"`
	OriginalUploadURL *string  `json:"original_upload_url"`
	SelectedDate      *string  `json:"selected_date"`
	Note              *string  `json:"note"`
}

// handleSaveResult persists a colored canvas: upserts the member, decodes
// the data URL, stores the image and a gallery thumbnail under the member's
// directory, records the row, and finally removes the original upload the
// coloring started from.
func (s *Server) handleSaveResult(w http.ResponseWriter, r *http.Request) {
	var in saveResultIn
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Member.Number == "" || in.Member.Name == "" {
		writeError(w, http.StatusBadRequest, "member number and name are required")
		return
	}
	selectedDate, err := parseDate(deref(in.SelectedDate))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid selected_date")
		return
	}

	raster, _, err := imageio.DecodeDataURL(in.ImageDataURL)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid image_data_url")
		return
	}

	m, err := s.store.UpsertMember(r.Context(), in.Member.params())
	if err != nil {
		s.serverError(w, "save result: member", err)
		return
	}

	// uploads/members/<member_id>/colored_<uuid>.png plus its thumbnail.
	memberDir := filepath.Join(s.cfg.UploadDir, "members", strconv.FormatInt(m.ID, 10))
	if err := os.MkdirAll(memberDir, 0o755); err != nil {
		s.serverError(w, "save result: member dir", err)
		return
	}
	base := "colored_" + strings.ReplaceAll(uuid.New().String(), "-", "")
	rel := filepath.ToSlash(filepath.Join("members", strconv.FormatInt(m.ID, 10), base+".png"))

	if err := writePNG(filepath.Join(memberDir, base+".png"), raster); err != nil {
		s.serverError(w, "save result: write image", err)
		return
	}
	if err := writePNG(filepath.Join(memberDir, base+"_thumb.png"), imageio.Thumbnail(raster, thumbMaxDim)); err != nil {
		// The full image is saved; a missing thumbnail only degrades
		// the gallery.
		s.log.Warn("save result: write thumbnail", slog.Any("err", err))
	}

	res, err := s.store.SaveResult(r.Context(), store.ResultParams{
		MemberID:     m.ID,
		Filename:     rel,
		Mime:         "image/png",
		OriginalID:   in.OriginalID,
		SelectedDate: selectedDate,
		Note:         in.Note,
	})
	if err != nil {
		s.serverError(w, "save result: insert", err)
		return
	}

	if in.OriginalUploadURL != nil {
		s.safeUnlinkUpload(*in.OriginalUploadURL)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":         res.ID,
		"member_id":  m.ID,
		"url":        "/uploads/" + res.Filename,
		"created_at": res.CreatedAt,
	})
}

// resultItem is one gallery row.
type resultItem struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	URL       string    `json:"url"`
	ThumbURL  *string   `json:"thumb_url"`
	Member    memberOut `json:"member"`
}

// handleListResults returns the newest results across all members, with
// keyset pagination. The cursor is the id of the last row of the previous
// page, passed back as an opaque string.
func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	limit := 24
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	var cursor int64
	if v := r.URL.Query().Get("cursor"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid cursor")
			return
		}
		cursor = n
	}

	rows, next, err := s.store.ListResults(r.Context(), limit, cursor)
	if err != nil {
		s.serverError(w, "list results", err)
		return
	}

	items := make([]resultItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, resultItem{
			ID:        row.ID,
			CreatedAt: row.CreatedAt,
			URL:       "/uploads/" + row.Filename,
			ThumbURL:  s.thumbURL(row.Filename),
			Member:    toMemberOut(row.Member),
		})
	}

	var nextCursor *string
	if next > 0 {
		v := strconv.FormatInt(next, 10)
		nextCursor = &v
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":      items,
		"nextCursor": nextCursor,
	})
}

// handleDeleteResult removes a saved result: the row, the image file, and
// its thumbnail. File removal is best effort; a missing file does not keep
// the row alive.
func (s *Server) handleDeleteResult(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	res, err := s.store.ResultByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		s.serverError(w, "delete result", err)
		return
	}

	full := filepath.Join(s.cfg.UploadDir, filepath.FromSlash(res.Filename))
	for _, path := range []string{full, thumbPath(full)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.log.Warn("delete result file", slog.String("path", path), slog.Any("err", err))
		}
	}

	if err := s.store.DeleteResult(r.Context(), id); err != nil && !errors.Is(err, store.ErrNotFound) {
		s.serverError(w, "delete result", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// safeUnlinkUpload deletes a file under the upload dir given its public
// /uploads/... URL. Saved results under members/ are never deleted, and
// the resolved path must stay inside the upload dir.
func (s *Server) safeUnlinkUpload(url string) bool {
	rel, ok := strings.CutPrefix(url, "/uploads/")
	if !ok || rel == "" {
		return false
	}
	if strings.HasPrefix(rel, "members/") {
		return false
	}

	base, err := filepath.Abs(s.cfg.UploadDir)
	if err != nil {
		return false
	}
	target, err := filepath.Abs(filepath.Join(base, filepath.FromSlash(rel)))
	if err != nil {
		return false
	}
	if target == base || !strings.HasPrefix(target, base+string(filepath.Separator)) {
		return false
	}
	// A traversal like a/../members/x survives prefix checks; re-check
	// the cleaned relative path.
	cleanRel, err := filepath.Rel(base, target)
	if err != nil || strings.HasPrefix(filepath.ToSlash(cleanRel), "members/") {
		return false
	}

	if err := os.Remove(target); err != nil {
		return false
	}
	return true
}

// thumbURL returns the public thumbnail URL for a stored filename if the
// thumbnail exists on disk.
func (s *Server) thumbURL(filename string) *string {
	full := filepath.Join(s.cfg.UploadDir, filepath.FromSlash(filename))
	tp := thumbPath(full)
	if _, err := os.Stat(tp); err != nil {
		return nil
	}
	url := "/uploads/" + thumbName(filename)
	return &url
}

// thumbName maps members/7/colored_x.png to members/7/colored_x_thumb.png.
func thumbName(filename string) string {
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext) + "_thumb" + ext
}

func thumbPath(full string) string {
	ext := filepath.Ext(full)
	return strings.TrimSuffix(full, ext) + "_thumb" + ext
}

// writePNG encodes a raster to a file, cleaning up partial writes.
func writePNG(path string, raster *coloring.Raster) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := imageio.EncodePNG(f, raster); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
