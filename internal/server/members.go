package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jaehwan-AI/coloring-web/internal/store"
)

// memberIn is the member part of upsert and save payloads.
type memberIn struct {
	Number   string   `json:"number"`
	Name     string   `json:"name"`
	Memo     *string  `json:"memo"`
	HeightCm *float64 `json:"height_cm"`
	WeightKg *float64 `json:"weight_kg"`
}

func (in memberIn) params() store.MemberParams {
	return store.MemberParams{
		Number:   in.Number,
		Name:     in.Name,
		Memo:     in.Memo,
		HeightCm: in.HeightCm,
		WeightKg: in.WeightKg,
	}
}

// memberOut is the member JSON representation.
type memberOut struct {
	ID        int64     `json:"id"`
	Number    string    `json:"number"`
	Name      string    `json:"name"`
	Memo      *string   `json:"memo"`
	HeightCm  *float64  `json:"height_cm"`
	WeightKg  *float64  `json:"weight_kg"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toMemberOut(m store.Member) memberOut {
	return memberOut{
		ID:        m.ID,
		Number:    m.Number,
		Name:      m.Name,
		Memo:      m.Memo,
		HeightCm:  m.HeightCm,
		WeightKg:  m.WeightKg,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// memberResultItem is one row of a member's result history.
type memberResultItem struct {
	ID           int64     `json:"id"`
	SelectedDate *string   `json:"selected_date"`
	CreatedAt    time.Time `json:"created_at"`
	URL          string    `json:"url"`
	Note         *string   `json:"note,omitempty"`
}

func (s *Server) toMemberResultItems(results []store.Result, withNote bool) []memberResultItem {
	items := make([]memberResultItem, 0, len(results))
	for _, r := range results {
		it := memberResultItem{
			ID:           r.ID,
			SelectedDate: formatDate(r.SelectedDate),
			CreatedAt:    r.CreatedAt,
			URL:          "/uploads/" + r.Filename,
		}
		if withNote {
			it.Note = r.Note
		}
		items = append(items, it)
	}
	return items
}

// handleUpsertMember creates or updates a member by number.
func (s *Server) handleUpsertMember(w http.ResponseWriter, r *http.Request) {
	var in memberIn
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Number == "" || in.Name == "" {
		writeError(w, http.StatusBadRequest, "number and name are required")
		return
	}

	m, err := s.store.UpsertMember(r.Context(), in.params())
	if err != nil {
		s.serverError(w, "upsert member", err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberOut(m))
}

// handleGetMember looks a member up by display name.
func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.MemberByName(r.Context(), chi.URLParam(r, "key"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Member not found")
		return
	}
	if err != nil {
		s.serverError(w, "get member", err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberOut(m))
}

// handleMemberResults returns a member's history by member number, with an
// optional inclusive selected-date range.
func (s *Server) handleMemberResults(w http.ResponseWriter, r *http.Request) {
	dateFrom, err := parseDate(r.URL.Query().Get("date_from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date_from")
		return
	}
	dateTo, err := parseDate(r.URL.Query().Get("date_to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date_to")
		return
	}

	m, err := s.store.MemberByNumber(r.Context(), chi.URLParam(r, "key"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Member not found")
		return
	}
	if err != nil {
		s.serverError(w, "member results", err)
		return
	}

	results, err := s.store.ResultsByMember(r.Context(), m.ID, dateFrom, dateTo)
	if err != nil {
		s.serverError(w, "member results", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"member": toMemberOut(m),
		"items":  s.toMemberResultItems(results, true),
	})
}

// handleMemberResultsByName is the same lookup keyed by display name; the
// most recently updated member wins when names repeat.
func (s *Server) handleMemberResultsByName(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.MemberByName(r.Context(), chi.URLParam(r, "name"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Member not found")
		return
	}
	if err != nil {
		s.serverError(w, "member results by name", err)
		return
	}

	results, err := s.store.ResultsByMember(r.Context(), m.ID, nil, nil)
	if err != nil {
		s.serverError(w, "member results by name", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"member": toMemberOut(m),
		"items":  s.toMemberResultItems(results, false),
	})
}
