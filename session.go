package coloring

import "log/slog"

// DefaultUndoDepth is the number of raster snapshots a session retains.
const DefaultUndoDepth = 20

// Session binds one loaded raster to its background estimate, its mask, and
// a bounded undo history. The mask and raster always describe the same
// image version: Reload rebuilds the mask wholesale and drops history, so a
// fill can never consume a mask built from a previous image.
//
// A Session is owned by a single goroutine; it performs no locking.
type Session struct {
	raster *Raster
	est    Estimate
	mask   Mask

	undo      [][]uint8
	undoDepth int
	tolerance int
	pool      *snapshotPool
}

// SessionOption configures a Session during creation.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	undoDepth int
	tolerance int
}

func defaultSessionOptions() sessionOptions {
	return sessionOptions{
		undoDepth: DefaultUndoDepth,
		tolerance: DefaultFillTolerance,
	}
}

// WithUndoDepth sets how many snapshots the undo history retains.
// Depth 0 disables undo.
func WithUndoDepth(n int) SessionOption {
	return func(o *sessionOptions) {
		if n >= 0 {
			o.undoDepth = n
		}
	}
}

// WithFillTolerance overrides the channel-sum tolerance used for fills.
func WithFillTolerance(n int) SessionOption {
	return func(o *sessionOptions) {
		if n > 0 {
			o.tolerance = n
		}
	}
}

// NewSession runs background estimation and mask construction for r and
// returns a session ready to accept taps. The raster must be at least 2×2.
func NewSession(r *Raster, opts ...SessionOption) *Session {
	o := defaultSessionOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		undoDepth: o.undoDepth,
		tolerance: o.tolerance,
		pool:      newSnapshotPool(o.undoDepth + 1),
	}
	s.load(r)
	return s
}

// load runs the two per-image passes and binds the result to the session.
func (s *Session) load(r *Raster) {
	s.raster = r
	s.est = EstimateBackground(r)
	s.mask = BuildMask(r, s.est.Background, s.est.Tolerance)

	Logger().Info("image loaded",
		slog.Int("width", r.Width()),
		slog.Int("height", r.Height()),
		slog.Int("tolerance", s.est.Tolerance),
	)
}

// Raster returns the session's pixel buffer. The session retains ownership;
// mutating it outside Fill invalidates the mask.
func (s *Session) Raster() *Raster {
	return s.raster
}

// Estimate returns the background estimate for the current image.
func (s *Session) Estimate() Estimate {
	return s.est
}

// Mask returns the background mask for the current image.
func (s *Session) Mask() Mask {
	return s.mask
}

// Reload replaces the raster, re-runs estimation and mask construction, and
// clears the undo history. Call this whenever the source image or its
// geometry changes; reusing a stale mask is a correctness bug.
func (s *Session) Reload(r *Raster) {
	for _, snap := range s.undo {
		s.pool.put(snap)
	}
	s.undo = s.undo[:0]
	s.load(r)
}

// Fill applies a tap at (x, y) with color c. A snapshot of the raster is
// pushed onto the undo history before the buffer is mutated; if the tap
// turns out to be a no-op (out of bounds, background, already that color)
// the snapshot is discarded so undo history only records real changes.
//
// Fill reports whether the raster changed.
func (s *Session) Fill(x, y int, c Color) bool {
	snap := s.pushSnapshot()

	painted := fillRegion(s.raster, s.mask, x, y, c, s.tolerance)
	if painted == 0 {
		s.popSnapshot(snap)
		return false
	}

	Logger().Debug("region filled",
		slog.Int("x", x),
		slog.Int("y", y),
		slog.Int("painted", painted),
	)
	return true
}

// Undo restores the most recent snapshot, reporting whether there was one.
func (s *Session) Undo() bool {
	if len(s.undo) == 0 {
		return false
	}
	snap := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]

	copy(s.raster.data, snap)
	s.pool.put(snap)
	return true
}

// CanUndo reports whether the history holds at least one snapshot.
func (s *Session) CanUndo() bool {
	return len(s.undo) > 0
}

// pushSnapshot copies the raster into the undo history, evicting the
// oldest snapshot when the history is full. Returns nil when undo is
// disabled.
func (s *Session) pushSnapshot() []uint8 {
	if s.undoDepth == 0 {
		return nil
	}
	if len(s.undo) >= s.undoDepth {
		s.pool.put(s.undo[0])
		copy(s.undo, s.undo[1:])
		s.undo = s.undo[:len(s.undo)-1]
	}

	snap := s.pool.get(len(s.raster.data))
	copy(snap, s.raster.data)
	s.undo = append(s.undo, snap)
	return snap
}

// popSnapshot removes a just-pushed snapshot after a no-op fill.
func (s *Session) popSnapshot(snap []uint8) {
	if snap == nil {
		return
	}
	s.undo = s.undo[:len(s.undo)-1]
	s.pool.put(snap)
}
