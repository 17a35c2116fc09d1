package store

import (
	"context"
	"fmt"
	"time"
)

// Result is one saved colored image, linked to a member.
type Result struct {
	ID           int64
	MemberID     int64
	Filename     string // path relative to the upload root
	Mime         string
	OriginalID   *int64
	SelectedDate *time.Time
	Note         *string
	CreatedAt    time.Time
}

// ResultWithMember is a gallery row: the result plus its member.
type ResultWithMember struct {
	Result
	Member Member
}

// ResultParams are the caller-supplied fields of a saved result.
type ResultParams struct {
	MemberID     int64
	Filename     string
	Mime         string
	OriginalID   *int64
	SelectedDate *time.Time
	Note         *string
}

const resultColumns = `id, member_id, filename, mime, original_id, selected_date, note, created_at`

func scanResult(row interface{ Scan(...any) error }) (Result, error) {
	var r Result
	err := row.Scan(&r.ID, &r.MemberID, &r.Filename, &r.Mime, &r.OriginalID,
		&r.SelectedDate, &r.Note, &r.CreatedAt)
	return r, err
}

// SaveResult inserts a colored result row and returns it.
func (s *Store) SaveResult(ctx context.Context, p ResultParams) (Result, error) {
	mime := p.Mime
	if mime == "" {
		mime = "image/png"
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO colored_result (member_id, filename, mime, original_id, selected_date, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+resultColumns,
		p.MemberID, p.Filename, mime, p.OriginalID, p.SelectedDate, p.Note)

	r, err := scanResult(row)
	if err != nil {
		return Result{}, fmt.Errorf("store: save result: %w", err)
	}
	return r, nil
}

// ResultByID returns a single result row.
func (s *Store) ResultByID(ctx context.Context, id int64) (Result, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM colored_result WHERE id = $1`, id)

	r, err := scanResult(row)
	if err != nil {
		return Result{}, mapNoRows(err)
	}
	return r, nil
}

// ListResults returns up to limit gallery rows, newest first, with keyset
// pagination by id. A cursor of 0 starts from the newest row. When more
// rows remain, nextCursor is the id to pass on the next call; otherwise it
// is 0.
func (s *Store) ListResults(ctx context.Context, limit int, cursor int64) (items []ResultWithMember, nextCursor int64, err error) {
	if limit <= 0 {
		limit = 24
	}

	// Probe one row past the page to learn whether more remain.
	query := `
		SELECT r.id, r.member_id, r.filename, r.mime, r.original_id,
		       r.selected_date, r.note, r.created_at,
		       m.id, m.number, m.name, m.memo, m.height_cm, m.weight_kg,
		       m.created_at, m.updated_at
		FROM colored_result r
		JOIN member m ON m.id = r.member_id`
	args := []any{limit + 1}
	if cursor > 0 {
		query += ` WHERE r.id < $2`
		args = append(args, cursor)
	}
	query += ` ORDER BY r.id DESC LIMIT $1`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it ResultWithMember
		err := rows.Scan(
			&it.ID, &it.MemberID, &it.Filename, &it.Mime, &it.OriginalID,
			&it.SelectedDate, &it.Note, &it.CreatedAt,
			&it.Member.ID, &it.Member.Number, &it.Member.Name, &it.Member.Memo,
			&it.Member.HeightCm, &it.Member.WeightKg,
			&it.Member.CreatedAt, &it.Member.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("store: list results: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("store: list results: %w", err)
	}

	if len(items) > limit {
		nextCursor = items[limit-1].ID
		items = items[:limit]
	}
	return items, nextCursor, nil
}

// ResultsByMember returns a member's results, optionally bounded by an
// inclusive selected-date range. Rows are ordered by selected date
// descending with undated rows last, newest id first within a date.
func (s *Store) ResultsByMember(ctx context.Context, memberID int64, dateFrom, dateTo *time.Time) ([]Result, error) {
	query := `SELECT ` + resultColumns + ` FROM colored_result WHERE member_id = $1`
	args := []any{memberID}
	if dateFrom != nil {
		args = append(args, *dateFrom)
		query += fmt.Sprintf(` AND selected_date >= $%d`, len(args))
	}
	if dateTo != nil {
		args = append(args, *dateTo)
		query += fmt.Sprintf(` AND selected_date <= $%d`, len(args))
	}
	query += ` ORDER BY selected_date DESC NULLS LAST, id DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: member results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("store: member results: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: member results: %w", err)
	}
	return out, nil
}

// DeleteResult removes a result row. Returns ErrNotFound when the id does
// not exist.
func (s *Store) DeleteResult(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM colored_result WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("store: delete result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
