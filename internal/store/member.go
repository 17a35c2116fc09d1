package store

import (
	"context"
	"fmt"
	"time"
)

// Member is a registered member record. Number is the unique member code
// assigned by the studio; Name may repeat across members.
type Member struct {
	ID        int64
	Number    string
	Name      string
	Memo      *string
	HeightCm  *float64
	WeightKg  *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MemberParams are the caller-supplied fields of a member upsert.
type MemberParams struct {
	Number   string
	Name     string
	Memo     *string
	HeightCm *float64
	WeightKg *float64
}

const memberColumns = `id, number, name, memo, height_cm, weight_kg, created_at, updated_at`

func scanMember(row interface{ Scan(...any) error }) (Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.Number, &m.Name, &m.Memo, &m.HeightCm, &m.WeightKg,
		&m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// UpsertMember creates a member with the given number, or updates the
// existing record in place, and returns the stored row.
func (s *Store) UpsertMember(ctx context.Context, p MemberParams) (Member, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO member (number, name, memo, height_cm, weight_kg)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (number) DO UPDATE
		SET name = EXCLUDED.name,
		    memo = EXCLUDED.memo,
		    height_cm = EXCLUDED.height_cm,
		    weight_kg = EXCLUDED.weight_kg,
		    updated_at = now()
		RETURNING `+memberColumns,
		p.Number, p.Name, p.Memo, p.HeightCm, p.WeightKg)

	m, err := scanMember(row)
	if err != nil {
		return Member{}, fmt.Errorf("store: upsert member: %w", err)
	}
	return m, nil
}

// MemberByNumber returns the member with the given unique number.
func (s *Store) MemberByNumber(ctx context.Context, number string) (Member, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM member WHERE number = $1`, number)

	m, err := scanMember(row)
	if err != nil {
		return Member{}, mapNoRows(err)
	}
	return m, nil
}

// MemberByName returns a member by display name. Names can repeat, so the
// most recently updated record wins.
func (s *Store) MemberByName(ctx context.Context, name string) (Member, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+memberColumns+` FROM member
		WHERE name = $1
		ORDER BY updated_at DESC, id DESC
		LIMIT 1`, name)

	m, err := scanMember(row)
	if err != nil {
		return Member{}, mapNoRows(err)
	}
	return m, nil
}
