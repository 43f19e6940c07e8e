// Package postgres reads the Supabase team directory through pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/promostore/storefront/internal/domain"
	"github.com/promostore/storefront/internal/repositories"
)

const (
	teamMemberColumns = `id::text, coalesce(first_name, ''), coalesce(last_name, ''), email, role, is_active, created_at`

	listTeamMembersSQL = `select ` + teamMemberColumns + ` from team_members order by created_at desc`

	// Rows whose emails differ only by case resolve to the newest one.
	findTeamMemberByEmailSQL = `select ` + teamMemberColumns + ` from team_members where lower(email) = lower($1) order by created_at desc, id desc limit 1`
)

// Querier is the subset of *pgxpool.Pool the repository needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TeamMemberRepository reads team_members. Rows with an unrecognised role
// are skipped by List and rejected by Find.
type TeamMemberRepository struct {
	db           Querier
	queryTimeout time.Duration
}

var _ repositories.TeamMemberRepository = (*TeamMemberRepository)(nil)

func NewTeamMemberRepository(db Querier, queryTimeout time.Duration) (*TeamMemberRepository, error) {
	if db == nil {
		return nil, errors.New("team member repository: database is required")
	}
	return &TeamMemberRepository{db: db, queryTimeout: queryTimeout}, nil
}

func (r *TeamMemberRepository) ListTeamMembers(ctx context.Context) ([]domain.TeamMember, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(ctx, listTeamMembersSQL)
	if err != nil {
		return nil, fmt.Errorf("team member repository: list: %w", err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByPos[teamMemberRow])
	if err != nil {
		return nil, fmt.Errorf("team member repository: list: %w", err)
	}

	members := make([]domain.TeamMember, 0, len(records))
	for _, record := range records {
		member, err := record.toDomain()
		if err != nil {
			continue
		}
		members = append(members, member)
	}
	return members, nil
}

func (r *TeamMemberRepository) FindTeamMemberByEmail(ctx context.Context, email string) (domain.TeamMember, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.TeamMember{}, repositories.ErrTeamMemberNotFound
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var record teamMemberRow
	err := r.db.QueryRow(ctx, findTeamMemberByEmailSQL, email).Scan(
		&record.ID, &record.FirstName, &record.LastName, &record.Email, &record.Role, &record.IsActive, &record.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.TeamMember{}, repositories.ErrTeamMemberNotFound
	}
	if err != nil {
		return domain.TeamMember{}, fmt.Errorf("team member repository: find by email: %w", describePgError(err))
	}
	member, err := record.toDomain()
	if err != nil {
		return domain.TeamMember{}, fmt.Errorf("team member repository: find by email: %w", err)
	}
	return member, nil
}

func (r *TeamMemberRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}

type teamMemberRow struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Role      string
	IsActive  bool
	CreatedAt time.Time
}

func (row teamMemberRow) toDomain() (domain.TeamMember, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return domain.TeamMember{}, fmt.Errorf("invalid id %q: %w", row.ID, err)
	}
	role, ok := domain.ParseStaffRole(row.Role)
	if !ok {
		return domain.TeamMember{}, fmt.Errorf("unknown role %q", row.Role)
	}
	return domain.TeamMember{
		ID:        id,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Email:     row.Email,
		Role:      role,
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt.UTC(),
	}, nil
}

// describePgError keeps the SQLSTATE in the wrapped error for server-side logs.
func describePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("sqlstate %s: %w", pgErr.Code, err)
	}
	return err
}
