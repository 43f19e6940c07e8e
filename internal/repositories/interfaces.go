package repositories

import (
	"context"
	"errors"

	"github.com/promostore/storefront/internal/domain"
)

// ErrTeamMemberNotFound is returned when no team member matches a lookup.
var ErrTeamMemberNotFound = errors.New("repositories: team member not found")

// TeamMemberRepository reads the team directory. The directory is owned by
// the external store; this service never writes to it.
type TeamMemberRepository interface {
	// ListTeamMembers returns every member ordered by creation time, newest first.
	ListTeamMembers(ctx context.Context) ([]domain.TeamMember, error)
	// FindTeamMemberByEmail matches email case-insensitively.
	FindTeamMemberByEmail(ctx context.Context, email string) (domain.TeamMember, error)
}

// HealthRepository collects dependency health for readiness probes.
type HealthRepository interface {
	Collect(ctx context.Context) (domain.SystemHealthReport, error)
}
