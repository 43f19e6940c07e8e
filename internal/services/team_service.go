package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/promostore/storefront/internal/domain"
	"github.com/promostore/storefront/internal/repositories"
)

var (
	// ErrTeamAccessDenied means the caller is unknown, inactive or lacks the required role.
	ErrTeamAccessDenied = errors.New("team: access denied")
	// ErrTeamDirectoryUnavailable wraps store failures.
	ErrTeamDirectoryUnavailable = errors.New("team: directory unavailable")
)

// TeamServiceDeps wires the dependencies required by the team service.
type TeamServiceDeps struct {
	Members repositories.TeamMemberRepository
	Logger  func(ctx context.Context, event string, fields map[string]any)
	Metrics DirectoryMetrics
}

type teamService struct {
	members repositories.TeamMemberRepository
	logger  func(ctx context.Context, event string, fields map[string]any)
	metrics DirectoryMetrics
}

var _ TeamService = (*teamService)(nil)

func NewTeamService(deps TeamServiceDeps) (TeamService, error) {
	if deps.Members == nil {
		return nil, errors.New("team service: member repository is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = noopDirectoryMetrics{}
	}
	return &teamService{members: deps.Members, logger: logger, metrics: metrics}, nil
}

// Authorize resolves the staff member for an authenticated email and checks
// they are active and hold at least the required role.
func (s *teamService) Authorize(ctx context.Context, email string, required domain.StaffRole) (domain.TeamMember, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.TeamMember{}, fmt.Errorf("%w: identity has no email", ErrTeamAccessDenied)
	}

	member, err := s.members.FindTeamMemberByEmail(ctx, email)
	if errors.Is(err, repositories.ErrTeamMemberNotFound) {
		return domain.TeamMember{}, fmt.Errorf("%w: not a team member", ErrTeamAccessDenied)
	}
	if err != nil {
		s.logger(ctx, "team.authorize_failed", map[string]any{"error": err})
		return domain.TeamMember{}, fmt.Errorf("%w: %w", ErrTeamDirectoryUnavailable, err)
	}
	if err := checkAccess(member, required); err != nil {
		return domain.TeamMember{}, err
	}
	return member, nil
}

// ListTeamMembers returns the directory newest first. The actor must be an
// active super admin; otherwise nothing is read from the store.
func (s *teamService) ListTeamMembers(ctx context.Context, actor domain.TeamMember) ([]domain.TeamMember, error) {
	if err := checkAccess(actor, domain.RoleSuperAdmin); err != nil {
		s.metrics.DirectoryRead("denied")
		return nil, err
	}

	members, err := s.members.ListTeamMembers(ctx)
	if err != nil {
		s.metrics.DirectoryRead("error")
		s.logger(ctx, "team.list_failed", map[string]any{"error": err})
		return nil, fmt.Errorf("%w: %w", ErrTeamDirectoryUnavailable, err)
	}

	sort.SliceStable(members, func(i, j int) bool {
		return members[i].CreatedAt.After(members[j].CreatedAt)
	})
	s.metrics.DirectoryRead("ok")
	return members, nil
}

func checkAccess(member domain.TeamMember, required domain.StaffRole) error {
	if !member.IsActive {
		return fmt.Errorf("%w: member inactive", ErrTeamAccessDenied)
	}
	if !member.Role.Satisfies(required) {
		return fmt.Errorf("%w: role %s below %s", ErrTeamAccessDenied, member.Role, required)
	}
	return nil
}

type noopDirectoryMetrics struct{}

func (noopDirectoryMetrics) DirectoryRead(string) {}
