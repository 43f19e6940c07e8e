package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/promostore/storefront/internal/domain"
	"github.com/promostore/storefront/internal/payments"
	"github.com/promostore/storefront/internal/platform/auth"
	"github.com/promostore/storefront/internal/repositories"
	"github.com/promostore/storefront/internal/services"
)

type stubCheckoutService struct {
	createFunc func(context.Context, services.CreateCheckoutSessionCommand) (domain.CheckoutSession, error)
	getFunc    func(context.Context, string) (domain.CheckoutSession, error)
	calls      int
}

func (s *stubCheckoutService) CreateCheckoutSession(ctx context.Context, cmd services.CreateCheckoutSessionCommand) (domain.CheckoutSession, error) {
	s.calls++
	if s.createFunc == nil {
		return domain.CheckoutSession{}, errors.New("not implemented")
	}
	return s.createFunc(ctx, cmd)
}

func (s *stubCheckoutService) GetCheckoutSession(ctx context.Context, id string) (domain.CheckoutSession, error) {
	s.calls++
	if s.getFunc == nil {
		return domain.CheckoutSession{}, errors.New("not implemented")
	}
	return s.getFunc(ctx, id)
}

type stubProvider struct {
	mu            sync.Mutex
	createFunc    func(context.Context, payments.CheckoutSessionRequest) (domain.CheckoutSession, error)
	retrieveFunc  func(context.Context, string) (domain.CheckoutSession, error)
	createCalls   int
	retrieveCalls int
}

func (p *stubProvider) CreateCheckoutSession(ctx context.Context, req payments.CheckoutSessionRequest) (domain.CheckoutSession, error) {
	p.mu.Lock()
	p.createCalls++
	p.mu.Unlock()
	return p.createFunc(ctx, req)
}

func (p *stubProvider) RetrieveCheckoutSession(ctx context.Context, id string) (domain.CheckoutSession, error) {
	p.mu.Lock()
	p.retrieveCalls++
	p.mu.Unlock()
	return p.retrieveFunc(ctx, id)
}

type stubTeamRepository struct {
	members   []domain.TeamMember
	listErr   error
	listCalls int
}

func (r *stubTeamRepository) ListTeamMembers(context.Context) ([]domain.TeamMember, error) {
	r.listCalls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]domain.TeamMember(nil), r.members...), nil
}

func (r *stubTeamRepository) FindTeamMemberByEmail(_ context.Context, email string) (domain.TeamMember, error) {
	for _, m := range r.members {
		if m.Email == email {
			return m, nil
		}
	}
	return domain.TeamMember{}, repositories.ErrTeamMemberNotFound
}

// tokenVerifier accepts tokens of the form "token:<email>".
type tokenVerifier struct{}

func (tokenVerifier) Verify(_ context.Context, token string) (*auth.Identity, error) {
	const prefix = "token:"
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return nil, auth.ErrTokenInvalid
	}
	return &auth.Identity{Subject: "sub-" + token[len(prefix):], Email: token[len(prefix):], Role: "authenticated"}, nil
}
