package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/promostore/storefront/internal/domain"
	"github.com/promostore/storefront/internal/platform/auth"
	"github.com/promostore/storefront/internal/platform/observability"
	"github.com/promostore/storefront/internal/platform/requestctx"
	"github.com/promostore/storefront/internal/services"
	"github.com/promostore/storefront/internal/views"
)

const defaultAdminBasePath = "/admin"

// AdminHandlers serves the staff area. Every page resolves the signed-in user
// against the team directory before any directory read happens.
type AdminHandlers struct {
	authn    *auth.Authenticator
	team     services.TeamService
	basePath string
}

// NewAdminHandlers builds the admin area. A nil verifier or team service
// leaves the area mounted but answering 503.
func NewAdminHandlers(verifier auth.TokenVerifier, team services.TeamService, basePath string) *AdminHandlers {
	basePath = "/" + strings.Trim(strings.TrimSpace(basePath), "/")
	if basePath == "/" {
		basePath = defaultAdminBasePath
	}
	h := &AdminHandlers{team: team, basePath: basePath}
	if verifier != nil {
		h.authn = auth.NewAuthenticator(verifier, auth.WithFailureHandler(signInRequired))
	}
	return h
}

func (h *AdminHandlers) BasePath() string { return h.basePath }

// Routes registers the admin pages relative to the base path.
func (h *AdminHandlers) Routes(r chi.Router) {
	if h.authn == nil || h.team == nil {
		r.HandleFunc("/*", adminUnavailable)
		r.HandleFunc("/", adminUnavailable)
		return
	}

	r.Group(func(r chi.Router) {
		r.Use(h.authn.RequireAuth)

		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, h.basePath+"/settings", http.StatusSeeOther)
		})
		r.With(h.requireRole(domain.RoleSuperAdmin)).Get("/team", h.teamPage)
		r.With(h.requireRole(domain.RoleSuperAdmin)).Get("/team/members", h.teamMembers)
		r.With(h.requireRole(domain.RoleAdmin)).Get("/settings", h.settingsPage)
	})
}

// requireRole resolves the staff member from the directory by the token's
// email. Staff privileges in the token itself are never consulted.
func (h *AdminHandlers) requireRole(required domain.StaffRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			identity, ok := auth.IdentityFromContext(ctx)
			if !ok {
				signInRequired(w, r, auth.ErrTokenMissing)
				return
			}

			member, err := h.team.Authorize(ctx, identity.NormalisedEmail(), required)
			switch {
			case err == nil:
			case errors.Is(err, services.ErrTeamAccessDenied):
				requestctx.Logger(ctx).Info("admin access denied",
					zap.String("email", observability.MaskEmail(identity.Email)),
					zap.String("required_role", string(required)),
				)
				templ.Handler(views.AccessDenied("You do not have permission to view this page."),
					templ.WithStatus(http.StatusForbidden)).ServeHTTP(w, r)
				return
			default:
				adminUnavailable(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(withStaff(ctx, member)))
		})
	}
}

func (h *AdminHandlers) page(r *http.Request) views.AdminPage {
	actor, _ := staffFromContext(r.Context())
	return views.AdminPage{BasePath: h.basePath, Actor: actor}
}

func (h *AdminHandlers) teamPage(w http.ResponseWriter, r *http.Request) {
	templ.Handler(views.TeamPage(h.page(r))).ServeHTTP(w, r)
}

// teamMembers renders the directory fragment. A store failure is logged and
// shown as the empty state.
func (h *AdminHandlers) teamMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, _ := staffFromContext(ctx)

	members, err := h.team.ListTeamMembers(ctx, actor)
	if err != nil {
		if errors.Is(err, services.ErrTeamAccessDenied) {
			templ.Handler(views.AccessDenied("You do not have permission to view this page."),
				templ.WithStatus(http.StatusForbidden)).ServeHTTP(w, r)
			return
		}
		requestctx.Logger(ctx).Warn("team directory read failed; rendering empty state", zap.Error(err))
		members = nil
	}
	templ.Handler(views.TeamMembers(members)).ServeHTTP(w, r)
}

func (h *AdminHandlers) settingsPage(w http.ResponseWriter, r *http.Request) {
	templ.Handler(views.SettingsPage(h.page(r))).ServeHTTP(w, r)
}

func signInRequired(w http.ResponseWriter, r *http.Request, _ error) {
	templ.Handler(views.SignInRequired(), templ.WithStatus(http.StatusUnauthorized)).ServeHTTP(w, r)
}

func adminUnavailable(w http.ResponseWriter, r *http.Request) {
	templ.Handler(views.Unavailable("The admin area is not available right now."),
		templ.WithStatus(http.StatusServiceUnavailable)).ServeHTTP(w, r)
}

type staffContextKey struct{}

func withStaff(ctx context.Context, member domain.TeamMember) context.Context {
	return context.WithValue(ctx, staffContextKey{}, member)
}

func staffFromContext(ctx context.Context) (domain.TeamMember, bool) {
	member, ok := ctx.Value(staffContextKey{}).(domain.TeamMember)
	return member, ok
}
