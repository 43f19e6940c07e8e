package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/promostore/storefront/internal/domain"
)

// AdminPage carries what every admin screen needs for navigation.
type AdminPage struct {
	BasePath string
	Actor    domain.TeamMember
}

func (p AdminPage) path(suffix string) string {
	return strings.TrimRight(p.BasePath, "/") + suffix
}

func adminLayout(title string, page AdminPage, body templ.Component) templ.Component {
	return Layout(title, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		h.raw("<div class=\"admin\"><nav class=\"admin-nav\">")
		if page.Actor.Role.Satisfies(domain.RoleSuperAdmin) {
			h.raw("<a")
			h.attr("href", page.path("/team"))
			h.raw(">Team</a>")
		}
		h.raw("<a")
		h.attr("href", page.path("/settings"))
		h.raw(">Settings</a><span class=\"actor\">")
		h.text(page.Actor.Email)
		h.raw("</span></nav><section class=\"admin-body\">")
		h.component(body)
		h.raw("</section></div>")
		return h.err
	}))
}

// TeamPage is the team management shell. The member list is fetched by htmx
// from the members fragment while a loading indicator is shown.
func TeamPage(page AdminPage) templ.Component {
	return adminLayout("Team", page, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		h.raw("<h1>Team management</h1><div id=\"team-directory\" data-page=\"team\"")
		h.attr("hx-get", page.path("/team/members"))
		h.raw(" hx-trigger=\"load\" hx-swap=\"innerHTML\" hx-indicator=\"#team-loading\">")
		h.raw("<p id=\"team-loading\" class=\"htmx-indicator\" data-loading>Loading team members...</p>")
		h.raw("</div>")
		return h.err
	}))
}

// TeamMembers is the fragment listing members, newest first as given.
func TeamMembers(members []domain.TeamMember) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		if len(members) == 0 {
			h.raw("<p class=\"empty-state\" data-empty-state>No team members found.</p>")
			return h.err
		}
		h.raw("<table id=\"team-members\" class=\"team-members\"><thead><tr>")
		h.raw("<th>Name</th><th>Email</th><th>Role</th><th>Status</th><th>Added</th></tr></thead><tbody>")
		for _, member := range members {
			h.raw("<tr")
			h.attr("data-member-id", member.ID.String())
			h.raw("><td>")
			name := member.FullName()
			if name == "" {
				name = "-"
			}
			h.text(name)
			h.raw("</td><td>")
			h.text(member.Email)
			h.raw("</td><td>")
			h.text(member.Role.Label())
			h.raw("</td><td>")
			if member.IsActive {
				h.raw("<span class=\"badge badge-active\">Active</span>")
			} else {
				h.raw("<span class=\"badge badge-inactive\">Inactive</span>")
			}
			h.raw("</td><td>")
			h.text(Date(member.CreatedAt))
			h.raw("</td></tr>")
		}
		h.raw("</tbody></table>")
		return h.err
	})
}

var settingsSections = []struct {
	Title string
	Body  string
}{
	{"Store details", "Business name, contact email and address."},
	{"Payments", "Checkout currency and payment provider account."},
	{"Notifications", "Order confirmation and dispatch emails."},
}

// SettingsPage renders the placeholder settings sections.
func SettingsPage(page AdminPage) templ.Component {
	return adminLayout("Settings", page, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		h.raw("<h1>Settings</h1><div data-page=\"settings\">")
		for _, section := range settingsSections {
			h.raw("<section class=\"settings-section placeholder\"><h2>")
			h.text(section.Title)
			h.raw("</h2><p>")
			h.text(section.Body)
			h.raw("</p><p class=\"muted\">Coming soon.</p></section>")
		}
		h.raw("</div>")
		return h.err
	}))
}

// AccessDenied is shown when the signed-in user lacks the required role.
func AccessDenied(message string) templ.Component {
	return Layout("Access denied", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		h.raw("<section class=\"access-denied\" data-page=\"access-denied\"><h1>Access denied</h1><p>")
		h.text(message)
		h.raw("</p></section>")
		return h.err
	}))
}

// SignInRequired is shown when no valid session token accompanies the request.
func SignInRequired() templ.Component {
	return Layout("Sign in required", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		h.raw("<section class=\"sign-in\" data-page=\"sign-in-required\"><h1>Sign in required</h1>")
		h.raw("<p>Your session is missing or has expired. Sign in again to continue.</p></section>")
		return h.err
	}))
}

// Unavailable is shown when the admin area cannot reach its backing store.
func Unavailable(message string) templ.Component {
	return Layout("Unavailable", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		h.raw("<section class=\"unavailable\" data-page=\"unavailable\"><h1>Temporarily unavailable</h1><p>")
		h.text(message)
		h.raw("</p></section>")
		return h.err
	}))
}
