package dashboard

import (
	"strings"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/user"
)

// Pages
const (
	PageHome      = "/"
	PageDashboard = "/dashboard"
	PageAdmin     = "/dashboard/admin"
	PageTutor     = "/dashboard/ai-tutor"
	PageSkillTree = "/dashboard/skill-tree"
	PageWellBeing = "/dashboard/well-being"
)

type Outcome string

const (
	Allow    Outcome = "allow"
	Deny     Outcome = "deny"
	Redirect Outcome = "redirect"
)

// Decision is the result of an access check. RedirectTo is set when Outcome is Redirect.
type Decision struct {
	Outcome    Outcome
	RedirectTo string
}

type View string

const (
	ViewLoading      View = "loading"
	ViewStudent      View = "student"
	ViewTeacher      View = "teacher"
	ViewAdmin        View = "admin"
	ViewAccessDenied View = "access-denied"
)

// IsAdminPage reports whether page is restricted to admins.
func IsAdminPage(page string) bool {
	return page == PageAdmin || strings.HasPrefix(page, PageAdmin+"/")
}

func isDashboardPage(page string) bool {
	return page == PageDashboard || strings.HasPrefix(page, PageDashboard+"/")
}

// Authorize decides whether the signed-in principal (nil when anonymous) may open page.
// usr is the principal's user document, nil while it does not exist.
func Authorize(p *core.Principal, usr *user.User, page string) Decision {
	if !isDashboardPage(page) {
		return Decision{Outcome: Allow}
	}
	if p.IsZero() {
		return Decision{Outcome: Redirect, RedirectTo: PageHome}
	}
	if IsAdminPage(page) && (usr == nil || !usr.IsAdmin()) {
		return Decision{Outcome: Deny}
	}
	return Decision{Outcome: Allow}
}

// SelectView picks what page renders for the current role. It is recomputed on every role change.
func SelectView(p *core.Principal, usr *user.User, page string) View {
	if p.IsZero() || usr == nil || !user.IsValidRole(usr.Role) {
		return ViewLoading
	}
	if IsAdminPage(page) {
		if usr.IsAdmin() {
			return ViewAdmin
		}
		return ViewAccessDenied
	}
	if page == PageDashboard {
		switch usr.Role {
		case user.RoleTeacher:
			return ViewTeacher
		case user.RoleAdmin:
			return ViewAdmin
		}
	}
	return ViewStudent
}
