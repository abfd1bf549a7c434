package echoapi

import (
	"html/template"
	"io"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/dashboard"
	"github.com/osisproject0-hub/smaktal/core/theme"
	"github.com/osisproject0-hub/smaktal/core/user"
	appfs "github.com/osisproject0-hub/smaktal/fs"
)

const pageTemplatesDir = "templates/pages"

var navItems = []navItem{
	{Href: dashboard.PageDashboard, Label: "Overview"},
	{Href: dashboard.PageSkillTree, Label: "Pohon Keahlian"},
	{Href: dashboard.PageWellBeing, Label: "Kesejahteraan"},
	{Href: dashboard.PageTutor, Label: "AI Tutor"},
}

type (
	navItem struct {
		Href  string
		Label string
	}

	pageData struct {
		Title          string
		Page           string
		Theme          string
		ThemeStyle     template.CSS
		Presets        map[string]theme.Preset
		StorageKey     string
		GoogleClientID string
		View           dashboard.View
		User           *user.User
		Nav            []navItem
		IsAdmin        bool
	}

	// pageRenderer is the echo.Renderer of the server-rendered pages. Every page is parsed on top of _layout.
	pageRenderer struct {
		templates map[string]*template.Template
	}

	themeRequest struct {
		Preset string `json:"preset" form:"preset"`
	}
)

func newPageRenderer() *pageRenderer {
	pr := &pageRenderer{templates: make(map[string]*template.Template)}
	layout := path.Join(pageTemplatesDir, "_layout.gohtml")
	for _, name := range []string{"login.gohtml", "dashboard.gohtml"} {
		pr.templates[name] = template.Must(template.ParseFS(appfs.FS, layout, path.Join(pageTemplatesDir, name)))
	}
	return pr
}

func (pr *pageRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := pr.templates[name]
	if !ok {
		return errors.Errorf("page template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

func registerPages(app *echo.Echo, s *Server) {
	app.Renderer = s.pages

	app.GET(dashboard.PageHome, s.loginPage)
	app.GET(dashboard.PageDashboard, s.dashboardPage)
	app.GET(dashboard.PageDashboard+"/*", s.dashboardPage)
	app.POST("/theme", s.setTheme)
}

func (s *Server) newPageData(ctx echo.Context, title string) pageData {
	var name string
	if cookie, err := ctx.Cookie(theme.StorageKey); err == nil {
		name = cookie.Value
	}
	name, preset := theme.Resolve(name)

	return pageData{
		Title:          title,
		Page:           ctx.Request().URL.Path,
		Theme:          name,
		ThemeStyle:     template.CSS(preset.Style()),
		Presets:        theme.All(),
		StorageKey:     theme.StorageKey,
		GoogleClientID: s.deps.Conf.GoogleClientID,
	}
}

// pageSession returns the principal of a valid session token, nil otherwise.
func (s *Server) pageSession(ctx echo.Context) *core.Principal {
	token := tokenFromRequest(ctx)
	if token == "" {
		return nil
	}
	claims, err := s.tokens.parse(token)
	if err != nil {
		return nil
	}
	return claims.Principal()
}

func (s *Server) loginPage(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "login.gohtml", s.newPageData(ctx, "Masuk"))
}

func (s *Server) dashboardPage(ctx echo.Context) error {
	page := ctx.Request().URL.Path
	p := s.pageSession(ctx)

	var usr *user.User
	if !p.IsZero() {
		u, err := s.deps.UserSvc.GetByID(ctx.Request().Context(), p.UID)
		switch {
		case err == nil:
			usr = &u
		case errors.Cause(err) != user.ErrNotFound:
			return errors.Wrap(err, "finding user by ID")
		}
	}

	decision := dashboard.Authorize(p, usr, page)
	if decision.Outcome == dashboard.Redirect {
		return ctx.Redirect(http.StatusFound, decision.RedirectTo)
	}

	data := s.newPageData(ctx, "Dashboard")
	data.View = dashboard.SelectView(p, usr, page)
	data.User = usr
	data.Nav = navItems
	data.IsAdmin = usr != nil && usr.IsAdmin()

	status := http.StatusOK
	if decision.Outcome == dashboard.Deny {
		status = http.StatusForbidden
		data.View = dashboard.ViewAccessDenied
	}
	return ctx.Render(status, "dashboard.gohtml", data)
}

// setTheme stores the chosen preset in a cookie so pages render with it server-side.
func (s *Server) setTheme(ctx echo.Context) error {
	var data themeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to themeRequest")
	}
	if _, ok := theme.Get(data.Preset); !ok {
		return core.NewValidationError(nil, core.FieldError{Field: "preset", Error: "unknown theme preset"})
	}
	name, _ := theme.Resolve(data.Preset)

	ctx.SetCookie(&http.Cookie{
		Name:     theme.StorageKey,
		Value:    name,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	})
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: name})
}
