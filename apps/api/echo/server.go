package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/dig"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/announcement"
	"github.com/osisproject0-hub/smaktal/core/course"
	"github.com/osisproject0-hub/smaktal/core/dashboard"
	"github.com/osisproject0-hub/smaktal/core/house"
	"github.com/osisproject0-hub/smaktal/core/resource"
	"github.com/osisproject0-hub/smaktal/core/skilltree"
	"github.com/osisproject0-hub/smaktal/core/tutor"
	"github.com/osisproject0-hub/smaktal/core/user"
	"github.com/osisproject0-hub/smaktal/core/wellbeing"
)

type (
	// ServerDeps is everything the API serves. It can be filled by hand or injected by dig.
	ServerDeps struct {
		dig.In

		Conf       *core.Config
		Logger     core.Logger
		Translator ut.Translator
		Store      core.DocStore
		Verifier   core.IdentityVerifier

		UserSvc         *user.Service
		HouseSvc        *house.Service
		AnnouncementSvc *announcement.Service
		ResourceSvc     *resource.Service
		TutorSvc        *tutor.Service
		SkillTreeSvc    *skilltree.Service
		CourseSvc       *course.Service
		WellbeingSvc    *wellbeing.Service
		DashboardSvc    *dashboard.Service
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		tokens   *tokenIssuer
		pages    *pageRenderer
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		tokens:   newTokenIssuer(deps.Conf),
		pages:    newPageRenderer(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	registerPages(s.app, s)

	v1 := s.app.Group("/v1")
	jwt := s.jwtMiddleware()

	registerAuthAPI(v1, jwt, s)
	registerCampusAPI(v1, jwt, s)
	registerTutorAPI(v1, jwt, s)
	registerSkillTreeAPI(v1, jwt, s)
	registerWellbeingAPI(v1, jwt, s)
	registerCourseAPI(v1, jwt, s)
	registerAdminAPI(v1, jwt, s)
	registerStreamAPI(v1, jwt, s)
}

// Start blocks serving HTTP. Listener failures are reported on Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

// ShutdownSignal fires on SIGINT, SIGTERM or a shutdown error raised by a handler.
func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

// GenerateToken signs a session token for usr.
func (s *Server) GenerateToken(usr user.User) (string, error) {
	return s.tokens.sign(s.tokens.claims(usr))
}

type SuccessResponse struct {
	Success string `json:"success"`
}
