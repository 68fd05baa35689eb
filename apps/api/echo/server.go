package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/neptgadgets/school-nexus-final-sub001/core"
	"github.com/neptgadgets/school-nexus-final-sub001/core/attendance"
	"github.com/neptgadgets/school-nexus-final-sub001/core/school"
	"github.com/neptgadgets/school-nexus-final-sub001/core/student"
	"github.com/neptgadgets/school-nexus-final-sub001/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Logger        core.Logger
		UserSvc       *user.Service
		SchoolSvc     *school.Service
		StudentSvc    *student.Service
		AttendanceSvc *attendance.Service

		// SignalShutdown is called when an unrecoverable error is caught.
		SignalShutdown func()
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	if opts.SignalShutdown == nil {
		opts.SignalShutdown = func() {}
	}
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.SignalShutdown)
	s.app.Debug = core.Conf.Debug

	// pages are guarded; the API authenticates itself below
	s.app.Use(newPageGuard())
	registerPages(s.app)

	v1 := s.app.Group("/api/v1")
	jwt := jwtMiddleware()
	throttle := newRateLimiter(core.Conf.Server.AuthRequestsPerMinute).middleware()

	registerAuthAPI(v1, jwt, throttle, s.opts.UserSvc)
	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerSchoolAPI(v1, jwt, s.opts.SchoolSvc)
	registerStudentAPI(v1, jwt, s.opts.StudentSvc)
	registerAttendanceAPI(v1, jwt, s.opts.AttendanceSvc)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
