package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neptgadgets/school-nexus-final-sub001/apps/api/echo"
	"github.com/neptgadgets/school-nexus-final-sub001/core"
	"github.com/neptgadgets/school-nexus-final-sub001/core/attendance"
	"github.com/neptgadgets/school-nexus-final-sub001/core/school"
	"github.com/neptgadgets/school-nexus-final-sub001/core/student"
	"github.com/neptgadgets/school-nexus-final-sub001/core/user"
	"github.com/neptgadgets/school-nexus-final-sub001/services/email"
	"github.com/neptgadgets/school-nexus-final-sub001/services/logger"
	"github.com/neptgadgets/school-nexus-final-sub001/storage/database"
	"github.com/neptgadgets/school-nexus-final-sub001/storage/database/sqlx"
)

func main() {
	core.Conf = core.NewConfig()
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var appLogger core.Logger
	if core.Conf.Debug || core.Conf.TestMode {
		appLogger = logsvc.NewStdLogger(std)
	} else {
		appLogger = logsvc.NewRollbarLogger(std, core.Conf)
	}

	if err := run(std, appLogger); err != nil {
		appLogger.Fatal("could not start server", err)
	}
}

func run(std *log.Logger, appLogger core.Logger) error {
	// set up DB; lifecycle is explicit: open here, close on the way out
	if core.Conf.Database.AdminUser != "" {
		if err := database.CreateIfNotExist(core.Conf); err != nil {
			return err
		}
	}
	db, err := database.Open(core.Conf)
	if err != nil {
		return err
	}
	defer db.Close()

	if err = database.Migrate(db); err != nil {
		return err
	}

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService(core.Conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(core.Conf, appLogger)
	}
	usrSvc := user.NewService(core.Conf, sqlxrepos.NewUserRepository(db), mailSvc, appLogger)
	schSvc := school.NewService(sqlxrepos.NewSchoolRepository(db))
	stdSvc := student.NewService(sqlxrepos.NewStudentRepository(db))
	attSvc := attendance.NewService(sqlxrepos.NewAttendanceRepository(db))

	echoapi.ConfigureAuth(core.Conf)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(
		&echoapi.Options{
			Address:       ":" + core.Conf.Server.Port,
			Logger:        appLogger,
			UserSvc:       usrSvc,
			SchoolSvc:     schSvc,
			StudentSvc:    stdSvc,
			AttendanceSvc: attSvc,
			SignalShutdown: func() {
				shutdownCh <- syscall.SIGTERM
			},
		},
	)
	go app.Start()

	sig := <-shutdownCh
	std.Printf("%v: shutting down...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return app.Stop(ctx)
}
