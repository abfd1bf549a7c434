package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/osisproject0-hub/smaktal/apps/api/echo"
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
	emailsvc "github.com/osisproject0-hub/smaktal/services/email"
	genaisvc "github.com/osisproject0-hub/smaktal/services/genai"
	identitysvc "github.com/osisproject0-hub/smaktal/services/identity"
	logsvc "github.com/osisproject0-hub/smaktal/services/logger"
	"github.com/osisproject0-hub/smaktal/storage/cache/rediscache"
	"github.com/osisproject0-hub/smaktal/storage/database"
	"github.com/osisproject0-hub/smaktal/storage/database/docrepos"
	"github.com/osisproject0-hub/smaktal/storage/database/pgdocs"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newRollbarLogger(conf *core.Config, name string) *logsvc.RollbarLogger {
	local, err := logsvc.NewZapLogger(conf.Env, conf.Debug)
	if err != nil {
		log.Fatal(errors.Wrap(err, "building zap logger").Error())
	}
	logger := logsvc.NewRollbarLogger(local.Named(name), conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newLogger(conf *core.Config) core.Logger {
	return newRollbarLogger(conf, "api")
}

func newDBLogger(conf *core.Config) core.Logger {
	return newRollbarLogger(conf, "db")
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) *sqlx.DB {
	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(context.Background(), db); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db
}

func newDocStore(db *sqlx.DB, conf *core.Config, loggerParam DBLoggerParam) core.DocStore {
	return pgdocs.NewStore(db, database.DSN(conf), loggerParam.Logger)
}

// newLeaderboard returns a nil Leaderboard when the cache is disabled or unreachable.
func newLeaderboard(conf *core.Config, logger core.Logger) user.Leaderboard {
	if conf.Redis.Disabled {
		return nil
	}
	client, err := rediscache.Open(context.Background(), conf)
	if err != nil {
		logger.Warn("leaderboard cache disabled", err)
		return nil
	}
	return rediscache.NewLeaderboard(client)
}

func newRecommender(conf *core.Config, logger core.Logger) tutor.Recommender {
	if conf.GenAI.APIKey == "" {
		logger.Info("no GenAI API key, using the static tutor")
		return tutor.StaticRecommender{}
	}
	client, err := genaisvc.NewClient(context.Background(), conf)
	if err != nil {
		logger.Error("creating GenAI client, using the static tutor", err)
		return tutor.StaticRecommender{}
	}
	return genaisvc.NewRecommender(client, conf)
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(logger, conf)
	}
	return emailsvc.NewSendgridService(logger, conf)
}

func newVerifier(conf *core.Config) core.IdentityVerifier {
	return identitysvc.NewGoogleVerifier(conf)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	house.InitValidators(validate, translator)
	resource.InitValidators(validate, translator)
	wellbeing.InitValidators(validate, translator)
	return validate
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newDocStore))
	must(c.Provide(newLeaderboard))
	must(c.Provide(newRecommender))
	must(c.Provide(newEmailService))
	must(c.Provide(newVerifier))
	must(c.Provide(newTranslator))
	must(c.Provide(newValidator))

	// repositories
	must(c.Provide(docrepos.NewUserRepository))
	must(c.Provide(docrepos.NewHouseRepository))
	must(c.Provide(docrepos.NewAnnouncementRepository))
	must(c.Provide(docrepos.NewResourceRepository))
	must(c.Provide(docrepos.NewTutorRepository))
	must(c.Provide(docrepos.NewSkillTreeRepository))
	must(c.Provide(docrepos.NewCourseRepository))
	must(c.Provide(docrepos.NewWellbeingRepository))

	// services
	must(c.Provide(user.NewService))
	must(c.Provide(house.NewService))
	must(c.Provide(announcement.NewService))
	must(c.Provide(resource.NewService))
	must(c.Provide(tutor.NewService))
	must(c.Provide(skilltree.NewService))
	must(c.Provide(course.NewService))
	must(c.Provide(wellbeing.NewService))
	must(c.Provide(dashboard.NewService))

	must(c.Provide(echoapi.NewServer))

	if os.Getenv("DIG_VISUALIZE") != "" {
		_ = dig.Visualize(c, os.Stdout)
	}

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
