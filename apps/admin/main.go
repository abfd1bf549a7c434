package main

import (
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/osisproject0-hub/smaktal/core"
	"github.com/osisproject0-hub/smaktal/core/skilltree"
	"github.com/osisproject0-hub/smaktal/core/user"
	logsvc "github.com/osisproject0-hub/smaktal/services/logger"
	"github.com/osisproject0-hub/smaktal/storage/database"
	"github.com/osisproject0-hub/smaktal/storage/database/docrepos"
	"github.com/osisproject0-hub/smaktal/storage/database/pgdocs"
)

var logger *zap.SugaredLogger

func main() {
	conf := core.NewConfig()

	var err error
	if logger, err = logsvc.NewZapLogger(conf.Env, conf.Debug); err != nil {
		panic(err)
	}
	logger = logger.Named("admin")
	defer func() { _ = logger.Sync() }()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	store := pgdocs.NewStore(db, database.DSN(conf), logsvc.NewRollbarLogger(logger, conf))
	defer store.Close()

	// set up services
	usrRepo := docrepos.NewUserRepository(store)
	houseRepo := docrepos.NewHouseRepository(store)
	usrSvc := user.NewService(usrRepo, houseRepo, nil, validator.New(), logsvc.NewRollbarLogger(logger, conf), conf)

	// start CLI
	cli := commandLine{
		db:     db,
		usrSvc: usrSvc,
		seeder: &seeder{
			houses:    houseRepo,
			resources: docrepos.NewResourceRepository(store),
			topics:    docrepos.NewTutorRepository(store),
			skills:    skilltree.NewService(docrepos.NewSkillTreeRepository(store), usrRepo, conf),
		},
		in:  os.Stdin,
		out: os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Errorf("error: %s", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
