package main

import (
	"github.com/osisproject0-hub/smaktal/storage/database"
)

var runMigrationsFunc = database.RunMigrations // mockable

func (cli *commandLine) migrate(args []string) error {
	return runMigrationsFunc(args[0], cli.db, args[1:]...)
}
