package main

import (
	"github.com/neptgadgets/school-nexus-final-sub001/storage/database"
)

var gooseRunFunc = database.GooseRun // mockable

func (cli *commandLine) migrate(args []string) error {
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], cli.db, arguments...)
}
