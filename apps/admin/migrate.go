package main

import (
	"context"
	"fmt"

	"github.com/trezcool/accommodations/storage/database"
)

var gooseRunFunc = database.RunMigrations // mockable

func (cli *commandLine) migrate(args []string) error {
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(cli.db, cli.conf.Database.Engine, args[0], arguments...)
}

func (cli *commandLine) seed() error {
	if err := database.Initialize(context.Background(), cli.db, cli.conf.Database.Engine); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "database initialized")
	return nil
}

func (cli *commandLine) reset() error {
	if err := database.Reset(context.Background(), cli.db, cli.conf.Database.Engine); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "database reset")
	return nil
}
