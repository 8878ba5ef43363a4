package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/accommodations/core"
	"github.com/trezcool/accommodations/core/accommodation"
	"github.com/trezcool/accommodations/core/class"
	"github.com/trezcool/accommodations/core/student"
	logsvc "github.com/trezcool/accommodations/services/logger"
	"github.com/trezcool/accommodations/services/spreadsheet"
	"github.com/trezcool/accommodations/storage/database"
	"github.com/trezcool/accommodations/storage/database/sqlxrepos"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)
	database.SetLogger(logger)

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	// migrate & reset manage the schema themselves
	if len(os.Args) > 1 && needsSchema(os.Args[1]) {
		if err = database.Initialize(context.Background(), db, conf.Database.Engine); err != nil {
			_ = db.Close()
			logger.Fatal(fmt.Sprintf("initializing database: %v", err), err)
		}
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)

	stdSvc := student.NewService(db, sqlxrepos.NewStudentRepository(db), validate, conf.School.Location())
	classSvc := class.NewService(sqlxrepos.NewClassRepository(db), validate)
	accSvc := accommodation.NewService(sqlxrepos.NewAccommodationRepository(db))

	// start CLI
	cli := commandLine{
		conf:   conf,
		db:     db,
		sheets: spreadsheet.NewService(stdSvc, classSvc, accSvc, logger),
		out:    os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}

func needsSchema(command string) bool {
	switch command {
	case "import", "export":
		return true
	default:
		return false
	}
}
