package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/accommodations/core"
	"github.com/trezcool/accommodations/services/spreadsheet"
)

var (
	// mockables
	isTerminalFunc  = term.IsTerminal
	readConfirmFunc = readConfirm

	errHelp        = errors.New("help provided")
	errAborted     = errors.New("aborted")
	errNotTerminal = errors.New("refusing to reset without a terminal, use -force")
)

type commandLine struct {
	conf   *core.Config
	db     *sqlx.DB
	sheets *spreadsheet.Service
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS...] - run a goose command (up, down, status, version, ...)")
	fmt.Fprintln(cli.out, "  seed                      - create the schema and the default classes & accommodations if missing")
	fmt.Fprintln(cli.out, "  reset [-force]            - drop ALL data and recreate the seeded schema")
	fmt.Fprintln(cli.out, "  import -file PATH         - import students from an .xlsx workbook")
	fmt.Fprintln(cli.out, "  export -file PATH         - export the student roster to an .xlsx workbook")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	resetCmd := flag.NewFlagSet("reset", flag.ExitOnError)
	resetForce := resetCmd.Bool("force", false, "Do not ask for confirmation.")

	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importFile := importCmd.String("file", "", "The .xlsx workbook to import.")

	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportFile := exportCmd.String("file", "", "Where to write the .xlsx roster.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		return cli.seed()
	case "reset":
		if err := resetCmd.Parse(args[2:]); err != nil {
			return err
		}
		if !*resetForce {
			if !isTerminalFunc(int(os.Stdin.Fd())) {
				return errNotTerminal
			}
			fmt.Fprint(cli.out, "This deletes ALL students, classes and tests. Type 'yes' to continue: ")
			answer, err := readConfirmFunc()
			fmt.Fprintln(cli.out)
			if err != nil {
				return err
			}
			if strings.ToLower(strings.TrimSpace(answer)) != "yes" {
				return errAborted
			}
		}
		return cli.reset()
	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importStudents(*importFile)
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportFile == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.exportRoster(*exportFile)
	default:
		cli.printUsage()
		return errHelp
	}
}

func readConfirm() (string, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return line, nil
}
