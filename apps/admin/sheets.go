package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

func (cli *commandLine) importStudents(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening workbook")
	}
	defer func() { _ = f.Close() }()

	res, err := cli.sheets.ImportStudents(context.Background(), f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "imported %d students\n", len(res.Imported))
	for _, re := range res.Skipped {
		fmt.Fprintf(cli.out, "  skipped %v\n", re)
	}
	return nil
}

func (cli *commandLine) exportRoster(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating workbook")
	}
	defer func() {
		if cErr := f.Close(); err == nil {
			err = cErr
		}
	}()

	if err = cli.sheets.WriteRoster(context.Background(), f); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "roster written to %s\n", path)
	return nil
}
