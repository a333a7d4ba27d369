package main

import (
	"errors"
	"io"
	"log"
	"os"

	"cashback/internal/app"
	"cashback/internal/config"
	"cashback/internal/cui"
	"cashback/internal/logger"

	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	c := config.NewConfig()
	if err := config.Init(c); err != nil {
		return err
	}

	sugar, err := logger.NewLogger(c.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = sugar.Sync() }()

	opts := cui.Options{
		In:    os.Stdin,
		Out:   os.Stdout,
		Color: !c.NoColor && isatty.IsTerminal(os.Stdout.Fd()),
	}

	ui := cui.New(nil, opts)
	if app.NeedsFileName(c) {
		for c.StoragePath() == "" {
			name, perr := ui.Prompt("Enter the name for the file: ")
			if errors.Is(perr, io.EOF) {
				return nil
			}
			if perr != nil {
				return perr
			}
			c.DataFile = name
		}
		if err = c.Validate(); err != nil {
			return err
		}
	}

	service, err := app.NewService(c, sugar)
	if err != nil {
		return err
	}

	ui.SetService(service)
	return ui.Run()
}
