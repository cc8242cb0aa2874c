package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// @title Receipt Tracker API
// @version 1.0
// @description Submit expense receipts to a shared spreadsheet and read the reference option lists.
// @BasePath /
func main() {
	app := &cli.App{
		Name:  "receipt-tracker",
		Usage: "Record expense receipts in a shared spreadsheet",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Aliases: []string{"e"},
				Usage:   "Load environment variables from `FILE` before reading the environment",
			},
		},
		Commands: []*cli.Command{
			serveCommand,
			listsCommand,
			submitCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
