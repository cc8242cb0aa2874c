package main

import (
	"fmt"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"

	"github.com/ridwanfathin/receipt-tracker/internal/domain"
)

var listsCommand = &cli.Command{
	Name:  "lists",
	Usage: "Load the option lists and print them",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "raw",
			Usage: "Dump the rows returned by the spreadsheet instead of the display values",
		},
		&cli.StringFlag{
			Name:  "list",
			Usage: "Only load `LIST` (projects, categories, vendors, locations or workItems)",
		},
	},
	Action: func(cCtx *cli.Context) error {
		a, err := loadApp(cCtx)
		if err != nil {
			return err
		}

		lists := domain.OptionLists
		if name := cCtx.String("list"); name != "" {
			list, err := domain.ParseOptionList(name)
			if err != nil {
				return err
			}
			lists = []domain.OptionList{list}
		}

		out := cCtx.App.Writer

		if cCtx.Bool("raw") {
			for _, list := range lists {
				rows, err := a.client.FetchListData(cCtx.Context, list.Sheet())
				if err != nil {
					return fmt.Errorf("fetch %s: %w", list.Sheet(), err)
				}
				fmt.Fprintf(out, "# %s\n", list.Sheet())
				pp.Fprintln(out, rows)
			}
			return nil
		}

		result := a.loader.Load(cCtx.Context)
		for _, list := range lists {
			fmt.Fprintf(out, "# %s\n", list.Sheet())
			if err, failed := result.Errors[list]; failed {
				fmt.Fprintf(out, "  (unavailable: %v)\n", err)
				continue
			}
			for _, value := range result.Lists.Get(list) {
				fmt.Fprintf(out, "  %s\n", value)
			}
		}

		if result.Failed() {
			return cli.Exit("some option lists could not be loaded", 1)
		}
		return nil
	},
}
