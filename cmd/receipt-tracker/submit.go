package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/ridwanfathin/receipt-tracker/internal/domain"
	"github.com/ridwanfathin/receipt-tracker/internal/form"
	"github.com/ridwanfathin/receipt-tracker/internal/imageutil"
)

var submitCommand = &cli.Command{
	Name:  "submit",
	Usage: "Submit one receipt from the command line",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "date", Usage: "Receipt date (YYYY-MM-DD)", Required: true},
		&cli.StringFlag{Name: "project", Usage: "Project name"},
		&cli.StringFlag{Name: "description", Usage: "What was bought"},
		&cli.StringFlag{Name: "category", Usage: "Expense category"},
		&cli.StringFlag{Name: "receipt-number", Usage: "Receipt or invoice number"},
		&cli.StringFlag{Name: "volume", Usage: "Quantity"},
		&cli.StringFlag{Name: "unit-price", Usage: "Price per unit"},
		&cli.StringFlag{Name: "vendor", Usage: "Vendor or supplier"},
		&cli.StringFlag{Name: "location", Usage: "Location"},
		&cli.StringFlag{Name: "work-item", Usage: "Work item"},
		&cli.PathFlag{Name: "image", Usage: "Upload the photo at `PATH`"},
		&cli.StringFlag{Name: "image-url", Usage: "Reference an image already hosted at `URL`"},
	},
	Action: func(cCtx *cli.Context) error {
		if cCtx.IsSet("image") && cCtx.IsSet("image-url") {
			return cli.Exit("use either --image or --image-url, not both", 2)
		}

		a, err := loadApp(cCtx)
		if err != nil {
			return err
		}

		f := a.pipeline.NewForm("cli")
		f.SetFields(domain.Receipt{
			Date:          cCtx.String("date"),
			Project:       cCtx.String("project"),
			Description:   cCtx.String("description"),
			Category:      cCtx.String("category"),
			ReceiptNumber: cCtx.String("receipt-number"),
			Volume:        cCtx.String("volume"),
			UnitPrice:     cCtx.String("unit-price"),
			Vendor:        cCtx.String("vendor"),
			Location:      cCtx.String("location"),
			WorkItem:      cCtx.String("work-item"),
			ImageURL:      cCtx.String("image-url"),
		})

		if path := cCtx.Path("image"); path != "" {
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open image: %w", err)
			}
			img, err := imageutil.Read(file, filepath.Base(path), a.config.MaxImageBytes)
			file.Close()
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			f.StageImage(img)
		}

		result, err := f.Submit(cCtx.Context)
		if err != nil {
			return describeSubmitError(err)
		}

		out := cCtx.App.Writer
		fmt.Fprintf(out, "receipt added for %s on %s\n", result.Receipt.Description, result.Receipt.Date)
		if total, ok := result.Receipt.Total(); ok {
			fmt.Fprintf(out, "total: %s\n", total.StringFixed(2))
		}
		if result.Receipt.ImageURL != "" {
			fmt.Fprintf(out, "image: %s\n", result.Receipt.ImageURL)
		}
		return nil
	},
}

func describeSubmitError(err error) error {
	var verrs form.ValidationErrors
	var submitErr *form.SubmitError

	switch {
	case errors.As(err, &verrs):
		return cli.Exit(verrs.Error(), 2)
	case errors.As(err, &submitErr) && submitErr.ImageURL != "":
		return cli.Exit(fmt.Sprintf("%v\nthe image was stored at %s but no row references it", err, submitErr.ImageURL), 1)
	default:
		return err
	}
}
