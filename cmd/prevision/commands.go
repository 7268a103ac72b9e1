package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/chart"
	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/config"
	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/core"
	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/logging"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func itemsCommand() *cli.Command {
	return &cli.Command{
		Name:  "items",
		Usage: "list the items found in the workbook",
		Flags: []cli.Flag{fileFlag},
		Action: func(c *cli.Context) error {
			svc := newService()
			f, err := os.Open(c.String("file"))
			if err != nil {
				return cli.Exit(errors.Wrap(err, "open workbook"), 1)
			}
			defer f.Close()

			items, err := svc.ListItems(withLogger(c), f)
			if err != nil {
				return exitError(err)
			}
			for _, item := range items {
				fmt.Fprintln(c.App.Writer, item)
			}
			return nil
		},
	}
}

func forecastCommand() *cli.Command {
	return &cli.Command{
		Name:  "forecast",
		Usage: "fit ARIMA(1,1,1) to one item and export the forecast workbook",
		Flags: []cli.Flag{
			fileFlag,
			&cli.StringFlag{
				Name:    "item",
				Aliases: []string{"i"},
				Usage:   "item to forecast (default: first item of the workbook)",
			},
			&cli.IntFlag{
				Name:  "horizon",
				Value: core.DefaultPolicy.DefaultHorizon,
				Usage: fmt.Sprintf("years to forecast, 1 to %d", core.DefaultPolicy.MaxHorizon),
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Value:   core.ExportFileName,
				Usage:   "path of the exported workbook",
			},
			&cli.StringFlag{
				Name:  "history-chart",
				Usage: "write the history chart (PNG) to this path",
			},
			&cli.StringFlag{
				Name:  "forecast-chart",
				Usage: "write the history and forecast chart (PNG) to this path",
			},
		},
		Action: runForecast,
	}
}

func runForecast(c *cli.Context) error {
	svc := newService()
	f, err := os.Open(c.String("file"))
	if err != nil {
		return cli.Exit(errors.Wrap(err, "open workbook"), 1)
	}
	defer f.Close()

	out, err := svc.Process(withLogger(c), f, core.Request{
		Item:    c.String("item"),
		Horizon: c.Int("horizon"),
	})
	if err != nil {
		return exitError(err)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "%s : %s\n\n", core.ColumnItem, out.Item)
	printHistory(w, out.Series)

	if path := c.String("history-chart"); path != "" && out.Series.Len() > 0 {
		png, err := chart.History(out.Series)
		if err != nil {
			return cli.Exit(errors.Wrap(err, "history chart"), 1)
		}
		if err := writeFile(path, png); err != nil {
			return err
		}
	}

	if !out.Forecasted() {
		fmt.Fprintln(c.App.ErrWriter, out.Warning.Message)
		return nil
	}

	fmt.Fprintln(w)
	printForecast(w, out.Forecast)

	if path := c.String("forecast-chart"); path != "" {
		png, err := chart.Forecast(out.Item, out.CombinedPoints(), out.Series.Len())
		if err != nil {
			return cli.Exit(errors.Wrap(err, "forecast chart"), 1)
		}
		if err := writeFile(path, png); err != nil {
			return err
		}
	}

	if err := writeFile(c.String("out"), out.Workbook); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%s : %s\n", "Fichier exporté", c.String("out"))
	return nil
}

// newService builds a single-run service with the default forecasting policy.
func newService() *core.Service {
	cfg := config.Default()
	return core.NewService(core.ServiceOptions{
		Policy: core.Policy{
			DefaultHorizon:  cfg.Forecast.DefaultHorizon,
			MaxHorizon:      cfg.Forecast.MaxHorizon,
			MinObservations: cfg.Forecast.MinObservations,
		},
		MaxFileSize:   cfg.Upload.MaxFileSize,
		MaxConcurrent: 1,
		Timeout:       cfg.Upload.Timeout,
	})
}

// withLogger installs the stderr logger selected by the global flags and
// returns the context of the command.
func withLogger(c *cli.Context) context.Context {
	slog.SetDefault(logging.New(c.App.ErrWriter, c.String("log-level"), c.String("log-format")))
	return c.Context
}

// exitError turns a pipeline error into the user-facing French message with
// its support code. Errors without a mapped message keep their text.
func exitError(err error) error {
	if core.IsUserFacing(err) {
		return cli.Exit(core.FormatUserError(err), 2)
	}
	return cli.Exit(err, 1)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return cli.Exit(errors.Wrapf(err, "write %s", path), 1)
	}
	return nil
}

func printHistory(w io.Writer, series core.SalesSeries) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\t%s\t\n", core.ColumnYear, core.ColumnQuantity)
	for _, p := range series.Points {
		fmt.Fprintf(tw, "%d\t%s\t\n", p.Year, core.FormatQuantity(p.Quantity))
	}
	tw.Flush()
}

func printForecast(w io.Writer, rows []core.ForecastRow) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", core.ColumnYear, "Prévision", "Borne basse", "Borne haute")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%.2f\t\n", r.Year, r.Quantity, r.Lower, r.Upper)
	}
	tw.Flush()
}
