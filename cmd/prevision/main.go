// Command prevision runs the sales forecasting pipeline on a local workbook.
//
//	prevision items --file ventes.xlsx
//	prevision forecast --file ventes.xlsx --item A --horizon 3 --out previsions_ventes.xlsx
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// A local .env may set LOG_LEVEL and LOG_FORMAT; the shell environment wins.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "prevision",
		Usage: "Prédiction des ventes par article à partir d'un fichier Excel",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "debug, info, warn or error",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "text",
				Usage:   "text or json",
				EnvVars: []string{"LOG_FORMAT"},
			},
		},
		Commands: []*cli.Command{
			itemsCommand(),
			forecastCommand(),
		},
	}
}

var fileFlag = &cli.StringFlag{
	Name:     "file",
	Aliases:  []string{"f"},
	Usage:    "workbook (.xlsx) with the columns Année, Article, Ventes",
	Required: true,
}
