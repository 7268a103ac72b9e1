package core

import (
	"errors"
	"fmt"

	"github.com/IbrahimaBalde09/Prediction-des-ventes/internal/forecast"
	"github.com/samber/lo"
)

// Policy holds the forecasting limits applied by Run.
type Policy struct {
	DefaultHorizon  int
	MaxHorizon      int
	MinObservations int
}

// DefaultPolicy is the policy of the interactive page: horizon 1-5,
// default 3, at least 4 years of history.
var DefaultPolicy = Policy{DefaultHorizon: 3, MaxHorizon: 5, MinObservations: 4}

var errHorizon = errors.New("horizon out of range")

// Run executes the pipeline on a loaded table with the default policy.
func Run(t *Table, req Request) (*Outcome, error) {
	return DefaultPolicy.Run(t, req)
}

// Run executes Validator → Series Extractor → Forecaster → Exporter.
//
// It is a pure function of its inputs. Halting failures are returned as
// *Error. A series shorter than MinObservations is not an error: the
// Outcome carries the history and a KindInsufficientData Warning.
func (p Policy) Run(t *Table, req Request) (*Outcome, error) {
	idx, err := ValidateColumns(t)
	if err != nil {
		return nil, err
	}

	horizon := req.Horizon
	if horizon == 0 {
		horizon = p.DefaultHorizon
	}
	if horizon < 1 || horizon > p.MaxHorizon {
		return nil, invalidInput(
			fmt.Sprintf("Le nombre d'années à prédire doit être compris entre 1 et %d.", p.MaxHorizon),
			fmt.Errorf("%w: %d not in [1, %d]", errHorizon, horizon, p.MaxHorizon),
		)
	}

	items := Items(t, idx)
	item := req.Item
	if item == "" {
		// A table without data rows has nothing to select: it is reported
		// as an empty history rather than a failure.
		if len(items) == 0 {
			return &Outcome{
				Horizon: horizon,
				Warning: insufficientData("", 0, p.MinObservations),
			}, nil
		}
		item = items[0]
	} else if !lo.Contains(items, item) {
		return nil, invalidInput(
			fmt.Sprintf("L'article %q n'existe pas dans le fichier.", item),
			fmt.Errorf("unknown item %q", item),
		)
	}

	series, err := ExtractSeries(t, idx, item)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Item: item, Items: items, Horizon: horizon, Series: series}
	if series.Len() < p.MinObservations {
		out.Warning = insufficientData(item, series.Len(), p.MinObservations)
		return out, nil
	}

	model := forecast.New()
	if err := model.Fit(series.Values()); err != nil {
		return nil, modelFitError(err)
	}
	fc, err := model.Forecast(horizon)
	if err != nil {
		return nil, modelFitError(err)
	}

	last := series.LastYear()
	out.Forecast = make([]ForecastRow, horizon)
	for h := 0; h < horizon; h++ {
		out.Forecast[h] = ForecastRow{
			Year:     last + h + 1,
			Item:     item,
			Quantity: fc.Mean[h],
			Lower:    fc.Lower[h],
			Upper:    fc.Upper[h],
		}
	}
	out.Model = summarize(model)

	out.Combined = Combine(t, idx, out.Forecast)
	out.Workbook, err = ExportWorkbook(out.Combined)
	if err != nil {
		return nil, parseError(fmt.Errorf("export workbook: %w", err))
	}
	return out, nil
}
