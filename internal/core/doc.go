// Package core provides the sales forecasting pipeline.
//
// This package holds all domain logic independent of any UI or transport
// layer. It is used by the web handlers and the prevision CLI without
// modification.
//
// # Pipeline
//
// A run goes through five components, in order:
//
//  1. Loader: [LoadWorkbook] reads the first sheet of an .xlsx payload into a [Table].
//  2. Validator: [ValidateColumns] checks that Année, Article and Ventes exist.
//  3. Series Extractor: [Items] lists the articles and [ExtractSeries] builds
//     the year-ordered history of one of them.
//  4. Forecaster: an ARIMA(1,1,1) model from package forecast is fitted on
//     the history and projected over the horizon.
//  5. Exporter: [Combine] appends the forecast rows to the original table and
//     [ExportWorkbook] serialises it to a "Prévisions" sheet.
//
// [Run] chains steps 2 to 5 on a loaded table and is a pure function of its
// inputs. [Service.Process] adds loading, a size limit, a timeout and a
// [RunLimiter] slot around it.
//
//	svc := core.NewService(core.ServiceOptions{MaxConcurrent: 4})
//	out, err := svc.Process(ctx, file, core.Request{Item: "Chaise", Horizon: 3})
//	if err != nil {
//	    msg := core.MapError(err)
//	    ...
//	}
//	if out.Warning != nil {
//	    // history only, no forecast
//	}
//
// # Error Handling
//
// Pipeline failures are [*Error] values classified by [Kind]. A series shorter
// than the policy minimum is not a failure: it is reported in
// [Outcome.Warning] together with the history so it can still be displayed.
//
// Technical errors are mapped to French user messages using [MapError].
// Each category has a code for support reference:
//
//   - FILE001-FILE005: File errors (size, format, empty)
//   - VAL001-VAL006: Validation errors (columns, cell values, selection)
//   - FC001-FC002: Forecast errors (history too short, model fit)
//   - UPL002-UPL005: Run errors (busy, cancelled, timeout)
package core
