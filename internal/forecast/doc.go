// Package forecast fits the ARIMA(1,1,1) model used for sales forecasts.
//
// The model is fixed: one autoregressive term, one difference and one
// moving-average term, without a constant. Observations are taken by
// position, so gaps between years are ignored.
//
// # Estimation
//
// Parameters are estimated by conditional sum of squares on the first
// differences, with zero pre-sample values. φ and θ are optimised through a
// tanh transform scaled to ParamBound (0.99), so |φ| and |θ| stay strictly
// below 1 and the fitted model is stationary and invertible. The optimiser
// is Nelder–Mead from gonum. The AR start value is the lag-1
// autocorrelation of the differences (Yule–Walker for AR(1)) and the MA start
// value is 0.1.
//
// # Usage
//
//	model := forecast.New()
//	if err := model.Fit([]float64{10, 12, 11, 13}); err != nil {
//	    return err
//	}
//	fc, err := model.Forecast(2)
//	// fc.Mean[0] is the next period, fc.Lower/fc.Upper the 95% bounds
//
// Fitting is deterministic: the same input always yields the same forecasts.
package forecast
