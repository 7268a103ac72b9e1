package forecast

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MinPoints is the smallest series the model can be fitted to: two
// differences are needed for the AR term to see a lagged value.
const MinPoints = 3

// Confidence is the coverage of the prediction bounds.
const Confidence = 0.95

// ParamBound caps |φ| and |θ| so that a fitted model is always stationary
// and invertible.
const ParamBound = 0.99

var (
	ErrTooFewPoints     = errors.New("series too short for ARIMA(1,1,1)")
	ErrDegenerateSeries = errors.New("series is constant, the model cannot be estimated")
	ErrNonFinite        = errors.New("non-finite value")
	ErrNonStationary    = errors.New("estimated model is not stationary and invertible")
	ErrNotFitted        = errors.New("model must be fitted before forecasting")
	ErrInvalidSteps     = errors.New("forecast steps must be at least 1")
)

// Order represents ARIMA model order (p, d, q).
type Order struct {
	P int // AR order
	D int // Differencing order
	Q int // MA order
}

// DefaultOrder is the only order this package estimates.
var DefaultOrder = Order{P: 1, D: 1, Q: 1}

// Model is an ARIMA(1,1,1) model without constant.
type Model struct {
	Order  Order
	Phi    float64 // AR coefficient
	Theta  float64 // MA coefficient
	Sigma2 float64 // Residual variance
	LogLik float64 // Conditional Gaussian log-likelihood, zero for an exact fit
	AIC    float64
	NObs   int
	// Iterations is the number of optimiser iterations used by Fit.
	Iterations int

	fitted    bool
	data      []float64
	diff      []float64
	residuals []float64
}

// Forecast holds point forecasts and their prediction bounds, one entry per step.
type Forecast struct {
	Mean  []float64
	Lower []float64
	Upper []float64
}

// New creates an unfitted ARIMA(1,1,1) model.
func New() *Model {
	return &Model{Order: DefaultOrder}
}

// Fit estimates φ, θ and σ² from the observations, in positional order.
func (m *Model) Fit(values []float64) error {
	if len(values) < MinPoints {
		return errors.Wrapf(ErrTooFewPoints, "got %d points, need %d", len(values), MinPoints)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrNonFinite, "observation %d", i)
		}
	}

	diff := difference(values)
	if isZero(diff) {
		return ErrDegenerateSeries
	}

	init := []float64{unconstrain(initialPhi(diff)), unconstrain(0.1)}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			sse, _ := css(diff, constrain(x[0]), constrain(x[1]))
			return sse
		},
	}
	settings := &optimize.Settings{
		MajorIterations: 2000,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-12,
			Iterations: 100,
		},
	}

	result, err := optimize.Minimize(problem, init, settings, &optimize.NelderMead{})
	if err != nil && (result == nil || !usable(result.Status)) {
		return errors.Wrap(err, "optimise conditional sum of squares")
	}

	phi, theta := constrain(result.X[0]), constrain(result.X[1])
	sse, residuals := css(diff, phi, theta)
	if !finite(phi, theta, sse) {
		return errors.Wrap(ErrNonFinite, "estimated parameters")
	}
	if math.Abs(phi) >= 1 || math.Abs(theta) >= 1 {
		return errors.Wrapf(ErrNonStationary, "phi=%g theta=%g", phi, theta)
	}

	m.Phi = phi
	m.Theta = theta
	m.Sigma2 = sse / float64(len(diff))
	m.NObs = len(values)
	m.Iterations = result.Stats.MajorIterations
	m.data = append([]float64(nil), values...)
	m.diff = diff
	m.residuals = residuals
	m.calculateIC()
	m.fitted = true
	return nil
}

// calculateIC computes the log-likelihood and AIC from the residual variance.
func (m *Model) calculateIC() {
	m.LogLik, m.AIC = 0, 0
	if m.Sigma2 <= 0 {
		return
	}
	n := float64(len(m.residuals))
	k := 3.0 // φ, θ and σ²
	m.LogLik = -n / 2 * (math.Log(2*math.Pi*m.Sigma2) + 1)
	m.AIC = -2*m.LogLik + 2*k
}

// Forecast produces steps point forecasts on the original scale.
func (m *Model) Forecast(steps int) (*Forecast, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if steps < 1 {
		return nil, ErrInvalidSteps
	}

	n := len(m.diff)
	wPrev := m.diff[n-1]
	level := m.data[len(m.data)-1]

	fc := &Forecast{
		Mean:  make([]float64, steps),
		Lower: make([]float64, steps),
		Upper: make([]float64, steps),
	}

	// Future shocks have zero expectation, so θ only acts on the first step.
	for h := 0; h < steps; h++ {
		w := m.Phi * wPrev
		if h == 0 {
			w += m.Theta * m.residuals[n-1]
		}
		level += w
		fc.Mean[h] = level
		wPrev = w
	}

	z := distuv.UnitNormal.Quantile(0.5 + Confidence/2)
	psi := m.psiWeights(steps)
	cum := 0.0
	for h := 0; h < steps; h++ {
		cum += psi[h] * psi[h]
		half := z * math.Sqrt(m.Sigma2*cum)
		fc.Lower[h] = fc.Mean[h] - half
		fc.Upper[h] = fc.Mean[h] + half
	}

	for h := range fc.Mean {
		if !finite(fc.Mean[h], fc.Lower[h], fc.Upper[h]) {
			return nil, errors.Wrapf(ErrNonFinite, "forecast step %d", h+1)
		}
	}
	return fc, nil
}

// psiWeights returns the MA(∞) weights of the integrated model
// (1-φB)(1-B)y = (1+θB)e, used for the forecast error variance.
func (m *Model) psiWeights(steps int) []float64 {
	psi := make([]float64, steps)
	psi[0] = 1
	if steps > 1 {
		psi[1] = 1 + m.Phi + m.Theta
	}
	for j := 2; j < steps; j++ {
		psi[j] = (1+m.Phi)*psi[j-1] - m.Phi*psi[j-2]
	}
	return psi
}

// constrain maps an optimiser coordinate into (-ParamBound, ParamBound).
// Saturation of tanh yields at most ParamBound, never 1.
func constrain(x float64) float64 {
	return ParamBound * math.Tanh(x)
}

// unconstrain is the inverse of constrain for |v| < ParamBound.
func unconstrain(v float64) float64 {
	return math.Atanh(v / ParamBound)
}

// css returns the conditional sum of squares of an ARMA(1,1) on w,
// with pre-sample values and shocks set to zero.
func css(w []float64, phi, theta float64) (float64, []float64) {
	residuals := make([]float64, len(w))
	sse := 0.0
	prevW, prevE := 0.0, 0.0
	for t, v := range w {
		e := v - phi*prevW - theta*prevE
		residuals[t] = e
		sse += e * e
		prevW, prevE = v, e
	}
	return sse, residuals
}

// initialPhi is the Yule–Walker AR(1) estimate, the lag-1 autocorrelation,
// kept away from the unit circle so that atanh stays finite.
func initialPhi(w []float64) float64 {
	mean := stat.Mean(w, nil)
	var num, den float64
	for t, v := range w {
		d := v - mean
		den += d * d
		if t > 0 {
			num += d * (w[t-1] - mean)
		}
	}
	if den == 0 {
		return 0
	}
	return math.Max(-0.9, math.Min(0.9, num/den))
}

func difference(values []float64) []float64 {
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = values[i] - values[i-1]
	}
	return out
}

func isZero(values []float64) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// usable reports whether an optimiser stop still leaves a valid estimate.
func usable(s optimize.Status) bool {
	switch s {
	case optimize.Success, optimize.FunctionConvergence, optimize.MethodConverge,
		optimize.IterationLimit, optimize.FunctionEvaluationLimit:
		return true
	}
	return false
}
