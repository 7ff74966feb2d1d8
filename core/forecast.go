package core

// DefaultForecastSteps is how many windows past the observed series the
// forecast extends.
const DefaultForecastSteps = 2

// Forecast extends a per-window series by the requested number of steps
// using a weighted rolling average. Each step folds its own forecast back
// into the series, so multi-step forecasts decay toward the recent trend.
//
// Weighting rules:
//
//	n >= 3: 0.5*x[n-1] + 0.3*x[n-2] + 0.2*x[n-3]
//	n == 2: 0.6*x[n-1] + 0.4*x[n-2]
//	n == 1: x[n-1]
//	n == 0: 0
func Forecast(series []float64, steps int) []float64 {
	if len(series) == 0 {
		return nil
	}

	arr := make([]float64, len(series))
	copy(arr, series)

	out := make([]float64, 0, steps)
	for range steps {
		var next float64
		switch n := len(arr); {
		case n >= 3:
			next = 0.5*arr[n-1] + 0.3*arr[n-2] + 0.2*arr[n-3]
		case n == 2:
			next = 0.6*arr[n-1] + 0.4*arr[n-2]
		case n == 1:
			next = arr[n-1]
		}
		out = append(out, next)
		arr = append(arr, next)
	}
	return out
}
