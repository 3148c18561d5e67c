package pti

/*------------------------------------------------------------------
 *
 * Purpose:	Minimize the variance of x^2+y^2 over a 2-parameter
 *		phase vector using Fletcher-Reeves conjugate gradient
 *		with analytic gradient.
 *
 *------------------------------------------------------------------*/

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// systemPhaseInitAlpha, systemPhaseInitBeta are the initial guess of §4.6.
const (
	systemPhaseInitAlpha = 2 * math.Pi / 3
	systemPhaseInitBeta  = 4 * math.Pi / 3
)

// gradientThreshold is the ||grad F|| < 1e-4 convergence test of §4.6.
const gradientThreshold = 1e-4

// maxOptimizerIterations is the iteration cap of §4.6.
const maxOptimizerIterations = 1000

// circleValues computes phi_n = x_n^2 + y_n^2 for every sample, given the
// scaled three-detector intensities and a trial phase vector (alpha, beta).
func circleValues(intensity1, intensity2, intensity3 []float64, alpha, beta float64) []float64 {
	sinA, cosA := math.Sin(alpha), math.Cos(alpha)
	sinB, cosB := math.Sin(beta), math.Cos(beta)

	out := make([]float64, len(intensity1))
	for n := range out {
		x := intensity1[n] + intensity2[n]*cosA + intensity3[n]*cosB
		y := intensity2[n]*sinA + intensity3[n]*sinB
		out[n] = x*x + y*y
	}
	return out
}

// circleGradients computes d(phi_n)/d(alpha) and d(phi_n)/d(beta) for
// every sample, per §4.6's analytic gradient.
func circleGradients(intensity1, intensity2, intensity3 []float64, alpha, beta float64) (dAlpha, dBeta []float64) {
	sinA, cosA := math.Sin(alpha), math.Cos(alpha)
	sinB, cosB := math.Sin(beta), math.Cos(beta)

	dAlpha = make([]float64, len(intensity1))
	dBeta = make([]float64, len(intensity1))
	for n := range dAlpha {
		i1, i2, i3 := intensity1[n], intensity2[n], intensity3[n]
		x := i1 + i2*cosA + i3*cosB
		y := i2*sinA + i3*sinB
		dAlpha[n] = 2*i2*y*cosA - 2*i2*x*sinA
		dBeta[n] = 2*i3*y*cosB - 2*i3*x*sinB
	}
	return dAlpha, dBeta
}

// populationVariance returns Var_n(data), the population (not Bessel
// corrected) variance used by §4.6's objective F.
func populationVariance(data []float64) float64 {
	mean := floats.Sum(data) / float64(len(data))
	var total float64
	for _, v := range data {
		d := v - mean
		total += d * d
	}
	return total / float64(len(data))
}

// covarianceWithDeviation returns (2/N) * sum((data[i]-mean(data)) *
// (other[i]-mean(other))), the building block of §4.6's dF/dalpha, dF/dbeta.
func covarianceWithDeviation(data, other []float64) float64 {
	meanData := floats.Sum(data) / float64(len(data))
	meanOther := floats.Sum(other) / float64(len(other))
	var total float64
	for i := range data {
		total += (data[i] - meanData) * (other[i] - meanOther)
	}
	return 2 * total / float64(len(data))
}

// SystemPhaseOptimizer minimizes §4.6's objective F(alpha, beta) =
// Var_n(x_n^2 + y_n^2) via Fletcher-Reeves conjugate gradient descent,
// starting from the fixed initial guess (2*pi/3, 4*pi/3). It returns the
// best vector found even when the iteration cap is hit before the
// gradient tolerance is satisfied (OptimizerNonConvergence, logged by the
// caller as a warning rather than surfaced as an error per §7's policy).
func SystemPhaseOptimizer(intensity1, intensity2, intensity3 []float64) (alpha, beta float64, converged bool) {
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			values := circleValues(intensity1, intensity2, intensity3, x[0], x[1])
			return populationVariance(values)
		},
		Grad: func(grad, x []float64) {
			values := circleValues(intensity1, intensity2, intensity3, x[0], x[1])
			dAlpha, dBeta := circleGradients(intensity1, intensity2, intensity3, x[0], x[1])
			grad[0] = covarianceWithDeviation(values, dAlpha)
			grad[1] = covarianceWithDeviation(values, dBeta)
		},
	}

	settings := &optimize.Settings{
		GradientThreshold: gradientThreshold,
		MajorIterations:   maxOptimizerIterations,
	}

	method := &optimize.CG{
		Variant: &optimize.FletcherReeves{},
	}

	result, err := optimize.Minimize(problem, []float64{systemPhaseInitAlpha, systemPhaseInitBeta}, settings, method)
	return bestPhaseVector(result, err)
}

// bestPhaseVector implements §4.6's "on iteration failure (line-search
// stalled) terminate with the best-so-far vector" and §7's
// OptimizerNonConvergence policy. A stalled line search or a hit iteration
// cap still leaves result.X at the best iterate gonum reached, so it is
// read whenever result is non-nil; the initial guess is only a fallback
// for the case no iterate was ever produced.
func bestPhaseVector(result *optimize.Result, err error) (alpha, beta float64, converged bool) {
	if result == nil {
		return systemPhaseInitAlpha, systemPhaseInitBeta, false
	}
	converged = err == nil && result.Status == optimize.GradientThreshold
	return result.X[0], result.X[1], converged
}
