// SPDX-License-Identifier: MIT

package kernel

import (
	"fmt"
	"math"
	"strings"
)

// Metric selects the distance and the exponential transform applied to it.
type Metric int

const (
	// MetricLaplacian is exp(-L1(x,y) / sigma).
	MetricLaplacian Metric = iota
	// MetricGaussian is exp(-L2(x,y)^2 / (2 sigma^2)).
	MetricGaussian
)

const (
	nameLaplacian = "laplacian"
	nameGaussian  = "gaussian"
)

// String returns the lower-case metric name.
func (m Metric) String() string {
	switch m {
	case MetricLaplacian:
		return nameLaplacian
	case MetricGaussian:
		return nameGaussian
	default:
		return fmt.Sprintf("metric(%d)", int(m))
	}
}

// ParseMetric maps "laplacian"/"gaussian" (case-insensitive) to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case nameLaplacian:
		return MetricLaplacian, nil
	case nameGaussian:
		return MetricGaussian, nil
	default:
		return 0, fmt.Errorf("%w: unknown metric %q", ErrInvalidInput, s)
	}
}

// valid reports whether m is one of the declared metrics.
func (m Metric) valid() bool { return m == MetricLaplacian || m == MetricGaussian }

// Distance returns the metric's distance: L1 for Laplacian, squared L2 for Gaussian.
func (m Metric) Distance(x, y []float64) float64 {
	if m == MetricGaussian {
		return SquaredL2Distance(x, y)
	}

	return L1Distance(x, y)
}

// Coefficient returns c such that the kernel value is exp(-c * Distance):
// 1/sigma for Laplacian and 1/(2 sigma^2) for Gaussian.
// sigma is assumed valid (see ValidateSigma).
func (m Metric) Coefficient(sigma float64) float64 {
	if m == MetricGaussian {
		return 0.5 / (sigma * sigma)
	}

	return 1 / sigma
}

// Transform maps a Distance value to the kernel value for sigma.
func (m Metric) Transform(dist, sigma float64) float64 {
	return math.Exp(-m.Coefficient(sigma) * dist)
}

// ValidateSigma accepts finite sigma > 0 and wraps ErrInvalidSigma otherwise.
func ValidateSigma(sigma float64) error {
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) || sigma <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidSigma, sigma)
	}

	return nil
}

// ValidateSigmas applies ValidateSigma to each element and names the first bad index.
func ValidateSigmas(sigmas []float64) error {
	for i, s := range sigmas {
		if err := ValidateSigma(s); err != nil {
			return fmt.Errorf("sigmas[%d]: %w", i, err)
		}
	}

	return nil
}
