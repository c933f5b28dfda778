// Package geometry is the distance-geometry core shared by the 3D conformer
// generator and the 2D depiction layout: a pairwise distance bounds matrix,
// triangle smoothing, metric-matrix embedding and error-function refinement.
package geometry

import "math"

// Bounds holds symmetric lower and upper distance limits for n points.
type Bounds struct {
	n     int
	lower []float64
	upper []float64
}

// NewBounds creates bounds with lower 0 and the given default upper limit.
func NewBounds(n int, defaultUpper float64) *Bounds {
	b := &Bounds{n: n, lower: make([]float64, n*n), upper: make([]float64, n*n)}
	for i := range b.upper {
		b.upper[i] = defaultUpper
	}
	for i := 0; i < n; i++ {
		b.upper[i*n+i] = 0
	}
	return b
}

// Len returns the number of points.
func (b *Bounds) Len() int { return b.n }

// Lower returns the lower limit between i and j.
func (b *Bounds) Lower(i, j int) float64 { return b.lower[i*b.n+j] }

// Upper returns the upper limit between i and j.
func (b *Bounds) Upper(i, j int) float64 { return b.upper[i*b.n+j] }

// Set fixes both limits between i and j.
func (b *Bounds) Set(i, j int, lower, upper float64) {
	if lower > upper {
		lower, upper = upper, lower
	}
	b.lower[i*b.n+j], b.lower[j*b.n+i] = lower, lower
	b.upper[i*b.n+j], b.upper[j*b.n+i] = upper, upper
}

// SetLower raises the lower limit between i and j if it is below lower.
func (b *Bounds) SetLower(i, j int, lower float64) {
	if lower > b.lower[i*b.n+j] {
		b.lower[i*b.n+j], b.lower[j*b.n+i] = lower, lower
	}
}

// Smooth tightens the bounds with the triangle inequality (Floyd-Warshall
// over upper limits, then the reverse inequality for lower limits).
// Pairs whose limits cross afterwards are collapsed onto their midpoint;
// the number of such pairs is returned.
func (b *Bounds) Smooth() int {
	n := b.n
	u, l := b.upper, b.lower
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			uik := u[i*n+k]
			lik := l[i*n+k]
			for j := i + 1; j < n; j++ {
				ukj := u[k*n+j]
				if v := uik + ukj; v < u[i*n+j] {
					u[i*n+j], u[j*n+i] = v, v
				}
				lkj := l[k*n+j]
				if v := lik - ukj; v > l[i*n+j] {
					l[i*n+j], l[j*n+i] = v, v
				}
				if v := lkj - uik; v > l[i*n+j] {
					l[i*n+j], l[j*n+i] = v, v
				}
			}
		}
	}
	crossed := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if l[i*n+j] > u[i*n+j] {
				mid := (l[i*n+j] + u[i*n+j]) / 2
				b.Set(i, j, mid, mid)
				crossed++
			}
		}
	}
	return crossed
}

// Violation returns the bound-violation error of coordinates laid out as
// n consecutive dim-sized points, together with its gradient when grad is
// non-nil. Above the upper limit a pair contributes (d²/u² - 1)², below the
// lower limit (2l²/(l²+d²) - 1)².
func (b *Bounds) Violation(x []float64, dim int, grad []float64) float64 {
	n := b.n
	if grad != nil {
		for i := range grad {
			grad[i] = 0
		}
	}
	total := 0.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d2 := 0.0
			for k := 0; k < dim; k++ {
				diff := x[i*dim+k] - x[j*dim+k]
				d2 += diff * diff
			}
			up := b.upper[i*n+j]
			lo := b.lower[i*n+j]
			var coeff float64
			switch {
			case up > 0 && d2 > up*up:
				u2 := up * up
				t := d2/u2 - 1
				total += t * t
				coeff = 2 * t / u2
			case lo > 0 && d2 < lo*lo:
				l2 := lo * lo
				den := l2 + d2
				t := 2*l2/den - 1
				total += t * t
				coeff = 2 * t * (-2 * l2 / (den * den))
			default:
				continue
			}
			if grad == nil {
				continue
			}
			// d(d²)/dx_i = 2(x_i - x_j)
			for k := 0; k < dim; k++ {
				g := coeff * 2 * (x[i*dim+k] - x[j*dim+k])
				grad[i*dim+k] += g
				grad[j*dim+k] -= g
			}
		}
	}
	return total
}

// MaxDeviation returns the largest distance by which any pair lies outside
// its limits.
func (b *Bounds) MaxDeviation(x []float64, dim int) float64 {
	worst := 0.0
	n := b.n
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d2 := 0.0
			for k := 0; k < dim; k++ {
				diff := x[i*dim+k] - x[j*dim+k]
				d2 += diff * diff
			}
			d := math.Sqrt(d2)
			if v := d - b.upper[i*n+j]; v > worst {
				worst = v
			}
			if v := b.lower[i*n+j] - d; v > worst {
				worst = v
			}
		}
	}
	return worst
}

//Personal.AI order the ending
