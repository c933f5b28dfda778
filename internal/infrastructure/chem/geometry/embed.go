package geometry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/turtacn/MolViz/pkg/errors"
)

// Default embedding parameters.
const (
	DefaultMaxAttempts   = 30
	DefaultMaxIterations = 400
	DefaultTolerance     = 0.25
)

// Options controls Embed.
type Options struct {
	// Dim is the embedding dimension (2 or 3).
	Dim int
	// MaxAttempts is the number of random restarts.
	MaxAttempts int
	// MaxIterations bounds each refinement run.
	MaxIterations int
	// Tolerance is the largest accepted bound deviation in Å.
	Tolerance float64
	// Rand is the random source. Nil means a time-seeded source.
	Rand *rand.Rand
	// AcceptBest returns the best attempt instead of failing when no attempt
	// meets Tolerance.
	AcceptBest bool
}

func (o *Options) normalize() {
	if o.Dim <= 0 {
		o.Dim = 3
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
}

// Result is an accepted embedding.
type Result struct {
	// Coords holds one Dim-sized slice per point.
	Coords [][]float64
	// Attempts is the number of tries used, including the accepted one.
	Attempts int
	// Deviation is the largest remaining bound deviation.
	Deviation float64
}

// ErrEmbeddingFailed reports that no attempt satisfied the bounds.
var ErrEmbeddingFailed = errors.New(errors.CodeMoleculeConversionFailed, "could not compute atom coordinates")

// Embed places the points of b in opts.Dim dimensions. Each attempt picks
// random distances within the smoothed bounds, embeds their metric matrix
// from its leading eigenvectors and refines the coordinates with L-BFGS on
// the bound-violation error. The first attempt whose largest deviation is
// within Tolerance wins. ctx is checked between attempts.
func Embed(ctx context.Context, b *Bounds, opts Options) (*Result, error) {
	opts.normalize()
	n := b.Len()
	if n == 0 {
		return &Result{}, nil
	}
	if n == 1 {
		return &Result{Coords: [][]float64{make([]float64, opts.Dim)}, Attempts: 1}, nil
	}

	bestDev := math.Inf(1)
	var best []float64
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.CodeTimeout, "embedding cancelled")
		}
		x, ok := initialCoords(b, opts.Dim, opts.Rand)
		if !ok {
			continue
		}
		x = refine(b, x, opts.Dim, opts.MaxIterations)
		dev := b.MaxDeviation(x, opts.Dim)
		if dev < bestDev {
			bestDev, best = dev, x
		}
		if dev <= opts.Tolerance {
			return &Result{Coords: split(x, n, opts.Dim), Attempts: attempt, Deviation: dev}, nil
		}
	}
	if opts.AcceptBest && best != nil {
		return &Result{Coords: split(best, n, opts.Dim), Attempts: opts.MaxAttempts, Deviation: bestDev}, nil
	}
	return nil, ErrEmbeddingFailed.WithDetail(
		fmt.Sprintf("%d attempts, best deviation %.3f Å", opts.MaxAttempts, bestDev))
}

// initialCoords draws a distance matrix within the bounds and converts it to
// coordinates through the metric matrix.
func initialCoords(b *Bounds, dim int, rng *rand.Rand) ([]float64, bool) {
	n := b.Len()
	d2 := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			lo, up := b.Lower(i, j), b.Upper(i, j)
			d := lo + rng.Float64()*(up-lo)
			d2[i*n+j], d2[j*n+i] = d*d, d*d
		}
	}

	// squared distance of each point to the centroid
	sumAll := 0.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sumAll += d2[i*n+j]
		}
	}
	sumAll /= float64(n * n)
	d0 := make([]float64, n)
	for i := 0; i < n; i++ {
		s := 0.0
		for j := 0; j < n; j++ {
			s += d2[i*n+j]
		}
		d0[i] = s/float64(n) - sumAll
	}

	metric := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			metric.SetSym(i, j, (d0[i]+d0[j]-d2[i*n+j])/2)
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(metric, true) {
		return nil, false
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	x := make([]float64, n*dim)
	// eigenvalues come in ascending order
	for k := 0; k < dim && k < n; k++ {
		col := n - 1 - k
		lambda := values[col]
		scale := 0.0
		if lambda > 0 {
			scale = math.Sqrt(lambda)
		}
		for i := 0; i < n; i++ {
			x[i*dim+k] = scale*vectors.At(i, col) + (rng.Float64()-0.5)*0.1
		}
	}
	return x, true
}

func refine(b *Bounds, x []float64, dim, maxIter int) []float64 {
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return b.Violation(x, dim, nil)
		},
		Grad: func(grad, x []float64) {
			b.Violation(x, dim, grad)
		},
	}
	settings := &optimize.Settings{
		MajorIterations:   maxIter,
		GradientThreshold: 1e-8,
	}
	// A line-search stall returns an error together with the best location.
	res, err := optimize.Minimize(problem, x, settings, &optimize.LBFGS{})
	if err != nil && res == nil {
		return x
	}
	return res.X
}

func split(x []float64, n, dim int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = append([]float64(nil), x[i*dim:(i+1)*dim]...)
	}
	return out
}

//Personal.AI order the ending
