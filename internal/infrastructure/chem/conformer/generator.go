// Package conformer computes 3D coordinates for a molecule with its
// hydrogens made explicit, using the distance-geometry core in
// chem/geometry.
package conformer

import (
	"context"
	"math/rand"

	"github.com/turtacn/MolViz/internal/domain/molecule"
	"github.com/turtacn/MolViz/internal/infrastructure/chem/geometry"
	"github.com/turtacn/MolViz/pkg/errors"
)

// Option configures a Generator.
type Option func(*Generator)

// WithMaxAttempts sets the number of random restarts.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) { g.opts.MaxAttempts = n }
}

// WithMaxIterations bounds each refinement run.
func WithMaxIterations(n int) Option {
	return func(g *Generator) { g.opts.MaxIterations = n }
}

// WithTolerance sets the largest accepted bound deviation in Å.
func WithTolerance(tol float64) Option {
	return func(g *Generator) { g.opts.Tolerance = tol }
}

// WithSeed makes embeddings reproducible.
func WithSeed(seed int64) Option {
	return func(g *Generator) { g.seed = &seed }
}

// Generator implements molecule.ConformerGenerator.
type Generator struct {
	opts geometry.Options
	seed *int64
}

var _ molecule.ConformerGenerator = (*Generator)(nil)

// NewGenerator creates a Generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{opts: geometry.Options{Dim: 3}}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Embed adds explicit hydrogens to mol and computes one conformation. The
// result is centred on the origin.
func (g *Generator) Embed(ctx context.Context, mol *molecule.Molecule) (*molecule.Conformer, error) {
	if mol == nil || mol.NumAtoms() == 0 {
		return nil, errors.New(errors.CodeMoleculeConversionFailed, "Failed to generate 3D coordinates.").
			WithDetail("empty molecule")
	}
	full := mol.WithExplicitHydrogens()

	opts := g.opts
	if g.seed != nil {
		// a fresh source per call keeps concurrent embeddings independent
		opts.Rand = rand.New(rand.NewSource(*g.seed))
	}
	res, err := geometry.Embed(ctx, buildBounds(full), opts)
	if err != nil {
		if errors.IsCode(err, errors.CodeTimeout) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CodeMoleculeConversionFailed, "Failed to generate 3D coordinates.")
	}

	coords := make([]molecule.Vec3, len(res.Coords))
	var c molecule.Vec3
	for i, p := range res.Coords {
		coords[i] = molecule.Vec3{X: p[0], Y: p[1], Z: p[2]}
		c.X += p[0]
		c.Y += p[1]
		c.Z += p[2]
	}
	if n := float64(len(coords)); n > 0 {
		c = molecule.Vec3{X: c.X / n, Y: c.Y / n, Z: c.Z / n}
		for i := range coords {
			coords[i] = coords[i].Sub(c)
		}
	}
	return &molecule.Conformer{Molecule: full, Coords: coords}, nil
}

//Personal.AI order the ending
