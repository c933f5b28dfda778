package conformer

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolViz/internal/domain/molecule"
	"github.com/turtacn/MolViz/internal/infrastructure/chem/smiles"
	"github.com/turtacn/MolViz/pkg/errors"
)

func parse(t *testing.T, s string) *molecule.Molecule {
	t.Helper()
	m, err := smiles.NewParser().Parse(s)
	require.NoError(t, err)
	return m
}

func TestGenerator_Phenol(t *testing.T) {
	conf, err := NewGenerator(WithSeed(42)).Embed(context.Background(), parse(t, "c1ccccc1O"))
	require.NoError(t, err)

	require.Equal(t, 13, conf.Molecule.NumAtoms())
	require.Len(t, conf.Coords, 13)

	hydrogens := 0
	for _, a := range conf.Molecule.Atoms {
		if a.IsHydrogen() {
			hydrogens++
		}
	}
	assert.Equal(t, 6, hydrogens)

	for bi, b := range conf.Molecule.Bonds {
		d := conf.Coords[b.Begin].Distance(conf.Coords[b.End])
		assert.InDelta(t, BondLength(conf.Molecule, bi), d, 0.3, "bond %d", bi)
	}

	var c molecule.Vec3
	for _, p := range conf.Coords {
		c.X += p.X
		c.Y += p.Y
		c.Z += p.Z
	}
	assert.InDelta(t, 0, c.Norm(), 1e-6)
}

func TestGenerator_XYZRoundTrip(t *testing.T) {
	conf, err := NewGenerator(WithSeed(7)).Embed(context.Background(), parse(t, "CCO"))
	require.NoError(t, err)

	text := molecule.EncodeXYZ(conf, molecule.DefaultXYZComment)
	rec, err := molecule.ParseXYZ(text)
	require.NoError(t, err)
	require.Len(t, rec.Symbols, 9)
	assert.Equal(t, []string{"C", "C", "O"}, rec.Symbols[:3])
	for i := range rec.Coords {
		assert.InDelta(t, conf.Coords[i].X, rec.Coords[i].X, 1e-4)
		assert.InDelta(t, conf.Coords[i].Z, rec.Coords[i].Z, 1e-4)
	}
}

func TestGenerator_Seeded(t *testing.T) {
	g := NewGenerator(WithSeed(3))
	a, err := g.Embed(context.Background(), parse(t, "CC(=O)O"))
	require.NoError(t, err)
	b, err := g.Embed(context.Background(), parse(t, "CC(=O)O"))
	require.NoError(t, err)
	assert.Equal(t, a.Coords, b.Coords)
}

func TestGenerator_Disconnected(t *testing.T) {
	conf, err := NewGenerator(WithSeed(11)).Embed(context.Background(), parse(t, "[Na+].[Cl-]"))
	require.NoError(t, err)
	require.Len(t, conf.Coords, 2)
	assert.Greater(t, conf.Coords[0].Distance(conf.Coords[1]), 1.5)
}

func TestGenerator_Errors(t *testing.T) {
	_, err := NewGenerator().Embed(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeMoleculeConversionFailed))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewGenerator().Embed(ctx, parse(t, "CCCC"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeTimeout))
}

func TestBondAngle(t *testing.T) {
	m := parse(t, "C1CC1C=CC#N").WithExplicitHydrogens()
	assert.InDelta(t, math.Pi/3, BondAngle(m, 0, 1, 2), 1e-9)
	assert.InDelta(t, 2*math.Pi/3, BondAngle(m, 2, 3, 4), 1e-9)
	assert.InDelta(t, math.Pi, BondAngle(m, 4, 5, 6), 1e-9)
	assert.InDelta(t, tetrahedral, BondAngle(m, 0, 2, 3), 1e-9)
}

// Each cubane corner has three 90 degree ring angles, which leaves its hydrogen
// about 125 degrees from every ring bond, not tetrahedral. The 1-3 bounds cannot
// all hold, so the cage fails with MOL_011 instead of embedding distorted.
func TestGenerator_CubaneNotEmbeddable(t *testing.T) {
	g := NewGenerator(WithSeed(1), WithMaxAttempts(5))
	conf, err := g.Embed(context.Background(), parse(t, "C12C3C4C1C5C2C3C45"))
	require.Error(t, err)
	assert.Nil(t, conf)
	assert.True(t, errors.IsCode(err, errors.CodeMoleculeConversionFailed))
}

//Personal.AI order the ending
