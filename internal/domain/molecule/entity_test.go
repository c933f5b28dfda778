package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// phenol builds Oc1ccccc1 by hand: O is atom 0, ring carbons 1..6.
func phenol(t *testing.T) *Molecule {
	t.Helper()
	atoms := []Atom{{Symbol: "O", AtomicNumber: 8, HCount: 1}}
	for i := 0; i < 6; i++ {
		h := 1
		if i == 0 {
			h = 0
		}
		atoms = append(atoms, Atom{Symbol: "C", AtomicNumber: 6, Aromatic: true, HCount: h})
	}
	bonds := []Bond{{Begin: 0, End: 1, Order: BondSingle}}
	for i := 0; i < 6; i++ {
		order := BondSingle
		if i%2 == 0 {
			order = BondDouble
		}
		bonds = append(bonds, Bond{Begin: 1 + i, End: 1 + (i+1)%6, Order: order, Aromatic: true})
	}
	mol, err := NewMolecule("Oc1ccccc1", atoms, bonds)
	require.NoError(t, err)
	return mol
}

func TestNewMolecule_InvalidBond(t *testing.T) {
	_, err := NewMolecule("", []Atom{{Symbol: "C", AtomicNumber: 6}}, []Bond{{Begin: 0, End: 3}})
	assert.Error(t, err)

	_, err = NewMolecule("", []Atom{{Symbol: "C", AtomicNumber: 6}}, []Bond{{Begin: 0, End: 0}})
	assert.Error(t, err)
}

func TestMolecule_GraphQueries(t *testing.T) {
	mol := phenol(t)

	assert.Equal(t, 7, mol.NumAtoms())
	assert.Equal(t, 7, mol.NumBonds())
	assert.Equal(t, 7, mol.HeavyAtomCount())
	assert.Equal(t, 1, mol.ComponentCount())
	assert.Equal(t, 1, mol.RingCount())
	assert.ElementsMatch(t, []int{0, 2, 6}, mol.Neighbors(1))
	assert.Equal(t, 3, mol.HeavyDegree(1))
	assert.Equal(t, 1, mol.TotalH(0))
	assert.Equal(t, 4, mol.Valence(1))

	b, ok := mol.BondBetween(0, 1)
	require.True(t, ok)
	assert.True(t, b.IsPlainSingle())
	assert.Equal(t, -1, mol.BondIndex(0, 4))
}

func TestMolecule_RingPerception(t *testing.T) {
	mol := phenol(t)

	assert.False(t, mol.IsRingBond(0), "C-O is a bridge")
	assert.False(t, mol.IsRingAtom(0))
	for i := 1; i <= 6; i++ {
		assert.True(t, mol.IsRingAtom(i))
		assert.True(t, mol.InRingOfSize(i, 6))
	}
	require.Len(t, mol.Rings(), 1)
	assert.Len(t, mol.Rings()[0], 6)
	assert.Len(t, mol.RingBonds()[0], 6)
	assert.Equal(t, 6, mol.SmallestRingContaining(1, 4))
	assert.Equal(t, 0, mol.SmallestRingContaining(0, 1))
}

func TestMolecule_FusedRings(t *testing.T) {
	// Decalin skeleton: two six-membered rings sharing the 0-5 bond.
	atoms := make([]Atom, 10)
	for i := range atoms {
		atoms[i] = Atom{Symbol: "C", AtomicNumber: 6}
	}
	pairs := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0}, {5, 6}, {6, 7}, {7, 8}, {8, 9}, {9, 0}}
	var bonds []Bond
	for _, p := range pairs {
		bonds = append(bonds, Bond{Begin: p[0], End: p[1], Order: BondSingle})
	}
	mol, err := NewMolecule("C1CCC2CCCCC2C1", atoms, bonds)
	require.NoError(t, err)

	assert.Equal(t, 2, mol.RingCount())
	require.Len(t, mol.Rings(), 2)
	for _, r := range mol.Rings() {
		assert.Len(t, r, 6)
	}
	assert.Equal(t, 6, mol.SmallestRingContaining(0, 5))
}

func TestMolecule_Components(t *testing.T) {
	atoms := []Atom{
		{Symbol: "Na", AtomicNumber: 11, Charge: 1, Bracket: true},
		{Symbol: "Cl", AtomicNumber: 17, Charge: -1, Bracket: true},
	}
	mol, err := NewMolecule("[Na+].[Cl-]", atoms, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, mol.ComponentCount())
	assert.Equal(t, 0, mol.RingCount())
	assert.Equal(t, "ClNa", mol.Formula())
}

func TestMolecule_WithExplicitHydrogens(t *testing.T) {
	mol := phenol(t)
	full := mol.WithExplicitHydrogens()

	require.Equal(t, 13, full.NumAtoms())
	assert.Equal(t, 13, full.NumBonds())
	assert.Equal(t, 7, full.HeavyAtomCount())

	// Hydrogens follow the heavy atoms, grouped by parent in atom order.
	assert.Equal(t, "H", full.Atoms[7].Symbol)
	assert.ElementsMatch(t, []int{0}, full.Neighbors(7))
	assert.ElementsMatch(t, []int{2}, full.Neighbors(8))
	for i := range full.Atoms {
		assert.Zero(t, full.Atoms[i].HCount)
	}
	assert.Equal(t, 1, full.TotalH(0))

	// The source is not modified.
	assert.Equal(t, 1, mol.Atoms[0].HCount)
	assert.Equal(t, 7, mol.NumAtoms())
}

func TestMolecule_Formula(t *testing.T) {
	assert.Equal(t, "C6H6O", phenol(t).Formula())
	assert.Equal(t, "C6H6O", phenol(t).WithExplicitHydrogens().Formula())

	ammonium, err := NewMolecule("[NH4+]", []Atom{{Symbol: "N", AtomicNumber: 7, HCount: 4, Charge: 1, Bracket: true}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "H4N+", ammonium.Formula())
}

func TestLookupElement(t *testing.T) {
	e, ok := LookupElement("C")
	require.True(t, ok)
	assert.Equal(t, 6, e.AtomicNumber)

	e, ok = LookupElement("se")
	require.True(t, ok)
	assert.Equal(t, "Se", e.Symbol)

	_, ok = LookupElement("Xx")
	assert.False(t, ok)
	_, ok = LookupElement("cl")
	assert.True(t, ok, "lowercase aromatic spelling resolves")

	fe, _ := LookupElement("Fe")
	assert.Equal(t, -1, fe.MaxValence())
	s, _ := LookupElement("S")
	assert.Equal(t, 6, s.MaxValence())
}

func TestChargedValences(t *testing.T) {
	n, _ := LookupElement("N")
	o, _ := LookupElement("O")
	na, _ := LookupElement("Na")

	assert.Equal(t, []int{4}, AllowedValences(n, 1))
	assert.Equal(t, []int{1}, AllowedValences(o, -1))
	assert.Equal(t, []int{3}, AllowedValences(o, 1))
	assert.Nil(t, AllowedValences(na, 1))
	assert.Equal(t, []int{3}, AllowedValences(n, 0))
}

//Personal.AI order the ending
