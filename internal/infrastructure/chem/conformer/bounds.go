package conformer

import (
	"math"

	"github.com/turtacn/MolViz/internal/domain/molecule"
	"github.com/turtacn/MolViz/internal/infrastructure/chem/geometry"
)

const (
	bondSlack  = 0.01
	angleSlack = 0.04
	// scaled van der Waals sums used as lower limits for distant pairs
	heavyVdWScale    = 0.6
	hydrogenVdWScale = 0.5
)

func bondFactor(b *molecule.Bond) float64 {
	switch {
	case b.Aromatic:
		return 0.93
	case b.Order == molecule.BondDouble:
		return 0.87
	case b.Order == molecule.BondTriple, b.Order == molecule.BondQuadruple:
		return 0.78
	}
	return 1.0
}

// BondLength estimates the equilibrium length of bond bi in Å.
func BondLength(m *molecule.Molecule, bi int) float64 {
	b := &m.Bonds[bi]
	return (radius(&m.Atoms[b.Begin]) + radius(&m.Atoms[b.End])) * bondFactor(b)
}

func radius(a *molecule.Atom) float64 {
	if e := a.Element(); e != nil {
		return e.CovalentRadius
	}
	return 0.77
}

func vdw(a *molecule.Atom) float64 {
	if e := a.Element(); e != nil {
		return e.VdWRadius
	}
	return 1.7
}

// BondAngle estimates the i-j-k angle in radians from the hybridisation of
// j and the smallest ring holding all three atoms.
func BondAngle(m *molecule.Molecule, i, j, k int) float64 {
	switch m.SmallestRingContaining(i, j, k) {
	case 3:
		return math.Pi / 3
	case 4:
		return math.Pi / 2
	case 5:
		return 108 * math.Pi / 180
	}
	deg := m.Degree(j)
	doubles, triples, aromatic := 0, 0, false
	for _, bi := range m.BondsOf(j) {
		b := &m.Bonds[bi]
		switch {
		case b.Aromatic:
			aromatic = true
		case b.Order == molecule.BondDouble:
			doubles++
		case b.Order >= molecule.BondTriple:
			triples++
		}
	}
	switch {
	case deg > 4:
		return math.Pi / 2
	case deg == 4:
		return tetrahedral
	case deg == 2 && (triples > 0 || doubles == 2):
		return math.Pi
	case aromatic || doubles > 0:
		return 2 * math.Pi / 3
	}
	return tetrahedral
}

var tetrahedral = math.Acos(-1.0 / 3.0)

// buildBounds derives pairwise limits for a hydrogen-complete molecule:
// fixed bond lengths, bond-angle 1-3 distances, a torsion range for 1-4
// pairs, and scaled van der Waals lower limits for everything else.
func buildBounds(m *molecule.Molecule) *geometry.Bounds {
	n := m.NumAtoms()
	b := geometry.NewBounds(n, math.Max(10, 1.6*float64(n)))
	fixed := make([]bool, n*n)
	mark := func(i, j int) { fixed[i*n+j], fixed[j*n+i] = true, true }

	length := make([]float64, m.NumBonds())
	for bi := range m.Bonds {
		length[bi] = BondLength(m, bi)
		bd := &m.Bonds[bi]
		b.Set(bd.Begin, bd.End, length[bi]-bondSlack, length[bi]+bondSlack)
		mark(bd.Begin, bd.End)
	}
	bl := func(i, j int) float64 { return length[m.BondIndex(i, j)] }

	// 1-3
	for j := 0; j < n; j++ {
		nb := m.Neighbors(j)
		for x := 0; x < len(nb); x++ {
			for y := x + 1; y < len(nb); y++ {
				i, k := nb[x], nb[y]
				if fixed[i*n+k] {
					continue
				}
				d := geometry.LawOfCosines(bl(i, j), bl(j, k), BondAngle(m, i, j, k))
				b.Set(i, k, d-angleSlack, d+angleSlack)
				mark(i, k)
			}
		}
	}

	// 1-4
	for bi := range m.Bonds {
		bd := &m.Bonds[bi]
		j, k := bd.Begin, bd.End
		for _, i := range m.Neighbors(j) {
			if i == k {
				continue
			}
			for _, l := range m.Neighbors(k) {
				if l == j || l == i || fixed[i*n+l] {
					continue
				}
				alpha, beta := BondAngle(m, i, j, k), BondAngle(m, j, k, l)
				a, c := bl(i, j), bl(k, l)
				cis := geometry.TorsionDistance(a, length[bi], c, alpha, beta, 0)
				trans := geometry.TorsionDistance(a, length[bi], c, alpha, beta, math.Pi)
				switch planarTorsion(m, bi, i, l) {
				case torsionCis:
					b.Set(i, l, cis-angleSlack, cis+angleSlack)
				case torsionTrans:
					b.Set(i, l, trans-angleSlack, trans+angleSlack)
				default:
					b.Set(i, l, cis-angleSlack, trans+angleSlack)
				}
				mark(i, l)
			}
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if fixed[i*n+j] {
				continue
			}
			scale := heavyVdWScale
			if m.Atoms[i].IsHydrogen() || m.Atoms[j].IsHydrogen() {
				scale = hydrogenVdWScale
			}
			b.SetLower(i, j, scale*(vdw(&m.Atoms[i])+vdw(&m.Atoms[j])))
		}
	}
	b.Smooth()
	return b
}

type torsion int

const (
	torsionFree torsion = iota
	torsionCis
	torsionTrans
)

// planarTorsion pins the i-j-k-l dihedral across an aromatic bond j-k.
// Two ring members sharing a ring with j and k are cis, a ring member and an
// exocyclic substituent are trans, and two substituents are cis.
func planarTorsion(m *molecule.Molecule, bi, i, l int) torsion {
	bd := &m.Bonds[bi]
	if !bd.Aromatic {
		return torsionFree
	}
	j, k := bd.Begin, bd.End
	inI := m.SmallestRingContaining(i, j, k) != 0
	inL := m.SmallestRingContaining(j, k, l) != 0
	switch {
	case inI && inL:
		if m.SmallestRingContaining(i, j, k, l) != 0 {
			return torsionCis
		}
		return torsionTrans
	case inI != inL:
		return torsionTrans
	}
	return torsionCis
}

//Personal.AI order the ending
