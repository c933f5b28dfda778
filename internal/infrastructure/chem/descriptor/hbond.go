package descriptor

import "github.com/turtacn/MolViz/internal/domain/molecule"

// HBondDonors counts NH with valence 3, charged NH with valence 4, neutral
// OH and SH, and neutral aromatic NH.
func HBondDonors(m *molecule.Molecule) int {
	n := 0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		h := m.TotalH(i)
		if h == 0 {
			continue
		}
		v := m.Valence(i)
		switch {
		case a.AtomicNumber == 7 && !a.Aromatic:
			if v == 3 || (a.Charge == 1 && v == 4) {
				n++
			}
		case a.AtomicNumber == 7 && a.Aromatic:
			if h == 1 && a.Charge == 0 {
				n++
			}
		case (a.AtomicNumber == 8 || a.AtomicNumber == 16) && !a.Aromatic:
			if h == 1 && a.Charge == 0 {
				n++
			}
		}
	}
	return n
}

// HBondAcceptors counts hydroxyl and thiol groups not attached to an
// unsaturated heteroatom carrier, ethers and carbonyl oxygens, anionic O and
// S, trivalent nitrogens that are not amide-like, neutral aromatic n/o/s
// without hydrogen, and fluorine.
func HBondAcceptors(m *molecule.Molecule) int {
	n := 0
	for i := range m.Atoms {
		if isAcceptor(m, i) {
			n++
		}
	}
	return n
}

func isAcceptor(m *molecule.Molecule, i int) bool {
	a := &m.Atoms[i]
	h := m.TotalH(i)
	v := m.Valence(i)
	switch a.AtomicNumber {
	case 8, 16:
		if a.Aromatic {
			return a.Charge == 0
		}
		if h == 1 && v == 2 {
			for _, nb := range heavyNeighbors(m, i) {
				if isSingle(nb.bond) && !doubleToHetero(m, nb.idx, false) {
					return true
				}
			}
		}
		if h == 0 && v == 2 {
			return true
		}
		return a.Charge < 0
	case 7:
		if a.Aromatic {
			return h == 0 && a.Charge == 0
		}
		if v != 3 {
			return false
		}
		for _, nb := range heavyNeighbors(m, i) {
			if isSingle(nb.bond) && doubleToHetero(m, nb.idx, true) {
				return false
			}
		}
		return true
	case 9:
		return true
	}
	return false
}

// doubleToHetero reports whether atom j carries a plain double bond to an
// aliphatic O, N, P or S, optionally restricted to non-ring bonds.
func doubleToHetero(m *molecule.Molecule, j int, nonRingOnly bool) bool {
	for _, bi := range m.BondsOf(j) {
		b := &m.Bonds[bi]
		if !isDouble(b) || (nonRingOnly && m.IsRingBond(bi)) {
			continue
		}
		o := &m.Atoms[b.Other(j)]
		if o.Aromatic {
			continue
		}
		switch o.AtomicNumber {
		case 7, 8, 15, 16:
			return true
		}
	}
	return false
}

//Personal.AI order the ending
