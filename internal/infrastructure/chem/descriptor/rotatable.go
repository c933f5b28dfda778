package descriptor

import "github.com/turtacn/MolViz/internal/domain/molecule"

// RotatableBonds counts non-ring single bonds between two non-terminal atoms
// without triple bonds, excluding bonds to CX3 (trihalomethyl) and tert-butyl
// carbons, and the C-X bond of amides, esters, thioamides and amidines.
func RotatableBonds(m *molecule.Molecule) int {
	n := 0
	for bi := range m.Bonds {
		b := &m.Bonds[bi]
		if !isDefault(b) || m.IsRingBond(bi) {
			continue
		}
		if m.Atoms[b.Begin].IsHydrogen() || m.Atoms[b.End].IsHydrogen() {
			continue
		}
		x, y := b.Begin, b.End
		if (strictEnd(m, x) && rotorEnd(m, y)) || (strictEnd(m, y) && rotorEnd(m, x)) {
			n++
		}
	}
	return n
}

// rotorEnd is an atom that can anchor a rotatable bond.
func rotorEnd(m *molecule.Molecule, i int) bool {
	if hasTriple(m, i) || m.Degree(i) == 1 {
		return false
	}
	a := &m.Atoms[i]
	if a.AtomicNumber != 6 || a.Aromatic {
		return true
	}
	ns := heavyNeighbors(m, i)
	for _, z := range []int{9, 17, 35} {
		halo := countWhere(ns, func(nb neighbor) bool { return nb.z() == z && isDefault(nb.bond) })
		if halo >= 3 {
			return false
		}
	}
	methyls := countWhere(ns, func(nb neighbor) bool {
		return nb.z() == 6 && nb.aliphatic() && isDefault(nb.bond) && m.TotalH(nb.idx) == 3
	})
	return methyls < 3
}

// strictEnd additionally rejects both atoms of amide-like C-X bonds.
func strictEnd(m *molecule.Molecule, i int) bool {
	return rotorEnd(m, i) && !amideLike(m, i)
}

func amideLike(m *molecule.Molecule, i int) bool {
	if isCarbonylLike(m, i, false) && anyNonRingSingle(m, i, isHeteroPartner) {
		return true
	}
	if isHeteroPartner(m, i) && anyNonRingSingle(m, i, func(m *molecule.Molecule, j int) bool {
		return isCarbonylLike(m, j, false)
	}) {
		return true
	}
	if isCarbonylLike(m, i, true) && anyNonRingSingle(m, i, nonTerminalNitrogen) {
		return true
	}
	return nonTerminalNitrogen(m, i) && anyNonRingSingle(m, i, func(m *molecule.Molecule, j int) bool {
		return isCarbonylLike(m, j, true)
	})
}

// isCarbonylLike matches an aliphatic carbon with three connections and a
// double bond to aliphatic N, O or S, or to N+ when iminium is set.
func isCarbonylLike(m *molecule.Molecule, i int, iminium bool) bool {
	a := &m.Atoms[i]
	if a.AtomicNumber != 6 || a.Aromatic || m.Degree(i) != 3 {
		return false
	}
	for _, nb := range heavyNeighbors(m, i) {
		if !isDouble(nb.bond) || !nb.aliphatic() {
			continue
		}
		if iminium {
			if nb.z() == 7 && nb.atom.Charge == 1 {
				return true
			}
			continue
		}
		switch nb.z() {
		case 7, 8, 16:
			return true
		}
	}
	return false
}

// isHeteroPartner matches any nitrogen, aliphatic oxygen, or non-terminal
// aliphatic sulfur.
func isHeteroPartner(m *molecule.Molecule, i int) bool {
	a := &m.Atoms[i]
	switch {
	case a.AtomicNumber == 7:
		return true
	case a.AtomicNumber == 8 && !a.Aromatic:
		return true
	case a.AtomicNumber == 16 && !a.Aromatic:
		return m.Degree(i) != 1
	}
	return false
}

func nonTerminalNitrogen(m *molecule.Molecule, i int) bool {
	return m.Atoms[i].AtomicNumber == 7 && m.Degree(i) != 1
}

func anyNonRingSingle(m *molecule.Molecule, i int, pred func(*molecule.Molecule, int) bool) bool {
	for _, bi := range m.BondsOf(i) {
		b := &m.Bonds[bi]
		if !isSingle(b) || m.IsRingBond(bi) {
			continue
		}
		if pred(m, b.Other(i)) {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
