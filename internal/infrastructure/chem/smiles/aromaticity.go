package smiles

import "github.com/turtacn/MolViz/internal/domain/molecule"

// maxEnvelopeRings bounds the pairwise fused-ring search.
const maxEnvelopeRings = 40

type cycle struct {
	atoms []int
	bonds map[int]bool
}

// perceiveAromaticity marks every candidate cycle with 4n+2 pi electrons as
// aromatic. Candidates are the smallest rings and the envelopes of pairs of
// fused rings (azulene, indole). Existing aromatic flags are kept.
func perceiveAromaticity(m *molecule.Molecule) {
	for _, c := range candidateCycles(m) {
		if !aromaticCycle(m, c) {
			continue
		}
		for _, a := range c.atoms {
			m.Atoms[a].Aromatic = true
		}
		for bi := range c.bonds {
			m.Bonds[bi].Aromatic = true
		}
	}
}

func candidateCycles(m *molecule.Molecule) []cycle {
	rings := m.RingBonds()
	out := make([]cycle, 0, len(rings))
	for _, rb := range rings {
		out = append(out, newCycle(m, rb))
	}
	if len(rings) > maxEnvelopeRings {
		return out
	}
	for i := 0; i < len(rings); i++ {
		for j := i + 1; j < len(rings); j++ {
			union := map[int]bool{}
			shared := 0
			for _, b := range rings[i] {
				union[b] = true
			}
			for _, b := range rings[j] {
				if union[b] {
					delete(union, b)
					shared++
				} else {
					union[b] = true
				}
			}
			if shared == 0 {
				continue
			}
			bonds := make([]int, 0, len(union))
			for b := range union {
				bonds = append(bonds, b)
			}
			if simpleCycle(m, bonds) {
				out = append(out, newCycle(m, bonds))
			}
		}
	}
	return out
}

func newCycle(m *molecule.Molecule, bonds []int) cycle {
	c := cycle{bonds: make(map[int]bool, len(bonds))}
	seen := map[int]bool{}
	for _, bi := range bonds {
		c.bonds[bi] = true
		b := &m.Bonds[bi]
		for _, a := range []int{b.Begin, b.End} {
			if !seen[a] {
				seen[a] = true
				c.atoms = append(c.atoms, a)
			}
		}
	}
	return c
}

// simpleCycle reports whether the bond set forms one closed path.
func simpleCycle(m *molecule.Molecule, bonds []int) bool {
	if len(bonds) < 3 {
		return false
	}
	deg := map[int]int{}
	adj := map[int][]int{}
	for _, bi := range bonds {
		b := &m.Bonds[bi]
		deg[b.Begin]++
		deg[b.End]++
		adj[b.Begin] = append(adj[b.Begin], b.End)
		adj[b.End] = append(adj[b.End], b.Begin)
	}
	var start int
	for a, d := range deg {
		if d != 2 {
			return false
		}
		start = a
	}
	seen := map[int]bool{start: true}
	stack := []int{start}
	for len(stack) > 0 {
		a := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range adj[a] {
			if !seen[n] {
				seen[n] = true
				stack = append(stack, n)
			}
		}
	}
	return len(seen) == len(deg)
}

func aromaticCycle(m *molecule.Molecule, c cycle) bool {
	total := 0
	for _, a := range c.atoms {
		e := piElectrons(m, a, c.bonds)
		if e < 0 {
			return false
		}
		total += e
	}
	return total%4 == 2
}

// piElectrons returns the electrons atom a donates to the cycle, or -1 when
// the atom cannot take part in an aromatic system.
func piElectrons(m *molecule.Molecule, a int, inCycle map[int]bool) int {
	atom := &m.Atoms[a]
	switch atom.AtomicNumber {
	case 5, 6, 7, 8, 15, 16, 33, 34, 52:
	default:
		return -1
	}
	for _, bi := range m.BondsOf(a) {
		b := &m.Bonds[bi]
		switch b.Order {
		case molecule.BondTriple, molecule.BondQuadruple:
			return -1
		case molecule.BondDouble:
			if inCycle[bi] || m.IsRingBond(bi) {
				return 1
			}
			switch m.Atoms[b.Other(a)].AtomicNumber {
			case 7, 8, 16:
				if atom.AtomicNumber == 6 {
					return 0
				}
			}
			return -1
		}
	}

	connections := m.Degree(a) + atom.HCount
	switch atom.AtomicNumber {
	case 6:
		switch atom.Charge {
		case -1:
			return 2
		case 1:
			return 0
		}
	case 7, 15, 33:
		if (atom.Charge == 0 && connections == 3) || (atom.Charge == -1 && connections == 2) {
			return 2
		}
	case 8, 16, 34, 52:
		if atom.Charge == 0 && connections == 2 {
			return 2
		}
	case 5:
		if atom.Charge == 0 && connections == 3 {
			return 0
		}
	}
	return -1
}

//Personal.AI order the ending
