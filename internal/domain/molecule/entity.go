// Package molecule is the MolViz domain model: the molecular graph produced by
// a StructureParser, the capability interfaces implemented by the chemistry
// backend, the nine-row descriptor record, the Lipinski evaluator, XYZ
// coordinate text and the 3D display styles.
//
// A Molecule lives for a single computation. It is never persisted; the session
// keeps only the SMILES string and the coordinate text derived from it.
package molecule

import (
	"fmt"
	"sort"
	"strings"
)

// BondOrder is the Kekulé order of a bond. Aromatic bonds keep their Kekulé
// order and carry Bond.Aromatic in addition.
type BondOrder int

const (
	BondSingle    BondOrder = 1
	BondDouble    BondOrder = 2
	BondTriple    BondOrder = 3
	BondQuadruple BondOrder = 4
)

// Atom is a vertex of the molecular graph.
type Atom struct {
	Symbol       string
	AtomicNumber int
	Aromatic     bool
	Charge       int
	Isotope      int
	// HCount is the number of hydrogens attached to this atom that are not
	// graph vertices (implicit plus bracket-declared).
	HCount    int
	Bracket   bool
	Chirality string
	AtomClass int
}

// IsHydrogen reports whether the atom is a hydrogen vertex.
func (a *Atom) IsHydrogen() bool { return a.AtomicNumber == 1 }

// Element returns the periodic data for the atom.
func (a *Atom) Element() *Element {
	e, _ := ElementByNumber(a.AtomicNumber)
	return e
}

// Bond is an edge of the molecular graph.
type Bond struct {
	Begin    int
	End      int
	Order    BondOrder
	Aromatic bool
	// Stereo is '/' or '\\' for directional single bonds, 0 otherwise.
	Stereo byte
}

// Other returns the atom at the opposite end of the bond from atom i.
func (b *Bond) Other(i int) int {
	if b.Begin == i {
		return b.End
	}
	return b.Begin
}

// IsPlainDouble reports a non-aromatic double bond.
func (b *Bond) IsPlainDouble() bool { return b.Order == BondDouble && !b.Aromatic }

// IsPlainSingle reports a non-aromatic single bond.
func (b *Bond) IsPlainSingle() bool { return b.Order == BondSingle && !b.Aromatic }

// Molecule is a parsed molecular graph with ring information.
type Molecule struct {
	SMILES string
	Atoms  []Atom
	Bonds  []Bond

	adj       [][]int // bond indices per atom
	ringBond  []bool
	rings     [][]int // smallest cycles as ordered atom lists
	ringBonds [][]int
}

// NewMolecule builds adjacency and ring information over atoms and bonds.
// Bonds must reference valid atom indices.
func NewMolecule(smiles string, atoms []Atom, bonds []Bond) (*Molecule, error) {
	m := &Molecule{SMILES: smiles, Atoms: atoms, Bonds: bonds}
	m.adj = make([][]int, len(atoms))
	for bi, b := range bonds {
		if b.Begin < 0 || b.Begin >= len(atoms) || b.End < 0 || b.End >= len(atoms) || b.Begin == b.End {
			return nil, fmt.Errorf("bond %d references invalid atoms %d-%d", bi, b.Begin, b.End)
		}
		m.adj[b.Begin] = append(m.adj[b.Begin], bi)
		m.adj[b.End] = append(m.adj[b.End], bi)
	}
	m.perceiveRings()
	return m, nil
}

// NumAtoms returns the number of graph vertices.
func (m *Molecule) NumAtoms() int { return len(m.Atoms) }

// NumBonds returns the number of graph edges.
func (m *Molecule) NumBonds() int { return len(m.Bonds) }

// BondsOf returns the indices of bonds incident to atom i.
func (m *Molecule) BondsOf(i int) []int { return m.adj[i] }

// Neighbors returns the atoms bonded to atom i.
func (m *Molecule) Neighbors(i int) []int {
	out := make([]int, 0, len(m.adj[i]))
	for _, bi := range m.adj[i] {
		out = append(out, m.Bonds[bi].Other(i))
	}
	return out
}

// BondBetween returns the bond joining atoms i and j.
func (m *Molecule) BondBetween(i, j int) (*Bond, bool) {
	for _, bi := range m.adj[i] {
		if m.Bonds[bi].Other(i) == j {
			return &m.Bonds[bi], true
		}
	}
	return nil, false
}

// BondIndex returns the index of the bond joining atoms i and j, or -1.
func (m *Molecule) BondIndex(i, j int) int {
	for _, bi := range m.adj[i] {
		if m.Bonds[bi].Other(i) == j {
			return bi
		}
	}
	return -1
}

// Degree returns the number of explicit neighbours of atom i.
func (m *Molecule) Degree(i int) int { return len(m.adj[i]) }

// HeavyDegree returns the number of non-hydrogen neighbours of atom i.
func (m *Molecule) HeavyDegree(i int) int {
	n := 0
	for _, j := range m.Neighbors(i) {
		if !m.Atoms[j].IsHydrogen() {
			n++
		}
	}
	return n
}

// TotalH returns the hydrogens on atom i, counting both HCount and hydrogen
// vertices.
func (m *Molecule) TotalH(i int) int {
	n := m.Atoms[i].HCount
	for _, j := range m.Neighbors(i) {
		if m.Atoms[j].IsHydrogen() {
			n++
		}
	}
	return n
}

// BondOrderSum returns the sum of Kekulé bond orders at atom i.
func (m *Molecule) BondOrderSum(i int) int {
	sum := 0
	for _, bi := range m.adj[i] {
		sum += int(m.Bonds[bi].Order)
	}
	return sum
}

// Valence returns the total valence of atom i (bond orders plus HCount).
func (m *Molecule) Valence(i int) int { return m.BondOrderSum(i) + m.Atoms[i].HCount }

// HasBondOfOrder reports whether atom i carries a non-aromatic bond of order o.
func (m *Molecule) HasBondOfOrder(i int, o BondOrder) bool {
	for _, bi := range m.adj[i] {
		b := &m.Bonds[bi]
		if b.Order == o && !b.Aromatic {
			return true
		}
	}
	return false
}

// HeavyAtomCount returns the number of non-hydrogen atoms.
func (m *Molecule) HeavyAtomCount() int {
	n := 0
	for i := range m.Atoms {
		if !m.Atoms[i].IsHydrogen() {
			n++
		}
	}
	return n
}

// ComponentCount returns the number of connected components.
func (m *Molecule) ComponentCount() int {
	if len(m.Atoms) == 0 {
		return 0
	}
	seen := make([]bool, len(m.Atoms))
	count := 0
	stack := make([]int, 0, len(m.Atoms))
	for start := range m.Atoms {
		if seen[start] {
			continue
		}
		count++
		seen[start] = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			a := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, n := range m.Neighbors(a) {
				if !seen[n] {
					seen[n] = true
					stack = append(stack, n)
				}
			}
		}
	}
	return count
}

// RingCount returns the size of the smallest set of smallest rings, which
// equals the cyclomatic number bonds - atoms + components.
func (m *Molecule) RingCount() int {
	return len(m.Bonds) - len(m.Atoms) + m.ComponentCount()
}

// IsRingBond reports whether bond bi lies on a cycle.
func (m *Molecule) IsRingBond(bi int) bool { return m.ringBond[bi] }

// IsRingAtom reports whether atom i lies on a cycle.
func (m *Molecule) IsRingAtom(i int) bool {
	for _, bi := range m.adj[i] {
		if m.ringBond[bi] {
			return true
		}
	}
	return false
}

// Rings returns the smallest rings as ordered atom lists.
func (m *Molecule) Rings() [][]int { return m.rings }

// RingBonds returns the bond indices of each ring returned by Rings.
func (m *Molecule) RingBonds() [][]int { return m.ringBonds }

// InRingOfSize reports whether atom i belongs to a smallest ring of size n.
func (m *Molecule) InRingOfSize(i, n int) bool {
	for _, r := range m.rings {
		if len(r) != n {
			continue
		}
		for _, a := range r {
			if a == i {
				return true
			}
		}
	}
	return false
}

// SmallestRingContaining returns the size of the smallest ring holding all of
// the given atoms, or 0 when none does.
func (m *Molecule) SmallestRingContaining(atoms ...int) int {
	best := 0
	for _, r := range m.rings {
		if best != 0 && len(r) >= best {
			continue
		}
		if containsAll(r, atoms) {
			best = len(r)
		}
	}
	return best
}

func containsAll(ring, atoms []int) bool {
	for _, a := range atoms {
		found := false
		for _, r := range ring {
			if r == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// WithExplicitHydrogens returns a copy in which every HCount hydrogen becomes
// a hydrogen vertex bonded to its parent. The new hydrogens follow all
// original atoms, grouped by parent in atom order.
func (m *Molecule) WithExplicitHydrogens() *Molecule {
	atoms := make([]Atom, len(m.Atoms), len(m.Atoms)*2)
	copy(atoms, m.Atoms)
	bonds := make([]Bond, len(m.Bonds), len(m.Bonds)*2)
	copy(bonds, m.Bonds)

	for i := range m.Atoms {
		h := m.Atoms[i].HCount
		atoms[i].HCount = 0
		for k := 0; k < h; k++ {
			atoms = append(atoms, Atom{Symbol: "H", AtomicNumber: 1})
			bonds = append(bonds, Bond{Begin: i, End: len(atoms) - 1, Order: BondSingle})
		}
	}
	out, _ := NewMolecule(m.SMILES, atoms, bonds)
	return out
}

// Formula returns the molecular formula in Hill order with charge suffix.
func (m *Molecule) Formula() string {
	counts := map[string]int{}
	charge := 0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		counts[a.Symbol]++
		counts["H"] += a.HCount
		charge += a.Charge
	}
	var sb strings.Builder
	write := func(sym string) {
		n := counts[sym]
		if n == 0 {
			return
		}
		sb.WriteString(sym)
		if n > 1 {
			fmt.Fprintf(&sb, "%d", n)
		}
		delete(counts, sym)
	}
	if counts["C"] > 0 {
		write("C")
		write("H")
	}
	rest := make([]string, 0, len(counts))
	for sym := range counts {
		rest = append(rest, sym)
	}
	sort.Strings(rest)
	for _, sym := range rest {
		write(sym)
	}
	switch {
	case charge == 1:
		sb.WriteString("+")
	case charge == -1:
		sb.WriteString("-")
	case charge > 1:
		fmt.Fprintf(&sb, "+%d", charge)
	case charge < -1:
		fmt.Fprintf(&sb, "%d", charge)
	}
	return sb.String()
}

// perceiveRings marks ring bonds (edges that are not bridges) and collects a
// smallest set of smallest rings.
func (m *Molecule) perceiveRings() {
	m.ringBond = make([]bool, len(m.Bonds))
	m.markRingBonds()
	m.findSmallestRings()
}

// markRingBonds runs Tarjan's bridge search; every non-bridge is a ring bond.
func (m *Molecule) markRingBonds() {
	n := len(m.Atoms)
	disc := make([]int, n)
	low := make([]int, n)
	for i := range disc {
		disc[i] = -1
	}
	isBridge := make([]bool, len(m.Bonds))
	timer := 0

	var visit func(u, parentBond int)
	visit = func(u, parentBond int) {
		disc[u] = timer
		low[u] = timer
		timer++
		for _, bi := range m.adj[u] {
			if bi == parentBond {
				continue
			}
			v := m.Bonds[bi].Other(u)
			if disc[v] == -1 {
				visit(v, bi)
				if low[v] < low[u] {
					low[u] = low[v]
				}
				if low[v] > disc[u] {
					isBridge[bi] = true
				}
			} else if disc[v] < low[u] {
				low[u] = disc[v]
			}
		}
	}
	for i := 0; i < n; i++ {
		if disc[i] == -1 {
			visit(i, -1)
		}
	}
	for bi := range m.Bonds {
		m.ringBond[bi] = !isBridge[bi]
	}
}

// findSmallestRings takes the shortest cycle through each ring bond and keeps
// a linearly independent subset (over GF(2) on bond sets), smallest first.
func (m *Molecule) findSmallestRings() {
	target := m.RingCount()
	if target <= 0 {
		return
	}

	type cycle struct {
		atoms []int
		bonds []int
	}
	seen := map[string]bool{}
	var candidates []cycle
	for bi, isRing := range m.ringBond {
		if !isRing {
			continue
		}
		atoms, bonds := m.shortestCycleThrough(bi)
		if atoms == nil {
			continue
		}
		key := bondKey(bonds)
		if seen[key] {
			continue
		}
		seen[key] = true
		candidates = append(candidates, cycle{atoms: atoms, bonds: bonds})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].bonds) < len(candidates[j].bonds)
	})

	words := (len(m.Bonds) + 63) / 64
	var basis [][]uint64
	var pivots []int
	for _, c := range candidates {
		if len(m.rings) == target {
			break
		}
		vec := make([]uint64, words)
		for _, bi := range c.bonds {
			vec[bi/64] |= 1 << uint(bi%64)
		}
		for k, b := range basis {
			p := pivots[k]
			if vec[p/64]&(1<<uint(p%64)) != 0 {
				for w := range vec {
					vec[w] ^= b[w]
				}
			}
		}
		pivot := lowestBit(vec)
		if pivot < 0 {
			continue
		}
		// Keep the basis reduced so later candidates see every pivot.
		for k, b := range basis {
			if b[pivot/64]&(1<<uint(pivot%64)) != 0 {
				for w := range b {
					basis[k][w] ^= vec[w]
				}
			}
		}
		basis = append(basis, vec)
		pivots = append(pivots, pivot)
		m.rings = append(m.rings, c.atoms)
		m.ringBonds = append(m.ringBonds, c.bonds)
	}
}

// shortestCycleThrough finds the shortest path between the ends of bond bi
// that avoids bi itself, using ring bonds only, and returns it as a cycle.
func (m *Molecule) shortestCycleThrough(bi int) ([]int, []int) {
	start, goal := m.Bonds[bi].Begin, m.Bonds[bi].End
	prevAtom := make([]int, len(m.Atoms))
	prevBond := make([]int, len(m.Atoms))
	for i := range prevAtom {
		prevAtom[i] = -2
	}
	prevAtom[start] = -1
	queue := []int{start}
	for len(queue) > 0 && prevAtom[goal] == -2 {
		u := queue[0]
		queue = queue[1:]
		for _, e := range m.adj[u] {
			if e == bi || !m.ringBond[e] {
				continue
			}
			v := m.Bonds[e].Other(u)
			if prevAtom[v] != -2 {
				continue
			}
			prevAtom[v] = u
			prevBond[v] = e
			queue = append(queue, v)
		}
	}
	if prevAtom[goal] == -2 {
		return nil, nil
	}
	atoms := []int{}
	bonds := []int{bi}
	for v := goal; v != start; v = prevAtom[v] {
		atoms = append(atoms, v)
		bonds = append(bonds, prevBond[v])
	}
	atoms = append(atoms, start)
	return atoms, bonds
}

func bondKey(bonds []int) string {
	sorted := append([]int(nil), bonds...)
	sort.Ints(sorted)
	var sb strings.Builder
	for _, b := range sorted {
		fmt.Fprintf(&sb, "%d,", b)
	}
	return sb.String()
}

func lowestBit(vec []uint64) int {
	for w, word := range vec {
		if word == 0 {
			continue
		}
		for bit := 0; bit < 64; bit++ {
			if word&(1<<uint(bit)) != 0 {
				return w*64 + bit
			}
		}
	}
	return -1
}

//Personal.AI order the ending
