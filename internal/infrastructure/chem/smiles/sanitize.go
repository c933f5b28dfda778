package smiles

import (
	"fmt"

	"github.com/turtacn/MolViz/internal/domain/molecule"
)

// kekulizeBudget caps the matching search on pathological inputs.
const kekulizeBudget = 200000

// sanitize turns the raw graph into a checked, Kekulé-assigned,
// hydrogen-suppressed Molecule with perceived aromaticity.
func sanitize(smiles string, g *graph) (*molecule.Molecule, error) {
	mol, err := molecule.NewMolecule(smiles, g.atoms, g.bonds)
	if err != nil {
		return nil, invalid(err.Error())
	}

	for bi := range mol.Bonds {
		b := &mol.Bonds[bi]
		if !b.Aromatic {
			continue
		}
		if !mol.IsRingBond(bi) {
			// Bonds between aromatic atoms of different rings (biphenyl).
			if g.explicitAromaticBond[bi] {
				return nil, invalid(fmt.Sprintf("aromatic bond %d-%d is not in a ring", b.Begin+1, b.End+1))
			}
			b.Aromatic = false
			continue
		}
		mol.Atoms[b.Begin].Aromatic = true
		mol.Atoms[b.End].Aromatic = true
	}
	for i := range mol.Atoms {
		if mol.Atoms[i].Aromatic && !mol.IsRingAtom(i) {
			return nil, invalid(fmt.Sprintf("atom %d (%s) is marked aromatic but is not in a ring", i+1, mol.Atoms[i].Symbol))
		}
	}

	needPi, err := assignHydrogens(mol)
	if err != nil {
		return nil, err
	}
	if err := kekulize(mol, needPi); err != nil {
		return nil, err
	}

	atoms, bonds := foldHydrogens(mol)
	out, err := molecule.NewMolecule(smiles, atoms, bonds)
	if err != nil {
		return nil, invalid(err.Error())
	}
	perceiveAromaticity(out)
	return out, nil
}

// aromaticSum counts aromatic bonds as 1 and others by order.
func aromaticSum(m *molecule.Molecule, i int) int {
	sum := 0
	for _, bi := range m.BondsOf(i) {
		b := &m.Bonds[bi]
		if b.Aromatic {
			sum++
		} else {
			sum += int(b.Order)
		}
	}
	return sum
}

func smallestAtLeast(vals []int, n int) (int, bool) {
	for _, v := range vals {
		if v >= n {
			return v, true
		}
	}
	return 0, false
}

// assignHydrogens sets implicit hydrogen counts on organic-subset atoms,
// checks valences, and reports which aromatic atoms need a double bond
// in the Kekulé form.
func assignHydrogens(m *molecule.Molecule) ([]bool, error) {
	needPi := make([]bool, len(m.Atoms))
	for i := range m.Atoms {
		a := &m.Atoms[i]
		e := a.Element()
		sum := aromaticSum(m, i)

		if !a.Bracket {
			v, ok := smallestAtLeast(e.Valences, sum)
			if !ok {
				return nil, valenceError(i, a, sum, e.MaxValence())
			}
			a.HCount = v - sum
			if a.Aromatic && a.HCount > 0 {
				needPi[i] = true
				a.HCount--
			}
			continue
		}

		total := sum + a.HCount
		vals := molecule.AllowedValences(e, a.Charge)
		if len(vals) == 0 {
			continue
		}
		v, ok := smallestAtLeast(vals, total)
		if !ok {
			return nil, valenceError(i, a, total, vals[len(vals)-1])
		}
		if a.Aromatic && v-total >= 1 {
			needPi[i] = true
		}
	}
	return needPi, nil
}

func valenceError(i int, a *molecule.Atom, got, max int) error {
	return invalid(fmt.Sprintf("explicit valence %d of atom %d (%s) exceeds the permitted %d", got, i+1, a.Symbol, max))
}

type kekulizer struct {
	m     *molecule.Molecule
	need  []int
	isPi  []bool
	mate  []int // matched bond per atom, -1 when free
	steps int
}

// kekulize assigns alternating single and double orders to aromatic bonds so
// that every atom in needPi gets exactly one double bond.
func kekulize(m *molecule.Molecule, needPi []bool) error {
	k := &kekulizer{m: m, isPi: needPi, mate: make([]int, len(m.Atoms))}
	for i := range m.Atoms {
		k.mate[i] = -1
		if needPi[i] {
			k.need = append(k.need, i)
		}
	}
	if len(k.need) > 0 && !k.solve() {
		return invalid("cannot assign a Kekulé structure to the aromatic system")
	}
	for bi := range m.Bonds {
		b := &m.Bonds[bi]
		if !b.Aromatic {
			continue
		}
		if k.mate[b.Begin] == bi {
			b.Order = molecule.BondDouble
		} else {
			b.Order = molecule.BondSingle
		}
	}
	return nil
}

func (k *kekulizer) options(a int) []int {
	var out []int
	for _, bi := range k.m.BondsOf(a) {
		b := &k.m.Bonds[bi]
		o := b.Other(a)
		if b.Aromatic && k.isPi[o] && k.mate[o] < 0 {
			out = append(out, bi)
		}
	}
	return out
}

// solve matches the most constrained free atom first and backtracks.
func (k *kekulizer) solve() bool {
	k.steps++
	if k.steps > kekulizeBudget {
		return false
	}
	best := -1
	var bestOpts []int
	for _, a := range k.need {
		if k.mate[a] >= 0 {
			continue
		}
		opts := k.options(a)
		if len(opts) == 0 {
			return false
		}
		if best < 0 || len(opts) < len(bestOpts) {
			best, bestOpts = a, opts
			if len(opts) == 1 {
				break
			}
		}
	}
	if best < 0 {
		return true
	}
	for _, bi := range bestOpts {
		o := k.m.Bonds[bi].Other(best)
		k.mate[best], k.mate[o] = bi, bi
		if k.solve() {
			return true
		}
		k.mate[best], k.mate[o] = -1, -1
	}
	return false
}

// foldHydrogens removes plain hydrogen vertices bonded to a heavy atom and
// adds them to the parent's HCount. Isotopic or charged hydrogens stay.
func foldHydrogens(m *molecule.Molecule) ([]molecule.Atom, []molecule.Bond) {
	drop := make([]bool, len(m.Atoms))
	atoms := make([]molecule.Atom, len(m.Atoms))
	copy(atoms, m.Atoms)
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if !a.IsHydrogen() || a.Isotope != 0 || a.Charge != 0 || m.Degree(i) != 1 {
			continue
		}
		bi := m.BondsOf(i)[0]
		b := &m.Bonds[bi]
		parent := b.Other(i)
		if m.Atoms[parent].IsHydrogen() || !b.IsPlainSingle() {
			continue
		}
		drop[i] = true
		atoms[parent].HCount++
	}

	index := make([]int, len(atoms))
	kept := make([]molecule.Atom, 0, len(atoms))
	for i := range atoms {
		if drop[i] {
			index[i] = -1
			continue
		}
		index[i] = len(kept)
		kept = append(kept, atoms[i])
	}
	bonds := make([]molecule.Bond, 0, len(m.Bonds))
	for _, b := range m.Bonds {
		if index[b.Begin] < 0 || index[b.End] < 0 {
			continue
		}
		b.Begin, b.End = index[b.Begin], index[b.End]
		bonds = append(bonds, b)
	}
	return kept, bonds
}

//Personal.AI order the ending
