// Package descriptor implements molecule.DescriptorEngine: molecular weight,
// atom and ring counts, strict rotatable bonds, hydrogen-bond donors and
// acceptors, topological polar surface area, and Wildman-Crippen logP and
// molar refractivity.
package descriptor

import (
	"github.com/turtacn/MolViz/internal/domain/molecule"
	"github.com/turtacn/MolViz/pkg/errors"
)

// Engine computes the nine descriptors. It is stateless.
type Engine struct{}

// NewEngine creates an Engine.
func NewEngine() *Engine { return &Engine{} }

var _ molecule.DescriptorEngine = (*Engine)(nil)

// Compute returns raw descriptor values for a hydrogen-suppressed molecule.
func (e *Engine) Compute(mol *molecule.Molecule) (*molecule.Descriptors, error) {
	if mol == nil || mol.NumAtoms() == 0 {
		return nil, errors.New(errors.CodePropertyCalcFailed, "Failed to calculate molecular properties.").
			WithDetail("empty molecule")
	}
	logP, mr := Crippen(mol)
	return &molecule.Descriptors{
		MolecularWeight: MolecularWeight(mol),
		HeavyAtoms:      mol.HeavyAtomCount(),
		Rings:           len(mol.Rings()),
		RotatableBonds:  RotatableBonds(mol),
		HBondAcceptors:  HBondAcceptors(mol),
		HBondDonors:     HBondDonors(mol),
		TPSA:            TPSA(mol),
		MolRefractivity: mr,
		LogP:            logP,
	}, nil
}

const hydrogenMass = 1.008

// MolecularWeight sums standard atomic weights including implicit hydrogens.
// Isotope-labelled atoms use their mass number.
func MolecularWeight(m *molecule.Molecule) float64 {
	total := 0.0
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.Isotope > 0 {
			total += float64(a.Isotope)
		} else if e := a.Element(); e != nil {
			total += e.AverageMass
		}
		total += float64(a.HCount) * hydrogenMass
	}
	return total
}

// bond classes as seen by substructure patterns
func isSingle(b *molecule.Bond) bool   { return b.IsPlainSingle() }
func isDouble(b *molecule.Bond) bool   { return b.IsPlainDouble() }
func isTriple(b *molecule.Bond) bool   { return b.Order == molecule.BondTriple && !b.Aromatic }
func isAromatic(b *molecule.Bond) bool { return b.Aromatic }

// isDefault matches an unspecified pattern bond: single or aromatic.
func isDefault(b *molecule.Bond) bool { return b.Aromatic || b.Order == molecule.BondSingle }

// neighbor is one heavy neighbour with the connecting bond.
type neighbor struct {
	idx  int
	atom *molecule.Atom
	bond *molecule.Bond
	ring bool
}

func (n neighbor) z() int          { return n.atom.AtomicNumber }
func (n neighbor) aliphatic() bool { return !n.atom.Aromatic }

func heavyNeighbors(m *molecule.Molecule, i int) []neighbor {
	out := make([]neighbor, 0, 4)
	for _, bi := range m.BondsOf(i) {
		b := &m.Bonds[bi]
		j := b.Other(i)
		if m.Atoms[j].IsHydrogen() {
			continue
		}
		out = append(out, neighbor{idx: j, atom: &m.Atoms[j], bond: b, ring: m.IsRingBond(bi)})
	}
	return out
}

func countWhere(ns []neighbor, pred func(neighbor) bool) int {
	n := 0
	for _, x := range ns {
		if pred(x) {
			n++
		}
	}
	return n
}

func anyWhere(ns []neighbor, pred func(neighbor) bool) bool {
	return countWhere(ns, pred) > 0
}

// distinctPair reports whether two different neighbours satisfy p and q.
func distinctPair(ns []neighbor, p, q func(neighbor) bool) bool {
	for i := range ns {
		if !p(ns[i]) {
			continue
		}
		for j := range ns {
			if i != j && q(ns[j]) {
				return true
			}
		}
	}
	return false
}

func hasTriple(m *molecule.Molecule, i int) bool {
	for _, bi := range m.BondsOf(i) {
		if isTriple(&m.Bonds[bi]) {
			return true
		}
	}
	return false
}

// connections is the total number of attached atoms including hydrogens.
func connections(m *molecule.Molecule, i int) int {
	return m.Degree(i) + m.Atoms[i].HCount
}

//Personal.AI order the ending
